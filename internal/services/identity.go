// HTTP implementation of [Identity] for the hosted identity provider.
//
// Endpoint shapes follow the Google Identity Toolkit REST API the hosted
// provider exposes: accounts:signUp, accounts:sendOobCode, accounts:delete.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ranggacaw/satanlib/internal/shared"
)

// IdentityService implements [Identity] against the provider's REST API.
type IdentityService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewIdentityService creates an identity-provider client.
func NewIdentityService(baseURL, apiKey string, client *http.Client) *IdentityService {
	if client == nil {
		client = http.DefaultClient
	}

	return &IdentityService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: client,
	}
}

func (s *IdentityService) Name() string { return "Identity" }

func (s *IdentityService) endpoint(action string) string {
	return fmt.Sprintf("%s/accounts:%s?key=%s", s.baseURL, action, url.QueryEscape(s.apiKey))
}

// post performs one provider call, decoding into result when non-nil.
func (s *IdentityService) post(ctx context.Context, action string, body, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(action), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &shared.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &shared.NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return shared.NewAPIError(resp.StatusCode, providerMessage(raw))
	}

	if result != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// providerMessage extracts the provider's nested error message.
func providerMessage(raw []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		return body.Error.Message
	}
	return ""
}

// SignUp creates a provider account, phase one of registration.
func (s *IdentityService) SignUp(ctx context.Context, email, password string) (*IdentityAccount, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var result struct {
		LocalID string `json:"localId"`
		IDToken string `json:"idToken"`
	}
	if err := s.post(ctx, "signUp", body, &result); err != nil {
		return nil, err
	}

	if result.LocalID == "" {
		return nil, fmt.Errorf("%w: provider returned no uid", shared.ErrAuthFailed)
	}

	return &IdentityAccount{UID: result.LocalID, IDToken: result.IDToken}, nil
}

// SendPasswordReset asks the provider to send a password-reset email.
func (s *IdentityService) SendPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}
	return s.post(ctx, "sendOobCode", body, nil)
}

// DeleteAccount removes the provider account identified by idToken.
// Compensating action for a failed backend registration.
func (s *IdentityService) DeleteAccount(ctx context.Context, idToken string) error {
	body := map[string]string{"idToken": idToken}
	return s.post(ctx, "delete", body, nil)
}
