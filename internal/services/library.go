// HTTP implementation of [Library] for the book-sharing backend.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/shared"
)

const defaultBackendURL = "http://localhost:3001"

// LibraryService implements [Library] against the REST backend.
//
// The credential is read from the [CredentialSource] on every request, so a
// login or logout elsewhere in the process takes effect immediately. Calls
// that require a credential but find none still send an empty bearer header;
// the server rejects those. The client never pre-validates ownership.
type LibraryService struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource

	// Dev tunnel bypass header, attached to every request when configured.
	bypassHeader string
	bypassValue  string
}

// LibraryOpts configures a [LibraryService].
type LibraryOpts struct {
	BaseURL      string
	HTTPClient   *http.Client
	Credentials  CredentialSource
	BypassHeader string
	BypassValue  string
}

// NewLibraryService creates a backend client. A nil HTTP client falls back to
// [http.DefaultClient]; an empty base URL falls back to the local dev server.
func NewLibraryService(opts LibraryOpts) *LibraryService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBackendURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &LibraryService{
		baseURL:      opts.BaseURL,
		httpClient:   opts.HTTPClient,
		creds:        opts.Credentials,
		bypassHeader: opts.BypassHeader,
		bypassValue:  opts.BypassValue,
	}
}

func (s *LibraryService) Name() string { return "Library" }

// listResponse covers both listing shapes the backend emits: the envelope
// with paging metadata, or (from older deployments) a bare JSON array.
type listResponse struct {
	Books      []models.Book `json:"books"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

// updateEnvelope is the update response wrapper some backend versions emit.
type updateEnvelope struct {
	MysqlData *models.Book `json:"mysqlData"`
}

// doRequest performs one HTTP round trip: marshals body (when non-nil),
// attaches headers, checks the status, and decodes into result (when non-nil).
//
// authRequired controls the empty-bearer behavior: with no stored credential,
// required calls still send "Authorization: Bearer " for the server to
// reject, while public calls omit the header entirely.
func (s *LibraryService) doRequest(ctx context.Context, method, path string, body, result any, authRequired bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.bypassHeader != "" {
		req.Header.Set(s.bypassHeader, s.bypassValue)
	}

	token := ""
	if s.creds != nil {
		if cred, ok := s.creds.Credential(); ok {
			token = cred.Token
		}
	}
	if token != "" || authRequired {
		req.Header.Set("Authorization", "Bearer "+token)
	}

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
		return shared.NewAPIError(resp.StatusCode, apiMessage(raw))
	}

	if result != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// apiMessage extracts the backend's "message" field from an error body.
func apiMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return ""
}

// ListBooks retrieves one page of the public listing.
func (s *LibraryService) ListBooks(ctx context.Context, page, limit int) (*models.ListingPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	path := fmt.Sprintf("/books?page=%d&limit=%d", page, limit)

	var raw json.RawMessage
	if err := s.doRequest(ctx, http.MethodGet, path, nil, &raw, false); err != nil {
		return nil, err
	}

	// Older deployments return a bare array with no paging metadata.
	var items []models.Book
	if err := json.Unmarshal(raw, &items); err == nil {
		return &models.ListingPage{Items: items, Page: 1, TotalPages: 1}, nil
	}

	var envelope listResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	result := &models.ListingPage{
		Items:      envelope.Books,
		Page:       envelope.Page,
		TotalPages: envelope.TotalPages,
	}
	if result.Page == 0 {
		result.Page = page
	}
	if result.TotalPages == 0 {
		result.TotalPages = 1
	}
	return result, nil
}

// GetBook retrieves the full record for a single book.
func (s *LibraryService) GetBook(ctx context.Context, id int) (*models.Book, error) {
	var book models.Book
	path := fmt.Sprintf("/books/%d", id)
	if err := s.doRequest(ctx, http.MethodGet, path, nil, &book, false); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook creates a new book record.
func (s *LibraryService) CreateBook(ctx context.Context, form models.BookForm) (*models.Book, error) {
	var book models.Book
	if err := s.doRequest(ctx, http.MethodPost, "/books/", form, &book, true); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook replaces a book's editable fields. Always a full-replace PUT;
// the response may wrap the updated record in a "mysqlData" envelope.
func (s *LibraryService) UpdateBook(ctx context.Context, id int, form models.BookForm) (*models.Book, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/books/%d", id)
	if err := s.doRequest(ctx, http.MethodPut, path, form, &raw, true); err != nil {
		return nil, err
	}

	var envelope updateEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.MysqlData != nil {
		return envelope.MysqlData, nil
	}

	var book models.Book
	if err := json.Unmarshal(raw, &book); err != nil {
		return nil, fmt.Errorf("failed to decode updated book: %w", err)
	}
	return &book, nil
}

// DeleteBook removes a book record.
func (s *LibraryService) DeleteBook(ctx context.Context, id int) error {
	path := fmt.Sprintf("/books/%d", id)
	return s.doRequest(ctx, http.MethodDelete, path, nil, nil, true)
}

// Login exchanges email/password for a bearer credential. Bad credentials
// surface as an APIError with status 401.
func (s *LibraryService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var result LoginResult
	if err := s.doRequest(ctx, http.MethodPost, "/auth/login", body, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates the backend user record from an identity-provider UID.
func (s *LibraryService) Register(ctx context.Context, rec RegisterRecord) error {
	return s.doRequest(ctx, http.MethodPost, "/auth/register", rec, nil, false)
}
