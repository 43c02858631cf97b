package tasks

import (
	"context"
	"fmt"

	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/services"
	"github.com/ranggacaw/satanlib/internal/shared"
)

// RegistrationResult records what each phase of the registration saga did.
//
// UID is populated as soon as phase one completes, even when the overall run
// fails: callers retry by passing it back as priorUID, which makes the saga
// idempotent with respect to the identity provider.
type RegistrationResult struct {
	UID             string // Identity-provider uid (phase one output)
	IdentityCreated bool   // Whether this run created the identity account
	BackendCreated  bool   // Whether the backend record was created
	Compensated     bool   // Whether the identity account was rolled back
	CompensateErr   error  // Failure of the compensating action, if any
}

// Register runs the two-phase registration saga: identity-provider signup,
// then backend record creation.
//
// If the backend phase fails after this run created the identity account,
// the account is deleted (compensation). When compensation itself fails, the
// orphaned account is reported via CompensateErr and the returned UID so the
// caller can retry without a second signup. priorUID, when non-empty, skips
// phase one entirely.
func (e *Engine) Register(ctx context.Context, form models.RegisterForm, priorUID string, progress chan<- ProgressUpdate) (*RegistrationResult, error) {
	if e.library == nil || e.identity == nil {
		return nil, fmt.Errorf("%w: registration services not initialized", shared.ErrServiceUnavailable)
	}

	if errs := form.Validate(); errs != nil {
		return nil, errs
	}

	result := &RegistrationResult{UID: priorUID}

	var idToken string
	if priorUID == "" {
		e.sendProgress(progress, signUpUpdate(form.Email))

		account, err := e.identity.SignUp(ctx, form.Email, form.Password)
		if err != nil {
			return result, fmt.Errorf("identity signup failed: %w", err)
		}

		result.UID = account.UID
		result.IdentityCreated = true
		idToken = account.IDToken
	} else {
		e.sendProgress(progress, signUpSkippedUpdate(priorUID))
	}

	e.sendProgress(progress, registerUpdate(result.UID))

	err := e.library.Register(ctx, services.RegisterRecord{
		UID:      result.UID,
		Email:    form.Email,
		Name:     form.Name,
		Password: form.Password,
	})
	if err == nil {
		result.BackendCreated = true
		return result, nil
	}

	// Compensation only applies to accounts created in this run; a reused
	// uid stays valid for the next retry.
	if result.IdentityCreated && idToken != "" {
		e.sendProgress(progress, compensateUpdate())

		if cerr := e.identity.DeleteAccount(ctx, idToken); cerr != nil {
			result.CompensateErr = cerr
			return result, fmt.Errorf("backend registration failed: %w (identity rollback also failed: %v; retry with uid %s)", err, cerr, result.UID)
		}

		result.Compensated = true
		result.UID = ""
		return result, fmt.Errorf("backend registration failed: %w", err)
	}

	return result, fmt.Errorf("backend registration failed: %w (retry with uid %s)", err, result.UID)
}
