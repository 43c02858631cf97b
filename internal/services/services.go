// package services defines typed clients for the two external collaborators:
// the book-sharing REST backend and the identity provider.
package services

import (
	"context"

	"github.com/ranggacaw/satanlib/internal/models"
)

// Library defines the interface for the book-sharing backend.
//
// Every method is a single HTTP round trip. Failures are either a
// [*shared.NetworkError] (transport) or a [*shared.APIError] (non-2xx).
type Library interface {
	// ListBooks retrieves one paginated window of books. Public: the bearer
	// credential is attached when present but never required.
	ListBooks(ctx context.Context, page, limit int) (*models.ListingPage, error)

	// GetBook retrieves a single full book record. Public; a missing id
	// fails with an APIError carrying status 404.
	GetBook(ctx context.Context, id int) (*models.Book, error)

	// CreateBook creates a new book. Requires a credential; the server
	// assigns id and ownership.
	CreateBook(ctx context.Context, form models.BookForm) (*models.Book, error)

	// UpdateBook replaces a book's editable fields (full-replace PUT).
	// Requires a credential; the server verifies ownership against the
	// supplied userId.
	UpdateBook(ctx context.Context, id int, form models.BookForm) (*models.Book, error)

	// DeleteBook removes a book. Requires a credential.
	DeleteBook(ctx context.Context, id int) error

	// Login exchanges email/password for a bearer credential.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Register creates the backend user record. The UID must come from a
	// completed identity-provider signup (phase one of registration).
	Register(ctx context.Context, rec RegisterRecord) error

	// Name returns the service name for logs and progress messages.
	Name() string
}

// Identity defines the interface for the external identity provider.
type Identity interface {
	// SignUp creates an identity-provider account and returns its UID plus
	// an id token usable for compensation.
	SignUp(ctx context.Context, email, password string) (*IdentityAccount, error)

	// SendPasswordReset asks the provider to email a password-reset link.
	SendPasswordReset(ctx context.Context, email string) error

	// DeleteAccount removes a provider account. Compensating action for a
	// failed backend registration.
	DeleteAccount(ctx context.Context, idToken string) error

	Name() string
}

// CredentialSource supplies the current credential per request. The session
// store implements this; tests substitute fixed values.
type CredentialSource interface {
	Credential() (models.Credential, bool)
}

// LoginResult is the backend's successful login payload.
type LoginResult struct {
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// RegisterRecord is the backend registration payload.
type RegisterRecord struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// IdentityAccount is a freshly created identity-provider account.
type IdentityAccount struct {
	UID     string
	IDToken string
}
