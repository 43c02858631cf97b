// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/services"
)

// MockLibrary is a configurable test double for [services.Library].
// Unset function fields return zero values.
type MockLibrary struct {
	ListBooksFn  func(ctx context.Context, page, limit int) (*models.ListingPage, error)
	GetBookFn    func(ctx context.Context, id int) (*models.Book, error)
	CreateBookFn func(ctx context.Context, form models.BookForm) (*models.Book, error)
	UpdateBookFn func(ctx context.Context, id int, form models.BookForm) (*models.Book, error)
	DeleteBookFn func(ctx context.Context, id int) error
	LoginFn      func(ctx context.Context, email, password string) (*services.LoginResult, error)
	RegisterFn   func(ctx context.Context, rec services.RegisterRecord) error

	Calls []string // Method names in invocation order
}

func (m *MockLibrary) record(name string) { m.Calls = append(m.Calls, name) }

func (m *MockLibrary) ListBooks(ctx context.Context, page, limit int) (*models.ListingPage, error) {
	m.record("ListBooks")
	if m.ListBooksFn != nil {
		return m.ListBooksFn(ctx, page, limit)
	}
	return &models.ListingPage{Page: 1, TotalPages: 1}, nil
}

func (m *MockLibrary) GetBook(ctx context.Context, id int) (*models.Book, error) {
	m.record("GetBook")
	if m.GetBookFn != nil {
		return m.GetBookFn(ctx, id)
	}
	return &models.Book{ID: id}, nil
}

func (m *MockLibrary) CreateBook(ctx context.Context, form models.BookForm) (*models.Book, error) {
	m.record("CreateBook")
	if m.CreateBookFn != nil {
		return m.CreateBookFn(ctx, form)
	}
	return &models.Book{ID: 1, Title: form.Title, Content: form.Content, UserID: form.UserID}, nil
}

func (m *MockLibrary) UpdateBook(ctx context.Context, id int, form models.BookForm) (*models.Book, error) {
	m.record("UpdateBook")
	if m.UpdateBookFn != nil {
		return m.UpdateBookFn(ctx, id, form)
	}
	return &models.Book{ID: id, Title: form.Title, Content: form.Content, UserID: form.UserID}, nil
}

func (m *MockLibrary) DeleteBook(ctx context.Context, id int) error {
	m.record("DeleteBook")
	if m.DeleteBookFn != nil {
		return m.DeleteBookFn(ctx, id)
	}
	return nil
}

func (m *MockLibrary) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	m.record("Login")
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return &services.LoginResult{Token: "tok", UserID: "1"}, nil
}

func (m *MockLibrary) Register(ctx context.Context, rec services.RegisterRecord) error {
	m.record("Register")
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, rec)
	}
	return nil
}

func (m *MockLibrary) Name() string { return "mock-library" }

// MockIdentity is a configurable test double for [services.Identity].
type MockIdentity struct {
	SignUpFn            func(ctx context.Context, email, password string) (*services.IdentityAccount, error)
	SendPasswordResetFn func(ctx context.Context, email string) error
	DeleteAccountFn     func(ctx context.Context, idToken string) error

	Calls []string
}

func (m *MockIdentity) record(name string) { m.Calls = append(m.Calls, name) }

func (m *MockIdentity) SignUp(ctx context.Context, email, password string) (*services.IdentityAccount, error) {
	m.record("SignUp")
	if m.SignUpFn != nil {
		return m.SignUpFn(ctx, email, password)
	}
	return &services.IdentityAccount{UID: "uid-1", IDToken: "idtok-1"}, nil
}

func (m *MockIdentity) SendPasswordReset(ctx context.Context, email string) error {
	m.record("SendPasswordReset")
	if m.SendPasswordResetFn != nil {
		return m.SendPasswordResetFn(ctx, email)
	}
	return nil
}

func (m *MockIdentity) DeleteAccount(ctx context.Context, idToken string) error {
	m.record("DeleteAccount")
	if m.DeleteAccountFn != nil {
		return m.DeleteAccountFn(ctx, idToken)
	}
	return nil
}

func (m *MockIdentity) Name() string { return "mock-identity" }

// StaticCredentials implements [services.CredentialSource] with fixed values.
type StaticCredentials struct {
	Cred models.Credential
	OK   bool
}

func (s StaticCredentials) Credential() (models.Credential, bool) {
	return s.Cred, s.OK
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

var _ io.Writer = (*FWriter)(nil)
