package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/services"
	tu "github.com/ranggacaw/satanlib/internal/testing"
)

var validForm = models.RegisterForm{
	Email:    "reader@example.com",
	Name:     "Reader",
	Password: "secret",
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path runs both phases", func(t *testing.T) {
		library := &tu.MockLibrary{}
		identity := &tu.MockIdentity{
			SignUpFn: func(ctx context.Context, email, password string) (*services.IdentityAccount, error) {
				return &services.IdentityAccount{UID: "uid-1", IDToken: "idtok-1"}, nil
			},
		}
		var gotRecord services.RegisterRecord
		library.RegisterFn = func(ctx context.Context, rec services.RegisterRecord) error {
			gotRecord = rec
			return nil
		}

		engine := NewEngine(library, identity)
		result, err := engine.Register(ctx, validForm, "", nil)
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if !result.IdentityCreated || !result.BackendCreated {
			t.Errorf("unexpected result: %+v", result)
		}
		if result.UID != "uid-1" {
			t.Errorf("unexpected uid: %s", result.UID)
		}
		if gotRecord.UID != "uid-1" || gotRecord.Email != validForm.Email {
			t.Errorf("unexpected backend record: %+v", gotRecord)
		}
	})

	t.Run("invalid form makes no calls", func(t *testing.T) {
		library := &tu.MockLibrary{}
		identity := &tu.MockIdentity{}
		engine := NewEngine(library, identity)

		form := validForm
		form.Password = "abc"

		_, err := engine.Register(ctx, form, "", nil)

		var verr models.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(identity.Calls) != 0 || len(library.Calls) != 0 {
			t.Errorf("expected no network calls, got identity=%v library=%v",
				identity.Calls, library.Calls)
		}
	})

	t.Run("backend failure compensates the fresh identity account", func(t *testing.T) {
		var deletedToken string
		library := &tu.MockLibrary{
			RegisterFn: func(ctx context.Context, rec services.RegisterRecord) error {
				return errors.New("backend down")
			},
		}
		identity := &tu.MockIdentity{
			DeleteAccountFn: func(ctx context.Context, idToken string) error {
				deletedToken = idToken
				return nil
			},
		}

		engine := NewEngine(library, identity)
		result, err := engine.Register(ctx, validForm, "", nil)
		if err == nil {
			t.Fatal("expected an error")
		}

		if !result.Compensated {
			t.Error("expected compensation")
		}
		if result.UID != "" {
			t.Errorf("expected uid cleared after compensation, got %s", result.UID)
		}
		if deletedToken != "idtok-1" {
			t.Errorf("expected delete with the signup id token, got %q", deletedToken)
		}
	})

	t.Run("failed compensation reports the orphaned uid", func(t *testing.T) {
		library := &tu.MockLibrary{
			RegisterFn: func(ctx context.Context, rec services.RegisterRecord) error {
				return errors.New("backend down")
			},
		}
		identity := &tu.MockIdentity{
			DeleteAccountFn: func(ctx context.Context, idToken string) error {
				return errors.New("provider down")
			},
		}

		engine := NewEngine(library, identity)
		result, err := engine.Register(ctx, validForm, "", nil)
		if err == nil {
			t.Fatal("expected an error")
		}

		if result.Compensated {
			t.Error("compensation should have failed")
		}
		if result.CompensateErr == nil {
			t.Error("expected CompensateErr")
		}
		if result.UID != "uid-1" {
			t.Errorf("expected the orphaned uid to survive, got %q", result.UID)
		}
		if !strings.Contains(err.Error(), "uid-1") {
			t.Errorf("expected the error to name the uid: %v", err)
		}
	})

	t.Run("retry with a prior uid skips signup", func(t *testing.T) {
		library := &tu.MockLibrary{}
		identity := &tu.MockIdentity{}

		engine := NewEngine(library, identity)
		result, err := engine.Register(ctx, validForm, "uid-prior", nil)
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if len(identity.Calls) != 0 {
			t.Errorf("expected no identity calls, got %v", identity.Calls)
		}
		if result.IdentityCreated {
			t.Error("this run did not create the identity account")
		}
		if result.UID != "uid-prior" || !result.BackendCreated {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("reused uid is never compensated", func(t *testing.T) {
		library := &tu.MockLibrary{
			RegisterFn: func(ctx context.Context, rec services.RegisterRecord) error {
				return errors.New("backend down")
			},
		}
		identity := &tu.MockIdentity{}

		engine := NewEngine(library, identity)
		result, err := engine.Register(ctx, validForm, "uid-prior", nil)
		if err == nil {
			t.Fatal("expected an error")
		}

		if len(identity.Calls) != 0 {
			t.Errorf("expected no identity calls, got %v", identity.Calls)
		}
		if result.Compensated {
			t.Error("reused uid must not be compensated")
		}
		if result.UID != "uid-prior" {
			t.Errorf("expected the uid to survive for the next retry, got %q", result.UID)
		}
	})

	t.Run("progress updates never block", func(t *testing.T) {
		library := &tu.MockLibrary{}
		identity := &tu.MockIdentity{}
		engine := NewEngine(library, identity)

		// Unbuffered channel with no reader: sends must be dropped, not hang.
		progress := make(chan ProgressUpdate)
		if _, err := engine.Register(ctx, validForm, "", progress); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	})
}
