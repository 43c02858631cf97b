package main

import (
	"context"
	"fmt"

	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges email/password for a bearer credential and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	form := models.LoginForm{
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}
	if errs := form.Validate(); errs != nil {
		return errs
	}

	store, err := r.session()
	if err != nil {
		return err
	}

	r.logger.Info("logging in", "email", form.Email)

	result, err := r.library.Login(ctx, form.Email, form.Password)
	if err != nil {
		return err
	}

	if err := store.SetCredential(result.Token, result.UserID); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	return r.writePlain("✓ Logged in as user %s\n", result.UserID)
}

// AuthLogout clears the stored credential. Already logged out is not an error.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	store, err := r.session()
	if err != nil {
		return err
	}

	if _, ok := store.Credential(); !ok {
		return r.writePlain("Not logged in\n")
	}

	if err := store.ClearCredential(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthStatus shows the stored session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	store, err := r.session()
	if err != nil {
		return err
	}

	cred, ok := store.Credential()
	if !ok || !cred.Valid() {
		return r.writePlain("✗ Not logged in\n")
	}

	r.writePlain("✓ Logged in\n")
	return r.writePlain("User: %s\n", cred.UserID)
}

// AuthRegister runs the two-phase registration saga. On an uncompensated
// failure it prints the identity uid so the user can retry with --uid.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	form := models.RegisterForm{
		Email:    cmd.String("email"),
		Name:     cmd.String("name"),
		Password: cmd.String("password"),
	}
	priorUID := cmd.String("uid")

	r.logger.Info("registering", "email", form.Email)

	progressCh := make(chan tasks.ProgressUpdate, 10)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.IdentitySignUp:
				r.writePlain("👤 %s\n", update.Message)
			case tasks.BackendRegister:
				r.writePlain("📚 %s\n", update.Message)
			case tasks.Compensate:
				r.writePlain("↩ %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Register(ctx, form, priorUID, progressCh)
	close(progressCh)
	<-drained

	if err != nil {
		if result != nil && result.UID != "" && !result.Compensated {
			r.writePlainln("Account partially created. Retry with: --uid %s", result.UID)
		}
		return err
	}

	r.writePlainln("✓ Registration complete for %s", form.Email)
	return r.writePlain("Login with: satanlib auth login -e %s -p <password>\n", form.Email)
}

// AuthResetPassword asks the identity provider to email a reset link.
func (r *Runner) AuthResetPassword(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")

	if err := r.identity.SendPasswordReset(ctx, email); err != nil {
		return err
	}

	return r.writePlain("✓ Password reset email sent to %s\n", email)
}
