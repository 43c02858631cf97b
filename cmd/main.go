package main

import (
	"context"
	"errors"
	"os"

	"github.com/ranggacaw/satanlib/internal/services"
	"github.com/ranggacaw/satanlib/internal/session"
	"github.com/ranggacaw/satanlib/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	// The session store doubles as the credential source for the backend
	// client. Opening it can fail before setup has run; commands that need
	// it open it lazily and report the error themselves.
	var store *session.Store
	var creds services.CredentialSource
	if s, err := session.Open(config.Database.Path); err == nil {
		store = s
		creds = s
	} else {
		logger.Debug("session store unavailable", "error", err)
	}

	library := services.NewLibraryService(services.LibraryOpts{
		BaseURL:      config.Backend.BaseURL,
		Credentials:  creds,
		BypassHeader: config.Backend.BypassHeader,
		BypassValue:  config.Backend.BypassValue,
	})
	identity := services.NewIdentityService(config.Identity.BaseURL, config.Identity.APIKey, nil)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Library:  library,
		Identity: identity,
		Store:    store,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "satanlib",
		Usage:    "Browse and share books from the Satan Library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
