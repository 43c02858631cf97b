package main

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ranggacaw/satanlib/internal/session"
	"github.com/ranggacaw/satanlib/internal/shared"
	tu "github.com/ranggacaw/satanlib/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			library := &tu.MockLibrary{}
			identity := &tu.MockIdentity{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Library:    library,
				Identity:   identity,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.library != library {
				t.Error("expected library to be set")
			}
			if runner.identity != identity {
				t.Error("expected identity to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("compact output", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"title": "Dune"}, false); err != nil {
				t.Fatalf("writeJSON failed: %v", err)
			}

			if got := output.String(); got != "{\"title\":\"Dune\"}\n" {
				t.Errorf("unexpected output: %q", got)
			}
		})

		t.Run("pretty output", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"title": "Dune"}, true); err != nil {
				t.Fatalf("writeJSON failed: %v", err)
			}

			if !strings.Contains(output.String(), "  \"title\": \"Dune\"") {
				t.Errorf("unexpected output: %q", output.String())
			}
		})

		t.Run("write failure is reported", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("page %d of %d\n", 2, 3); err != nil {
			t.Fatalf("writePlain failed: %v", err)
		}
		if output.String() != "page 2 of 3\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("sessionUserID", func(t *testing.T) {
		openStore := func(t *testing.T) *session.Store {
			t.Helper()
			store, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
			if err != nil {
				t.Fatalf("failed to open store: %v", err)
			}
			t.Cleanup(func() { store.Close() })
			return store
		}

		t.Run("logged out is an auth error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Store: openStore(t)})

			if _, err := runner.sessionUserID(); err == nil {
				t.Error("expected an error")
			}
		})

		t.Run("resolves the numeric id", func(t *testing.T) {
			store := openStore(t)
			store.SetCredential("tok", "7")
			runner := NewRunner(RunnerOpts{Store: store})

			id, err := runner.sessionUserID()
			if err != nil {
				t.Fatalf("sessionUserID failed: %v", err)
			}
			if id != 7 {
				t.Errorf("expected 7, got %d", id)
			}
		})

		t.Run("broken session value is rejected", func(t *testing.T) {
			store := openStore(t)
			store.SetCredential("tok", "undefined")
			runner := NewRunner(RunnerOpts{Store: store})

			if _, err := runner.sessionUserID(); err == nil {
				t.Error("expected an error")
			}
		})
	})
}
