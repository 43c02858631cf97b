package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Backend.BaseURL != "http://localhost:3001" {
			t.Errorf("unexpected backend base URL: %s", config.Backend.BaseURL)
		}
		if config.Backend.BypassHeader != "ngrok-skip-browser-warning" {
			t.Errorf("unexpected bypass header: %s", config.Backend.BypassHeader)
		}
		if config.Database.Path != "satanlib.db" {
			t.Errorf("unexpected database path: %s", config.Database.Path)
		}
		if config.Database.MaxOpenConns != 5 {
			t.Errorf("unexpected max open conns: %d", config.Database.MaxOpenConns)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("reads a TOML file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[backend]
base_url = "https://library.example.com"

[identity]
base_url = "https://id.example.com/v1"
api_key = "key-123"

[database]
path = "test.db"
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if config.Backend.BaseURL != "https://library.example.com" {
				t.Errorf("unexpected backend base URL: %s", config.Backend.BaseURL)
			}
			if config.Identity.APIKey != "key-123" {
				t.Errorf("unexpected API key: %s", config.Identity.APIKey)
			}
			if config.Database.Path != "test.db" {
				t.Errorf("unexpected database path: %s", config.Database.Path)
			}
		})

		t.Run("missing file is an error", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("malformed TOML is an error", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte("[backend\nbase_url ="), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for malformed TOML")
			}
		})
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Run("writes the example config", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("CreateConfigFile failed: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("created config does not load: %v", err)
			}
			if config.Backend.BaseURL == "" {
				t.Error("expected backend base URL in created config")
			}
		})

		t.Run("refuses to overwrite", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("CreateConfigFile failed: %v", err)
			}
			if err := CreateConfigFile(path); err == nil {
				t.Error("expected error when file exists")
			}
		})
	})
}
