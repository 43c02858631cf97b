package shared

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes to the provided writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("nil writer defaults to stderr", func(t *testing.T) {
		if logger := NewLogger(nil); logger == nil {
			t.Error("expected a logger")
		}
	})

	t.Run("WithLogger attaches fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := WithLogger(NewLogger(buf), "component", "session")
		logger.Info("ready")

		if !strings.Contains(buf.String(), "session") {
			t.Errorf("expected component field, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("hidden")

		if strings.Contains(buf.String(), "hidden") {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string, got %q", a)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "Dune", 10, "Dune"},
		{"exactly max", "Dune", 4, "Dune"},
		{"truncated with ellipsis", "Neuromancer", 5, "Neuro…"},
		{"zero max", "Dune", 0, ""},
		{"multibyte runes", "日本語テキスト", 3, "日本語…"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Truncate(tc.in, tc.max); got != tc.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	t.Run("APIError includes status and message", func(t *testing.T) {
		err := NewAPIError(404, "book not found")
		if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "book not found") {
			t.Errorf("unexpected message: %q", err.Error())
		}
	})

	t.Run("APIError without message", func(t *testing.T) {
		err := NewAPIError(500, "")
		if !strings.Contains(err.Error(), "500") {
			t.Errorf("unexpected message: %q", err.Error())
		}
	})

	t.Run("NetworkError unwraps", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &NetworkError{Err: cause}

		if !errors.Is(err, cause) {
			t.Error("expected errors.Is to find the cause")
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("unexpected message: %q", err.Error())
		}
	})
}
