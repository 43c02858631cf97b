package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tu "github.com/ranggacaw/satanlib/internal/testing"
	"github.com/urfave/cli/v3"
)

func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name: "register",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}},
			&cli.StringFlag{Name: "uid"},
		},
		Action: r.AuthRegister,
	}
}

func TestAuthRegister(t *testing.T) {
	t.Run("drains every progress line before the summary", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Output:   output,
			Library:  &tu.MockLibrary{},
			Identity: &tu.MockIdentity{},
		})

		cmd := registerCommand(runner)
		args := []string{"register", "-e", "reader@example.com", "-n", "Reader", "-p", "secret"}
		if err := cmd.Run(context.Background(), args); err != nil {
			t.Fatalf("register failed: %v", err)
		}

		out := output.String()
		progress := strings.LastIndex(out, "📚")
		summary := strings.Index(out, "✓ Registration complete")
		if progress == -1 || summary == -1 {
			t.Fatalf("missing expected lines: %q", out)
		}
		if progress > summary {
			t.Errorf("progress written after the summary: %q", out)
		}
	})
}
