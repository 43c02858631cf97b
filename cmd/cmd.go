// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles session and account operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Login, logout and account management",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Exchange email/password for a bearer credential",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored credential",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the stored session state",
				Action: r.AuthStatus,
			},
			{
				Name:  "register",
				Usage: "Create an account (identity provider + backend)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password (min 5 characters)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "uid",
						Usage: "Identity uid from a previous failed attempt",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "reset-password",
				Usage: "Send a password reset email via the identity provider",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
				},
				Action: r.AuthResetPassword,
			},
		},
	}
}

// booksCommand handles library operations
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "books",
		Aliases: []string{"b"},
		Usage:   "Browse and manage the shared library",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List one page of books",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Books per page",
						Value: 6,
					},
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Filter by title or content substring",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.BooksList,
			},
			{
				Name:      "get",
				Usage:     "Show one book in full",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.BooksGet,
			},
			{
				Name:  "add",
				Usage: "Add a book (requires login)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Book title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "content",
						Usage:    "Book content",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "cover",
						Usage: "Cover image URL",
					},
				},
				Action: r.BooksAdd,
			},
			{
				Name:      "edit",
				Usage:     "Replace a book's editable fields (requires login)",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "New title (defaults to current)",
					},
					&cli.StringFlag{
						Name:  "content",
						Usage: "New content (defaults to current)",
					},
					&cli.StringFlag{
						Name:  "cover",
						Usage: "New cover image URL (defaults to current)",
					},
				},
				Action: r.BooksEdit,
			},
			{
				Name:      "delete",
				Usage:     "Delete a book (requires login)",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Action: r.BooksDelete,
			},
			{
				Name:  "export",
				Usage: "Export the whole library to files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent detail fetchers",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "covers",
						Usage: "Also download cover images",
					},
				},
				Action: r.BooksExport,
			},
		},
	}
}

// setupCommand handles local initialization
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the session database",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the session database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand launches the interactive browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse the library interactively",
		Action: r.TUI,
	}
}
