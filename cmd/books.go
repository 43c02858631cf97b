package main

import (
	"context"
	"fmt"

	"github.com/ranggacaw/satanlib/internal/formatter"
	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/shared"
	"github.com/ranggacaw/satanlib/internal/tasks"
	"github.com/urfave/cli/v3"
)

// BooksList fetches one listing page and renders it. --query filters the
// fetched window client-side, the way the dashboard search does.
func (r *Runner) BooksList(ctx context.Context, cmd *cli.Command) error {
	page := int(cmd.Int("page"))
	limit := int(cmd.Int("limit"))

	r.logger.Info("listing books", "page", page, "limit", limit)

	result, err := r.library.ListBooks(ctx, page, limit)
	if err != nil {
		return err
	}
	result.Query = cmd.String("query")

	if cmd.Bool("json") {
		return r.writeJSON(result.Filter(), cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.FormatTable(result))
}

// BooksGet fetches one book in full.
func (r *Runner) BooksGet(ctx context.Context, cmd *cli.Command) error {
	id := int(cmd.IntArg("id"))
	if id <= 0 {
		return fmt.Errorf("%w: book id", shared.ErrMissingArgument)
	}

	book, err := r.library.GetBook(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(book, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", book.Title)
	r.writePlain("by %s • published %s\n\n", book.Author, book.PublishedDate)
	return r.writePlain("%s\n", book.Content)
}

// BooksAdd creates a book owned by the logged-in user.
func (r *Runner) BooksAdd(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.sessionUserID()
	if err != nil {
		return err
	}

	form := models.BookForm{
		Title:      cmd.String("title"),
		Content:    cmd.String("content"),
		CoverImage: cmd.String("cover"),
		UserID:     userID,
	}
	if errs := form.Validate(); errs != nil {
		return errs
	}

	book, err := r.library.CreateBook(ctx, form)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Added '%s' (id %d)\n", book.Title, book.ID)
}

// BooksEdit replaces a book's editable fields. Flags left unset keep the
// current value: the backend update is always a full replace, so the current
// record is fetched first and merged.
func (r *Runner) BooksEdit(ctx context.Context, cmd *cli.Command) error {
	id := int(cmd.IntArg("id"))
	if id <= 0 {
		return fmt.Errorf("%w: book id", shared.ErrMissingArgument)
	}

	userID, err := r.sessionUserID()
	if err != nil {
		return err
	}

	book, err := r.library.GetBook(ctx, id)
	if err != nil {
		return err
	}

	form := models.BookForm{
		Title:      book.Title,
		Content:    book.Content,
		CoverImage: book.CoverImage,
		UserID:     userID,
	}
	if v := cmd.String("title"); v != "" {
		form.Title = v
	}
	if v := cmd.String("content"); v != "" {
		form.Content = v
	}
	if v := cmd.String("cover"); v != "" {
		form.CoverImage = v
	}
	if errs := form.Validate(); errs != nil {
		return errs
	}

	updated, err := r.library.UpdateBook(ctx, id, form)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Updated '%s' (id %d)\n", updated.Title, updated.ID)
}

// BooksDelete removes a book.
func (r *Runner) BooksDelete(ctx context.Context, cmd *cli.Command) error {
	id := int(cmd.IntArg("id"))
	if id <= 0 {
		return fmt.Errorf("%w: book id", shared.ErrMissingArgument)
	}

	if _, err := r.sessionUserID(); err != nil {
		return err
	}

	if err := r.library.DeleteBook(ctx, id); err != nil {
		return err
	}

	return r.writePlain("✓ Deleted book %d\n", id)
}

// BooksExport walks the whole library and writes it to files.
func (r *Runner) BooksExport(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
		Covers:     cmd.Bool("covers"),
		HTTPClient: r.httpClient,
	}

	r.writePlain("Exporting library (%s)...\n\n", opts.Format)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPage:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchDetail:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteFiles:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.ExportLibrary(ctx, progressCh, opts)
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("\n═══════════════════════════════════════\n")
	r.writePlain("Export Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Books: %d/%d across %d pages\n", result.Exported, result.TotalBooks, result.Pages)
	if opts.Covers {
		r.writePlain("Covers: %d\n", result.CoversSaved)
	}
	r.writePlain("Output: %s\n", result.OutputDirectory)

	if result.Failed > 0 {
		r.writePlain("\n%d books fell back to listing data:\n", result.Failed)
		for _, err := range result.Errors {
			r.writePlain("  • %v\n", err)
		}
	}

	return nil
}

// sessionUserID resolves the logged-in user's numeric id, or fails the way
// a guarded route does: no credential means no request.
func (r *Runner) sessionUserID() (int, error) {
	store, err := r.session()
	if err != nil {
		return 0, err
	}

	cred, ok := store.Credential()
	if !ok || !cred.Valid() {
		return 0, fmt.Errorf("%w: run 'satanlib auth login' first", shared.ErrAuthRequired)
	}

	return models.ParseUserID(cred.UserID)
}
