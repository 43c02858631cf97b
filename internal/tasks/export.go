package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/ranggacaw/satanlib/internal/formatter"
	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/shared"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for whole-library exports.
type ExportOpts struct {
	Format     string       // Export format: json, csv, markdown, txt
	OutputDir  string       // Base output directory (default: library_export_{epoch})
	PageLimit  int          // Books per listing request (default: 20)
	NumWorkers int          // Concurrent detail fetchers (default: 4)
	RateLimit  float64      // Requests per second (default: 5)
	Covers     bool         // Also download each book's cover image
	HTTPClient *http.Client // Client for cover downloads (default: http.DefaultClient)
}

// ExportResult summarizes a whole-library export run.
type ExportResult struct {
	ExportID        string   // Manifest identifier
	TotalBooks      int      // Books discovered across all pages
	Exported        int      // Books whose full detail was fetched
	Failed          int      // Books whose detail fetch failed
	Pages           int      // Listing pages traversed
	CoversSaved     int      // Cover images downloaded (Covers option)
	OutputDirectory string   // Where files were written
	Files           []string // Written file paths
	Errors          []error  // Per-book failures, run not aborted
}

type exportManifest struct {
	ExportID   string    `json:"export_id"`
	CreatedAt  time.Time `json:"created_at"`
	Format     string    `json:"format"`
	TotalBooks int       `json:"total_books"`
	Exported   int       `json:"exported"`
	Failed     int       `json:"failed"`
	Covers     int       `json:"covers,omitempty"`
	Files      []string  `json:"files"`
}

type detailResult struct {
	book *models.Book
	err  error
}

// ExportLibrary walks every listing page under a rate limiter, fetches the
// full record for each book with a bounded worker pool (listing rows are
// partial projections), and writes the rendered output plus a manifest.
//
// Per-book failures are collected, not fatal; the run aborts only on listing
// failures or context cancellation.
func (e *Engine) ExportLibrary(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = "json"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("library_export_%d", time.Now().Unix())
	}
	if opts.PageLimit <= 0 {
		opts.PageLimit = 20
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	// Walk the listing pages sequentially; totalPages is only trusted as of
	// the latest response.
	var listed []models.Book
	page, totalPages := 1, 1
	for page <= totalPages {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		e.sendProgress(progress, fetchPageUpdate(page, totalPages))

		listing, err := e.library.ListBooks(ctx, page, opts.PageLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to list page %d: %w", page, err)
		}

		listed = append(listed, listing.Items...)
		totalPages = listing.TotalPages
		page++
	}

	result := &ExportResult{
		ExportID:        shared.GenerateID(),
		TotalBooks:      len(listed),
		Pages:           page - 1,
		OutputDirectory: opts.OutputDir,
	}

	books := e.fetchDetails(ctx, progress, limiter, listed, opts.NumWorkers, result)

	e.sendProgress(progress, writeFilesUpdate(opts.OutputDir))

	files, err := writeExport(opts, result.ExportID, books)
	if err != nil {
		return result, err
	}
	result.Files = files

	if opts.Covers {
		if err := e.saveCovers(ctx, progress, limiter, opts, books, result); err != nil {
			return result, err
		}
	}

	manifest := exportManifest{
		ExportID:   result.ExportID,
		CreatedAt:  time.Now().UTC(),
		Format:     opts.Format,
		TotalBooks: result.TotalBooks,
		Exported:   result.Exported,
		Failed:     result.Failed,
		Covers:     result.CoversSaved,
		Files:      result.Files,
	}
	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return result, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("failed to write manifest: %w", err)
	}
	result.Files = append(result.Files, manifestPath)

	return result, nil
}

// fetchDetails resolves full records for the listed books through a bounded
// worker pool, preserving listing order in the returned slice.
func (e *Engine) fetchDetails(ctx context.Context, progress chan<- ProgressUpdate, limiter *rate.Limiter, listed []models.Book, workers int, result *ExportResult) []models.Book {
	jobs := make(chan int, len(listed))
	details := make([]detailResult, len(listed))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					details[i] = detailResult{err: err}
					continue
				}
				book, err := e.library.GetBook(ctx, listed[i].ID)
				details[i] = detailResult{book: book, err: err}
			}
		}()
	}

	for i := range listed {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	books := make([]models.Book, 0, len(listed))
	for i, d := range details {
		e.sendProgress(progress, fetchDetailUpdate(i+1, len(listed), listed[i].Title))
		if d.err != nil {
			// Fall back to the listing projection rather than dropping the book.
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("book %d (%s): %w", listed[i].ID, listed[i].Title, d.err))
			books = append(books, listed[i])
			continue
		}
		result.Exported++
		books = append(books, *d.book)
	}
	return books
}

// saveCovers downloads each book's cover image into a covers/ subdirectory,
// under the same rate limiter as the API calls. Per-cover failures are
// collected; only context cancellation aborts the run.
func (e *Engine) saveCovers(ctx context.Context, progress chan<- ProgressUpdate, limiter *rate.Limiter, opts ExportOpts, books []models.Book, result *ExportResult) error {
	dir := filepath.Join(opts.OutputDir, "covers")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create covers directory: %w", err)
	}

	e.sendProgress(progress, writeFilesUpdate(dir))

	for _, book := range books {
		if book.CoverImage == "" {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		dest := filepath.Join(dir, fmt.Sprintf("book_%d%s", book.ID, coverExt(book.CoverImage)))
		if err := formatter.DownloadCover(ctx, opts.HTTPClient, book.CoverImage, dest); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("cover for book %d (%s): %w", book.ID, book.Title, err))
			continue
		}
		result.CoversSaved++
		result.Files = append(result.Files, dest)
	}

	return nil
}

// coverExt derives a file extension from the cover URL, defaulting to .jpg
// when the URL path carries none.
func coverExt(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ".jpg"
	}
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return ".jpg"
}

// writeExport renders the books in the requested format and returns written paths.
func writeExport(opts ExportOpts, exportID string, books []models.Book) ([]string, error) {
	title := "Library Export"

	var (
		data []byte
		ext  string
		err  error
	)
	switch opts.Format {
	case "csv":
		ext = "csv"
		data, err = formatter.ExportToCSV(books)
	case "markdown", "md":
		ext = "md"
		data = formatter.ExportToMarkdown(title, books)
	case "txt", "text":
		ext = "txt"
		data = formatter.ExportToText(title, books)
	case "json":
		ext = "json"
		data, err = json.MarshalIndent(books, "", "  ")
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	path := filepath.Join(opts.OutputDir, fmt.Sprintf("books_%s.%s", exportID[:8], ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	return []string{path}, nil
}
