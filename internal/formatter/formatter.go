// package formatter renders book listings to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/shared"
)

// ExportToCSV converts books to CSV with columns: ID, Title, Author, Published, Content, CoverImage
func ExportToCSV(books []models.Book) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Author", "Published", "Content", "CoverImage"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, book := range books {
		record := []string{
			strconv.Itoa(book.ID),
			book.Title,
			book.Author,
			book.PublishedDate,
			book.Content,
			book.CoverImage,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts books to a Markdown document with one section per book.
func ExportToMarkdown(title string, books []models.Book) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Books**: %d\n\n", len(books)))

	for _, book := range books {
		buf.WriteString(fmt.Sprintf("## %s\n\n", book.Title))
		if book.CoverImage != "" {
			buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", book.CoverImage))
		}
		buf.WriteString(fmt.Sprintf("**Author**: %s\n", orUnknown(book.Author)))
		buf.WriteString(fmt.Sprintf("**Published**: %s\n\n", orUnknown(book.PublishedDate)))
		buf.WriteString(book.Content)
		buf.WriteString("\n\n")
	}

	return buf.Bytes()
}

// ExportToText converts books to a numbered plain-text index.
func ExportToText(title string, books []models.Book) []byte {
	var buf bytes.Buffer

	buf.WriteString(title + "\n")
	buf.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	for i, book := range books {
		buf.WriteString(fmt.Sprintf("%d. %s • %s\n", i+1, book.Title, orUnknown(book.Author)))
		buf.WriteString(fmt.Sprintf("   %s\n", shared.Truncate(book.Content, 80)))
	}

	return buf.Bytes()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// FormatTable renders a listing page as aligned plain-text columns for the CLI.
func FormatTable(page *models.ListingPage) string {
	var buf bytes.Buffer

	filtered := page.Filter()
	for _, book := range filtered {
		fmt.Fprintf(&buf, "%-6d %-32s %s\n", book.ID, shared.Truncate(book.Title, 32), shared.Truncate(book.Content, 48))
	}

	fmt.Fprintf(&buf, "\nPage %d of %d", page.Page, page.TotalPages)
	if page.Query != "" {
		fmt.Fprintf(&buf, " (filtered %d/%d by %q)", len(filtered), len(page.Items), page.Query)
	}
	buf.WriteString("\n")

	return buf.String()
}

// DownloadCover fetches a book's cover image and writes it to destPath.
func DownloadCover(ctx context.Context, client *http.Client, imageURL, destPath string) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("cover download failed: status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write cover file: %w", err)
	}

	return nil
}
