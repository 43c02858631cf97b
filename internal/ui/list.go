package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/shared"
)

var _ list.Item = bookItem{}

// bookItem wraps [models.Book] to implement [list.Item].
type bookItem struct {
	book models.Book
}

func (i bookItem) FilterValue() string { return i.book.Title }
func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string {
	desc := shared.Truncate(i.book.Content, 64)
	if i.book.Author != "" {
		desc = fmt.Sprintf("%s • %s", i.book.Author, desc)
	}
	return desc
}

// bookItems converts books into list items.
func bookItems(books []models.Book) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b}
	}
	return items
}
