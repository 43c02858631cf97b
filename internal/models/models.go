package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Credential is the bearer token + user identifier pair proving an authenticated session.
// Both values are opaque to the client beyond presence checks.
type Credential struct {
	Token  string
	UserID string
}

// Valid reports whether the credential counts as "logged in".
//
// This is the single shared predicate for every authorization gate in the
// client: both fields must be present. A token without a user id (or the
// reverse) reads as logged out.
func (c Credential) Valid() bool {
	return c.Token != "" && c.UserID != ""
}

// ParseUserID converts a stored user id into the numeric form the backend
// expects. Empty values and the literal "undefined" sentinel (a broken
// session written by older clients) are rejected.
func ParseUserID(s string) (int, error) {
	if s == "" || s == "undefined" {
		return 0, fmt.Errorf("user id missing from session")
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("malformed user id %q", s)
	}
	return id, nil
}

// Book represents a book record as served by the backend.
type Book struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	CoverImage    string `json:"coverImage,omitempty"`
	Author        string `json:"author,omitempty"`
	PublishedDate string `json:"publishedDate,omitempty"`
	UserID        int    `json:"userId,omitempty"`
}

// ListingPage is one server-paginated window of books plus paging metadata
// and the client-side filter query.
type ListingPage struct {
	Items      []Book
	Page       int
	TotalPages int
	Query      string
}

// Filter returns the books on this page matching the query, case-insensitively,
// against title or content. Pure: no network, no mutation, same input same output.
// An empty query matches everything.
func (p ListingPage) Filter() []Book {
	return FilterBooks(p.Items, p.Query)
}

// FilterBooks applies the listing substring filter to an arbitrary slice.
func FilterBooks(books []Book, query string) []Book {
	if query == "" {
		out := make([]Book, len(books))
		copy(out, books)
		return out
	}

	q := strings.ToLower(query)
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Content), q) {
			out = append(out, b)
		}
	}
	return out
}

// InPageRange reports whether page p is a legal target given totalPages.
// Out-of-range targets must never issue a request.
func InPageRange(p, totalPages int) bool {
	return p >= 1 && p <= totalPages
}

// RemoveBook returns books with the record of the given id removed.
// Used for the optimistic local removal after a successful delete.
func RemoveBook(books []Book, id int) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}
