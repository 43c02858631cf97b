package ui

import (
	"errors"
	"testing"

	"github.com/ranggacaw/satanlib/internal/models"
)

func readyListing(t *testing.T, items []models.Book, page, totalPages int) *listingModel {
	t.Helper()
	l := newListingModel(6)
	token := l.startFetch(page)
	if !l.applyFetch(booksFetchedMsg{
		token: token,
		page:  &models.ListingPage{Items: items, Page: page, TotalPages: totalPages},
	}) {
		t.Fatal("fetch unexpectedly discarded")
	}
	return &l
}

func TestListingFetch(t *testing.T) {
	books := []models.Book{{ID: 1, Title: "Dune"}, {ID: 2, Title: "Neuromancer"}}

	t.Run("fetch transitions idle to loading to ready", func(t *testing.T) {
		l := newListingModel(6)
		if l.state != listingIdle {
			t.Fatalf("expected idle, got %d", l.state)
		}

		token := l.startFetch(1)
		if l.state != listingLoading {
			t.Fatalf("expected loading, got %d", l.state)
		}

		l.applyFetch(booksFetchedMsg{
			token: token,
			page:  &models.ListingPage{Items: books, Page: 1, TotalPages: 3},
		})
		if l.state != listingReady {
			t.Errorf("expected ready, got %d", l.state)
		}
		if len(l.page.Items) != 2 {
			t.Errorf("expected 2 items, got %d", len(l.page.Items))
		}
	})

	t.Run("failure lands in failed with the error", func(t *testing.T) {
		l := newListingModel(6)
		token := l.startFetch(1)

		l.applyFetch(booksFetchedMsg{token: token, err: errors.New("boom")})
		if l.state != listingFailed || l.err == nil {
			t.Errorf("expected failed state with error, got %d %v", l.state, l.err)
		}
	})

	t.Run("stale responses are discarded", func(t *testing.T) {
		l := newListingModel(6)
		first := l.startFetch(2)
		second := l.startFetch(3)

		// The page 3 response lands first.
		if !l.applyFetch(booksFetchedMsg{
			token: second,
			page:  &models.ListingPage{Items: books, Page: 3, TotalPages: 5},
		}) {
			t.Fatal("latest response must be applied")
		}

		// The page 2 response arrives late and must be dropped.
		if l.applyFetch(booksFetchedMsg{
			token: first,
			page:  &models.ListingPage{Page: 2, TotalPages: 5},
		}) {
			t.Fatal("stale response must be discarded")
		}

		if l.page.Page != 3 {
			t.Errorf("expected page 3 displayed, got %d", l.page.Page)
		}
	})

	t.Run("filter survives a page turn", func(t *testing.T) {
		l := readyListing(t, books, 1, 3)
		l.setQuery("dune")

		token := l.startFetch(2)
		l.applyFetch(booksFetchedMsg{
			token: token,
			page:  &models.ListingPage{Items: books, Page: 2, TotalPages: 3},
		})

		if l.page.Query != "dune" {
			t.Errorf("query lost on page turn: %q", l.page.Query)
		}
	})
}

func TestListingPageGuard(t *testing.T) {
	books := []models.Book{{ID: 1}}

	t.Run("rejects out-of-range targets", func(t *testing.T) {
		l := readyListing(t, books, 2, 3)

		if l.canTurnTo(0) {
			t.Error("page 0 must be rejected")
		}
		if l.canTurnTo(4) {
			t.Error("page beyond totalPages must be rejected")
		}
		if l.canTurnTo(2) {
			t.Error("current page must be rejected")
		}
		if !l.canTurnTo(1) || !l.canTurnTo(3) {
			t.Error("adjacent pages must be allowed")
		}
	})

	t.Run("rejects turns while loading", func(t *testing.T) {
		l := readyListing(t, books, 1, 3)
		l.startFetch(2)

		if l.canTurnTo(3) {
			t.Error("no page turns while a fetch is in flight")
		}
	})
}

func TestListingQuery(t *testing.T) {
	books := []models.Book{
		{ID: 1, Title: "Dune", Content: "spice"},
		{ID: 2, Title: "Neuromancer", Content: "sky"},
	}

	t.Run("typing narrows the visible rows without a state change", func(t *testing.T) {
		l := readyListing(t, books, 1, 1)

		l.setQuery("neuro")
		if l.state != listingReady {
			t.Errorf("setQuery must not change state, got %d", l.state)
		}
		if got := len(l.books.Items()); got != 1 {
			t.Errorf("expected 1 visible row, got %d", got)
		}

		l.setQuery("")
		if got := len(l.books.Items()); got != 2 {
			t.Errorf("expected all rows back, got %d", got)
		}
	})
}

func TestListingDelete(t *testing.T) {
	books := []models.Book{{ID: 1}, {ID: 2}, {ID: 3}}

	t.Run("success removes the row and keeps totalPages", func(t *testing.T) {
		l := readyListing(t, books, 1, 3)

		l.applyDelete(bookDeletedMsg{id: 2})

		if len(l.page.Items) != 2 {
			t.Errorf("expected 2 items, got %d", len(l.page.Items))
		}
		if l.page.TotalPages != 3 {
			t.Errorf("totalPages must stay stale at 3, got %d", l.page.TotalPages)
		}
		if l.state != listingReady {
			t.Errorf("delete must not change state, got %d", l.state)
		}
	})

	t.Run("failure leaves the listing untouched and sets a notice", func(t *testing.T) {
		l := readyListing(t, books, 1, 3)

		l.applyDelete(bookDeletedMsg{id: 2, err: errors.New("forbidden")})

		if len(l.page.Items) != 3 {
			t.Errorf("expected 3 items, got %d", len(l.page.Items))
		}
		if l.notice == "" {
			t.Error("expected a notice")
		}
	})
}
