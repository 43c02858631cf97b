package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/ranggacaw/satanlib/internal/models"
)

// listingState enumerates the dashboard states. Loading is re-entered on
// page change or manual refresh; search never leaves ready.
type listingState int

const (
	listingIdle listingState = iota
	listingLoading
	listingReady
	listingFailed
)

// listingModel owns the paginated listing view-state.
//
// Every fetch is issued with a fresh token from lastToken; a response whose
// token is no longer the latest is discarded, so rapid page flips converge
// on the page the user asked for last rather than whichever response
// happened to arrive last.
type listingModel struct {
	state       listingState
	page        models.ListingPage
	limit       int
	pendingPage int // page a in-flight fetch targets
	lastToken   int // latest issued request token
	err         error
	notice      string // transient write-path errors (delete)

	books  list.Model
	search textinput.Model
	typing bool // search input focused
	spin   spinner.Model
}

func newListingModel(limit int) listingModel {
	search := textinput.New()
	search.Placeholder = "Search books..."
	search.CharLimit = 64

	books := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	books.Title = "Find Your Book"
	books.SetShowHelp(false)
	books.SetFilteringEnabled(false) // filtering is ours: substring over title OR content

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return listingModel{
		state:  listingIdle,
		limit:  limit,
		page:   models.ListingPage{Page: 1, TotalPages: 1},
		books:  books,
		search: search,
		spin:   sp,
	}
}

// startFetch transitions into loading for the given page and returns the
// request token the response must carry. Callers must gate page turns with
// canTurnTo; refresh and first load pass the current page.
func (l *listingModel) startFetch(page int) int {
	l.state = listingLoading
	l.pendingPage = page
	l.notice = ""
	l.lastToken++
	return l.lastToken
}

// canTurnTo reports whether a page-change fetch may be issued. Out-of-range
// targets are rejected client-side: no request, displayed page unchanged.
func (l *listingModel) canTurnTo(page int) bool {
	if l.state != listingReady {
		return false
	}
	return models.InPageRange(page, l.page.TotalPages) && page != l.page.Page
}

// applyFetch folds a fetch response into the state. Returns false when the
// response was stale (an older token) and was discarded.
func (l *listingModel) applyFetch(msg booksFetchedMsg) bool {
	if msg.token != l.lastToken {
		return false
	}

	if msg.err != nil {
		l.state = listingFailed
		l.err = msg.err
		return true
	}

	query := l.page.Query // the filter survives page turns
	l.page = *msg.page
	l.page.Query = query
	l.state = listingReady
	l.err = nil
	l.syncItems()
	return true
}

// setQuery recomputes the derived filtered view. Pure with respect to the
// network: never a state transition, never a request.
func (l *listingModel) setQuery(q string) {
	l.page.Query = q
	l.syncItems()
}

// applyDelete reconciles a delete outcome. Success removes the book from the
// current window in place; TotalPages is deliberately NOT recomputed and
// stays stale until the next fetch. Failure leaves the listing untouched.
func (l *listingModel) applyDelete(msg bookDeletedMsg) {
	if msg.err != nil {
		l.notice = "Delete failed: " + msg.err.Error()
		return
	}
	l.page.Items = models.RemoveBook(l.page.Items, msg.id)
	l.syncItems()
}

// selected returns the book under the cursor in the filtered view.
func (l *listingModel) selected() (models.Book, bool) {
	item := l.books.SelectedItem()
	if item == nil {
		return models.Book{}, false
	}
	bi, ok := item.(bookItem)
	return bi.book, ok
}

func (l *listingModel) syncItems() {
	l.books.SetItems(bookItems(l.page.Filter()))
}

func (l *listingModel) setSize(width, height int) {
	l.books.SetSize(width-4, height-8)
}
