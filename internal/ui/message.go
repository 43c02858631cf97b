package ui

import (
	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/services"
	"github.com/ranggacaw/satanlib/internal/tasks"
)

// booksFetchedMsg carries one listing page back to the dashboard. token ties
// the response to the request that issued it; stale tokens are discarded.
type booksFetchedMsg struct {
	token int
	page  *models.ListingPage
	err   error
}

// bookFetchedMsg carries a full book record to the detail view.
type bookFetchedMsg struct {
	book *models.Book
	err  error
}

// bookDeletedMsg reports the outcome of a delete issued from the dashboard.
type bookDeletedMsg struct {
	id  int
	err error
}

// bookSavedMsg reports the outcome of an in-place edit save.
type bookSavedMsg struct {
	book *models.Book
	err  error
}

// bookCreatedMsg reports the outcome of a create submission.
type bookCreatedMsg struct {
	book *models.Book
	err  error
}

// loginDoneMsg reports the outcome of a login submission.
type loginDoneMsg struct {
	result *services.LoginResult
	err    error
}

// registerDoneMsg reports the outcome of the registration saga.
type registerDoneMsg struct {
	result *tasks.RegistrationResult
	err    error
}

// sessionChangedMsg is emitted when the session store notifies a credential
// change from outside the UI (external logout/login).
type sessionChangedMsg struct {
	cred models.Credential
	ok   bool
}
