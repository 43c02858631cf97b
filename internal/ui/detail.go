package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/ranggacaw/satanlib/internal/models"
)

type detailState int

const (
	detailLoading detailState = iota
	detailReady
	detailFailed
)

// detailMode is the sub-mode of a ready detail view.
type detailMode int

const (
	modeViewing detailMode = iota
	modeEditing
)

// detailModel owns one book's detail view-state, including the in-place
// content editor. The detail record is fetched independently of the listing
// projection; the two are never assumed interchangeable.
type detailModel struct {
	state detailState
	mode  detailMode
	id    int
	book  models.Book
	err   error

	// fetchedContent is the last server-confirmed content; cancel restores
	// it exactly regardless of how much the draft diverged.
	fetchedContent string
	draft          textarea.Model
	saving         bool
	saveErr        error // save-path error; the view stays in editing
}

func newDetailModel() detailModel {
	draft := textarea.New()
	draft.Placeholder = "Book content"
	draft.CharLimit = 0

	return detailModel{draft: draft}
}

// startFetch resets the model for a fresh detail load.
func (d *detailModel) startFetch(id int) {
	d.state = detailLoading
	d.mode = modeViewing
	d.id = id
	d.err = nil
	d.saveErr = nil
	d.saving = false
}

// applyFetch folds the detail response in. A 404 lands in failed with the
// not-found message; the page renders the message, it does not crash.
func (d *detailModel) applyFetch(msg bookFetchedMsg) {
	if msg.err != nil {
		d.state = detailFailed
		d.err = msg.err
		return
	}

	d.book = *msg.book
	d.fetchedContent = msg.book.Content
	d.draft.SetValue(msg.book.Content)
	d.state = detailReady
	d.mode = modeViewing
	d.err = nil
}

// beginEdit enters editing. Gated on the caller having a valid credential:
// without one the edit affordance is never shown, so reaching here without
// one is a no-op.
func (d *detailModel) beginEdit(loggedIn bool) bool {
	if !loggedIn || d.state != detailReady || d.mode != modeViewing {
		return false
	}
	d.mode = modeEditing
	d.saveErr = nil
	d.draft.SetValue(d.book.Content)
	d.draft.Focus()
	return true
}

// cancelEdit discards the draft and restores the last fetched content exactly.
func (d *detailModel) cancelEdit() {
	if d.mode != modeEditing {
		return
	}
	d.draft.SetValue(d.fetchedContent)
	d.draft.Blur()
	d.mode = modeViewing
	d.saveErr = nil
	d.saving = false
}

// saveForm validates locally and builds the full-replace update payload.
// A missing or malformed user id in the session is rejected here, before
// any network call.
func (d *detailModel) saveForm(cred models.Credential, ok bool) (models.BookForm, error) {
	if d.mode != modeEditing || d.saving {
		return models.BookForm{}, fmt.Errorf("not editing")
	}

	if !ok {
		return models.BookForm{}, models.ValidationError{"userId": "user id missing from session"}
	}
	userID, err := models.ParseUserID(cred.UserID)
	if err != nil {
		return models.BookForm{}, models.ValidationError{"userId": err.Error()}
	}

	form := models.BookForm{
		Title:      d.book.Title,
		Content:    d.draft.Value(),
		CoverImage: d.book.CoverImage,
		UserID:     userID,
	}
	if errs := form.Validate(); errs != nil {
		return models.BookForm{}, errs
	}

	d.saving = true
	d.saveErr = nil
	return form, nil
}

// rejectSave records a local validation failure; the view stays in editing
// with the draft intact and zero network calls made.
func (d *detailModel) rejectSave(err error) {
	d.saveErr = err
}

// applySave folds the update outcome in. Failure keeps the in-progress edits
// and surfaces the error; success adopts the server's record and returns to
// viewing.
func (d *detailModel) applySave(msg bookSavedMsg) {
	d.saving = false
	if msg.err != nil {
		d.saveErr = msg.err
		return
	}

	if msg.book != nil {
		d.book = *msg.book
	} else {
		d.book.Content = d.draft.Value()
	}
	d.fetchedContent = d.book.Content
	d.draft.SetValue(d.book.Content)
	d.draft.Blur()
	d.mode = modeViewing
	d.saveErr = nil
}
