package ui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/ranggacaw/satanlib/internal/models"
)

type createState int

const (
	createBlocked createState = iota
	createFilling
	createSubmitting
	createDone
)

// createField indexes the focusable inputs on the create form.
type createField int

const (
	fieldTitle createField = iota
	fieldCover
	fieldContent
	createFieldCount
)

// createModel owns the add-book form. The route is guarded: without a valid
// credential the model lands in blocked and the caller redirects to login
// instead of rendering the form.
type createModel struct {
	state   createState
	focus   createField
	title   textinput.Model
	cover   textinput.Model
	content textarea.Model
	errs    models.ValidationError
	err     error // submission failure; the form stays filling with input intact
}

func newCreateModel() createModel {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 128

	cover := textinput.New()
	cover.Placeholder = "Cover image URL (optional)"
	cover.CharLimit = 512

	content := textarea.New()
	content.Placeholder = "Content"
	content.CharLimit = 0

	return createModel{
		state:   createBlocked,
		title:   title,
		cover:   cover,
		content: content,
	}
}

// open (re)enters the form. Returns false when the guard fails; the caller
// must send the user to login, no form is shown and no request is made.
func (c *createModel) open(loggedIn bool) bool {
	if !loggedIn {
		c.state = createBlocked
		return false
	}

	c.state = createFilling
	c.focus = fieldTitle
	c.title.SetValue("")
	c.cover.SetValue("")
	c.content.SetValue("")
	c.errs = nil
	c.err = nil
	c.syncFocus()
	return true
}

// nextField cycles focus through the inputs.
func (c *createModel) nextField() {
	c.focus = (c.focus + 1) % createFieldCount
	c.syncFocus()
}

func (c *createModel) syncFocus() {
	c.title.Blur()
	c.cover.Blur()
	c.content.Blur()
	switch c.focus {
	case fieldTitle:
		c.title.Focus()
	case fieldCover:
		c.cover.Focus()
	case fieldContent:
		c.content.Focus()
	}
}

// submitForm validates locally and builds the create payload. Validation
// failures populate the field error map and never leave filling; nothing is
// sent until every check passes.
func (c *createModel) submitForm(cred models.Credential, ok bool) (models.BookForm, bool) {
	if c.state != createFilling {
		return models.BookForm{}, false
	}

	if !ok {
		c.errs = models.ValidationError{"userId": "user id missing from session"}
		return models.BookForm{}, false
	}
	userID, err := models.ParseUserID(cred.UserID)
	if err != nil {
		c.errs = models.ValidationError{"userId": err.Error()}
		return models.BookForm{}, false
	}

	form := models.BookForm{
		Title:      c.title.Value(),
		Content:    c.content.Value(),
		CoverImage: c.cover.Value(),
		UserID:     userID,
	}
	if errs := form.Validate(); errs != nil {
		c.errs = errs
		return models.BookForm{}, false
	}

	c.state = createSubmitting
	c.errs = nil
	c.err = nil
	return form, true
}

// applyCreate folds the submission outcome in. Failure returns to filling
// with the user's input preserved; success lands in done and the caller
// navigates back to the dashboard.
func (c *createModel) applyCreate(msg bookCreatedMsg) {
	if msg.err != nil {
		c.state = createFilling
		c.err = msg.err
		return
	}
	c.state = createDone
}
