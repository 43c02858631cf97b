package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/ranggacaw/satanlib/internal/models"
)

type authState int

const (
	authIdle authState = iota
	authSubmitting
)

// authModel owns the login and register forms. Both share the same shape:
// focused inputs, a field error map from local validation, and a submission
// error that leaves the form anonymous with its input intact.
type authModel struct {
	state authState
	focus int

	email    textinput.Model
	name     textinput.Model // register only
	password textinput.Model

	errs models.ValidationError
	err  error

	// priorUID carries the identity uid across a failed registration whose
	// compensation also failed, so the retry skips the sign-up phase.
	priorUID string
}

func newAuthModel() authModel {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return authModel{email: email, name: name, password: password}
}

// toggleReveal flips the password between masked and plain text.
func (a *authModel) toggleReveal() {
	if a.password.EchoMode == textinput.EchoPassword {
		a.password.EchoMode = textinput.EchoNormal
	} else {
		a.password.EchoMode = textinput.EchoPassword
	}
}

// reset clears the form for a fresh visit. priorUID survives on purpose.
func (a *authModel) reset() {
	a.state = authIdle
	a.focus = 0
	a.email.SetValue("")
	a.name.SetValue("")
	a.password.SetValue("")
	a.password.EchoMode = textinput.EchoPassword
	a.errs = nil
	a.err = nil
	a.email.Focus()
	a.name.Blur()
	a.password.Blur()
}

// nextField cycles focus. register includes the name input, login skips it.
func (a *authModel) nextField(register bool) {
	fields := 2
	if register {
		fields = 3
	}
	a.focus = (a.focus + 1) % fields

	a.email.Blur()
	a.name.Blur()
	a.password.Blur()
	if register {
		switch a.focus {
		case 0:
			a.email.Focus()
		case 1:
			a.name.Focus()
		case 2:
			a.password.Focus()
		}
		return
	}
	if a.focus == 0 {
		a.email.Focus()
	} else {
		a.password.Focus()
	}
}

// submitLogin validates locally and builds the login payload. Invalid input
// populates the field errors and makes no request.
func (a *authModel) submitLogin() (models.LoginForm, bool) {
	if a.state != authIdle {
		return models.LoginForm{}, false
	}

	form := models.LoginForm{
		Email:    a.email.Value(),
		Password: a.password.Value(),
	}
	if errs := form.Validate(); errs != nil {
		a.errs = errs
		return models.LoginForm{}, false
	}

	a.state = authSubmitting
	a.errs = nil
	a.err = nil
	return form, true
}

// submitRegister validates locally and builds the registration payload.
func (a *authModel) submitRegister() (models.RegisterForm, bool) {
	if a.state != authIdle {
		return models.RegisterForm{}, false
	}

	form := models.RegisterForm{
		Email:    a.email.Value(),
		Name:     a.name.Value(),
		Password: a.password.Value(),
	}
	if errs := form.Validate(); errs != nil {
		a.errs = errs
		return models.RegisterForm{}, false
	}

	a.state = authSubmitting
	a.errs = nil
	a.err = nil
	return form, true
}

// applyLogin folds the login outcome in. The caller persists the credential
// on success; failure returns to idle with the inputs untouched.
func (a *authModel) applyLogin(msg loginDoneMsg) bool {
	a.state = authIdle
	if msg.err != nil {
		a.err = msg.err
		return false
	}
	return true
}

// applyRegister folds the saga outcome in. An uncompensated failure stashes
// the identity uid so the user's retry reuses it instead of creating a
// second identity account.
func (a *authModel) applyRegister(msg registerDoneMsg) bool {
	a.state = authIdle
	if msg.err != nil {
		a.err = msg.err
		if msg.result != nil && msg.result.IdentityCreated && !msg.result.Compensated {
			a.priorUID = msg.result.UID
		}
		return false
	}
	a.priorUID = ""
	return true
}
