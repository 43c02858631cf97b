package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/services"
	"github.com/ranggacaw/satanlib/internal/session"
	"github.com/ranggacaw/satanlib/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DashboardView ViewState = iota
	DetailView
	CreateView
	LoginView
	RegisterView
)

// Model represents the TUI application state.
//
// Session state is not read ad hoc: the model holds the credential it was
// last told about, and LoggedIn is the single predicate every guard in the
// UI consults. The session store pushes changes through sessionCh, so an
// external logout flips every affordance at once.
type Model struct {
	ctx     context.Context
	view    ViewState
	library services.Library
	engine  *tasks.Engine
	store   *session.Store

	cred        models.Credential
	hasCred     bool
	sessionCh   chan sessionChangedMsg
	unsubscribe func()

	listing listingModel
	detail  detailModel
	create  createModel
	auth    authModel

	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, library services.Library, engine *tasks.Engine, store *session.Store) *Model {
	m := &Model{
		ctx:       ctx,
		view:      DashboardView,
		library:   library,
		engine:    engine,
		store:     store,
		listing:   newListingModel(6),
		detail:    newDetailModel(),
		create:    newCreateModel(),
		auth:      newAuthModel(),
		sessionCh: make(chan sessionChangedMsg, 8),
		help:      help.New(),
		keys:      newKeyMap(),
	}

	m.cred, m.hasCred = store.Credential()
	m.unsubscribe = store.Subscribe(func(cred models.Credential, ok bool) {
		select {
		case m.sessionCh <- sessionChangedMsg{cred: cred, ok: ok}:
		default:
		}
	})

	return m
}

// LoggedIn reports whether the model holds a complete credential. Every
// guard (edit, delete, create, the login/logout affordances) goes through
// this one predicate.
func (m *Model) LoggedIn() bool {
	return m.hasCred && m.cred.Valid()
}

// Close releases the session subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init kicks off the first listing fetch and the session watch.
func (m *Model) Init() tea.Cmd {
	token := m.listing.startFetch(1)
	return tea.Batch(m.fetchBooks(token, 1), m.listing.spin.Tick, m.waitForSession())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listing.setSize(msg.Width, msg.Height)
		m.detail.draft.SetWidth(msg.Width - 4)
		m.create.content.SetWidth(msg.Width - 4)
		return m, nil

	case spinner.TickMsg:
		if m.listing.state == listingLoading {
			var cmd tea.Cmd
			m.listing.spin, cmd = m.listing.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case sessionChangedMsg:
		m.cred = msg.cred
		m.hasCred = msg.ok
		if !m.LoggedIn() && m.detail.mode == modeEditing {
			m.detail.cancelEdit()
		}
		return m, m.waitForSession()

	case tea.KeyMsg:
		switch m.view {
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case CreateView:
			return m.handleCreateKeys(msg)
		case LoginView, RegisterView:
			return m.handleAuthKeys(msg)
		}

	case booksFetchedMsg:
		m.listing.applyFetch(msg)
		return m, nil

	case bookFetchedMsg:
		m.detail.applyFetch(msg)
		return m, nil

	case bookDeletedMsg:
		m.listing.applyDelete(msg)
		return m, nil

	case bookSavedMsg:
		m.detail.applySave(msg)
		return m, nil

	case bookCreatedMsg:
		m.create.applyCreate(msg)
		if m.create.state == createDone {
			m.view = DashboardView
			token := m.listing.startFetch(m.listing.page.Page)
			return m, tea.Batch(m.fetchBooks(token, m.listing.page.Page), m.listing.spin.Tick)
		}
		return m, nil

	case loginDoneMsg:
		if m.auth.applyLogin(msg) && msg.result != nil {
			if err := m.store.SetCredential(msg.result.Token, msg.result.UserID); err != nil {
				m.auth.err = err
				return m, nil
			}
			m.view = DashboardView
		}
		return m, nil

	case registerDoneMsg:
		if m.auth.applyRegister(msg) {
			m.view = LoginView
			m.auth.reset()
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case DashboardView:
		return m.renderDashboard()
	case DetailView:
		return m.renderDetail()
	case CreateView:
		return m.renderCreate()
	case LoginView:
		return m.renderAuth(false)
	case RegisterView:
		return m.renderAuth(true)
	default:
		return ""
	}
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.listing.typing {
		switch msg.String() {
		case "esc", "enter":
			m.listing.typing = false
			m.listing.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.listing.search, cmd = m.listing.search.Update(msg)
		m.listing.setQuery(m.listing.search.Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.search):
		m.listing.typing = true
		m.listing.search.Focus()
		return m, nil

	case key.Matches(msg, m.keys.prev):
		return m.turnPage(m.listing.page.Page - 1)

	case key.Matches(msg, m.keys.next):
		return m.turnPage(m.listing.page.Page + 1)

	case key.Matches(msg, m.keys.refresh):
		token := m.listing.startFetch(m.listing.page.Page)
		return m, tea.Batch(m.fetchBooks(token, m.listing.page.Page), m.listing.spin.Tick)

	case key.Matches(msg, m.keys.enter):
		if book, ok := m.listing.selected(); ok {
			m.view = DetailView
			m.detail.startFetch(book.ID)
			return m, m.fetchBook(book.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.newBook):
		if !m.create.open(m.LoggedIn()) {
			m.view = LoginView
			m.auth.reset()
			return m, nil
		}
		m.view = CreateView
		return m, nil

	case key.Matches(msg, m.keys.del):
		if !m.LoggedIn() {
			m.view = LoginView
			m.auth.reset()
			return m, nil
		}
		if book, ok := m.listing.selected(); ok {
			return m, m.deleteBook(book.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.login):
		m.view = LoginView
		m.auth.reset()
		return m, nil

	case key.Matches(msg, m.keys.register):
		m.view = RegisterView
		m.auth.reset()
		return m, nil

	case key.Matches(msg, m.keys.logout):
		// Logging out is purely a session mutation; the subscription
		// delivers the change back as a sessionChangedMsg.
		if err := m.store.ClearCredential(); err != nil {
			m.listing.notice = "Logout failed: " + err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.listing.books, cmd = m.listing.books.Update(msg)
	return m, cmd
}

func (m *Model) turnPage(page int) (tea.Model, tea.Cmd) {
	if !m.listing.canTurnTo(page) {
		return m, nil
	}
	token := m.listing.startFetch(page)
	return m, tea.Batch(m.fetchBooks(token, page), m.listing.spin.Tick)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail.mode == modeEditing {
		switch msg.String() {
		case "esc":
			m.detail.cancelEdit()
			return m, nil
		case "ctrl+s":
			cred, ok := m.store.Credential()
			form, err := m.detail.saveForm(cred, ok)
			if err != nil {
				m.detail.rejectSave(err)
				return m, nil
			}
			return m, m.saveBook(m.detail.id, form)
		}
		var cmd tea.Cmd
		m.detail.draft, cmd = m.detail.draft.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		m.view = DashboardView
		return m, nil

	case key.Matches(msg, m.keys.edit):
		m.detail.beginEdit(m.LoggedIn())
		return m, nil
	}

	return m, nil
}

func (m *Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = DashboardView
		return m, nil
	case "tab":
		m.create.nextField()
		return m, nil
	case "ctrl+s":
		cred, ok := m.store.Credential()
		form, send := m.create.submitForm(cred, ok)
		if !send {
			return m, nil
		}
		return m, m.createBook(form)
	case "ctrl+c":
		m.Close()
		return m, tea.Quit
	}

	return m.updateInputs(msg)
}

func (m *Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	register := m.view == RegisterView

	switch msg.String() {
	case "esc":
		m.view = DashboardView
		return m, nil
	case "tab":
		m.auth.nextField(register)
		return m, nil
	case "ctrl+r":
		if !register {
			m.view = RegisterView
			m.auth.reset()
		}
		return m, nil
	case "ctrl+v":
		m.auth.toggleReveal()
		return m, nil
	case "enter":
		if register {
			form, send := m.auth.submitRegister()
			if !send {
				return m, nil
			}
			return m, m.register(form)
		}
		form, send := m.auth.submitLogin()
		if !send {
			return m, nil
		}
		return m, m.login(form)
	case "ctrl+c":
		m.Close()
		return m, tea.Quit
	}

	return m.updateInputs(msg)
}

// updateInputs routes non-command messages to whichever text input owns the
// focus in the current view.
func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CreateView:
		switch m.create.focus {
		case fieldTitle:
			m.create.title, cmd = m.create.title.Update(msg)
		case fieldCover:
			m.create.cover, cmd = m.create.cover.Update(msg)
		case fieldContent:
			m.create.content, cmd = m.create.content.Update(msg)
		}
	case LoginView, RegisterView:
		switch {
		case m.auth.email.Focused():
			m.auth.email, cmd = m.auth.email.Update(msg)
		case m.auth.name.Focused():
			m.auth.name, cmd = m.auth.name.Update(msg)
		case m.auth.password.Focused():
			m.auth.password, cmd = m.auth.password.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) fetchBooks(token, page int) tea.Cmd {
	return func() tea.Msg {
		result, err := m.library.ListBooks(m.ctx, page, m.listing.limit)
		return booksFetchedMsg{token: token, page: result, err: err}
	}
}

func (m *Model) fetchBook(id int) tea.Cmd {
	return func() tea.Msg {
		book, err := m.library.GetBook(m.ctx, id)
		return bookFetchedMsg{book: book, err: err}
	}
}

func (m *Model) deleteBook(id int) tea.Cmd {
	return func() tea.Msg {
		err := m.library.DeleteBook(m.ctx, id)
		return bookDeletedMsg{id: id, err: err}
	}
}

func (m *Model) saveBook(id int, form models.BookForm) tea.Cmd {
	return func() tea.Msg {
		book, err := m.library.UpdateBook(m.ctx, id, form)
		return bookSavedMsg{book: book, err: err}
	}
}

func (m *Model) createBook(form models.BookForm) tea.Cmd {
	return func() tea.Msg {
		book, err := m.library.CreateBook(m.ctx, form)
		return bookCreatedMsg{book: book, err: err}
	}
}

func (m *Model) login(form models.LoginForm) tea.Cmd {
	return func() tea.Msg {
		result, err := m.library.Login(m.ctx, form.Email, form.Password)
		return loginDoneMsg{result: result, err: err}
	}
}

func (m *Model) register(form models.RegisterForm) tea.Cmd {
	return func() tea.Msg {
		result, err := m.engine.Register(m.ctx, form, m.auth.priorUID, nil)
		return registerDoneMsg{result: result, err: err}
	}
}

func (m *Model) waitForSession() tea.Cmd {
	return func() tea.Msg {
		return <-m.sessionCh
	}
}

func (m *Model) sessionLine() string {
	if m.LoggedIn() {
		return styles.ok.Render(fmt.Sprintf("Logged in (user %s)", m.cred.UserID))
	}
	return styles.help.Render("Not logged in • l to login, ctrl+r to register")
}

func (m *Model) renderDashboard() string {
	switch m.listing.state {
	case listingLoading:
		return fmt.Sprintf("%s loading page %d...", m.listing.spin.View(), m.listing.pendingPage)
	case listingFailed:
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.listing.err))
	}

	pageLine := fmt.Sprintf("Page %d of %d", m.listing.page.Page, m.listing.page.TotalPages)
	searchLine := m.listing.search.View()
	if !m.listing.typing && m.listing.search.Value() == "" {
		searchLine = styles.help.Render("/ to search")
	}

	var notice string
	if m.listing.notice != "" {
		notice = "\n" + styles.warn.Render(m.listing.notice)
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.prev, m.keys.next, m.keys.newBook}
	if m.LoggedIn() {
		helpKeys = append(helpKeys, m.keys.del)
	}
	helpKeys = append(helpKeys, m.keys.quit)
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s\n\n%s%s\n\n%s",
		m.sessionLine(), searchLine, m.listing.books.View(), pageLine, notice, helpView)
}

func (m *Model) renderDetail() string {
	switch m.detail.state {
	case detailLoading:
		return fmt.Sprintf("Loading book %d...", m.detail.id)
	case detailFailed:
		return styles.err.Render("No book found\n\nPress esc to go back")
	}

	title := styles.title.Render(m.detail.book.Title)
	meta := styles.help.Render(fmt.Sprintf("by %s • published %s",
		m.detail.book.Author, m.detail.book.PublishedDate))

	if m.detail.mode == modeEditing {
		var problem string
		if m.detail.saveErr != nil {
			problem = "\n" + styles.err.Render(m.detail.saveErr.Error())
		}
		status := ""
		if m.detail.saving {
			status = "\n" + styles.warn.Render("Saving...")
		}
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.save, m.keys.back})
		return fmt.Sprintf("%s\n%s\n\n%s%s%s\n\n%s",
			title, meta, m.detail.draft.View(), problem, status, helpView)
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	if m.LoggedIn() {
		helpKeys = []key.Binding{m.keys.edit, m.keys.back, m.keys.quit}
	}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, meta, m.detail.book.Content, helpView)
}

func (m *Model) renderCreate() string {
	title := styles.title.Render("Add a Book")

	var problems string
	if m.create.errs != nil {
		for _, field := range []string{"title", "content", "coverImage", "userId"} {
			if msg, ok := m.create.errs[field]; ok {
				problems += "\n" + styles.err.Render(fmt.Sprintf("%s: %s", field, msg))
			}
		}
	}
	if m.create.err != nil {
		problems += "\n" + styles.err.Render(m.create.err.Error())
	}

	status := ""
	if m.create.state == createSubmitting {
		status = "\n" + styles.warn.Render("Submitting...")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.tab, m.keys.save, m.keys.back})
	return fmt.Sprintf("%s\n\n%s\n%s\n%s%s%s\n\n%s",
		title, m.create.title.View(), m.create.cover.View(), m.create.content.View(),
		problems, status, helpView)
}

func (m *Model) renderAuth(register bool) string {
	heading := "Login"
	if register {
		heading = "Register"
	}
	title := styles.title.Render(heading)

	fields := m.auth.email.View()
	if register {
		fields += "\n" + m.auth.name.View()
	}
	fields += "\n" + m.auth.password.View()

	var problems string
	if m.auth.errs != nil {
		for _, field := range []string{"email", "name", "password"} {
			if msg, ok := m.auth.errs[field]; ok {
				problems += "\n" + styles.err.Render(fmt.Sprintf("%s: %s", field, msg))
			}
		}
	}
	if m.auth.err != nil {
		problems += "\n" + styles.err.Render(m.auth.err.Error())
	}
	if m.auth.priorUID != "" {
		problems += "\n" + styles.warn.Render("Retrying with existing account "+m.auth.priorUID)
	}

	status := ""
	if m.auth.state == authSubmitting {
		status = "\n" + styles.warn.Render("Submitting...")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.tab, m.keys.enter, m.keys.back})
	return fmt.Sprintf("%s\n\n%s%s%s\n\n%s", title, fields, problems, status, helpView)
}
