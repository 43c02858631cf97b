// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// One sub-model per page, routed by [ViewState]:
//  1. [DashboardView] : browse the paginated listing, search, delete own books
//  2. [DetailView] : read a single book, edit in place when logged in
//  3. [CreateView] : add a new book (guarded: requires a session)
//  4. [LoginView] / [RegisterView] : authentication forms
//
// The root [Model] implements the standard Init/Update/View pattern and owns
// navigation; each page sub-model owns its local state machine (loading and
// error flags, form fields, validation errors, pagination cursor) and exposes
// pure transition helpers that the tests drive directly.
//
// Remote calls run as tea.Cmd closures against the services.Library client;
// their results come back as typed messages. Listing fetches carry a
// monotonically increasing request token so that overlapping page fetches
// resolve deterministically: only the latest issued request may update state.
//
// The session store is passed in explicitly and observed via its Subscribe
// hook; there is no ambient global credential. Every authorization guard in
// the UI consults the single [Model.LoggedIn] predicate.
package ui
