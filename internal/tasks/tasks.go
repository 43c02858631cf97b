// package tasks implements multi-step operations spanning the backend and the
// identity provider.
//
// The core abstraction is [Engine], which orchestrates the two-phase
// registration saga and whole-library exports. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"fmt"

	"github.com/ranggacaw/satanlib/internal/services"
)

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	IdentitySignUp Phase = iota
	BackendRegister
	Compensate
	FetchPage
	FetchDetail
	WriteFiles
)

func (p Phase) String() string {
	switch p {
	case IdentitySignUp:
		return "identity_signup"
	case BackendRegister:
		return "backend_register"
	case Compensate:
		return "compensate"
	case FetchPage:
		return "fetch_page"
	case FetchDetail:
		return "fetch_detail"
	case WriteFiles:
		return "write_files"
	default:
		return ""
	}
}

// Engine orchestrates saga and export operations.
type Engine struct {
	library  services.Library
	identity services.Identity
}

// NewEngine creates an Engine with the provided service clients.
func NewEngine(library services.Library, identity services.Identity) *Engine {
	return &Engine{library: library, identity: identity}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func signUpUpdate(email string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   IdentitySignUp,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Creating identity account for %s...", email),
	}
}

func signUpSkippedUpdate(uid string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   IdentitySignUp,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Reusing identity account %s", uid),
	}
}

func registerUpdate(uid string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BackendRegister,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Creating backend record for uid %s...", uid),
	}
}

func compensateUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compensate,
		Step:    2,
		Total:   2,
		Message: "Backend registration failed, removing identity account...",
	}
}

func fetchPageUpdate(page, totalPages int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    page,
		Total:   totalPages,
		Message: fmt.Sprintf("Fetching page %d/%d...", page, totalPages),
	}
}

func fetchDetailUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetail,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, title),
	}
}

func writeFilesUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteFiles,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %s...", path),
	}
}
