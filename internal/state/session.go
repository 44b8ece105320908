// Package state holds the per-session CV workspace and the reducer that moves
// it between lifecycle phases.
package state

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/cv-architect/internal/models"
)

// Phase tracks the "currently displayed CV" slot.
type Phase string

const (
	PhaseEmpty      Phase = "empty"
	PhaseGenerating Phase = "generating"
	PhaseReady      Phase = "ready"
	PhaseRefining   Phase = "refining"
)

var (
	ErrBusy          = errors.New("another operation is already running for this CV")
	ErrEditing       = errors.New("not allowed while direct editing is active")
	ErrNotEditing    = errors.New("direct editing is not active")
	ErrNoActiveCV    = errors.New("no CV is selected")
	ErrIndexRange    = errors.New("CV index out of range")
	ErrRatingPending = errors.New("a rating is already in progress")
	ErrUnknownAction = errors.New("unknown action")
)

// Session is the in-memory workspace for one browser tab. It is treated as a
// value: Reduce returns a new Session and never mutates its input.
type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Credential is held only in memory and never serialized.
	Credential string `json:"-"`

	RawInfo     string               `json:"raw_info"`
	CVs         []models.GeneratedCv `json:"cvs"`
	ActiveIndex *int                 `json:"active_index"`
	Phase       Phase                `json:"phase"`
	Rating      bool                 `json:"rating"`
	Formatting  bool                 `json:"formatting"`
	Editing     bool                 `json:"editing"`
	EditDraft   string               `json:"edit_draft,omitempty"`

	Report *models.CvRatingReport `json:"report"`
	// ratedIndex and ratedHTML identify the CV a pending rating describes.
	ratedIndex int
	ratedHTML  string
	// Error is the generation error panel; cleared by the next generation.
	Error string `json:"error,omitempty"`

	Logs []models.LogEntry `json:"logs"`
}

func New(id uuid.UUID, now time.Time) Session {
	return Session{
		ID:        id,
		CreatedAt: now,
		Phase:     PhaseEmpty,
		CVs:       []models.GeneratedCv{},
		Logs:      []models.LogEntry{},
	}
}

func (s Session) HasCredential() bool {
	return s.Credential != ""
}

// ActiveCV returns the selected variant.
func (s Session) ActiveCV() (models.GeneratedCv, bool) {
	if s.ActiveIndex == nil || *s.ActiveIndex < 0 || *s.ActiveIndex >= len(s.CVs) {
		return models.GeneratedCv{}, false
	}
	return s.CVs[*s.ActiveIndex], true
}

// Busy reports whether a generate or refine currently owns the CV slot.
func (s Session) Busy() bool {
	return s.Phase == PhaseGenerating || s.Phase == PhaseRefining
}

// View is the JSON snapshot handed to clients.
type View struct {
	Session
	HasCredential bool `json:"has_credential"`
}

func (s Session) View() View {
	return View{Session: s, HasCredential: s.HasCredential()}
}
