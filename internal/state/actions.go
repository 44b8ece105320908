package state

import "alfredoptarigan/cv-architect/internal/models"

// Action is a single transition request understood by Reduce.
type Action interface {
	actionName() string
}

type SetCredential struct{ APIKey string }

type SetRawInfo struct {
	RawInfo string
	Source  string
}

// GenerateStarted optionally replaces the raw info in the same transition.
type GenerateStarted struct {
	Styles  []models.CvStyle
	RawInfo string
}

// GenerateSucceeded carries the variants that came back and a user-facing
// message for each variant that did not.
type GenerateSucceeded struct {
	CVs      []models.GeneratedCv
	Failures []string
}

type GenerateFailed struct{ Message string }

type RefineStarted struct{ EditRequest string }

type RefineSucceeded struct {
	Index int
	CV    models.GeneratedCv
}

type RefineFailed struct{ Message string }

type RateStarted struct{}

type RateSucceeded struct{ Report models.CvRatingReport }

type RateFailed struct{ Message string }

type FormatStarted struct{}

type FormatSucceeded struct{ Text string }

type FormatFailed struct{ Message string }

type SelectCV struct{ Index int }

type EditStarted struct{}

// EditDraftUpdated replaces the working draft, e.g. after a skill pill is removed.
type EditDraftUpdated struct{ HTML string }

// EditCommitted swaps the active CV's HTML for the draft, or for HTML when set.
type EditCommitted struct{ HTML string }

type EditCancelled struct{}

func (SetCredential) actionName() string     { return "set_credential" }
func (SetRawInfo) actionName() string        { return "set_raw_info" }
func (GenerateStarted) actionName() string   { return "generate_started" }
func (GenerateSucceeded) actionName() string { return "generate_succeeded" }
func (GenerateFailed) actionName() string    { return "generate_failed" }
func (RefineStarted) actionName() string     { return "refine_started" }
func (RefineSucceeded) actionName() string   { return "refine_succeeded" }
func (RefineFailed) actionName() string      { return "refine_failed" }
func (RateStarted) actionName() string       { return "rate_started" }
func (RateSucceeded) actionName() string     { return "rate_succeeded" }
func (RateFailed) actionName() string        { return "rate_failed" }
func (FormatStarted) actionName() string     { return "format_started" }
func (FormatSucceeded) actionName() string   { return "format_succeeded" }
func (FormatFailed) actionName() string      { return "format_failed" }
func (SelectCV) actionName() string          { return "select_cv" }
func (EditStarted) actionName() string       { return "edit_started" }
func (EditDraftUpdated) actionName() string  { return "edit_draft_updated" }
func (EditCommitted) actionName() string     { return "edit_committed" }
func (EditCancelled) actionName() string     { return "edit_cancelled" }
