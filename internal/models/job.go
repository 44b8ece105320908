package models

import (
	"time"

	"github.com/google/uuid"
)

type JobKind string

const (
	JobGenerate JobKind = "generate"
	JobRefine   JobKind = "refine"
	JobRate     JobKind = "rate"
	JobFormat   JobKind = "format"
)

// GenerateInput carries everything needed to build one generation prompt per style.
type GenerateInput struct {
	RawInfo    string
	ImageURL   string
	FormatType CvFormatType
	Theme      string
	Styles     []CvStyle
}

// RefineInput embeds the HTML captured when the refinement started.
type RefineInput struct {
	Index       int
	CurrentHTML string
	EditRequest string
	Theme       string
	ImageURL    string
}

type RateInput struct {
	HTML string
	// Image is a data:image/png;base64 URI; empty asks the server to render one.
	Image string
}

type FormatInput struct {
	RawInfo string
}

// Job is one queued model operation bound to a session.
type Job struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Kind      JobKind
	APIKey    string
	CreatedAt time.Time

	Generate *GenerateInput
	Refine   *RefineInput
	Rate     *RateInput
	Format   *FormatInput
}
