package models

import "fmt"

// CvStyle selects the design-instruction branch used when generating a CV.
type CvStyle string

const (
	StyleModern   CvStyle = "Modern"
	StyleClassic  CvStyle = "Classic"
	StyleCreative CvStyle = "Creative"
)

// AllStyles is the default generation order.
var AllStyles = []CvStyle{StyleModern, StyleClassic, StyleCreative}

func (s CvStyle) Valid() bool {
	switch s {
	case StyleModern, StyleClassic, StyleCreative:
		return true
	}
	return false
}

func ParseStyle(value string) (CvStyle, error) {
	style := CvStyle(value)
	if !style.Valid() {
		return "", fmt.Errorf("unknown CV style %q", value)
	}
	return style, nil
}

// CvFormatType is passed through to the prompt; it has no local branching.
type CvFormatType string

const (
	FormatChronological CvFormatType = "Chronological"
	FormatFunctional    CvFormatType = "Functional"
	FormatCombination   CvFormatType = "Combination"
)

func (f CvFormatType) Valid() bool {
	switch f {
	case FormatChronological, FormatFunctional, FormatCombination:
		return true
	}
	return false
}

// GeneratedCv is one rendered CV variant. Values are replaced, never mutated
// in place, when refined or edited.
type GeneratedCv struct {
	Name           string   `json:"name"`
	HTML           string   `json:"html"`
	JobSuggestions []string `json:"job_suggestions"`
	Style          CvStyle  `json:"style"`
}

// WithHTML returns a copy of the CV carrying the given markup.
func (c GeneratedCv) WithHTML(html string) GeneratedCv {
	next := c
	next.HTML = html
	next.JobSuggestions = append([]string(nil), c.JobSuggestions...)
	return next
}

// CvRatingReport is the critique returned by a rating request.
type CvRatingReport struct {
	Score           float64  `json:"score"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	OverallFeedback string   `json:"overall_feedback"`
}
