package state

import (
	"fmt"
	"strings"
	"time"

	"alfredoptarigan/cv-architect/internal/models"
)

// Reduce applies action to s and returns the next session. On error the input
// session is returned unchanged.
func Reduce(s Session, action Action, now time.Time) (Session, error) {
	next := s

	switch a := action.(type) {
	case SetCredential:
		next.Credential = a.APIKey
		next.Logs = appendLog(s.Logs, now, models.LogInfo, "API key updated for this session.")

	case SetRawInfo:
		if s.Formatting {
			return s, ErrBusy
		}
		next.RawInfo = a.RawInfo
		next.Logs = appendLog(s.Logs, now, models.LogSuccess, fmt.Sprintf("Loaded raw information from %s.", a.Source))

	case GenerateStarted:
		if s.Busy() || s.Formatting {
			return s, ErrBusy
		}
		if s.Editing {
			return s, ErrEditing
		}
		next.Phase = PhaseGenerating
		next.Error = ""
		if a.RawInfo != "" {
			next.RawInfo = a.RawInfo
		}
		next.Logs = appendLog(s.Logs, now, models.LogInfo, fmt.Sprintf("Generating %d CV design(s): %s...", len(a.Styles), joinStyles(a.Styles)))

	case GenerateSucceeded:
		if s.Phase != PhaseGenerating {
			return s, fmt.Errorf("generation result arrived in phase %s", s.Phase)
		}
		if len(a.CVs) == 0 {
			return s, fmt.Errorf("generation result carried no CVs")
		}
		logs := s.Logs
		for _, cv := range a.CVs {
			logs = appendLog(logs, now, models.LogSuccess, fmt.Sprintf("Generated %s CV for %s.", cv.Style, cv.Name))
		}
		for _, msg := range a.Failures {
			logs = appendLog(logs, now, models.LogError, msg)
		}
		next.CVs = append([]models.GeneratedCv(nil), a.CVs...)
		next.ActiveIndex = intPtr(0)
		next.Report = nil
		next.Phase = PhaseReady
		next.Logs = logs

	case GenerateFailed:
		if s.Phase != PhaseGenerating {
			return s, fmt.Errorf("generation failure arrived in phase %s", s.Phase)
		}
		next.Phase = settledPhase(s)
		next.Error = a.Message
		next.Logs = appendLog(s.Logs, now, models.LogError, a.Message)

	case RefineStarted:
		if s.Busy() {
			return s, ErrBusy
		}
		if s.Editing {
			return s, ErrEditing
		}
		if _, ok := s.ActiveCV(); !ok {
			return s, ErrNoActiveCV
		}
		next.Phase = PhaseRefining
		next.Logs = appendLog(s.Logs, now, models.LogInfo, fmt.Sprintf("Refining CV: %q", a.EditRequest))

	case RefineSucceeded:
		if s.Phase != PhaseRefining {
			return s, fmt.Errorf("refinement result arrived in phase %s", s.Phase)
		}
		if a.Index < 0 || a.Index >= len(s.CVs) {
			return s, ErrIndexRange
		}
		next.CVs = replaceAt(s.CVs, a.Index, a.CV)
		next.Phase = PhaseReady
		next.Report = nil
		next.Logs = appendLog(s.Logs, now, models.LogSuccess, "CV refined successfully.")

	case RefineFailed:
		if s.Phase != PhaseRefining {
			return s, fmt.Errorf("refinement failure arrived in phase %s", s.Phase)
		}
		next.Phase = PhaseReady
		next.Logs = appendLog(s.Logs, now, models.LogError, a.Message)

	case RateStarted:
		if s.Rating {
			return s, ErrRatingPending
		}
		if s.Editing {
			return s, ErrEditing
		}
		cv, ok := s.ActiveCV()
		if !ok {
			return s, ErrNoActiveCV
		}
		next.Rating = true
		next.ratedIndex = *s.ActiveIndex
		next.ratedHTML = cv.HTML
		next.Logs = appendLog(s.Logs, now, models.LogInfo, "Rating the current CV...")

	case RateSucceeded:
		if !s.Rating {
			return s, fmt.Errorf("rating result arrived with no rating pending")
		}
		next.Rating = false
		next.ratedHTML = ""
		if !s.ratedCVIsActive() {
			next.Logs = appendLog(s.Logs, now, models.LogInfo, "Rating discarded: the CV changed while it was being rated.")
			break
		}
		report := a.Report
		next.Report = &report
		next.Logs = appendLog(s.Logs, now, models.LogSuccess, fmt.Sprintf("CV rated %.1f/10.", report.Score))

	case RateFailed:
		if !s.Rating {
			return s, fmt.Errorf("rating failure arrived with no rating pending")
		}
		next.Rating = false
		next.ratedHTML = ""
		next.Logs = appendLog(s.Logs, now, models.LogError, a.Message)

	case FormatStarted:
		if s.Formatting || s.Phase == PhaseGenerating {
			return s, ErrBusy
		}
		next.Formatting = true
		next.Logs = appendLog(s.Logs, now, models.LogInfo, "Formatting and cleaning raw information...")

	case FormatSucceeded:
		if !s.Formatting {
			return s, fmt.Errorf("formatting result arrived with no formatting pending")
		}
		next.Formatting = false
		next.RawInfo = a.Text
		next.Logs = appendLog(s.Logs, now, models.LogSuccess, "Raw information formatted.")

	case FormatFailed:
		if !s.Formatting {
			return s, fmt.Errorf("formatting failure arrived with no formatting pending")
		}
		next.Formatting = false
		next.Logs = appendLog(s.Logs, now, models.LogError, a.Message)

	case SelectCV:
		if s.Busy() {
			return s, ErrBusy
		}
		if s.Editing {
			return s, ErrEditing
		}
		if a.Index < 0 || a.Index >= len(s.CVs) {
			return s, ErrIndexRange
		}
		next.ActiveIndex = intPtr(a.Index)
		next.Report = nil

	case EditStarted:
		if s.Busy() {
			return s, ErrBusy
		}
		if s.Rating {
			return s, ErrRatingPending
		}
		if s.Editing {
			return s, nil
		}
		cv, ok := s.ActiveCV()
		if !ok {
			return s, ErrNoActiveCV
		}
		next.Editing = true
		next.EditDraft = cv.HTML
		next.Logs = appendLog(s.Logs, now, models.LogInfo, "Direct editing enabled.")

	case EditDraftUpdated:
		if !s.Editing {
			return s, ErrNotEditing
		}
		next.EditDraft = a.HTML

	case EditCommitted:
		if !s.Editing {
			return s, ErrNotEditing
		}
		cv, ok := s.ActiveCV()
		if !ok {
			return s, ErrNoActiveCV
		}
		html := a.HTML
		if html == "" {
			html = s.EditDraft
		}
		next.CVs = replaceAt(s.CVs, *s.ActiveIndex, cv.WithHTML(html))
		next.Editing = false
		next.EditDraft = ""
		next.Logs = appendLog(s.Logs, now, models.LogSuccess, "Direct edits saved.")

	case EditCancelled:
		if !s.Editing {
			return s, ErrNotEditing
		}
		next.Editing = false
		next.EditDraft = ""
		next.Logs = appendLog(s.Logs, now, models.LogInfo, "Direct edits discarded.")

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}

	return next, nil
}

// appendLog never writes into the backing array of logs, so earlier session
// values keep their own history.
func appendLog(logs []models.LogEntry, now time.Time, kind models.LogKind, msg string) []models.LogEntry {
	out := make([]models.LogEntry, len(logs), len(logs)+1)
	copy(out, logs)
	return append(out, models.LogEntry{Timestamp: now, Message: msg, Kind: kind})
}

func replaceAt(cvs []models.GeneratedCv, index int, cv models.GeneratedCv) []models.GeneratedCv {
	out := append([]models.GeneratedCv(nil), cvs...)
	out[index] = cv
	return out
}

func settledPhase(s Session) Phase {
	if len(s.CVs) > 0 {
		return PhaseReady
	}
	return PhaseEmpty
}

func joinStyles(styles []models.CvStyle) string {
	names := make([]string, len(styles))
	for i, st := range styles {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

// ratedCVIsActive reports whether the active CV is still the one captured by
// RateStarted.
func (s Session) ratedCVIsActive() bool {
	cv, ok := s.ActiveCV()
	return ok && *s.ActiveIndex == s.ratedIndex && cv.HTML == s.ratedHTML
}

func intPtr(v int) *int { return &v }
