package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"alfredoptarigan/cv-architect/internal/models"
	"alfredoptarigan/cv-architect/internal/repositories"
	"alfredoptarigan/cv-architect/internal/state"
)

var ErrInvalidJob = errors.New("job is missing its input")

// JobProcessor runs a queued job and records its outcome on the session.
type JobProcessor interface {
	Process(ctx context.Context, job models.Job) error
}

type jobProcessor struct {
	sessions  repositories.SessionRepository
	cvService CVService
}

func NewJobProcessor(sessions repositories.SessionRepository, cvService CVService) JobProcessor {
	return &jobProcessor{
		sessions:  sessions,
		cvService: cvService,
	}
}

func (p *jobProcessor) Process(ctx context.Context, job models.Job) error {
	log.Printf("🔄 Processing %s job %s for session %s\n", job.Kind, job.ID, job.SessionID)

	switch job.Kind {
	case models.JobGenerate:
		if job.Generate == nil {
			return p.abort(job, ErrInvalidJob)
		}
		return p.generate(ctx, job)
	case models.JobRefine:
		if job.Refine == nil {
			return p.abort(job, ErrInvalidJob)
		}
		return p.refine(ctx, job)
	case models.JobRate:
		if job.Rate == nil {
			return p.abort(job, ErrInvalidJob)
		}
		return p.rate(ctx, job)
	case models.JobFormat:
		if job.Format == nil {
			return p.abort(job, ErrInvalidJob)
		}
		return p.format(ctx, job)
	}
	return fmt.Errorf("unknown job kind %q", job.Kind)
}

func (p *jobProcessor) generate(ctx context.Context, job models.Job) error {
	outcome := p.cvService.GenerateAll(ctx, job.APIKey, *job.Generate)

	if len(outcome.CVs) == 0 {
		message := "No CVs were generated."
		if len(outcome.Failures) > 0 {
			message = outcome.Failures[0].Error()
		}
		if _, err := p.sessions.Apply(job.SessionID, state.GenerateFailed{Message: message}); err != nil {
			return fmt.Errorf("failed to record generation failure: %w", err)
		}
		return errors.New(message)
	}

	_, err := p.sessions.Apply(job.SessionID, state.GenerateSucceeded{
		CVs:      outcome.CVs,
		Failures: outcome.FailureMessages(),
	})
	if err != nil {
		return fmt.Errorf("failed to record generation result: %w", err)
	}
	return nil
}

func (p *jobProcessor) refine(ctx context.Context, job models.Job) error {
	cv, err := p.cvService.Refine(ctx, job.APIKey, *job.Refine)
	if err != nil {
		return p.record(job, state.RefineFailed{Message: err.Error()}, err)
	}
	return p.record(job, state.RefineSucceeded{Index: job.Refine.Index, CV: cv}, nil)
}

func (p *jobProcessor) rate(ctx context.Context, job models.Job) error {
	report, err := p.cvService.Rate(ctx, job.APIKey, *job.Rate)
	if err != nil {
		return p.record(job, state.RateFailed{Message: err.Error()}, err)
	}
	return p.record(job, state.RateSucceeded{Report: report}, nil)
}

func (p *jobProcessor) format(ctx context.Context, job models.Job) error {
	text, err := p.cvService.Format(ctx, job.APIKey, job.Format.RawInfo)
	if err != nil {
		return p.record(job, state.FormatFailed{Message: err.Error()}, err)
	}
	return p.record(job, state.FormatSucceeded{Text: text}, nil)
}

func (p *jobProcessor) record(job models.Job, action state.Action, opErr error) error {
	if _, err := p.sessions.Apply(job.SessionID, action); err != nil {
		return fmt.Errorf("failed to record %s outcome: %w", job.Kind, err)
	}
	return opErr
}

func (p *jobProcessor) abort(job models.Job, cause error) error {
	if err := AbortJob(p.sessions, job, cause); err != nil {
		return err
	}
	return cause
}

// AbortJob settles a job that was started on the session but will never run,
// for example because the queue rejected it.
func AbortJob(sessions repositories.SessionRepository, job models.Job, cause error) error {
	action, ok := failureAction(job.Kind, cause.Error())
	if !ok {
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
	if _, err := sessions.Apply(job.SessionID, action); err != nil {
		return fmt.Errorf("failed to abort %s job: %w", job.Kind, err)
	}
	return nil
}

func failureAction(kind models.JobKind, message string) (state.Action, bool) {
	switch kind {
	case models.JobGenerate:
		return state.GenerateFailed{Message: message}, true
	case models.JobRefine:
		return state.RefineFailed{Message: message}, true
	case models.JobRate:
		return state.RateFailed{Message: message}, true
	case models.JobFormat:
		return state.FormatFailed{Message: message}, true
	}
	return nil, false
}
