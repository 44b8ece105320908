package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-architect/internal/models"
	"alfredoptarigan/cv-architect/internal/repositories"
	"alfredoptarigan/cv-architect/internal/state"
)

func seededSession(t *testing.T, repo repositories.SessionRepository, html string) state.Session {
	t.Helper()
	s := repo.Create()
	_, err := repo.Apply(s.ID, state.GenerateStarted{Styles: []models.CvStyle{models.StyleModern}})
	require.NoError(t, err)
	s, err = repo.Apply(s.ID, state.GenerateSucceeded{CVs: []models.GeneratedCv{{
		Name:           "Jane Doe",
		HTML:           html,
		JobSuggestions: []string{"Engineer"},
		Style:          models.StyleModern,
	}}})
	require.NoError(t, err)
	return s
}

// startRefine mirrors the HTTP flow: mark the session, then capture the HTML
// the job will embed.
func startRefine(t *testing.T, repo repositories.SessionRepository, id uuid.UUID, request string) models.Job {
	t.Helper()
	s, err := repo.Apply(id, state.RefineStarted{EditRequest: request})
	require.NoError(t, err)
	cv, ok := s.ActiveCV()
	require.True(t, ok)
	return models.Job{
		ID:        uuid.New(),
		SessionID: id,
		Kind:      models.JobRefine,
		APIKey:    "key",
		Refine: &models.RefineInput{
			Index:       *s.ActiveIndex,
			CurrentHTML: cv.HTML,
			EditRequest: request,
		},
	}
}

func TestProcess_SequentialRefinesSeeLatestHTML(t *testing.T) {
	var n int32
	cvService, gen := newScriptedCVService(func(string) (string, error) {
		v := atomic.AddInt32(&n, 1)
		return cvJSON("Jane Doe", fmt.Sprintf(`<div class="refined-%d"></div>`, v), "Modern", "Engineer"), nil
	}, nil)

	repo := repositories.NewSessionRepository()
	s := seededSession(t, repo, `<div class="original"></div>`)
	processor := NewJobProcessor(repo, cvService)

	require.NoError(t, processor.Process(context.Background(), startRefine(t, repo, s.ID, "first edit")))
	require.NoError(t, processor.Process(context.Background(), startRefine(t, repo, s.ID, "second edit")))

	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], `<div class="original"></div>`)
	assert.Contains(t, gen.prompts[1], `<div class="refined-1"></div>`)
	assert.NotContains(t, gen.prompts[1], `<div class="original"></div>`)

	final, err := repo.FindByID(s.ID)
	require.NoError(t, err)
	cv, _ := final.ActiveCV()
	assert.Equal(t, `<div class="refined-2"></div>`, cv.HTML)
	assert.Equal(t, state.PhaseReady, final.Phase)
}

func TestProcess_GenerateAllFailuresShowFirstMessage(t *testing.T) {
	cvService, _ := newScriptedCVService(func(prompt string) (string, error) {
		return "", errors.New("quota exceeded for " + styleOf(prompt))
	}, nil)

	repo := repositories.NewSessionRepository()
	s := repo.Create()
	_, err := repo.Apply(s.ID, state.GenerateStarted{Styles: []models.CvStyle{models.StyleClassic, models.StyleModern}})
	require.NoError(t, err)

	err = NewJobProcessor(repo, cvService).Process(context.Background(), models.Job{
		ID:        uuid.New(),
		SessionID: s.ID,
		Kind:      models.JobGenerate,
		APIKey:    "key",
		Generate: &models.GenerateInput{
			RawInfo: "Jane",
			Styles:  []models.CvStyle{models.StyleClassic, models.StyleModern},
		},
	})
	require.Error(t, err)

	final, _ := repo.FindByID(s.ID)
	assert.Equal(t, state.PhaseEmpty, final.Phase)
	assert.Equal(t, "Failed to generate CV (Classic): quota exceeded for Classic", final.Error)
	assert.Empty(t, final.CVs)
}

func TestProcess_GeneratePartialSuccess(t *testing.T) {
	cvService, _ := newScriptedCVService(func(prompt string) (string, error) {
		style := styleOf(prompt)
		if style == "Modern" {
			return "", errors.New("boom")
		}
		return cvJSON("Jane Doe", "<div></div>", style, "Engineer"), nil
	}, nil)

	repo := repositories.NewSessionRepository()
	s := repo.Create()
	_, err := repo.Apply(s.ID, state.GenerateStarted{Styles: models.AllStyles})
	require.NoError(t, err)

	err = NewJobProcessor(repo, cvService).Process(context.Background(), models.Job{
		ID: uuid.New(), SessionID: s.ID, Kind: models.JobGenerate, APIKey: "key",
		Generate: &models.GenerateInput{RawInfo: "Jane"},
	})
	require.NoError(t, err)

	final, _ := repo.FindByID(s.ID)
	require.Len(t, final.CVs, 2)
	assert.Equal(t, models.StyleClassic, final.CVs[0].Style)
	require.NotNil(t, final.ActiveIndex)
	assert.Equal(t, 0, *final.ActiveIndex)

	var errorLogs []string
	for _, entry := range final.Logs {
		if entry.Kind == models.LogError {
			errorLogs = append(errorLogs, entry.Message)
		}
	}
	assert.Equal(t, []string{"Failed to generate CV (Modern): boom"}, errorLogs)
}

func TestProcess_RateAndFormatOutcomes(t *testing.T) {
	cvService, _ := newScriptedCVService(func(prompt string) (string, error) {
		if strings.Contains(prompt, "expert recruiter") {
			return `{"score":9,"pros":["Clean"],"cons":[],"overallFeedback":"Great."}`, nil
		}
		return "Name: Jane Doe", nil
	}, nil)

	repo := repositories.NewSessionRepository()
	s := seededSession(t, repo, "<div></div>")
	processor := NewJobProcessor(repo, cvService)

	_, err := repo.Apply(s.ID, state.RateStarted{})
	require.NoError(t, err)
	require.NoError(t, processor.Process(context.Background(), models.Job{
		ID: uuid.New(), SessionID: s.ID, Kind: models.JobRate, APIKey: "key",
		Rate: &models.RateInput{HTML: "<div></div>", Image: EncodePNGDataURI([]byte("png"))},
	}))

	_, err = repo.Apply(s.ID, state.FormatStarted{})
	require.NoError(t, err)
	require.NoError(t, processor.Process(context.Background(), models.Job{
		ID: uuid.New(), SessionID: s.ID, Kind: models.JobFormat, APIKey: "key",
		Format: &models.FormatInput{RawInfo: "jane doe"},
	}))

	final, _ := repo.FindByID(s.ID)
	require.NotNil(t, final.Report)
	assert.Equal(t, 9.0, final.Report.Score)
	assert.False(t, final.Rating)
	assert.False(t, final.Formatting)
	assert.Equal(t, "Name: Jane Doe", final.RawInfo)
}

func TestProcess_RateBadImageSettlesSession(t *testing.T) {
	cvService, gen := newScriptedCVService(func(string) (string, error) { return "{}", nil }, nil)
	repo := repositories.NewSessionRepository()
	s := seededSession(t, repo, "<div></div>")

	_, err := repo.Apply(s.ID, state.RateStarted{})
	require.NoError(t, err)

	err = NewJobProcessor(repo, cvService).Process(context.Background(), models.Job{
		ID: uuid.New(), SessionID: s.ID, Kind: models.JobRate, APIKey: "key",
		Rate: &models.RateInput{HTML: "<div></div>", Image: "not-a-data-uri"},
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidImageFormat, KindOf(err))
	assert.Equal(t, 0, gen.calls())

	final, _ := repo.FindByID(s.ID)
	assert.False(t, final.Rating)
	assert.Nil(t, final.Report)
}

func TestAbortJob(t *testing.T) {
	repo := repositories.NewSessionRepository()
	s := repo.Create()
	_, err := repo.Apply(s.ID, state.FormatStarted{})
	require.NoError(t, err)

	job := models.Job{ID: uuid.New(), SessionID: s.ID, Kind: models.JobFormat}
	require.NoError(t, AbortJob(repo, job, ErrQueueFull))

	final, _ := repo.FindByID(s.ID)
	assert.False(t, final.Formatting)
}

type countingProcessor struct {
	processed chan models.Job
}

func (c *countingProcessor) Process(_ context.Context, job models.Job) error {
	c.processed <- job
	return nil
}

func TestWorker_ProcessesEnqueuedJobs(t *testing.T) {
	processor := &countingProcessor{processed: make(chan models.Job, 4)}
	w := NewWorker(processor, 2, 4)
	w.Start(context.Background())
	defer w.Stop()

	job := models.Job{ID: uuid.New(), Kind: models.JobFormat}
	require.NoError(t, w.EnqueueJob(job))

	select {
	case got := <-processor.processed:
		assert.Equal(t, job.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestWorker_QueueFullAndStopped(t *testing.T) {
	w := NewWorker(&countingProcessor{processed: make(chan models.Job, 1)}, 1, 1)

	// Not started, so nothing drains the queue.
	require.NoError(t, w.EnqueueJob(models.Job{ID: uuid.New()}))
	assert.ErrorIs(t, w.EnqueueJob(models.Job{ID: uuid.New()}), ErrQueueFull)

	w.Stop()
	w.Stop()
	assert.ErrorIs(t, w.EnqueueJob(models.Job{ID: uuid.New()}), ErrWorkerStopped)
}
