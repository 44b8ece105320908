package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cv-architect/internal/models"
	"alfredoptarigan/cv-architect/internal/repositories"
	"alfredoptarigan/cv-architect/internal/services"
	"alfredoptarigan/cv-architect/internal/state"
)

// OperationHandler starts the asynchronous model operations. Each handler
// applies the *Started transition first so single-flight rules are enforced
// before anything is queued; outcomes land in the session snapshot.
type OperationHandler struct {
	sessions      repositories.SessionRepository
	worker        services.Worker
	renderEnabled bool
}

func NewOperationHandler(
	sessions repositories.SessionRepository,
	worker services.Worker,
	renderEnabled bool,
) *OperationHandler {
	return &OperationHandler{
		sessions:      sessions,
		worker:        worker,
		renderEnabled: renderEnabled,
	}
}

// HandleGenerate handles POST /sessions/:id/generate
func (h *OperationHandler) HandleGenerate(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req models.GenerateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	current, err := h.credentialed(id)
	if err != nil {
		return err
	}

	rawInfo := strings.TrimSpace(req.RawInfo)
	if rawInfo == "" {
		rawInfo = strings.TrimSpace(current.RawInfo)
	}
	if rawInfo == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Please provide some information to generate a CV.")
	}

	styles := make([]models.CvStyle, 0, len(req.Styles))
	for _, name := range req.Styles {
		style, err := models.ParseStyle(name)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		styles = append(styles, style)
	}
	if len(styles) == 0 {
		styles = models.AllStyles
	}

	s, err := h.sessions.Apply(id, state.GenerateStarted{Styles: styles, RawInfo: req.RawInfo})
	if err != nil {
		return stateError(err)
	}

	return h.enqueue(c, newJob(s, models.JobGenerate, func(job *models.Job) {
		job.Generate = &models.GenerateInput{
			RawInfo:    rawInfo,
			ImageURL:   req.ImageURL,
			FormatType: models.CvFormatType(req.FormatType),
			Theme:      req.Theme,
			Styles:     styles,
		}
	}))
}

// HandleRefine handles POST /sessions/:id/refine
func (h *OperationHandler) HandleRefine(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req models.RefineRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if _, err := h.credentialed(id); err != nil {
		return err
	}

	s, err := h.sessions.Apply(id, state.RefineStarted{EditRequest: req.EditRequest})
	if err != nil {
		return stateError(err)
	}

	// Captured after RefineStarted so it is the latest committed HTML.
	cv, _ := s.ActiveCV()
	return h.enqueue(c, newJob(s, models.JobRefine, func(job *models.Job) {
		job.Refine = &models.RefineInput{
			Index:       *s.ActiveIndex,
			CurrentHTML: cv.HTML,
			EditRequest: req.EditRequest,
			Theme:       req.Theme,
			ImageURL:    req.ImageURL,
		}
	}))
}

// HandleRate handles POST /sessions/:id/rate
func (h *OperationHandler) HandleRate(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req models.RateRequest
	if err := bindOptional(c, &req); err != nil {
		return err
	}

	if _, err := h.credentialed(id); err != nil {
		return err
	}

	if req.Image != "" {
		if _, err := services.DecodePNGDataURI(req.Image); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	} else if !h.renderEnabled {
		return fiber.NewError(fiber.StatusBadRequest, "An image of the CV is required for rating.")
	}

	s, err := h.sessions.Apply(id, state.RateStarted{})
	if err != nil {
		return stateError(err)
	}

	cv, _ := s.ActiveCV()
	return h.enqueue(c, newJob(s, models.JobRate, func(job *models.Job) {
		job.Rate = &models.RateInput{HTML: cv.HTML, Image: req.Image}
	}))
}

// HandleFormat handles POST /sessions/:id/format
func (h *OperationHandler) HandleFormat(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req models.FormatRequest
	if err := bindOptional(c, &req); err != nil {
		return err
	}

	current, err := h.credentialed(id)
	if err != nil {
		return err
	}

	rawInfo := req.RawInfo
	if strings.TrimSpace(rawInfo) == "" {
		rawInfo = current.RawInfo
	}
	if strings.TrimSpace(rawInfo) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Please enter some information to format.")
	}

	s, err := h.sessions.Apply(id, state.FormatStarted{})
	if err != nil {
		return stateError(err)
	}

	return h.enqueue(c, newJob(s, models.JobFormat, func(job *models.Job) {
		job.Format = &models.FormatInput{RawInfo: rawInfo}
	}))
}

// credentialed loads the session and rejects it before any state change when
// no API key has been set.
func (h *OperationHandler) credentialed(id uuid.UUID) (state.Session, error) {
	s, err := h.sessions.FindByID(id)
	if err != nil {
		return state.Session{}, stateError(err)
	}
	if !s.HasCredential() {
		return state.Session{}, fiber.NewError(fiber.StatusBadRequest, services.ErrMissingCredential.Error())
	}
	return s, nil
}

func (h *OperationHandler) enqueue(c *fiber.Ctx, job models.Job) error {
	if err := h.worker.EnqueueJob(job); err != nil {
		log.Printf("❌ Failed to enqueue %s job for session %s: %v\n", job.Kind, job.SessionID, err)
		if abortErr := services.AbortJob(h.sessions, job, err); abortErr != nil {
			log.Printf("⚠️  %v\n", abortErr)
		}
		status := fiber.StatusServiceUnavailable
		if errors.Is(err, services.ErrQueueFull) {
			status = fiber.StatusTooManyRequests
		}
		return fiber.NewError(status, err.Error())
	}

	return c.Status(fiber.StatusAccepted).JSON(models.JobAcceptedResponse{
		JobID:  job.ID.String(),
		Kind:   string(job.Kind),
		Status: "queued",
	})
}

func newJob(s state.Session, kind models.JobKind, fill func(*models.Job)) models.Job {
	job := models.Job{
		ID:        uuid.New(),
		SessionID: s.ID,
		Kind:      kind,
		APIKey:    s.Credential,
		CreatedAt: time.Now(),
	}
	fill(&job)
	return job
}
