package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-architect/internal/repositories"
	"alfredoptarigan/cv-architect/internal/services"
	"alfredoptarigan/cv-architect/internal/state"
)

type ExportHandler struct {
	sessions repositories.SessionRepository
	renderer services.Renderer
}

// NewExportHandler creates the handler. renderer may be nil when rendering
// is disabled; export then answers 503.
func NewExportHandler(sessions repositories.SessionRepository, renderer services.Renderer) *ExportHandler {
	return &ExportHandler{
		sessions: sessions,
		renderer: renderer,
	}
}

// HandleExport handles GET /sessions/:id/export
func (h *ExportHandler) HandleExport(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	if h.renderer == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "PDF export is disabled on this server.")
	}

	s, err := h.sessions.FindByID(id)
	if err != nil {
		return stateError(err)
	}
	cv, ok := s.ActiveCV()
	if !ok {
		return stateError(state.ErrNoActiveCV)
	}

	pdf, err := h.renderer.RenderPDF(c.UserContext(), cv.HTML)
	if err != nil {
		log.Printf("❌ Export failed for session %s: %v\n", id, err)
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("failed to export CV: %v", err))
	}

	c.Attachment(services.ExportFileName(cv.Name))
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}
