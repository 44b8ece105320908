package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-architect/internal/models"
	"alfredoptarigan/cv-architect/internal/repositories"
	"alfredoptarigan/cv-architect/internal/state"
)

type SessionHandler struct {
	sessions repositories.SessionRepository
}

func NewSessionHandler(sessions repositories.SessionRepository) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

// HandleCreate handles POST /sessions
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	s := h.sessions.Create()
	log.Printf("🆕 Session %s created\n", s.ID)

	return c.Status(fiber.StatusCreated).JSON(models.CreateSessionResponse{
		ID: s.ID.String(),
	})
}

// HandleGet handles GET /sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	s, err := h.sessions.FindByID(id)
	if err != nil {
		return stateError(err)
	}
	return c.JSON(s.View())
}

// HandleDelete handles DELETE /sessions/:id
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Delete(id); err != nil {
		return stateError(err)
	}
	log.Printf("🗑️  Session %s closed\n", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetCredential handles PUT /sessions/:id/credential
func (h *SessionHandler) HandleSetCredential(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req models.CredentialRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	s, err := h.sessions.Apply(id, state.SetCredential{APIKey: req.APIKey})
	if err != nil {
		return stateError(err)
	}
	return c.JSON(s.View())
}

// HandleSetRawInfo handles PUT /sessions/:id/raw-info
func (h *SessionHandler) HandleSetRawInfo(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req models.RawInfoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	s, err := h.sessions.Apply(id, state.SetRawInfo{RawInfo: req.RawInfo, Source: "editor"})
	if err != nil {
		return stateError(err)
	}
	return c.JSON(s.View())
}

// HandleSelect handles PUT /sessions/:id/active
func (h *SessionHandler) HandleSelect(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req models.SelectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	s, err := h.sessions.Apply(id, state.SelectCV{Index: *req.Index})
	if err != nil {
		return stateError(err)
	}
	return c.JSON(s.View())
}

// HandleLogs handles GET /sessions/:id/logs
func (h *SessionHandler) HandleLogs(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	s, err := h.sessions.FindByID(id)
	if err != nil {
		return stateError(err)
	}
	return c.JSON(fiber.Map{
		"logs": s.Logs,
	})
}
