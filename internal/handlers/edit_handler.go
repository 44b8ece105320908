package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-architect/internal/models"
	"alfredoptarigan/cv-architect/internal/repositories"
	"alfredoptarigan/cv-architect/internal/services"
	"alfredoptarigan/cv-architect/internal/state"
)

// EditHandler drives direct editing of the active CV. All changes go to a
// draft until they are committed.
type EditHandler struct {
	sessions repositories.SessionRepository
}

func NewEditHandler(sessions repositories.SessionRepository) *EditHandler {
	return &EditHandler{
		sessions: sessions,
	}
}

// HandleBegin handles POST /sessions/:id/edit
func (h *EditHandler) HandleBegin(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	s, err := h.sessions.Apply(id, state.EditStarted{})
	if err != nil {
		return stateError(err)
	}
	return c.JSON(h.draftView(s))
}

// HandleUpdateDraft handles PATCH /sessions/:id/edit
func (h *EditHandler) HandleUpdateDraft(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req models.DraftRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	s, err := h.sessions.Apply(id, state.EditDraftUpdated{HTML: req.HTML})
	if err != nil {
		return stateError(err)
	}
	return c.JSON(h.draftView(s))
}

// HandleDeleteSkill handles DELETE /sessions/:id/edit/skills/:index
func (h *EditHandler) HandleDeleteSkill(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid skill index")
	}

	s, err := h.sessions.FindByID(id)
	if err != nil {
		return stateError(err)
	}
	if !s.Editing {
		return stateError(state.ErrNotEditing)
	}

	draft, err := services.RemoveSkillPill(s.EditDraft, index)
	if err != nil {
		return stateError(err)
	}

	s, err = h.sessions.Apply(id, state.EditDraftUpdated{HTML: draft})
	if err != nil {
		return stateError(err)
	}
	return c.JSON(h.draftView(s))
}

// HandleCommit handles PUT /sessions/:id/edit. An empty body commits the
// current draft.
func (h *EditHandler) HandleCommit(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req models.CommitEditRequest
	if err := bindOptional(c, &req); err != nil {
		return err
	}

	html := req.HTML
	if html == "" {
		s, err := h.sessions.FindByID(id)
		if err != nil {
			return stateError(err)
		}
		if !s.Editing {
			return stateError(state.ErrNotEditing)
		}
		html = s.EditDraft
	}

	normalized, err := services.NormalizeEditedHTML(html)
	if err != nil {
		return stateError(err)
	}

	s, err := h.sessions.Apply(id, state.EditCommitted{HTML: normalized})
	if err != nil {
		return stateError(err)
	}
	return c.JSON(s.View())
}

// HandleCancel handles DELETE /sessions/:id/edit
func (h *EditHandler) HandleCancel(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	s, err := h.sessions.Apply(id, state.EditCancelled{})
	if err != nil {
		return stateError(err)
	}
	return c.JSON(s.View())
}

func (h *EditHandler) draftView(s state.Session) fiber.Map {
	pills, err := services.SkillPills(s.EditDraft)
	if err != nil {
		pills = nil
	}
	return fiber.Map{
		"editing":     s.Editing,
		"draft":       s.EditDraft,
		"skill_pills": pills,
	}
}
