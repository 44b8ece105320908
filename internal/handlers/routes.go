package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-architect/internal/models"
	"alfredoptarigan/cv-architect/internal/services"
)

type Handlers struct {
	Session   *SessionHandler
	Operation *OperationHandler
	Import    *ImportHandler
	Edit      *EditHandler
	Export    *ExportHandler
}

// HandleThemes handles GET /themes
func HandleThemes(c *fiber.Ctx) error {
	themes := services.Themes()
	out := make([]models.ThemeResponse, 0, len(themes))
	for _, t := range themes {
		out = append(out, models.ThemeResponse{Name: t.Name, Main: t.Main, Gradient: t.Gradient})
	}
	return c.JSON(out)
}

// Register mounts every route under api.
func (h *Handlers) Register(api fiber.Router) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})
	api.Get("/themes", HandleThemes)

	sessions := api.Group("/sessions")
	sessions.Post("/", h.Session.HandleCreate)
	sessions.Get("/:id", h.Session.HandleGet)
	sessions.Delete("/:id", h.Session.HandleDelete)
	sessions.Put("/:id/credential", h.Session.HandleSetCredential)
	sessions.Put("/:id/raw-info", h.Session.HandleSetRawInfo)
	sessions.Put("/:id/active", h.Session.HandleSelect)
	sessions.Get("/:id/logs", h.Session.HandleLogs)

	sessions.Post("/:id/generate", h.Operation.HandleGenerate)
	sessions.Post("/:id/refine", h.Operation.HandleRefine)
	sessions.Post("/:id/rate", h.Operation.HandleRate)
	sessions.Post("/:id/format", h.Operation.HandleFormat)

	sessions.Post("/:id/import", h.Import.HandleImport)

	sessions.Post("/:id/edit", h.Edit.HandleBegin)
	sessions.Patch("/:id/edit", h.Edit.HandleUpdateDraft)
	sessions.Put("/:id/edit", h.Edit.HandleCommit)
	sessions.Delete("/:id/edit", h.Edit.HandleCancel)
	sessions.Delete("/:id/edit/skills/:index", h.Edit.HandleDeleteSkill)

	sessions.Get("/:id/export", h.Export.HandleExport)
}
