package handlers

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-architect/internal/models"
	"alfredoptarigan/cv-architect/internal/repositories"
	"alfredoptarigan/cv-architect/internal/services"
	"alfredoptarigan/cv-architect/internal/state"
)

type ImportHandler struct {
	sessions    repositories.SessionRepository
	pdfParser   services.PDFParserService
	maxFileSize int64
}

func NewImportHandler(
	sessions repositories.SessionRepository,
	pdfParser services.PDFParserService,
	maxFileSize int64,
) *ImportHandler {
	return &ImportHandler{
		sessions:    sessions,
		pdfParser:   pdfParser,
		maxFileSize: maxFileSize,
	}
}

// HandleImport handles POST /sessions/:id/import with a multipart "cv" PDF.
func (h *ImportHandler) HandleImport(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	if _, err := h.sessions.FindByID(id); err != nil {
		return stateError(err)
	}

	cvFile, err := c.FormFile("cv")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No valid file uploaded. Please upload 'cv' as a PDF file.")
	}

	if cvFile.Size > h.maxFileSize {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize))
	}
	if !strings.EqualFold(filepath.Ext(cvFile.Filename), ".pdf") {
		return fiber.NewError(fiber.StatusBadRequest, "Only PDF files can be imported.")
	}

	file, err := cvFile.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("failed to read CV file: %v", err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("failed to read CV file: %v", err))
	}

	log.Printf("📄 Parsing imported CV %q (%d bytes)...\n", cvFile.Filename, len(data))
	content, err := h.pdfParser.ExtractText(data)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("failed to parse CV: %v", err))
	}

	if _, err := h.sessions.Apply(id, state.SetRawInfo{RawInfo: content.Text, Source: cvFile.Filename}); err != nil {
		return stateError(err)
	}

	return c.Status(fiber.StatusOK).JSON(models.ImportResponse{
		PageCount: content.PageCount,
		Length:    len(content.Text),
	})
}
