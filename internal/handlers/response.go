package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cv-architect/internal/repositories"
	"alfredoptarigan/cv-architect/internal/services"
	"alfredoptarigan/cv-architect/internal/state"
)

var validate = validator.New()

// ErrorHandler renders every handler error as {"error", "code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

// stateError maps session and document errors onto HTTP statuses.
func stateError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrSessionNotFound),
		errors.Is(err, services.ErrSkillPillNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, state.ErrBusy),
		errors.Is(err, state.ErrEditing),
		errors.Is(err, state.ErrNotEditing),
		errors.Is(err, state.ErrRatingPending),
		errors.Is(err, state.ErrNoActiveCV):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, state.ErrIndexRange),
		errors.Is(err, services.ErrInvalidEditedHTML):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func sessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session ID format")
	}
	return id, nil
}

// bind parses and validates a JSON body.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}
	return nil
}

// bindOptional is bind for endpoints whose body may be omitted entirely.
func bindOptional(c *fiber.Ctx, req any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return bind(c, req)
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
