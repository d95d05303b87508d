package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/musicmixer/api/internal/model"
	"github.com/musicmixer/api/internal/service"
	"github.com/musicmixer/api/pkg/response"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 50
)

type GenerateHandler struct {
	service   *service.GenerationService
	validator *validator.Validate
}

func NewGenerateHandler(svc *service.GenerationService, v *validator.Validate) *GenerateHandler {
	return &GenerateHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /api/generate
// @Summary      Generate music
// @Description  Returns a sample audio track for the prompt after a fixed delay
// @Tags         Generation
// @Accept       json
// @Produce      json
// @Param        request body model.GenerationRequest true "Generation request"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Envelope
// @Router       /api/generate [post]
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req model.GenerationRequest
	if ok, err := bindPrompt(c, h.validator, &req); !ok {
		return err
	}

	result, err := h.service.Generate(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, "Failed to generate music", err)
	}

	return response.OK(c, result, "Music generated successfully")
}

// GenerateLyrics handles POST /api/generate-lyrics
// @Summary      Generate lyrics
// @Description  Forwards the prompt to the chat-completion API and returns the lyrics
// @Tags         Generation
// @Accept       json
// @Produce      json
// @Param        request body model.LyricsRequest true "Lyrics request"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Envelope
// @Failure      500 {object} response.Envelope
// @Router       /api/generate-lyrics [post]
func (h *GenerateHandler) GenerateLyrics(c *fiber.Ctx) error {
	var req model.LyricsRequest
	if ok, err := bindPrompt(c, h.validator, &req); !ok {
		return err
	}

	result, err := h.service.GenerateLyrics(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, "Failed to generate lyrics", err)
	}

	return response.OK(c, result, "Lyrics generated successfully")
}

// GetGeneration handles GET /api/generations/:id
func (h *GenerateHandler) GetGeneration(c *fiber.Ctx) error {
	result, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return response.NotFound(c, "Generation not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result, "Generation retrieved successfully")
}

// ListGenerations handles GET /api/generations
func (h *GenerateHandler) ListGenerations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	results, err := h.service.Recent(c.UserContext(), limit)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, results, "Generations retrieved successfully")
}

func (h *GenerateHandler) fail(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, service.ErrPromptRequired):
		return response.PromptRequired(c)
	case errors.Is(err, service.ErrUpstream):
		return response.UpstreamError(c, message, err.Error())
	default:
		return response.ServiceError(c, err.Error())
	}
}

// bindPrompt decodes and validates a request carrying a prompt. When it
// returns false the 400 response has been written and the handler should
// return err as is.
func bindPrompt(c *fiber.Ctx, v *validator.Validate, req interface{}) (bool, error) {
	// An empty body carries no prompt at all
	if len(c.Body()) == 0 {
		return false, response.PromptRequired(c)
	}

	if err := c.BodyParser(req); err != nil {
		return false, response.InvalidBody(c)
	}

	if err := v.Struct(req); err != nil {
		if promptFailed(err) {
			return false, response.PromptRequired(c)
		}
		return false, response.ValidationError(c, "Validation failed", response.ReasonValidation, formatValidationErrors(err))
	}

	return true, nil
}
