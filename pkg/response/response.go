package response

import "github.com/gofiber/fiber/v2"

// Machine-readable failure reasons
const (
	ReasonPromptRequired = "prompt required"
	ReasonInvalidBody    = "invalid body"
	ReasonValidation     = "validation failed"
	ReasonUnauthorized   = "unauthorized"
	ReasonNotFound       = "not found"
	ReasonNotFinished    = "not finished"
	ReasonRateLimited    = "rate limited"
	ReasonServiceError   = "service error"
)

// Envelope is the body of every /api response
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func Fail(c *fiber.Ctx, status int, message, reason string, details interface{}) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
		Error:   reason,
		Details: details,
	})
}

func ValidationError(c *fiber.Ctx, message, reason string, details interface{}) error {
	return Fail(c, fiber.StatusBadRequest, message, reason, details)
}

// PromptRequired is the 400 answer for a missing or blank prompt.
func PromptRequired(c *fiber.Ctx) error {
	return ValidationError(c, "Prompt is required", ReasonPromptRequired, nil)
}

func InvalidBody(c *fiber.Ctx) error {
	return ValidationError(c, "Invalid request body", ReasonInvalidBody, nil)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusUnauthorized, message, ReasonUnauthorized, nil)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, message, ReasonNotFound, nil)
}

func Conflict(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusConflict, message, ReasonNotFinished, nil)
}

func RateLimited(c *fiber.Ctx) error {
	return Fail(c, fiber.StatusTooManyRequests, "Rate limit exceeded", ReasonRateLimited, nil)
}

// UpstreamError reports a failed call to the text-generation API. The error
// detail is surfaced to the caller as-is.
func UpstreamError(c *fiber.Ctx, message, detail string) error {
	return Fail(c, fiber.StatusInternalServerError, message, detail, nil)
}

func ServiceError(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, message, ReasonServiceError, nil)
}

func OK(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func Accepted(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(fiber.StatusAccepted).JSON(Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}
