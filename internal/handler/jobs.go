package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/musicmixer/api/internal/model"
	"github.com/musicmixer/api/internal/service"
	"github.com/musicmixer/api/pkg/response"
)

type JobHandler struct {
	service   *service.JobService
	validator *validator.Validate
}

func NewJobHandler(svc *service.JobService, v *validator.Validate) *JobHandler {
	return &JobHandler{
		service:   svc,
		validator: v,
	}
}

// Start handles POST /api/jobs
// @Summary      Start generation job
// @Description  Queue an asynchronous audio or lyrics generation
// @Tags         Jobs
// @Accept       json
// @Produce      json
// @Param        request body model.JobRequest true "Job request"
// @Success      202 {object} response.Envelope
// @Failure      400 {object} response.Envelope
// @Failure      500 {object} response.Envelope
// @Router       /api/jobs [post]
func (h *JobHandler) Start(c *fiber.Ctx) error {
	var req model.JobRequest
	if ok, err := bindPrompt(c, h.validator, &req); !ok {
		return err
	}

	result, err := h.service.Start(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrPromptRequired) {
			return response.PromptRequired(c)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, result, "Job queued")
}

// Status handles GET /api/jobs/:jobId
// @Summary      Get job status
// @Tags         Jobs
// @Produce      json
// @Param        jobId path string true "Job ID"
// @Success      200 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Router       /api/jobs/{jobId} [get]
func (h *JobHandler) Status(c *fiber.Ctx) error {
	job, err := h.service.GetStatus(c.UserContext(), c.Params("jobId"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, job, "Job status retrieved successfully")
}

// Result handles GET /api/jobs/:jobId/result
// @Summary      Get job result
// @Tags         Jobs
// @Produce      json
// @Param        jobId path string true "Job ID"
// @Success      200 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Failure      409 {object} response.Envelope
// @Router       /api/jobs/{jobId}/result [get]
func (h *JobHandler) Result(c *fiber.Ctx) error {
	result, err := h.service.GetResult(c.UserContext(), c.Params("jobId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return response.NotFound(c, "Job not found")
		case errors.Is(err, service.ErrJobNotFinished):
			return response.Conflict(c, "Job not finished yet")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result, "Job result retrieved successfully")
}
