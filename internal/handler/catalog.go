package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/musicmixer/api/internal/service"
	"github.com/musicmixer/api/pkg/response"
)

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// List handles GET /api/catalog
// @Summary      Search the catalog
// @Tags         Catalog
// @Produce      json
// @Param        q query string false "Case-insensitive match on title, creator or tag"
// @Success      200 {object} response.Envelope
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	return response.OK(c, h.service.Search(c.Query("q")), "Catalog retrieved successfully")
}

// Get handles GET /api/catalog/:id
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.NotFound(c, "Catalog entry not found")
	}

	entry, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return response.NotFound(c, "Catalog entry not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, entry, "Catalog entry retrieved successfully")
}
