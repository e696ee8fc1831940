package handlers

import (
	"errors"

	"josenian-borrowease/internal/adapters/http/middleware"
	"josenian-borrowease/internal/core/domain"
	"josenian-borrowease/internal/core/services"
	"josenian-borrowease/internal/pkg/pagination"
	"josenian-borrowease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ItemHandler handles item registry endpoints
type ItemHandler struct {
	itemService *services.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// mapDomainError translates the service error taxonomy into HTTP responses.
// Only ErrStoreUnavailable signals a retryable condition.
func mapDomainError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		return response.ServiceUnavailable(c, "Store temporarily unavailable, please retry")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// ============================================================
// POST /api/v1/items — add item to catalog
// ============================================================
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var input services.CreateItemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.itemService.Create(c.Context(), &input, identity)
	if err != nil {
		return mapDomainError(c, err, "Failed to create item")
	}
	return response.Created(c, "Item created", item)
}

// ============================================================
// GET /api/v1/items — list catalog (paginated, filterable)
// ============================================================
func (h *ItemHandler) List(c *fiber.Ctx) error {
	if dept := c.Query("department"); dept != "" {
		items, err := h.itemService.ListByDepartment(c.Context(), dept)
		if err != nil {
			return mapDomainError(c, err, "Failed to list items")
		}
		return response.Success(c, "Items retrieved", items)
	}
	if status := c.Query("status"); status != "" {
		items, err := h.itemService.ListByStatus(c.Context(), status)
		if err != nil {
			return mapDomainError(c, err, "Failed to list items")
		}
		return response.Success(c, "Items retrieved", items)
	}

	params := pagination.GetParams(c)
	items, total, err := h.itemService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return mapDomainError(c, err, "Failed to list items")
	}
	return response.Success(c, "Items retrieved", pagination.NewResponse(items, params, total))
}

// ============================================================
// GET /api/v1/items/search?q= — search catalog
// ============================================================
func (h *ItemHandler) Search(c *fiber.Ctx) error {
	term := c.Query("q")
	items, err := h.itemService.Search(c.Context(), term)
	if err != nil {
		return mapDomainError(c, err, "Failed to search items")
	}
	return response.Success(c, "Items retrieved", items)
}

// ============================================================
// GET /api/v1/items/:id — item detail
// ============================================================
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.itemService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err, "Failed to get item")
	}
	return response.Success(c, "Item retrieved", item)
}

// ============================================================
// DELETE /api/v1/items/:id — remove item (guarded)
// ============================================================
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.itemService.Delete(c.Context(), c.Params("id")); err != nil {
		return mapDomainError(c, err, "Failed to delete item")
	}
	return response.Success(c, "Item deleted", nil)
}
