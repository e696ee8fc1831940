package handlers

import (
	"time"

	"josenian-borrowease/internal/adapters/http/middleware"
	"josenian-borrowease/internal/core/services"
	"josenian-borrowease/internal/pkg/pagination"
	"josenian-borrowease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles borrow request endpoints
type RequestHandler struct {
	requestService   *services.RequestService
	lifecycleService *services.LifecycleService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *services.RequestService, lifecycleService *services.LifecycleService) *RequestHandler {
	return &RequestHandler{
		requestService:   requestService,
		lifecycleService: lifecycleService,
	}
}

// submitRequestBody is the wire form of a submission; dates arrive as
// YYYY-MM-DD strings.
type submitRequestBody struct {
	ItemID             string `json:"item_id"`
	RequesterName      string `json:"requester_name"`
	RequesterEmail     string `json:"requester_email"`
	RequesterStudentID string `json:"requester_student_id"`
	EventDate          string `json:"event_date"`
	ReturnDate         string `json:"return_date"`
	EventName          string `json:"event_name"`
	Reason             string `json:"reason"`
}

// decisionBody carries approver/rejecter notes
type decisionBody struct {
	Notes string `json:"notes"`
}

// ============================================================
// POST /api/v1/requests — submit borrow request
// ============================================================
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	var body submitRequestBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	eventDate, err := time.Parse("2006-01-02", body.EventDate)
	if err != nil {
		return response.BadRequest(c, "event_date must be in YYYY-MM-DD format")
	}
	returnDate, err := time.Parse("2006-01-02", body.ReturnDate)
	if err != nil {
		return response.BadRequest(c, "return_date must be in YYYY-MM-DD format")
	}

	input := &services.SubmitRequestInput{
		ItemID:             body.ItemID,
		RequesterName:      body.RequesterName,
		RequesterEmail:     body.RequesterEmail,
		RequesterStudentID: body.RequesterStudentID,
		EventDate:          eventDate,
		ReturnDate:         returnDate,
		EventName:          body.EventName,
		Reason:             body.Reason,
	}

	request, err := h.requestService.Submit(c.Context(), input)
	if err != nil {
		return mapDomainError(c, err, "Failed to submit request")
	}
	return response.Created(c, "Borrow request submitted", request)
}

// ============================================================
// GET /api/v1/requests — list ledger (paginated, filterable)
// ============================================================
func (h *RequestHandler) List(c *fiber.Ctx) error {
	if status := c.Query("status"); status != "" {
		requests, err := h.requestService.ListByStatus(c.Context(), status)
		if err != nil {
			return mapDomainError(c, err, "Failed to list requests")
		}
		return response.Success(c, "Requests retrieved", requests)
	}
	if requester := c.Query("requester"); requester != "" {
		requests, err := h.requestService.ListByRequester(c.Context(), requester)
		if err != nil {
			return mapDomainError(c, err, "Failed to list requests")
		}
		return response.Success(c, "Requests retrieved", requests)
	}

	params := pagination.GetParams(c)
	requests, total, err := h.requestService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return mapDomainError(c, err, "Failed to list requests")
	}
	return response.Success(c, "Requests retrieved", pagination.NewResponse(requests, params, total))
}

// ============================================================
// GET /api/v1/requests/:id — request detail
// ============================================================
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	request, err := h.requestService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err, "Failed to get request")
	}
	return response.Success(c, "Request retrieved", request)
}

// ============================================================
// PUT /api/v1/requests/:id/approve — approve and hand out item
// ============================================================
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var body decisionBody
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	request, err := h.lifecycleService.Approve(c.Context(), c.Params("id"), identity, body.Notes)
	if err != nil {
		return mapDomainError(c, err, "Failed to approve request")
	}
	return response.Success(c, "Request approved", request)
}

// ============================================================
// PUT /api/v1/requests/:id/reject — reject with mandatory notes
// ============================================================
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var body decisionBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	request, err := h.lifecycleService.Reject(c.Context(), c.Params("id"), identity, body.Notes)
	if err != nil {
		return mapDomainError(c, err, "Failed to reject request")
	}
	return response.Success(c, "Request rejected", request)
}

// ============================================================
// PUT /api/v1/requests/:id/return — close out and free item
// ============================================================
func (h *RequestHandler) Return(c *fiber.Ctx) error {
	request, err := h.lifecycleService.MarkReturned(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err, "Failed to mark request returned")
	}
	return response.Success(c, "Request returned", request)
}

// ============================================================
// PUT /api/v1/requests/:id/cancel — requester withdraws
// ============================================================
func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	request, err := h.lifecycleService.Cancel(c.Context(), c.Params("id"), identity)
	if err != nil {
		return mapDomainError(c, err, "Failed to cancel request")
	}
	return response.Success(c, "Request cancelled", request)
}
