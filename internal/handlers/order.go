// Package handlers contains the fiber HTTP handlers. Handlers parse and
// validate the wire form, delegate to services, and map service errors
// onto HTTP statuses.
package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"delivra/internal/models"
	"delivra/internal/services/order"
	"delivra/internal/utils/response"
)

type OrderHandler struct {
	service *order.Service
}

func NewOrderHandler(service *order.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func claimsFrom(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	return claims, ok
}

func orderIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// mapOrderError translates order service errors to HTTP responses.
func mapOrderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return response.NotFound(c, "order not found")
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, order.ErrGatedTransition):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, order.ErrForbidden), errors.Is(err, order.ErrCodeMismatch):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, order.ErrAlreadyClaimed):
		return response.Conflict(c, err.Error())
	default:
		log.Printf("order handler error: %v", err)
		return response.ServerError(c)
	}
}

// GetOrder returns one order, visible to its own parties and admins.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := orderIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	o, err := h.service.Get(c.Context(), id, claims)
	if err != nil {
		return mapOrderError(c, err)
	}
	return response.Success(c, "order retrieved", o)
}

// ListOrders returns the caller's orders.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return response.Unauthorized(c)
	}
	orders, err := h.service.List(c.Context(), claims)
	if err != nil {
		return mapOrderError(c, err)
	}
	return response.Success(c, "orders retrieved", orders)
}

type updateStatusRequest struct {
	NewStatus string `json:"new_status"`
}

// UpdateStatus applies a non-gated status transition.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := orderIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	status, valid := models.ParseOrderStatus(req.NewStatus)
	if !valid {
		return response.BadRequest(c, "unknown order status")
	}
	o, err := h.service.Transition(c.Context(), id, status, claims)
	if err != nil {
		return mapOrderError(c, err)
	}
	return response.Success(c, "order status updated", o)
}

// Accept lets a courier claim an unassigned ready order.
func (h *OrderHandler) Accept(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := orderIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	o, err := h.service.Claim(c.Context(), id, claims)
	if err != nil {
		return mapOrderError(c, err)
	}
	return response.Success(c, "order accepted", o)
}

type pickupRequest struct {
	PickupCode string `json:"pickup_code"`
}

type completeRequest struct {
	DeliveryCode string `json:"delivery_code"`
}

// Pickup confirms pickup with the restaurant's code, moving the order to
// delivering.
func (h *OrderHandler) Pickup(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := orderIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	var req pickupRequest
	if err := c.BodyParser(&req); err != nil || req.PickupCode == "" {
		return response.BadRequest(c, "pickup code required")
	}
	o, err := h.service.Pickup(c.Context(), id, req.PickupCode, claims)
	if err != nil {
		return mapOrderError(c, err)
	}
	return response.Success(c, "pickup confirmed", o)
}

// Complete confirms delivery with the client's code, moving the order to
// delivered.
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := orderIDParam(c)
	if err != nil {
		return response.BadRequest(c, "invalid order id")
	}
	var req completeRequest
	if err := c.BodyParser(&req); err != nil || req.DeliveryCode == "" {
		return response.BadRequest(c, "delivery code required")
	}
	o, err := h.service.Complete(c.Context(), id, req.DeliveryCode, claims)
	if err != nil {
		return mapOrderError(c, err)
	}
	return response.Success(c, "delivery completed", o)
}
