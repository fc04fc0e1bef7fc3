package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"delivra/internal/models"
	"delivra/internal/services/payout"
	"delivra/internal/utils/response"
)

type PayoutHandler struct {
	service *payout.Service
}

func NewPayoutHandler(service *payout.Service) *PayoutHandler {
	return &PayoutHandler{service: service}
}

type processRequest struct {
	PartnerType string `json:"partner_type"`
	CycleType   string `json:"cycle_type"`
}

// Process generates a settlement batch for one partner role and cycle.
func (h *PayoutHandler) Process(c *fiber.Ctx) error {
	var req processRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	role, ok := models.ParsePartnerRole(req.PartnerType)
	if !ok {
		return response.BadRequest(c, "unknown partner type")
	}
	cycle, ok := models.ParseSettlementCycle(req.CycleType)
	if !ok {
		return response.BadRequest(c, "unknown cycle type")
	}

	summary, err := h.service.GenerateBatch(c.Context(), role, cycle)
	if err != nil {
		if errors.Is(err, payout.ErrInvalidRole) || errors.Is(err, payout.ErrInvalidCycle) {
			return response.BadRequest(c, err.Error())
		}
		log.Printf("payout batch generation failed: %v", err)
		return response.ServerError(c)
	}
	return response.Success(c, "payout batch generated", summary)
}

// Disburse issues transfers for all pending payouts.
func (h *PayoutHandler) Disburse(c *fiber.Ctx) error {
	result, err := h.service.Disburse(c.Context())
	if err != nil {
		log.Printf("payout disbursement failed: %v", err)
		return response.ServerError(c)
	}
	return response.Success(c, "disbursement finished", result)
}

// List returns all payouts for the admin view.
func (h *PayoutHandler) List(c *fiber.Ctx) error {
	payouts, err := h.service.List(c.Context())
	if err != nil {
		log.Printf("listing payouts failed: %v", err)
		return response.ServerError(c)
	}
	return response.Success(c, "payouts retrieved", payouts)
}
