package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"delivra/internal/services/reconciler"
)

type PaymentHandler struct {
	reconciler *reconciler.Service
}

func NewPaymentHandler(rec *reconciler.Service) *PaymentHandler {
	return &PaymentHandler{reconciler: rec}
}

// Webhook receives payment gateway notifications. It always answers 200
// so the gateway stops retrying; reconciliation failures are logged and
// recovered by the next notification or a manual replay.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	queryID := c.Query("data.id", c.Query("id"))
	topic := c.Query("type", c.Query("topic"))

	n, err := reconciler.ParseNotification(queryID, topic, c.Body())
	if err != nil {
		log.Printf("webhook: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	h.reconciler.CheckSignature(n.PaymentID, c.Get("X-Signature"))

	if err := h.reconciler.HandleNotification(c.Context(), n); err != nil {
		log.Printf("webhook: reconciling payment %s failed: %v", n.PaymentID, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
