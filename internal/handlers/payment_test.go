package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivra/internal/models"
	"delivra/internal/services/reconciler"
)

type stubGateway struct {
	payment *reconciler.Payment
	err     error
}

func (g *stubGateway) GetPayment(_ context.Context, _ string) (*reconciler.Payment, error) {
	return g.payment, g.err
}

type stubOrderStore struct {
	order    *models.Order
	applied  int
	statuses []models.PaymentStatus
}

func (s *stubOrderStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, models.ErrNotFound
	}
	return s.order, nil
}

func (s *stubOrderStore) ApplyApproval(_ context.Context, _ uuid.UUID, _ models.CommissionSplit, _ string) (bool, error) {
	s.applied++
	return true, nil
}

func (s *stubOrderStore) SetPaymentStatus(_ context.Context, _ uuid.UUID, status models.PaymentStatus, _ string) error {
	s.statuses = append(s.statuses, status)
	return nil
}

func webhookApp(store reconciler.Store, gw reconciler.Gateway) *fiber.App {
	svc := reconciler.NewService(store, gw, 0.15, "")
	app := fiber.New()
	app.Post("/api/payment/webhook", NewPaymentHandler(svc).Webhook)
	return app
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	order := &models.Order{ID: uuid.New(), SubtotalCents: 1000, DeliveryFeeCents: 500}

	tests := []struct {
		name  string
		store *stubOrderStore
		gw    *stubGateway
		url   string
		body  string
	}{
		{
			name:  "approved payment",
			store: &stubOrderStore{order: order},
			gw: &stubGateway{payment: &reconciler.Payment{
				ID: "p1", Status: models.PaymentStatusApproved, ExternalReference: order.ID.String(),
			}},
			url: "/api/payment/webhook?data.id=p1&type=payment",
		},
		{
			name:  "gateway down",
			store: &stubOrderStore{},
			gw:    &stubGateway{err: errors.New("gateway unreachable")},
			url:   "/api/payment/webhook?id=p2",
		},
		{
			name:  "no payment reference",
			store: &stubOrderStore{},
			gw:    &stubGateway{},
			url:   "/api/payment/webhook",
			body:  `{}`,
		},
		{
			name:  "body notification",
			store: &stubOrderStore{order: order},
			gw: &stubGateway{payment: &reconciler.Payment{
				ID: "p3", Status: models.PaymentStatusRejected, ExternalReference: order.ID.String(),
			}},
			url:  "/api/payment/webhook",
			body: `{"type":"payment","data":{"id":"p3"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := webhookApp(tt.store, tt.gw)
			req := httptest.NewRequest(http.MethodPost, tt.url, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestWebhookAppliesApproval(t *testing.T) {
	order := &models.Order{ID: uuid.New(), SubtotalCents: 1000, DeliveryFeeCents: 500}
	store := &stubOrderStore{order: order}
	gw := &stubGateway{payment: &reconciler.Payment{
		ID: "p1", Status: models.PaymentStatusApproved, ExternalReference: order.ID.String(),
	}}
	app := webhookApp(store, gw)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/payment/webhook?data.id=p1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, store.applied)
	assert.Empty(t, store.statuses)
}
