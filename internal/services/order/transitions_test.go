package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"delivra/internal/models"
)

func TestCanTransition(t *testing.T) {
	all := []models.OrderStatus{
		models.OrderStatusAwaiting,
		models.OrderStatusPending,
		models.OrderStatusAccepted,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusAcceptedByCourier,
		models.OrderStatusDelivering,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusArchived,
	}

	allowed := map[models.OrderStatus]map[models.OrderStatus]bool{
		models.OrderStatusPending:           {models.OrderStatusAccepted: true, models.OrderStatusCancelled: true},
		models.OrderStatusAccepted:          {models.OrderStatusPreparing: true, models.OrderStatusCancelled: true},
		models.OrderStatusPreparing:         {models.OrderStatusReady: true, models.OrderStatusCancelled: true},
		models.OrderStatusReady:             {models.OrderStatusAcceptedByCourier: true, models.OrderStatusCancelled: true},
		models.OrderStatusAcceptedByCourier: {models.OrderStatusDelivering: true, models.OrderStatusCancelled: true},
		models.OrderStatusDelivering:        {models.OrderStatusDelivered: true},
		models.OrderStatusDelivered:         {models.OrderStatusArchived: true},
		models.OrderStatusCancelled:         {models.OrderStatusArchived: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestAwaitingHasNoActorExits(t *testing.T) {
	assert.Empty(t, successors[models.OrderStatusAwaiting])
}

func TestCodeGated(t *testing.T) {
	assert.True(t, codeGated(models.OrderStatusAcceptedByCourier))
	assert.True(t, codeGated(models.OrderStatusDelivering))
	assert.True(t, codeGated(models.OrderStatusDelivered))
	assert.False(t, codeGated(models.OrderStatusCancelled))
	assert.False(t, codeGated(models.OrderStatusReady))
}

func TestRoleAllowed(t *testing.T) {
	tests := []struct {
		name string
		role string
		from models.OrderStatus
		to   models.OrderStatus
		want bool
	}{
		{"restaurant accepts", models.RoleRestaurant, models.OrderStatusPending, models.OrderStatusAccepted, true},
		{"restaurant prepares", models.RoleRestaurant, models.OrderStatusAccepted, models.OrderStatusPreparing, true},
		{"restaurant readies", models.RoleRestaurant, models.OrderStatusPreparing, models.OrderStatusReady, true},
		{"restaurant cancels before assignment", models.RoleRestaurant, models.OrderStatusPreparing, models.OrderStatusCancelled, true},
		{"restaurant cannot cancel after courier claim", models.RoleRestaurant, models.OrderStatusAcceptedByCourier, models.OrderStatusCancelled, false},
		{"restaurant cannot archive", models.RoleRestaurant, models.OrderStatusDelivered, models.OrderStatusArchived, false},
		{"courier cannot use status endpoint", models.RoleCourier, models.OrderStatusPending, models.OrderStatusAccepted, false},
		{"client cannot use status endpoint", models.RoleClient, models.OrderStatusPending, models.OrderStatusCancelled, false},
		{"admin cancels after claim", models.RoleAdmin, models.OrderStatusAcceptedByCourier, models.OrderStatusCancelled, true},
		{"admin archives", models.RoleAdmin, models.OrderStatusDelivered, models.OrderStatusArchived, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roleAllowed(tt.role, tt.from, tt.to))
		})
	}
}
