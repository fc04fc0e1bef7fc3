package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivra/internal/models"
)

// fakeStore is an in-memory Store mirroring the conditional-update
// semantics of the SQL repository.
type fakeStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
}

func newFakeStore(orders ...*models.Order) *fakeStore {
	s := &fakeStore{orders: make(map[uuid.UUID]*models.Order)}
	for _, o := range orders {
		cp := *o
		s.orders[o.ID] = &cp
	}
	return s
}

func (s *fakeStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeStore) OrdersByCourier(_ context.Context, courierID uuid.UUID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.CourierID != nil && *o.CourierID == courierID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeStore) OrdersByRestaurant(_ context.Context, restaurantID uuid.UUID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.RestaurantID == restaurantID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to models.OrderStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	return 1, nil
}

func (s *fakeStore) ClaimForCourier(_ context.Context, id, courierID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.Status != models.OrderStatusReady || o.CourierID != nil {
		return 0, nil
	}
	cid := courierID
	o.CourierID = &cid
	o.Status = models.OrderStatusAcceptedByCourier
	return 1, nil
}

func (s *fakeStore) MarkDelivering(_ context.Context, id, courierID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || (o.Status != models.OrderStatusReady && o.Status != models.OrderStatusAcceptedByCourier) {
		return 0, nil
	}
	if o.CourierID == nil {
		cid := courierID
		o.CourierID = &cid
	}
	o.Status = models.OrderStatusDelivering
	return 1, nil
}

func (s *fakeStore) MarkDelivered(_ context.Context, id, courierID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.Status != models.OrderStatusDelivering || o.CourierID == nil || *o.CourierID != courierID {
		return 0, nil
	}
	o.Status = models.OrderStatusDelivered
	now := time.Now()
	o.CompletedAt = &now
	return 1, nil
}

type fakeLoyalty struct {
	mu       sync.Mutex
	awards   []uuid.UUID
	archived []uuid.UUID
}

func (l *fakeLoyalty) AwardDelivery(orderID, courierID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.awards = append(l.awards, orderID)
}

func (l *fakeLoyalty) AwardArchival(orderID, restaurantID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.archived = append(l.archived, orderID)
}

func restaurantClaims(profileID uuid.UUID) *models.UserClaims {
	return &models.UserClaims{ProfileID: profileID, Role: models.RoleRestaurant}
}

func courierClaims(profileID uuid.UUID) *models.UserClaims {
	return &models.UserClaims{ProfileID: profileID, Role: models.RoleCourier}
}

func testOrder(status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:           uuid.New(),
		ClientID:     uuid.New(),
		RestaurantID: uuid.New(),
		Status:       status,
		PickupCode:   "AB12",
		DeliveryCode: "CD34",
	}
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("restaurant accepts pending order", func(t *testing.T) {
		o := testOrder(models.OrderStatusPending)
		svc := NewService(newFakeStore(o), nil)
		updated, err := svc.Transition(ctx, o.ID, models.OrderStatusAccepted, restaurantClaims(o.RestaurantID))
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusAccepted, updated.Status)
	})

	t.Run("invalid edge rejected", func(t *testing.T) {
		o := testOrder(models.OrderStatusPending)
		svc := NewService(newFakeStore(o), nil)
		_, err := svc.Transition(ctx, o.ID, models.OrderStatusReady, restaurantClaims(o.RestaurantID))
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("gated target rejected even when edge exists", func(t *testing.T) {
		o := testOrder(models.OrderStatusReady)
		svc := NewService(newFakeStore(o), nil)
		_, err := svc.Transition(ctx, o.ID, models.OrderStatusAcceptedByCourier, restaurantClaims(o.RestaurantID))
		assert.ErrorIs(t, err, ErrGatedTransition)
	})

	t.Run("foreign restaurant rejected", func(t *testing.T) {
		o := testOrder(models.OrderStatusPending)
		svc := NewService(newFakeStore(o), nil)
		_, err := svc.Transition(ctx, o.ID, models.OrderStatusAccepted, restaurantClaims(uuid.New()))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("restaurant cannot cancel after courier claim", func(t *testing.T) {
		o := testOrder(models.OrderStatusAcceptedByCourier)
		svc := NewService(newFakeStore(o), nil)
		_, err := svc.Transition(ctx, o.ID, models.OrderStatusCancelled, restaurantClaims(o.RestaurantID))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin archive awards the restaurant", func(t *testing.T) {
		o := testOrder(models.OrderStatusDelivered)
		loyalty := &fakeLoyalty{}
		svc := NewService(newFakeStore(o), loyalty)
		admin := &models.UserClaims{ProfileID: uuid.New(), Role: models.RoleAdmin}

		updated, err := svc.Transition(ctx, o.ID, models.OrderStatusArchived, admin)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusArchived, updated.Status)
		assert.Equal(t, []uuid.UUID{o.ID}, loyalty.archived)
		assert.Empty(t, loyalty.awards)
	})

	t.Run("missing order", func(t *testing.T) {
		svc := NewService(newFakeStore(), nil)
		_, err := svc.Transition(ctx, uuid.New(), models.OrderStatusAccepted, restaurantClaims(uuid.New()))
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("first courier wins, second conflicts", func(t *testing.T) {
		o := testOrder(models.OrderStatusReady)
		svc := NewService(newFakeStore(o), nil)

		first, err := svc.Claim(ctx, o.ID, courierClaims(uuid.New()))
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusAcceptedByCourier, first.Status)
		require.NotNil(t, first.CourierID)

		_, err = svc.Claim(ctx, o.ID, courierClaims(uuid.New()))
		assert.ErrorIs(t, err, ErrAlreadyClaimed)
	})

	t.Run("missing order reported as not found", func(t *testing.T) {
		svc := NewService(newFakeStore(), nil)
		_, err := svc.Claim(ctx, uuid.New(), courierClaims(uuid.New()))
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("non-ready order conflicts", func(t *testing.T) {
		o := testOrder(models.OrderStatusPreparing)
		svc := NewService(newFakeStore(o), nil)
		_, err := svc.Claim(ctx, o.ID, courierClaims(uuid.New()))
		assert.ErrorIs(t, err, ErrAlreadyClaimed)
	})
}

func TestPickup(t *testing.T) {
	ctx := context.Background()

	t.Run("case-insensitive code accepted", func(t *testing.T) {
		o := testOrder(models.OrderStatusReady)
		svc := NewService(newFakeStore(o), nil)
		updated, err := svc.Pickup(ctx, o.ID, "ab12", courierClaims(uuid.New()))
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusDelivering, updated.Status)
	})

	t.Run("wrong code rejected", func(t *testing.T) {
		o := testOrder(models.OrderStatusReady)
		svc := NewService(newFakeStore(o), nil)
		_, err := svc.Pickup(ctx, o.ID, "ZZ99", courierClaims(uuid.New()))
		assert.ErrorIs(t, err, ErrCodeMismatch)
	})

	t.Run("other courier cannot pick up", func(t *testing.T) {
		o := testOrder(models.OrderStatusAcceptedByCourier)
		assigned := uuid.New()
		o.CourierID = &assigned
		svc := NewService(newFakeStore(o), nil)
		_, err := svc.Pickup(ctx, o.ID, "AB12", courierClaims(uuid.New()))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("repeat pickup is invalid", func(t *testing.T) {
		o := testOrder(models.OrderStatusReady)
		svc := NewService(newFakeStore(o), nil)
		courier := courierClaims(uuid.New())

		_, err := svc.Pickup(ctx, o.ID, "AB12", courier)
		require.NoError(t, err)

		_, err = svc.Pickup(ctx, o.ID, "AB12", courier)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeStore, *fakeLoyalty, *models.Order, *models.UserClaims) {
		o := testOrder(models.OrderStatusDelivering)
		courier := uuid.New()
		o.CourierID = &courier
		loyalty := &fakeLoyalty{}
		return newFakeStore(o), loyalty, o, courierClaims(courier)
	}

	t.Run("delivery code completes the order", func(t *testing.T) {
		store, loyalty, o, claims := setup()
		svc := NewService(store, loyalty)

		updated, err := svc.Complete(ctx, o.ID, "cd34", claims)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusDelivered, updated.Status)
		assert.NotNil(t, updated.CompletedAt)
		assert.Equal(t, []uuid.UUID{o.ID}, loyalty.awards)
	})

	t.Run("wrong code rejected without loyalty award", func(t *testing.T) {
		store, loyalty, o, claims := setup()
		svc := NewService(store, loyalty)

		_, err := svc.Complete(ctx, o.ID, "AB12", claims)
		assert.ErrorIs(t, err, ErrCodeMismatch)
		assert.Empty(t, loyalty.awards)
	})

	t.Run("unassigned courier rejected", func(t *testing.T) {
		store, loyalty, o, _ := setup()
		svc := NewService(store, loyalty)

		_, err := svc.Complete(ctx, o.ID, "CD34", courierClaims(uuid.New()))
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestGetVisibility(t *testing.T) {
	ctx := context.Background()
	o := testOrder(models.OrderStatusPending)
	svc := NewService(newFakeStore(o), nil)

	_, err := svc.Get(ctx, o.ID, &models.UserClaims{ProfileID: o.ClientID, Role: models.RoleClient})
	assert.NoError(t, err)

	_, err = svc.Get(ctx, o.ID, restaurantClaims(o.RestaurantID))
	assert.NoError(t, err)

	_, err = svc.Get(ctx, o.ID, &models.UserClaims{ProfileID: uuid.New(), Role: models.RoleAdmin})
	assert.NoError(t, err)

	_, err = svc.Get(ctx, o.ID, courierClaims(uuid.New()))
	assert.ErrorIs(t, err, ErrForbidden)
}
