// Package loyalty tracks per-courier delivery counters in redis. Awards
// are fire-and-forget: a redis outage never fails a delivery.
package loyalty

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const awardTimeout = 2 * time.Second

type Service struct {
	client *redis.Client
}

func NewService(client *redis.Client) *Service {
	return &Service{client: client}
}

func courierKey(courierID uuid.UUID) string {
	return fmt.Sprintf("loyalty:courier:%s", courierID)
}

func restaurantKey(restaurantID uuid.UUID) string {
	return fmt.Sprintf("loyalty:restaurant:%s", restaurantID)
}

// AwardDelivery increments the courier's completed-delivery counter. Runs
// in the background; failures are logged only.
func (s *Service) AwardDelivery(orderID, courierID uuid.UUID) {
	s.award(courierKey(courierID), "courier", orderID)
}

// AwardArchival increments the restaurant's settled-order counter when an
// order is archived.
func (s *Service) AwardArchival(orderID, restaurantID uuid.UUID) {
	s.award(restaurantKey(restaurantID), "restaurant", orderID)
}

func (s *Service) award(key, kind string, orderID uuid.UUID) {
	if s == nil || s.client == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), awardTimeout)
		defer cancel()
		if err := s.client.IncrBy(ctx, key, 1).Err(); err != nil {
			log.Printf("loyalty award for %s (order %s) failed: %v", kind, orderID, err)
		}
	}()
}

// Deliveries reads the courier's completed-delivery counter. A missing
// key reads as zero.
func (s *Service) Deliveries(ctx context.Context, courierID uuid.UUID) (int64, error) {
	n, err := s.client.Get(ctx, courierKey(courierID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read loyalty counter: %w", err)
	}
	return n, nil
}
