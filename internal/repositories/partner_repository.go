package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"delivra/internal/models"
	"delivra/internal/repositories/cache"
)

// PartnerRepository reads restaurant/courier profiles. Profiles change
// rarely and are read on every disburse run, so lookups go through the
// redis cache when one is configured.
type PartnerRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewPartnerRepository(db *gorm.DB, cacheSvc *cache.CacheService) *PartnerRepository {
	return &PartnerRepository{db: db, cache: cacheSvc}
}

func (r *PartnerRepository) GetPartner(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	if r.cache != nil {
		if partner, found, err := r.cache.GetPartner(ctx, id); err == nil && found {
			return partner, nil
		} else if err != nil {
			log.Printf("partner cache read failed for %s: %v", id, err)
		}
	}

	var partner models.Partner
	if err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.CachePartner(ctx, &partner); err != nil {
			log.Printf("partner cache write failed for %s: %v", id, err)
		}
	}
	return &partner, nil
}

func (r *PartnerRepository) CreatePartner(ctx context.Context, partner *models.Partner) error {
	if err := r.db.WithContext(ctx).Create(partner).Error; err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}
	if r.cache != nil {
		if err := r.cache.InvalidatePartner(ctx, partner.ID); err != nil {
			log.Printf("partner cache invalidation failed for %s: %v", partner.ID, err)
		}
	}
	return nil
}
