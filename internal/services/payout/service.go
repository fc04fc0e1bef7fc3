// Package payout implements the settlement batch generator and the
// transfer issuer. Generation aggregates what the platform owes each
// partner into immutable payout records; issuance drains pending payouts
// through the external transfer provider.
package payout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"delivra/internal/models"
	"delivra/internal/services/provider"
)

// Service coordinates batch generation and transfer issuance.
type Service struct {
	store    Store
	partners PartnerDirectory
	provider provider.Provider
}

func NewService(store Store, partners PartnerDirectory, prov provider.Provider) *Service {
	return &Service{
		store:    store,
		partners: partners,
		provider: prov,
	}
}

// PeriodFor maps a settlement cycle to its selection window [start, now).
// Weekly and biweekly are rolling windows; monthly starts at the first day
// of the current calendar month.
func PeriodFor(cycle models.SettlementCycle, now time.Time) (time.Time, time.Time, error) {
	switch cycle {
	case models.CycleWeekly:
		return now.AddDate(0, 0, -7), now, nil
	case models.CycleBiweekly:
		return now.AddDate(0, 0, -14), now, nil
	case models.CycleMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCycle, cycle)
	}
}

// GenerateBatch selects every settled, approved, unclaimed order for the
// given role within the cycle's period, groups them by partner, and
// creates one pending payout per partner while stamping the contributing
// orders' claim markers. The whole run is one transaction: any error
// aborts it with no partial batch, and a retry is safe because claimed
// orders are excluded by the marker check.
func (s *Service) GenerateBatch(ctx context.Context, role models.PartnerRole, cycle models.SettlementCycle) (*BatchSummary, error) {
	if _, ok := models.ParsePartnerRole(string(role)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	start, end, err := PeriodFor(cycle, time.Now())
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{
		PartnerRole: role,
		Cycle:       cycle,
		PeriodStart: start,
		PeriodEnd:   end,
		Payouts:     []PayoutSummary{},
	}

	err = s.store.InTransaction(ctx, func(tx Store) error {
		// Lock candidates up front. Rows held by a concurrent run are
		// skipped, which naturally partitions overlapping runs.
		locked, err := tx.LockEligibleOrders(ctx, role, start, end)
		if err != nil {
			return err
		}

		partnerIDs := distinctPartners(locked, role)
		for _, partnerID := range partnerIDs {
			orders, err := tx.EligibleOrders(ctx, role, partnerID, start, end)
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				continue
			}

			var total int64
			orderIDs := make([]uuid.UUID, 0, len(orders))
			orderIDStrings := make([]string, 0, len(orders))
			for _, o := range orders {
				total += o.OwedCents(role)
				orderIDs = append(orderIDs, o.ID)
				orderIDStrings = append(orderIDStrings, o.ID.String())
			}
			if total <= 0 {
				continue
			}

			p := &models.Payout{
				ID:          uuid.New(),
				PartnerID:   partnerID,
				PartnerRole: role,
				AmountCents: total,
				PeriodStart: start,
				PeriodEnd:   end,
				OrderIDs:    orderIDStrings,
				Status:      models.PayoutStatusPending,
			}
			if err := tx.CreatePayout(ctx, p); err != nil {
				return err
			}

			claimed, err := tx.ClaimOrders(ctx, role, p.ID, orderIDs)
			if err != nil {
				return err
			}
			if claimed != int64(len(orderIDs)) {
				return fmt.Errorf("claimed %d of %d orders for payout %s", claimed, len(orderIDs), p.ID)
			}

			summary.Payouts = append(summary.Payouts, PayoutSummary{
				PayoutID:    p.ID,
				PartnerID:   partnerID,
				AmountCents: total,
				OrderCount:  len(orderIDs),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch generation for %s/%s failed: %w", role, cycle, err)
	}

	summary.Generated = len(summary.Payouts)
	return summary, nil
}

// distinctPartners extracts the partner ids present in the locked rows,
// preserving first-seen order.
func distinctPartners(orders []models.Order, role models.PartnerRole) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(orders))
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		pid := o.PartnerID(role)
		if pid == nil {
			continue
		}
		if _, ok := seen[*pid]; ok {
			continue
		}
		seen[*pid] = struct{}{}
		ids = append(ids, *pid)
	}
	return ids
}

// Disburse issues a transfer for every pending payout. Provider failures
// and missing destinations leave the payout pending and are reported as
// per-item notes; the payouts themselves were committed by GenerateBatch
// and are never rolled back here.
func (s *Service) Disburse(ctx context.Context) (*DisburseResult, error) {
	pending, err := s.store.PendingPayouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pending payouts: %w", err)
	}

	result := &DisburseResult{Attempted: len(pending), Items: []DisburseItem{}}
	for i := range pending {
		p := &pending[i]
		item := DisburseItem{
			PayoutID:    p.ID,
			PartnerID:   p.PartnerID,
			AmountCents: p.AmountCents,
			Status:      p.Status,
		}

		partner, err := s.partners.GetPartner(ctx, p.PartnerID)
		if err != nil {
			log.Printf("payout %s: partner %s lookup failed: %v", p.ID, p.PartnerID, err)
			item.Note = "partner profile unavailable"
			result.Items = append(result.Items, item)
			continue
		}
		if partner.PayoutKey == "" {
			log.Printf("payout %s: %v", p.ID, ErrMissingPayoutKey)
			item.Note = ErrMissingPayoutKey.Error()
			result.Items = append(result.Items, item)
			continue
		}

		txID, err := s.issueTransfer(ctx, p, partner.PayoutKey)
		if err != nil {
			item.Note = "transfer failed, payout left pending"
			result.Items = append(result.Items, item)
			continue
		}

		item.Status = models.PayoutStatusProcessed
		item.ExternalTxID = txID
		result.Items = append(result.Items, item)
		result.Processed++
	}
	return result, nil
}

// issueTransfer performs one transfer attempt. The idempotency key is
// freshly generated per attempt: provider-side retries of this request
// are deduplicated, while a later re-issue from here is a new logical
// attempt.
func (s *Service) issueTransfer(ctx context.Context, p *models.Payout, destination string) (string, error) {
	idempotencyKey := uuid.NewString()
	description := fmt.Sprintf("settlement %s %s", p.PartnerRole, p.ID)

	res, err := s.provider.TransferToDestination(ctx, p.AmountCents, destination, description, idempotencyKey)
	if err != nil {
		log.Printf("payout %s: provider error: %v", p.ID, err)
		return "", err
	}
	if !res.OK {
		log.Printf("payout %s: %v: %+v", p.ID, ErrTransferDeclined, res.Raw)
		return "", ErrTransferDeclined
	}

	if err := s.store.MarkProcessed(ctx, p.ID, res.ExternalTxID); err != nil {
		// The transfer went through; surface loudly so an operator can
		// reconcile before the next disburse run re-attempts it.
		log.Printf("ALERT payout %s: transfer %s succeeded but status update failed: %v", p.ID, res.ExternalTxID, err)
		return "", err
	}
	return res.ExternalTxID, nil
}

// List returns all payouts for the admin view.
func (s *Service) List(ctx context.Context) ([]models.Payout, error) {
	return s.store.ListPayouts(ctx)
}
