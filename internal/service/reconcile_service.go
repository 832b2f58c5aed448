package service

import (
	"context"
	"log"
	"time"

	"tradedesk/internal/domain"
)

// ReconcileService rebuilds missing trading-history entries from the
// trades log. The ledger write path already appends history in the same
// transaction; this job exists so the history index stays complete even
// if rows are imported or repaired out of band.
type ReconcileService struct {
	tradeRepo domain.TradeRepository
	minAge    time.Duration
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(tradeRepo domain.TradeRepository, minAge time.Duration) *ReconcileService {
	return &ReconcileService{
		tradeRepo: tradeRepo,
		minAge:    minAge,
	}
}

// ReconcileHistory appends a history entry for every trade missing one.
// Appends are idempotent, so overlapping runs are harmless.
func (s *ReconcileService) ReconcileHistory(ctx context.Context) error {
	trades, err := s.tradeRepo.GetUnindexed(ctx, s.minAge)
	if err != nil {
		return err
	}

	if len(trades) == 0 {
		return nil
	}

	log.Printf("Reconciling %d trades missing history entries", len(trades))

	repaired := 0
	for _, trade := range trades {
		if err := s.tradeRepo.AppendHistory(ctx, trade.UserID, trade.ID); err != nil {
			log.Printf("ERROR: failed to reconcile trade %s: %v", trade.ID, err)
			continue
		}
		repaired++
	}

	log.Printf("[OK] Reconciled %d/%d trades", repaired, len(trades))
	return nil
}
