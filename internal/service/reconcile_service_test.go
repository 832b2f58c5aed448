package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/domain"
)

// fakeLedger holds trades and a separate history index so tests can
// leave trades deliberately unindexed.
type fakeLedger struct {
	mu      sync.Mutex
	trades  map[uuid.UUID]*domain.Trade
	history map[uuid.UUID]map[uuid.UUID]bool
	appends int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		trades:  make(map[uuid.UUID]*domain.Trade),
		history: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (l *fakeLedger) addUnindexed(userID uuid.UUID) *domain.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	trade := &domain.Trade{
		ID:        uuid.New(),
		UserID:    userID,
		Symbol:    "AAPL",
		Action:    domain.ActionBuy,
		Quantity:  1,
		Price:     100,
		TradeDate: time.Now().Add(-time.Hour),
	}
	l.trades[trade.ID] = trade
	return trade
}

func (l *fakeLedger) Record(_ context.Context, trade *domain.Trade) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *trade
	l.trades[trade.ID] = &cp
	return nil
}

func (l *fakeLedger) AppendHistory(_ context.Context, userID, tradeID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appends++
	if l.history[userID] == nil {
		l.history[userID] = make(map[uuid.UUID]bool)
	}
	l.history[userID][tradeID] = true
	return nil
}

func (l *fakeLedger) GetByID(_ context.Context, id uuid.UUID) (*domain.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.trades[id]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	cp := *t
	return &cp, nil
}

func (l *fakeLedger) GetHistory(_ context.Context, userID uuid.UUID, _ int) ([]*domain.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*domain.Trade
	for id := range l.history[userID] {
		if t, ok := l.trades[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (l *fakeLedger) GetUnindexed(_ context.Context, _ time.Duration) ([]*domain.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*domain.Trade
	for id, t := range l.trades {
		if !l.history[t.UserID][id] {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func TestReconcileHistory(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewReconcileService(ledger, time.Minute)
	ctx := context.Background()

	userID := uuid.New()
	first := ledger.addUnindexed(userID)
	second := ledger.addUnindexed(userID)

	require.NoError(t, svc.ReconcileHistory(ctx))

	history, err := ledger.GetHistory(ctx, userID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	ids := map[uuid.UUID]bool{}
	for _, trade := range history {
		ids[trade.ID] = true
	}
	assert.True(t, ids[first.ID])
	assert.True(t, ids[second.ID])
}

func TestReconcileHistoryIsIdempotent(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewReconcileService(ledger, time.Minute)
	ctx := context.Background()

	userID := uuid.New()
	ledger.addUnindexed(userID)

	require.NoError(t, svc.ReconcileHistory(ctx))
	appendsAfterFirst := ledger.appends

	// A second run finds nothing left to repair
	require.NoError(t, svc.ReconcileHistory(ctx))
	assert.Equal(t, appendsAfterFirst, ledger.appends)

	history, err := ledger.GetHistory(ctx, userID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestReconcileHistoryEmptyLedger(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewReconcileService(ledger, time.Minute)

	require.NoError(t, svc.ReconcileHistory(context.Background()))
	assert.Zero(t, ledger.appends)
}
