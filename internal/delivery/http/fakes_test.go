package http

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tradedesk/internal/domain"
)

// In-memory fakes backing handler tests.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) GetAll(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, userID uuid.UUID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

type memTradeRepo struct {
	mu      sync.Mutex
	trades  map[uuid.UUID]*domain.Trade
	history map[uuid.UUID][]uuid.UUID
}

func newMemTradeRepo() *memTradeRepo {
	return &memTradeRepo{
		trades:  make(map[uuid.UUID]*domain.Trade),
		history: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *memTradeRepo) Record(_ context.Context, trade *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *trade
	r.trades[trade.ID] = &cp
	r.appendLocked(trade.UserID, trade.ID)
	return nil
}

func (r *memTradeRepo) AppendHistory(_ context.Context, userID, tradeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked(userID, tradeID)
	return nil
}

func (r *memTradeRepo) appendLocked(userID, tradeID uuid.UUID) {
	for _, id := range r.history[userID] {
		if id == tradeID {
			return
		}
	}
	r.history[userID] = append(r.history[userID], tradeID)
}

func (r *memTradeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trades[id]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTradeRepo) GetHistory(_ context.Context, userID uuid.UUID, limit int) ([]*domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Trade
	for _, id := range r.history[userID] {
		if limit > 0 && len(out) >= limit {
			break
		}
		if t, ok := r.trades[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memTradeRepo) GetUnindexed(_ context.Context, _ time.Duration) ([]*domain.Trade, error) {
	return nil, nil
}

type memActivityRepo struct {
	mu      sync.Mutex
	entries []*domain.ActivityLog
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{}
}

func (r *memActivityRepo) Insert(_ context.Context, entry *domain.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memActivityRepo) GetByUser(_ context.Context, userID uuid.UUID, limit int) ([]*domain.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ActivityLog
	for _, e := range r.entries {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	next     int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *memSessionStore) Create(_ context.Context, userID uuid.UUID, role string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	token := fmt.Sprintf("token-%d", s.next)
	s.sessions[token] = &domain.Session{UserID: userID, Role: role, CreatedAt: time.Now()}
	return token, nil
}

func (s *memSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *memSessionStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *memSessionStore) DestroyAllForUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *memSessionStore) UpdateRoleForUser(_ context.Context, userID uuid.UUID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			sess.Role = role
		}
	}
	return nil
}

type fakeQuoteService struct {
	bars []domain.Bar
	err  error
}

func (f *fakeQuoteService) GetBars(_ context.Context, _ string, _ int) ([]domain.Bar, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bars, nil
}
