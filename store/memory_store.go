package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hassam391/stead-backend/models"
	"github.com/lib/pq"
)

// MemoryStore is an in-process Store. It enforces the same unique keys as the
// SQL schema. Writes and transactions are serialized on txMu, so a rollback
// restoring the snapshot can only discard the transaction's own writes.
type MemoryStore struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	nextID   uint
	users    map[uint]models.User
	metrics  map[uint]models.Metric // keyed by user id
	logs     map[uint]models.ActivityLog
	feedback []models.Feedback
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[uint]models.User),
		metrics: make(map[uint]models.Metric),
		logs:    make(map[uint]models.ActivityLog),
	}
}

func (s *MemoryStore) id() uint {
	s.nextID++
	return s.nextID
}

func copyStrings(a pq.StringArray) pq.StringArray {
	if a == nil {
		return pq.StringArray{}
	}
	out := make(pq.StringArray, len(a))
	copy(out, a)
	return out
}

func copyMetric(m models.Metric) models.Metric {
	m.MissedDays = copyStrings(m.MissedDays)
	m.RewardsUnlocked = copyStrings(m.RewardsUnlocked)
	m.TitlesUnlocked = copyStrings(m.TitlesUnlocked)
	if m.LastLoggedDate != nil {
		d := *m.LastLoggedDate
		m.LastLoggedDate = &d
	}
	return m
}

func (s *MemoryStore) FindUserByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username != nil && *u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// conflicts reports whether u would violate the email or username unique index.
func (s *MemoryStore) conflicts(u *models.User) bool {
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email {
			return true
		}
		if u.Username != nil && other.Username != nil && *other.Username == *u.Username {
			return true
		}
	}
	return false
}

func (s *MemoryStore) createUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts(u) {
		return ErrDuplicate
	}
	u.ID = s.id()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) saveUser(ctx context.Context, u *models.User) error {
	if u.ID == 0 {
		return s.createUser(ctx, u)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts(u) {
		return ErrDuplicate
	}
	u.UpdatedAt = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) FindMetric(_ context.Context, userID uint) (*models.Metric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.metrics[userID]
	if !ok {
		return nil, ErrNotFound
	}
	m = copyMetric(m)
	return &m, nil
}

func (s *MemoryStore) createMetric(_ context.Context, m *models.Metric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.metrics[m.UserID]; ok {
		return ErrDuplicate
	}
	m.Normalize()
	m.ID = s.id()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	s.metrics[m.UserID] = copyMetric(*m)
	return nil
}

func (s *MemoryStore) saveMetric(ctx context.Context, m *models.Metric) error {
	if m.ID == 0 {
		return s.createMetric(ctx, m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.metrics[m.UserID]; ok && existing.ID != m.ID {
		return ErrDuplicate
	}
	m.Normalize()
	m.UpdatedAt = time.Now()
	s.metrics[m.UserID] = copyMetric(*m)
	return nil
}

func (s *MemoryStore) ListMetrics(_ context.Context) ([]models.Metric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Metric, 0, len(s.metrics))
	for _, m := range s.metrics {
		out = append(out, copyMetric(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) createLog(_ context.Context, l *models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.logs {
		if other.OwnerID == l.OwnerID && other.Date == l.Date {
			return ErrDuplicate
		}
	}
	l.ID = s.id()
	l.CreatedAt = time.Now()
	s.logs[l.ID] = *l
	return nil
}

func (s *MemoryStore) FindLog(_ context.Context, ownerID uint, date string) (*models.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.logs {
		if l.OwnerID == ownerID && l.Date == date {
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CountLogsSince(_ context.Context, ownerID uint, journey models.JourneyType, from string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, l := range s.logs {
		if l.OwnerID == ownerID && l.JourneyType == journey && !l.IsCheckIn && l.Date >= from {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) RecentLogs(_ context.Context, ownerID uint, limit int) ([]models.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ActivityLog
	for _, l := range s.logs {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) createFeedback(_ context.Context, f *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = s.id()
	s.feedback = append(s.feedback, *f)
	return nil
}

// Feedback returns every stored feedback message in submission order.
func (s *MemoryStore) Feedback() []models.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Feedback(nil), s.feedback...)
}

type memorySnapshot struct {
	nextID   uint
	users    map[uint]models.User
	metrics  map[uint]models.Metric
	logs     map[uint]models.ActivityLog
	feedback []models.Feedback
}

func (s *MemoryStore) snapshot() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := memorySnapshot{
		nextID:   s.nextID,
		users:    make(map[uint]models.User, len(s.users)),
		metrics:  make(map[uint]models.Metric, len(s.metrics)),
		logs:     make(map[uint]models.ActivityLog, len(s.logs)),
		feedback: append([]models.Feedback(nil), s.feedback...),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.metrics {
		snap.metrics[k] = copyMetric(v)
	}
	for k, v := range s.logs {
		snap.logs[k] = v
	}
	return snap
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.users = snap.users
	s.metrics = snap.metrics
	s.logs = snap.logs
	s.feedback = snap.feedback
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *models.User) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.createUser(ctx, u)
}

func (s *MemoryStore) SaveUser(ctx context.Context, u *models.User) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.saveUser(ctx, u)
}

func (s *MemoryStore) CreateMetric(ctx context.Context, m *models.Metric) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.createMetric(ctx, m)
}

func (s *MemoryStore) SaveMetric(ctx context.Context, m *models.Metric) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.saveMetric(ctx, m)
}

func (s *MemoryStore) CreateLog(ctx context.Context, l *models.ActivityLog) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.createLog(ctx, l)
}

func (s *MemoryStore) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.createFeedback(ctx, f)
}

// LockMetric is FindMetric; holding txMu for the whole transaction already
// excludes every other writer.
func (s *MemoryStore) LockMetric(ctx context.Context, userID uint) (*models.Metric, error) {
	return s.FindMetric(ctx, userID)
}

func (s *MemoryStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(memoryTx{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// memoryTx is the Store handed to a transaction. txMu is already held, so its
// writes go straight to the maps.
type memoryTx struct{ *MemoryStore }

func (t memoryTx) CreateUser(ctx context.Context, u *models.User) error {
	return t.createUser(ctx, u)
}

func (t memoryTx) SaveUser(ctx context.Context, u *models.User) error {
	return t.saveUser(ctx, u)
}

func (t memoryTx) CreateMetric(ctx context.Context, m *models.Metric) error {
	return t.createMetric(ctx, m)
}

func (t memoryTx) SaveMetric(ctx context.Context, m *models.Metric) error {
	return t.saveMetric(ctx, m)
}

func (t memoryTx) CreateLog(ctx context.Context, l *models.ActivityLog) error {
	return t.createLog(ctx, l)
}

func (t memoryTx) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	return t.createFeedback(ctx, f)
}

// Transaction nests into the enclosing one.
func (t memoryTx) Transaction(_ context.Context, fn func(tx Store) error) error {
	return fn(t)
}
