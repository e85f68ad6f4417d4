package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

// In-memory repositories with the same filtering rules as the SQL ones.

type memUserRepo struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*domain.User
	createErr error
	findErr   error
	updateErr error
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	r := &memUserRepo{byID: map[uuid.UUID]*domain.User{}}
	for _, u := range users {
		clone := *u
		r.byID[u.ID] = &clone
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *user
	clone.ID = uuid.New()
	clone.CreatedAt = time.Now()
	clone.UpdatedAt = clone.CreatedAt
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if u, ok := r.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if u, ok := r.byID[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *memUserRepo) MarkVerifiedByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			u.IsVerified = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) get(id uuid.UUID) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.byID[id]
}

type memRefreshRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*domain.RefreshToken
	upserts   int
	deleteErr error
}

func newMemRefreshRepo() *memRefreshRepo {
	return &memRefreshRepo{rows: map[uuid.UUID]*domain.RefreshToken{}}
}

func (r *memRefreshRepo) Upsert(ctx context.Context, userID uuid.UUID, token string, expiryDate time.Time) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	rec, ok := r.rows[userID]
	if !ok {
		rec = &domain.RefreshToken{ID: uuid.New(), UserID: userID}
		r.rows[userID] = rec
	}
	rec.Token = token
	rec.ExpiryDate = expiryDate
	rec.Revoked = false
	rec.CreatedAt = time.Now()
	clone := *rec
	return &clone, nil
}

func (r *memRefreshRepo) FindLiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[userID]
	if !ok || !rec.Live(now) {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (r *memRefreshRepo) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.rows {
		if rec.Token == token {
			rec.Revoked = true
		}
	}
	return nil
}

func (r *memRefreshRepo) RevokeByUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.rows[userID]; ok {
		rec.Revoked = true
	}
	return nil
}

func (r *memRefreshRepo) DeleteExpiredOrRevoked(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var n int64
	for id, rec := range r.rows {
		if rec.ExpiryDate.Before(now) || rec.Revoked {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *memRefreshRepo) liveCount(userID uuid.UUID, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.rows {
		if rec.UserID == userID && rec.Live(now) {
			n++
		}
	}
	return n
}

type memOTPRepo struct {
	mu        sync.Mutex
	rows      []*domain.OTP
	deleteErr error
	now       func() time.Time
}

func newMemOTPRepo(now func() time.Time) *memOTPRepo {
	return &memOTPRepo{now: now}
}

func (r *memOTPRepo) Create(ctx context.Context, email, code string, expiresAt time.Time) (*domain.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := &domain.OTP{ID: uuid.New(), Email: email, Code: code, CreatedAt: r.now(), ExpiresAt: expiresAt}
	r.rows = append(r.rows, rec)
	clone := *rec
	return &clone, nil
}

func (r *memOTPRepo) FindLatestUnused(ctx context.Context, email string) (*domain.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.OTP
	for _, rec := range r.rows {
		if rec.Email == email && !rec.Used && (latest == nil || rec.CreatedAt.After(latest.CreatedAt)) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (r *memOTPRepo) FindActive(ctx context.Context, email, code string, now time.Time) (*domain.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var match *domain.OTP
	for _, rec := range r.rows {
		if rec.Email == email && rec.Code == code && !rec.Used && rec.ExpiresAt.After(now) &&
			(match == nil || rec.CreatedAt.After(match.CreatedAt)) {
			match = rec
		}
	}
	if match == nil {
		return nil, nil
	}
	clone := *match
	return &clone, nil
}

func (r *memOTPRepo) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.rows {
		if rec.ID == id && !rec.Used {
			rec.Used = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memOTPRepo) DeleteUsedOrExpired(ctx context.Context, now, usedBefore time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	kept := r.rows[:0]
	var n int64
	for _, rec := range r.rows {
		if rec.ExpiresAt.Before(now) || (rec.Used && rec.CreatedAt.Before(usedBefore)) {
			n++
			continue
		}
		kept = append(kept, rec)
	}
	r.rows = kept
	return n, nil
}

func (r *memOTPRepo) all() []domain.OTP {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.OTP, 0, len(r.rows))
	for _, rec := range r.rows {
		out = append(out, *rec)
	}
	return out
}

type memResetRepo struct {
	mu         sync.Mutex
	rows       []*domain.PasswordReset
	users      *memUserRepo
	consumeErr error
	now        func() time.Time
}

func newMemResetRepo(now func() time.Time) *memResetRepo {
	return &memResetRepo{now: now}
}

func (r *memResetRepo) Issue(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt, now time.Time) (*domain.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.rows {
		if rec.UserID == userID && !rec.Used && rec.ExpiresAt.After(now) {
			rec.Used = true
		}
	}
	rec := &domain.PasswordReset{ID: uuid.New(), UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt, CreatedAt: r.now()}
	r.rows = append(r.rows, rec)
	clone := *rec
	return &clone, nil
}

func (r *memResetRepo) FindActive(ctx context.Context, userID uuid.UUID, tokenHash string, now time.Time) (*domain.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.rows {
		if rec.UserID == userID && rec.TokenHash == tokenHash && !rec.Used && rec.ExpiresAt.After(now) {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memResetRepo) Consume(ctx context.Context, userID uuid.UUID, tokenHash, passwordHash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.consumeErr != nil {
		return false, r.consumeErr
	}
	for _, rec := range r.rows {
		if rec.UserID == userID && rec.TokenHash == tokenHash && !rec.Used && rec.ExpiresAt.After(now) {
			if r.users != nil {
				if err := r.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
					return false, err
				}
			}
			rec.Used = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memResetRepo) DeleteUsedOrExpired(ctx context.Context, now, usedBefore time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	var n int64
	for _, rec := range r.rows {
		if rec.ExpiresAt.Before(now) || (rec.Used && rec.CreatedAt.Before(usedBefore)) {
			n++
			continue
		}
		kept = append(kept, rec)
	}
	r.rows = kept
	return n, nil
}

func (r *memResetRepo) all() []domain.PasswordReset {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.PasswordReset, 0, len(r.rows))
	for _, rec := range r.rows {
		out = append(out, *rec)
	}
	return out
}

type fakeMailer struct {
	mu          sync.Mutex
	otps        []string
	links       []string
	to          []string
	err         error
	hadDeadline bool
}

func (m *fakeMailer) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, m.hadDeadline = ctx.Deadline()
	m.to = append(m.to, email)
	m.otps = append(m.otps, code)
	return m.err
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, m.hadDeadline = ctx.Deadline()
	m.to = append(m.to, email)
	m.links = append(m.links, link)
	return m.err
}

type fakeLease struct {
	mu       sync.Mutex
	held     bool
	err      error
	acquires int
	releases int
}

func (l *fakeLease) TryAcquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acquires++
	if l.err != nil {
		return "", false, l.err
	}
	if l.held {
		return "", false, nil
	}
	l.held = true
	return "lease-token", true, nil
}

func (l *fakeLease) Release(ctx context.Context, name, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases++
	l.held = false
	return nil
}

// clock is a settable time source shared by services and fakes.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var errDBDown = errors.New("db down")
