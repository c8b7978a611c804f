// Package verification keeps the short-lived email verification records
// that sit between a booking request and its confirmation.  Records live
// in Redis under one key per browser session.
package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
	"github.com/iliyamo/exam-appointment-booking/internal/utils"
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 10 * time.Minute

// DefaultRetention is how long a session's key survives in Redis after the
// code is issued.  It matches the default session cookie lifetime.
const DefaultRetention = 24 * time.Hour

// keyGrace is the minimum time a key outlives its code.
const keyGrace = 5 * time.Minute

// expiredMarker replaces a record once it has been seen past its expiry.
const expiredMarker = "expired"

// record is the JSON document stored per session.  Only the bcrypt hash of
// the code is persisted.
type record struct {
	CodeHash  string        `json:"code_hash"`
	Booking   model.Booking `json:"booking"`
	ExpiresAt time.Time     `json:"expires_at"`
	CreatedAt time.Time     `json:"created_at"`
}

// Pending is returned by CreatePending.  Code is the clear code to be
// mailed to the visitor; it is never stored.
type Pending struct {
	Code      string
	Booking   model.Booking
	ExpiresAt time.Time
}

// consumeScript deletes the key only when it still holds the value the
// caller verified, so a record overwritten or consumed in between is not
// confirmed twice.
var consumeScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// expireScript swaps the record for the expired marker, keeping the key's
// TTL, unless it was replaced in the meantime.
var expireScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('SET', KEYS[1], ARGV[2], 'KEEPTTL')
	end
	return 0
`)

// Manager issues and checks verification codes.
type Manager struct {
	rdb       redis.Cmdable
	ttl       time.Duration
	retention time.Duration
	cost      int
	prefix    string
	now       func() time.Time
	codes     func() (string, error)
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithCodeSource replaces the random code generator.
func WithCodeSource(gen func() (string, error)) Option { return func(m *Manager) { m.codes = gen } }

// WithBcryptCost sets the cost used to hash codes.
func WithBcryptCost(cost int) Option { return func(m *Manager) { m.cost = cost } }

// WithRetention sets how long the key of a session is kept after a code is
// issued, so a late submission is answered with ErrExpired.
func WithRetention(d time.Duration) Option { return func(m *Manager) { m.retention = d } }

// WithPrefix sets the Redis key prefix (default "verify").
func WithPrefix(p string) Option { return func(m *Manager) { m.prefix = p } }

// NewManager returns a Manager storing records in rdb.  A non-positive ttl
// falls back to DefaultTTL.
func NewManager(rdb redis.Cmdable, ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		rdb:       rdb,
		ttl:       ttl,
		retention: DefaultRetention,
		cost:      10,
		prefix:    "verify",
		now:       time.Now,
		codes:     GenerateCode,
	}
	for _, o := range opts {
		o(m)
	}
	if m.retention < m.ttl+keyGrace {
		m.retention = m.ttl + keyGrace
	}
	return m
}

func (m *Manager) key(sessionID string) string { return m.prefix + ":" + sessionID }

// CreatePending issues a fresh code for the session and stores the
// booking with it.  Any previous record of the session is replaced.
func (m *Manager) CreatePending(ctx context.Context, sessionID string, b model.Booking) (*Pending, error) {
	code, err := m.codes()
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashCode(code, m.cost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}
	now := m.now().UTC()
	rec := record{CodeHash: hash, Booking: b, ExpiresAt: now.Add(m.ttl), CreatedAt: now}
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	if err := m.rdb.Set(ctx, m.key(sessionID), payload, m.retention).Err(); err != nil {
		return nil, fmt.Errorf("store pending record: %w", err)
	}
	return &Pending{Code: code, Booking: b, ExpiresAt: rec.ExpiresAt}, nil
}

// Verify checks code against the session's record.  On success the record
// is consumed and its booking returned; a concurrent Verify of the same
// record then reports ErrNoPendingSession.
func (m *Manager) Verify(ctx context.Context, sessionID, code string) (model.Booking, error) {
	key := m.key(sessionID)
	raw, err := m.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return model.Booking{}, ErrNoPendingSession
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("load pending record: %w", err)
	}
	if raw == expiredMarker {
		return model.Booking{}, ErrExpired
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		_ = m.rdb.Del(ctx, key).Err()
		return model.Booking{}, ErrNoPendingSession
	}
	if m.now().UTC().After(rec.ExpiresAt) {
		err := expireScript.Run(ctx, m.rdb, []string{key}, raw, expiredMarker).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return model.Booking{}, fmt.Errorf("mark record expired: %w", err)
		}
		return model.Booking{}, ErrExpired
	}
	if !utils.CodeMatches(rec.CodeHash, strings.TrimSpace(code)) {
		return model.Booking{}, ErrCodeMismatch
	}
	n, err := consumeScript.Run(ctx, m.rdb, []string{key}, raw).Int64()
	if err != nil {
		return model.Booking{}, fmt.Errorf("consume pending record: %w", err)
	}
	if n != 1 {
		return model.Booking{}, ErrNoPendingSession
	}
	return rec.Booking, nil
}

// Clear removes the session's record, if any.
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	return m.rdb.Del(ctx, m.key(sessionID)).Err()
}
