package verification

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newManager(t *testing.T, code string) (*Manager, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	clock := &fakeClock{t: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)}
	m := NewManager(rdb, DefaultTTL,
		WithClock(clock.Now),
		WithBcryptCost(bcrypt.MinCost),
		WithCodeSource(func() (string, error) { return code, nil }),
	)
	return m, mr, clock
}

var sample = model.Booking{
	Date: "2025-03-10", Time: "14:00", Name: "Aiko Tanaka",
	Phone: "0600000000", Email: "aiko@example.com", Level: "N3", Lang: "fr",
}

func TestGenerateCodeFormat(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 200; i++ {
		c, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, re, c)
	}
}

func TestCreatePendingStoresHashOnly(t *testing.T) {
	m, mr, _ := newManager(t, "012345")
	p, err := m.CreatePending(context.Background(), "s1", sample)
	require.NoError(t, err)
	assert.Equal(t, "012345", p.Code)
	assert.Equal(t, time.Date(2025, 3, 10, 10, 10, 0, 0, time.UTC), p.ExpiresAt)

	raw, err := mr.Get("verify:s1")
	require.NoError(t, err)
	assert.NotContains(t, raw, "012345")
	assert.Greater(t, mr.TTL("verify:s1"), DefaultTTL)
}

func TestVerifySuccessConsumesRecord(t *testing.T) {
	m, mr, clock := newManager(t, "482913")
	ctx := context.Background()
	_, err := m.CreatePending(ctx, "s1", sample)
	require.NoError(t, err)

	clock.Advance(3 * time.Minute)
	b, err := m.Verify(ctx, "s1", "482913")
	require.NoError(t, err)
	assert.Equal(t, sample, b)
	assert.False(t, mr.Exists("verify:s1"))

	_, err = m.Verify(ctx, "s1", "482913")
	assert.ErrorIs(t, err, ErrNoPendingSession)
}

func TestVerifyMismatchKeepsRecord(t *testing.T) {
	m, mr, _ := newManager(t, "482913")
	ctx := context.Background()
	_, err := m.CreatePending(ctx, "s1", sample)
	require.NoError(t, err)

	_, err = m.Verify(ctx, "s1", "000000")
	assert.ErrorIs(t, err, ErrCodeMismatch)
	assert.True(t, mr.Exists("verify:s1"))

	b, err := m.Verify(ctx, "s1", " 482913 ")
	require.NoError(t, err)
	assert.Equal(t, sample.Email, b.Email)
}

func TestVerifyExpired(t *testing.T) {
	m, mr, clock := newManager(t, "482913")
	ctx := context.Background()
	_, err := m.CreatePending(ctx, "s1", sample)
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	_, err = m.Verify(ctx, "s1", "482913")
	assert.ErrorIs(t, err, ErrExpired)
	raw, err := mr.Get("verify:s1")
	require.NoError(t, err)
	assert.NotContains(t, raw, sample.Email)

	_, err = m.Verify(ctx, "s1", "482913")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyExpiredLongAfterIssue(t *testing.T) {
	m, mr, clock := newManager(t, "482913")
	ctx := context.Background()
	_, err := m.CreatePending(ctx, "s1", sample)
	require.NoError(t, err)

	clock.Advance(16 * time.Minute)
	mr.FastForward(16 * time.Minute)
	_, err = m.Verify(ctx, "s1", "482913")
	assert.ErrorIs(t, err, ErrExpired)

	clock.Advance(6 * time.Hour)
	mr.FastForward(6 * time.Hour)
	_, err = m.Verify(ctx, "s1", "000000")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestRetentionNeverShorterThanCode(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	m := NewManager(rdb, DefaultTTL, WithRetention(time.Minute), WithBcryptCost(bcrypt.MinCost))
	_, err := m.CreatePending(context.Background(), "s1", sample)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL+keyGrace, mr.TTL("verify:s1"))
}

func TestVerifyAtExactExpiryStillValid(t *testing.T) {
	m, _, clock := newManager(t, "482913")
	ctx := context.Background()
	_, err := m.CreatePending(ctx, "s1", sample)
	require.NoError(t, err)

	clock.Advance(DefaultTTL)
	_, err = m.Verify(ctx, "s1", "482913")
	assert.NoError(t, err)
}

func TestVerifyWithoutSession(t *testing.T) {
	m, _, _ := newManager(t, "482913")
	_, err := m.Verify(context.Background(), "nobody", "482913")
	assert.ErrorIs(t, err, ErrNoPendingSession)
}

func TestCreatePendingReplacesPrevious(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	codes := []string{"111111", "222222"}
	m := NewManager(rdb, DefaultTTL, WithBcryptCost(bcrypt.MinCost), WithCodeSource(func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}))
	ctx := context.Background()
	_, err := m.CreatePending(ctx, "s1", sample)
	require.NoError(t, err)
	second := sample
	second.Time = "15:00"
	_, err = m.CreatePending(ctx, "s1", second)
	require.NoError(t, err)

	_, err = m.Verify(ctx, "s1", "111111")
	assert.ErrorIs(t, err, ErrCodeMismatch)
	b, err := m.Verify(ctx, "s1", "222222")
	require.NoError(t, err)
	assert.Equal(t, "15:00", b.Time)
}

func TestConcurrentVerifySucceedsOnce(t *testing.T) {
	m, _, _ := newManager(t, "482913")
	ctx := context.Background()
	_, err := m.CreatePending(ctx, "s1", sample)
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Verify(ctx, "s1", "482913")
			results <- err
		}()
	}
	wg.Wait()
	close(results)
	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrNoPendingSession)
	}
	assert.Equal(t, 1, ok)
}

func TestClear(t *testing.T) {
	m, mr, _ := newManager(t, "482913")
	ctx := context.Background()
	_, err := m.CreatePending(ctx, "s1", sample)
	require.NoError(t, err)
	require.NoError(t, m.Clear(ctx, "s1"))
	assert.False(t, mr.Exists("verify:s1"))
	require.NoError(t, m.Clear(ctx, "s1"))
}
