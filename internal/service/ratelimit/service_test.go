package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apartmani-bj/booking-service/internal/domain"
)

var testNow = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

// Фейк хранилища счетчиков

type counterKey struct {
	kind       domain.IdentifierKind
	identifier string
}

type fakeStore struct {
	counts  map[counterKey]int64
	blocks  map[counterKey]time.Time
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counts: make(map[counterKey]int64),
		blocks: make(map[counterKey]time.Time),
	}
}

func (f *fakeStore) Increment(_ context.Context, kind domain.IdentifierKind, identifier string, _ time.Duration) (int64, error) {
	if f.failAll {
		return 0, errors.New("store down")
	}
	key := counterKey{kind, identifier}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeStore) SetBlock(_ context.Context, kind domain.IdentifierKind, identifier string, until time.Time) error {
	if f.failAll {
		return errors.New("store down")
	}
	f.blocks[counterKey{kind, identifier}] = until
	return nil
}

func (f *fakeStore) BlockedUntil(_ context.Context, kind domain.IdentifierKind, identifier string) (*time.Time, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	until, ok := f.blocks[counterKey{kind, identifier}]
	if !ok {
		return nil, nil
	}
	return &until, nil
}

func (f *fakeStore) Clear(_ context.Context, kind domain.IdentifierKind, identifier string) error {
	if f.failAll {
		return errors.New("store down")
	}
	key := counterKey{kind, identifier}
	delete(f.counts, key)
	delete(f.blocks, key)
	return nil
}

func (f *fakeStore) Status(_ context.Context, kind domain.IdentifierKind, identifier string) (*domain.RateLimitStatus, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	status := &domain.RateLimitStatus{
		Kind:       kind,
		Identifier: identifier,
		Attempts:   f.counts[counterKey{kind, identifier}],
	}
	if until, ok := f.blocks[counterKey{kind, identifier}]; ok {
		status.BlockedUntil = &until
	}
	return status, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testRules() Rules {
	return Rules{
		domain.KindIP:          {MaxAttempts: 3, Window: time.Hour, BlockFor: 2 * time.Hour},
		domain.KindEmail:       {MaxAttempts: 2, Window: time.Hour, BlockFor: 4 * time.Hour},
		domain.KindFingerprint: {MaxAttempts: 3, Window: time.Hour, BlockFor: 3 * time.Hour},
	}
}

func newService(store *fakeStore) *Service {
	return NewService(store, testRules(), fixedTime{now: testNow}, nopLogger{})
}

func TestCheckAllowsUnderLimit(t *testing.T) {
	svc := newService(newFakeStore())

	for i := 0; i < 2; i++ {
		decision := svc.Check(context.Background(), "203.0.113.7", "guest@example.com", "fp-1")
		assert.True(t, decision.Allowed)
	}
}

func TestCheckBlocksAfterExceeding(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	// Лимит email 2, третья попытка блокирует
	for i := 0; i < 2; i++ {
		require.True(t, svc.Check(context.Background(), "", "guest@example.com", "").Allowed)
	}

	decision := svc.Check(context.Background(), "", "guest@example.com", "")
	require.False(t, decision.Allowed)
	assert.Equal(t, "too many booking attempts for this email address", decision.Reason)
	require.NotNil(t, decision.BlockedUntil)
	assert.Equal(t, testNow.Add(4*time.Hour), *decision.BlockedUntil)

	until, ok := store.blocks[counterKey{domain.KindEmail, "guest@example.com"}]
	require.True(t, ok, "block must be persisted")
	assert.Equal(t, testNow.Add(4*time.Hour), until)
}

func TestCheckDeniesWhileBlocked(t *testing.T) {
	store := newFakeStore()
	store.blocks[counterKey{domain.KindIP, "203.0.113.7"}] = testNow.Add(time.Hour)
	svc := newService(store)

	decision := svc.Check(context.Background(), "203.0.113.7", "guest@example.com", "")
	require.False(t, decision.Allowed)
	assert.Equal(t, "too many booking attempts from this IP address", decision.Reason)

	// Заблокированный запрос не накручивает счетчики
	assert.Empty(t, store.counts)
}

func TestCheckReportsSoonestUnblock(t *testing.T) {
	store := newFakeStore()
	store.blocks[counterKey{domain.KindIP, "203.0.113.7"}] = testNow.Add(3 * time.Hour)
	store.blocks[counterKey{domain.KindEmail, "guest@example.com"}] = testNow.Add(time.Hour)
	svc := newService(store)

	decision := svc.Check(context.Background(), "203.0.113.7", "guest@example.com", "")
	require.False(t, decision.Allowed)
	require.NotNil(t, decision.BlockedUntil)
	assert.Equal(t, testNow.Add(time.Hour), *decision.BlockedUntil, "the earliest unblock moment wins")
	assert.Equal(t, "too many booking attempts for this email address", decision.Reason)
}

func TestCheckIgnoresExpiredBlock(t *testing.T) {
	store := newFakeStore()
	store.blocks[counterKey{domain.KindIP, "203.0.113.7"}] = testNow.Add(-time.Minute)
	svc := newService(store)

	decision := svc.Check(context.Background(), "203.0.113.7", "", "")
	assert.True(t, decision.Allowed)
}

func TestCheckFailsOpenOnStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.failAll = true
	svc := newService(store)

	decision := svc.Check(context.Background(), "203.0.113.7", "guest@example.com", "fp-1")
	assert.True(t, decision.Allowed, "store outage must not reject guests")
}

func TestCheckSkipsEmptyIdentifiers(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	decision := svc.Check(context.Background(), "", "guest@example.com", "")
	require.True(t, decision.Allowed)
	assert.Len(t, store.counts, 1, "only the present identifier is counted")
}

func TestRecordSuccessClearsAllKinds(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	for i := 0; i < 2; i++ {
		svc.Check(context.Background(), "203.0.113.7", "guest@example.com", "fp-1")
	}
	require.NotEmpty(t, store.counts)

	svc.RecordSuccess(context.Background(), "203.0.113.7", "guest@example.com", "fp-1")
	assert.Empty(t, store.counts)
	assert.Empty(t, store.blocks)
}

func TestStatus(t *testing.T) {
	store := newFakeStore()
	store.counts[counterKey{domain.KindIP, "203.0.113.7"}] = 2
	svc := newService(store)

	status, err := svc.Status(context.Background(), "ip", "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, domain.KindIP, status.Kind)
	assert.Equal(t, int64(2), status.Attempts)
	assert.Nil(t, status.BlockedUntil)
}

func TestStatusInvalidKind(t *testing.T) {
	svc := newService(newFakeStore())

	_, err := svc.Status(context.Background(), "passport", "x")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestClear(t *testing.T) {
	store := newFakeStore()
	store.counts[counterKey{domain.KindIP, "203.0.113.7"}] = 5
	store.blocks[counterKey{domain.KindIP, "203.0.113.7"}] = testNow.Add(time.Hour)
	svc := newService(store)

	require.NoError(t, svc.Clear(context.Background(), "ip", "203.0.113.7"))
	assert.Empty(t, store.counts)
	assert.Empty(t, store.blocks)

	// Разблокированный идентификатор сразу проходит проверку
	assert.True(t, svc.Check(context.Background(), "203.0.113.7", "", "").Allowed)
}

func TestClearInvalidKind(t *testing.T) {
	svc := newService(newFakeStore())

	assert.ErrorIs(t, svc.Clear(context.Background(), "passport", "x"), ErrInvalidKind)
}
