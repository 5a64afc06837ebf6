package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/apartmani-bj/booking-service/internal/domain"
)

// Store хранилище счетчиков попыток и блокировок в Redis.
// Ключи разделены по виду идентификатора (ip, email, fingerprint).
type Store struct {
	client *redis.Client
}

// NewStore создает новый экземпляр хранилища счетчиков
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func attemptsKey(kind domain.IdentifierKind, identifier string) string {
	return fmt.Sprintf("ratelimit:attempts:%s:%s", kind, identifier)
}

func metaKey(kind domain.IdentifierKind, identifier string) string {
	return fmt.Sprintf("ratelimit:meta:%s:%s", kind, identifier)
}

func blockKey(kind domain.IdentifierKind, identifier string) string {
	return fmt.Sprintf("ratelimit:block:%s:%s", kind, identifier)
}

// Increment атомарно увеличивает счетчик попыток и возвращает новое значение.
// Окно отсчитывается от первой попытки: TTL выставляется только создателем ключа.
func (s *Store) Increment(ctx context.Context, kind domain.IdentifierKind, identifier string, window time.Duration) (int64, error) {
	key := attemptsKey(kind, identifier)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: Increment - incr counter: %v", ErrStoreUnavailable, err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	meta := metaKey(kind, identifier)

	pipe := s.client.Pipeline()
	if count == 1 {
		pipe.HSetNX(ctx, meta, "first_attempt_at", now)
	}
	pipe.HSet(ctx, meta, "last_attempt_at", now)
	if count == 1 {
		// Expiry после записи хеша: PEXPIRE на несуществующем ключе ничего не делает
		pipe.PExpire(ctx, key, window)
		pipe.PExpire(ctx, meta, window)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: Increment - update meta: %v", ErrStoreUnavailable, err)
	}

	return count, nil
}

// SetBlock помечает идентификатор заблокированным до указанного момента
func (s *Store) SetBlock(ctx context.Context, kind domain.IdentifierKind, identifier string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	err := s.client.Set(ctx, blockKey(kind, identifier), until.UTC().Format(time.RFC3339Nano), ttl).Err()
	if err != nil {
		return fmt.Errorf("%w: SetBlock - set block marker: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// BlockedUntil возвращает момент окончания блокировки либо nil, если блокировки нет
func (s *Store) BlockedUntil(ctx context.Context, kind domain.IdentifierKind, identifier string) (*time.Time, error) {
	val, err := s.client.Get(ctx, blockKey(kind, identifier)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: BlockedUntil - get block marker: %v", ErrStoreUnavailable, err)
	}

	until, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return nil, fmt.Errorf("%w: BlockedUntil - parse block marker: %v", ErrStoreUnavailable, err)
	}
	return &until, nil
}

// Clear удаляет счетчик, метаданные и блокировку идентификатора
func (s *Store) Clear(ctx context.Context, kind domain.IdentifierKind, identifier string) error {
	err := s.client.Del(ctx,
		attemptsKey(kind, identifier),
		metaKey(kind, identifier),
		blockKey(kind, identifier),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: Clear - delete keys: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Status возвращает текущее состояние счетчика для операционной диагностики
func (s *Store) Status(ctx context.Context, kind domain.IdentifierKind, identifier string) (*domain.RateLimitStatus, error) {
	status := &domain.RateLimitStatus{
		Kind:       kind,
		Identifier: identifier,
	}

	count, err := s.client.Get(ctx, attemptsKey(kind, identifier)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: Status - get counter: %v", ErrStoreUnavailable, err)
	}
	status.Attempts = count

	meta, err := s.client.HGetAll(ctx, metaKey(kind, identifier)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: Status - get meta: %v", ErrStoreUnavailable, err)
	}
	if raw, ok := meta["first_attempt_at"]; ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			status.FirstAttempt = &t
		}
	}
	if raw, ok := meta["last_attempt_at"]; ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			status.LastAttempt = &t
		}
	}

	blockedUntil, err := s.BlockedUntil(ctx, kind, identifier)
	if err != nil {
		return nil, err
	}
	status.BlockedUntil = blockedUntil

	return status, nil
}
