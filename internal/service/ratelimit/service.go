package ratelimit

import (
	"context"
	"time"

	"github.com/apartmani-bj/booking-service/internal/domain"
)

// Rule пороги для одного вида идентификатора
type Rule struct {
	MaxAttempts int
	Window      time.Duration
	BlockFor    time.Duration
}

// Rules пороги по видам идентификаторов
type Rules map[domain.IdentifierKind]Rule

// Service сервис rate limiting для защиты публичного создания бронирований.
// Учитывает три независимых идентификатора: IP, email и fingerprint браузера.
// При недоступности хранилища сервис пропускает запрос (fail-open):
// потеря защиты от перебора лучше, чем отказ легитимным гостям.
type Service struct {
	store        CounterStore
	rules        Rules
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса rate limiting
func NewService(store CounterStore, rules Rules, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		store:        store,
		rules:        rules,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Check проверяет, разрешена ли попытка бронирования для набора идентификаторов.
// Пустые идентификаторы пропускаются. Каждая проверка увеличивает счетчики,
// превышение порога блокирует идентификатор на время BlockFor.
func (s *Service) Check(ctx context.Context, ip, email, fingerprint string) *domain.RateLimitDecision {
	now := s.timeProvider.Now()
	identifiers := s.presentIdentifiers(ip, email, fingerprint)

	// Сначала активные блокировки. Если заблокировано несколько
	// идентификаторов, сообщаем ближайший момент разблокировки.
	var blocked *domain.RateLimitDecision
	for _, entry := range identifiers {
		until, err := s.store.BlockedUntil(ctx, entry.kind, entry.identifier)
		if err != nil {
			s.logger.Error("Check: block lookup failed for %s, failing open: %v", entry.kind, err)
			continue
		}
		if until == nil || !until.After(now) {
			continue
		}
		if blocked == nil || until.Before(*blocked.BlockedUntil) {
			blocked = &domain.RateLimitDecision{
				Allowed:      false,
				Reason:       blockReason(entry.kind),
				BlockedUntil: until,
			}
		}
	}
	if blocked != nil {
		s.logger.Warn("Check: request blocked until %s", blocked.BlockedUntil.Format(time.RFC3339))
		return blocked
	}

	// Затем счетчики. Превышение любого порога блокирует идентификатор
	// и отклоняет запрос.
	var exceeded *domain.RateLimitDecision
	for _, entry := range identifiers {
		rule, ok := s.rules[entry.kind]
		if !ok {
			continue
		}

		count, err := s.store.Increment(ctx, entry.kind, entry.identifier, rule.Window)
		if err != nil {
			s.logger.Error("Check: counter increment failed for %s, failing open: %v", entry.kind, err)
			continue
		}
		if count <= int64(rule.MaxAttempts) {
			continue
		}

		until := now.Add(rule.BlockFor)
		if err := s.store.SetBlock(ctx, entry.kind, entry.identifier, until); err != nil {
			s.logger.Error("Check: failed to set block for %s: %v", entry.kind, err)
		}
		s.logger.Warn("Check: %s exceeded limit (%d/%d), blocked until %s",
			entry.kind, count, rule.MaxAttempts, until.Format(time.RFC3339))

		if exceeded == nil {
			exceeded = &domain.RateLimitDecision{
				Allowed:      false,
				Reason:       blockReason(entry.kind),
				BlockedUntil: &until,
			}
		}
	}
	if exceeded != nil {
		return exceeded
	}

	return &domain.RateLimitDecision{Allowed: true}
}

// RecordSuccess сбрасывает счетчики после успешного бронирования.
// Лимиты защищают от перебора, а не от повторных легитимных броней.
func (s *Service) RecordSuccess(ctx context.Context, ip, email, fingerprint string) {
	for _, entry := range s.presentIdentifiers(ip, email, fingerprint) {
		if err := s.store.Clear(ctx, entry.kind, entry.identifier); err != nil {
			s.logger.Error("RecordSuccess: failed to clear counters for %s: %v", entry.kind, err)
		}
	}
}

// Status возвращает состояние счетчика для административной диагностики
func (s *Service) Status(ctx context.Context, kind string, identifier string) (*domain.RateLimitStatus, error) {
	parsed := domain.IdentifierKind(kind)
	if _, ok := s.rules[parsed]; !ok {
		return nil, ErrInvalidKind
	}

	status, err := s.store.Status(ctx, parsed, identifier)
	if err != nil {
		s.logger.Error("Status: store error for %s:%s: %v", kind, identifier, err)
		return nil, ErrInternal
	}
	return status, nil
}

// Clear сбрасывает счетчик, метаданные и блокировку идентификатора.
// Административная операция для ручной разблокировки легитимного гостя.
func (s *Service) Clear(ctx context.Context, kind string, identifier string) error {
	parsed := domain.IdentifierKind(kind)
	if _, ok := s.rules[parsed]; !ok {
		return ErrInvalidKind
	}

	if err := s.store.Clear(ctx, parsed, identifier); err != nil {
		s.logger.Error("Clear: store error for %s:%s: %v", kind, identifier, err)
		return ErrInternal
	}

	s.logger.Info("Clear: counters reset for %s:%s", kind, identifier)
	return nil
}

type identifierEntry struct {
	kind       domain.IdentifierKind
	identifier string
}

func (s *Service) presentIdentifiers(ip, email, fingerprint string) []identifierEntry {
	entries := make([]identifierEntry, 0, 3)
	if ip != "" {
		entries = append(entries, identifierEntry{domain.KindIP, ip})
	}
	if email != "" {
		entries = append(entries, identifierEntry{domain.KindEmail, email})
	}
	if fingerprint != "" {
		entries = append(entries, identifierEntry{domain.KindFingerprint, fingerprint})
	}
	return entries
}

func blockReason(kind domain.IdentifierKind) string {
	switch kind {
	case domain.KindIP:
		return "too many booking attempts from this IP address"
	case domain.KindEmail:
		return "too many booking attempts for this email address"
	case domain.KindFingerprint:
		return "too many booking attempts from this device"
	default:
		return "too many booking attempts"
	}
}
