package notifier

import "context"

// NoopClient заглушка для окружений без Kafka (локальная разработка, тесты).
// События пишутся в лог и отбрасываются.
type NoopClient struct {
	logger Logger
}

// NewNoopClient создает клиента-заглушку
func NewNoopClient(logger Logger) *NoopClient {
	return &NoopClient{logger: logger}
}

func (c *NoopClient) NotifyReservationRequested(_ context.Context, info ReservationInfo) error {
	c.logger.Info("noop notifier: %s for reservation %s", EventReservationRequested, info.ReservationNumber)
	return nil
}

func (c *NoopClient) NotifyReservationConfirmed(_ context.Context, info ReservationInfo) error {
	c.logger.Info("noop notifier: %s for reservation %s", EventReservationConfirmed, info.ReservationNumber)
	return nil
}

func (c *NoopClient) NotifyReviewRequested(_ context.Context, info ReservationInfo) error {
	c.logger.Info("noop notifier: %s for reservation %s", EventReviewRequested, info.ReservationNumber)
	return nil
}

func (c *NoopClient) Close() error {
	return nil
}
