package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/apartmani-bj/booking-service/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client публикует события жизненного цикла бронирования в Kafka.
// Письма гостям и администратору отправляет отдельный потребитель,
// ядро бронирования только фиксирует факт события.
type Client struct {
	producer sarama.SyncProducer
	topic    string
	logger   Logger
}

// NewClient создает клиента уведомлений поверх синхронного продюсера Kafka
func NewClient(brokers []string, topic string, logger Logger) (*Client, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("notifier.client: NewClient - create producer: %w", err)
	}

	return &Client{producer: producer, topic: topic, logger: logger}, nil
}

// NotifyReservationRequested публикует событие о новой заявке (письмо администратору)
func (c *Client) NotifyReservationRequested(ctx context.Context, info ReservationInfo) error {
	return c.publish(ctx, EventReservationRequested, info)
}

// NotifyReservationConfirmed публикует событие о подтверждении (письмо гостю)
func (c *Client) NotifyReservationConfirmed(ctx context.Context, info ReservationInfo) error {
	return c.publish(ctx, EventReservationConfirmed, info)
}

// NotifyReviewRequested публикует событие после выезда (просьба оставить отзыв)
func (c *Client) NotifyReviewRequested(ctx context.Context, info ReservationInfo) error {
	return c.publish(ctx, EventReviewRequested, info)
}

// Close закрывает продюсера
func (c *Client) Close() error {
	return c.producer.Close()
}

func (c *Client) publish(_ context.Context, eventType string, info ReservationInfo) error {
	event := reservationEvent{
		Type:              eventType,
		ReservationID:     info.ID,
		ReservationNumber: info.ReservationNumber,
		UnitName:          info.UnitName,
		GuestName:         info.GuestName,
		GuestEmail:        info.GuestEmail,
		GuestPhone:        info.GuestPhone,
		CheckIn:           info.CheckIn.Format(domain.DateFormat),
		CheckOut:          info.CheckOut.Format(domain.DateFormat),
		TotalPrice:        info.TotalPrice,
		Language:          info.Language,
		Note:              info.Note,
		OccurredAt:        time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: publish - marshal %s: %v", ErrMarshalEvent, eventType, err)
	}

	// Ключ - ID бронирования, чтобы события одной брони шли в один раздел по порядку
	msg := &sarama.ProducerMessage{
		Topic: c.topic,
		Key:   sarama.StringEncoder(info.ID.String()),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := c.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("%w: publish - send %s: %v", ErrPublishEvent, eventType, err)
	}

	c.logger.Info("publish: %s for reservation %s delivered (partition=%d, offset=%d)",
		eventType, info.ReservationNumber, partition, offset)
	return nil
}
