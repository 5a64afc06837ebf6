package notifier

import "errors"

var (
	// ErrMarshalEvent возвращается при ошибке сериализации события
	ErrMarshalEvent = errors.New("notifier.client: failed to marshal event")

	// ErrPublishEvent возвращается при ошибке отправки события в брокер
	ErrPublishEvent = errors.New("notifier.client: failed to publish event")
)
