package events

import (
	"context"
	"errors"
)

// ErrPublish возвращается при ошибке публикации события
var ErrPublish = errors.New("events: publish failed")

// Publisher отправляет события и освобождает соединения при остановке
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher используется, когда брокеры не настроены
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
