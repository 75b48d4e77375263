package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const defaultWriteTimeout = 2 * time.Second

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// KafkaPublisher публикует события в топик Kafka
// Ключ сообщения - ID агрегата, поэтому события одной записи попадают в одну партицию
type KafkaPublisher struct {
	writer       *kafka.Writer
	writeTimeout time.Duration
	logger       Logger
}

// NewKafkaPublisher создает publisher для указанных брокеров и топика
func NewKafkaPublisher(brokers []string, topic string, writeTimeout time.Duration, logger Logger) *KafkaPublisher {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// Publish отправляет событие синхронно с ограничением по времени
// Отмена контекста запроса не прерывает публикацию уже зафиксированного изменения
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := toMessage(event)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("%w: %s id=%s: %v", ErrPublish, event.Type, event.ID, err)
	}

	p.logger.Info("Events: published %s id=%s aggregate=%d", event.Type, event.ID, event.AggregateID)
	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(event Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("%w: marshal %s: %v", ErrPublish, event.Type, err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AggregateID, 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}
