package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует доменные события в Kafka
// Ключ сообщения - ID специалиста: события одной временной шкалы
// попадают в одну партицию и сохраняют порядок
type Publisher struct {
	writer *kafka.Writer
	log    Logger
}

// NewPublisher создает публикатор событий
func NewPublisher(brokers []string, topic string, log Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}

	return &Publisher{writer: writer, log: log}
}

// Publish отправляет событие
// Ошибка публикации логируется, но не роняет бизнес-операцию:
// запись уже зафиксирована в БД
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.SpecialistID, 10)),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: publish %s: %w", event.Type, err)
	}

	p.log.Info("events: published %s for appointment=%d", event.Type, event.AppointmentID)
	return nil
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher заглушка, используется когда публикация событий выключена
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}
