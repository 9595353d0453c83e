package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"riskmap_service/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "risk-alerts"

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes risk alerts to a Kafka topic keyed by project id.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(alerts))
	for _, alert := range alerts {
		if alert.ID == "" || alert.ProjectID == "" {
			return fmt.Errorf("alert missing required fields: id=%q, project_id=%q", alert.ID, alert.ProjectID)
		}
		value, err := json.Marshal(alert)
		if err != nil {
			return fmt.Errorf("marshal alert %s: %w", alert.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(alert.ProjectID),
			Value: value,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d alerts to %s: %w", len(msgs), p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher only logs alerts. It is used when no brokers are configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, alerts []model.Alert) error {
	for _, alert := range alerts {
		log.Printf("Alert %s [%s] project=%s: %s", alert.ID, alert.Severity, alert.ProjectID, alert.Title)
	}
	return nil
}

func (LogPublisher) Close() error { return nil }
