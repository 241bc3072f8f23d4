package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

var _ portssvc.NotificationSink = (*KafkaSink)(nil)

// messageWriter is the part of *kafka.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NotificationEvent is the payload published for downstream mailers.
type NotificationEvent struct {
	NotificationID string          `json:"notification_id"`
	UserID         string          `json:"user_id"`
	Recipient      string          `json:"recipient"`
	Date           string          `json:"date"`
	Subject        string          `json:"subject"`
	Body           string          `json:"body"`
	Breaches       []domain.Breach `json:"breaches"`
}

// KafkaSink publishes notifications to a topic keyed by user id.
type KafkaSink struct {
	writer messageWriter
	topic  string
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		topic: topic,
	}
}

func (s *KafkaSink) Send(ctx context.Context, n domain.Notification) error {
	v, err := json.Marshal(NotificationEvent{
		NotificationID: n.NotificationID,
		UserID:         n.UserID,
		Recipient:      n.Recipient,
		Date:           n.Date.Format(domain.DateLayout),
		Subject:        n.Subject,
		Body:           n.Body,
		Breaches:       n.Breaches,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification %s: %w", n.NotificationID, err)
	}

	msg := kafka.Message{
		Key:   []byte(n.UserID),
		Value: v,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "notification_id", Value: []byte(n.NotificationID)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish notification to %s: %w", s.topic, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
