package kafka

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"lookFeed/pkg/logger"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
)

const (
	FeatureEventTopic = "feature-event-topic"
	ActionEventTopic  = "action-event-topic"
)

type EventConfig struct {
	BootstrapServers []string
	APIKey           string
	APISecret        string
	ClientID         string
}

// EventRepository publishes feature/action events. Publishing is
// fire-and-forget: delivery failures are logged, never surfaced to the
// request path.
type EventRepository struct {
	client *kgo.Client
}

func NewEventRepository(cfg EventConfig) (*EventRepository, error) {
	if cfg.ClientID == "" {
		cfg.ClientID = "lookfeed-producer"
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.BootstrapServers...),
		kgo.ClientID(cfg.ClientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}

	// Confluent Cloud style SASL_SSL with API key/secret
	if cfg.APIKey != "" {
		opts = append(opts,
			kgo.SASL(plain.Auth{
				User: cfg.APIKey,
				Pass: cfg.APISecret,
			}.AsMechanism()),
			kgo.DialTLSConfig(new(tls.Config)),
		)
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &EventRepository{client: client}, nil
}

type eventEnvelope struct {
	RequestID string `json:"request_id"`
	EventTime int64  `json:"event_time"`
	Data      string `json:"data"`
}

func (r *EventRepository) PublishFeatureEvent(ctx context.Context, requestID string, payload map[string]any) {
	r.publish(ctx, FeatureEventTopic, requestID, payload)
}

func (r *EventRepository) PublishActionEvent(ctx context.Context, requestID string, payload map[string]any) {
	r.publish(ctx, ActionEventTopic, requestID, payload)
}

func (r *EventRepository) publish(ctx context.Context, topic, requestID string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("Failed to marshal event payload", "topic", topic, "error", err)
		return
	}

	envelope, err := json.Marshal(eventEnvelope{
		RequestID: requestID,
		EventTime: time.Now().UnixMilli(),
		Data:      string(data),
	})
	if err != nil {
		logger.Warn("Failed to marshal event envelope", "topic", topic, "error", err)
		return
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(requestID),
		Value: envelope,
	}

	r.client.Produce(ctx, record, func(rec *kgo.Record, err error) {
		if err != nil {
			logger.Warn("Kafka delivery failed", "topic", rec.Topic, "error", err)
		}
	})
}

// Close flushes pending records and tears down the client.
func (r *EventRepository) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.client.Flush(ctx); err != nil {
		logger.Warn("Kafka flush incomplete on shutdown", "error", err)
	}
	r.client.Close()
}
