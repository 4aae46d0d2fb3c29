package incident

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	slogctx "github.com/veqryn/slog-context"
)

const DefaultTopic = "checkout-incidents"

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(topic string, brokers ...string) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// Publisher forwards unpublished journal entries to Kafka and marks them
// published. A nil writer disables publishing.
type Publisher struct {
	journal *Journal
	writer  MessageWriter
}

func NewPublisher(journal *Journal, writer MessageWriter) *Publisher {
	return &Publisher{journal: journal, writer: writer}
}

func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// Flush publishes every unpublished incident once and returns how many went
// out. Incidents that fail to publish stay unpublished for the next flush.
func (p *Publisher) Flush(ctx context.Context) (int, error) {
	if p.writer == nil {
		return 0, nil
	}

	pending, err := p.journal.Unpublished(ctx)
	if err != nil {
		return 0, err
	}

	var sent []string
	for _, inc := range pending {
		if err := p.publish(ctx, inc); err != nil {
			slogctx.Error(ctx, "incident publish failed", "incident_id", inc.ID, "error", err)
			continue
		}
		sent = append(sent, inc.ID)
	}

	if err := p.journal.MarkPublished(ctx, sent...); err != nil {
		return 0, err
	}
	return len(sent), nil
}

// Run flushes on every tick until ctx is done.
func (p *Publisher) Run(ctx context.Context, tick time.Duration) {
	if p.writer == nil {
		return
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := p.Flush(ctx); err != nil {
				slogctx.Error(ctx, "incident flush failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, inc Incident) error {
	payload, err := json.Marshal(inc)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(inc.TransactionID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("payment_taken_order_missing")},
			{Key: "incident_id", Value: []byte(inc.ID)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
