package incident

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	slogctx "github.com/veqryn/slog-context"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

func NewKafkaReader(topic, groupID string, brokers ...string) *kafka.Reader {
	if topic == "" {
		topic = DefaultTopic
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6,
	})
}

// Watcher consumes published incidents, e.g. for an operator console.
type Watcher struct {
	reader MessageReader
}

func NewWatcher(reader MessageReader) *Watcher {
	return &Watcher{reader: reader}
}

// Run calls handle for every incident read until ctx is done. Messages that
// do not decode are logged and skipped.
func (w *Watcher) Run(ctx context.Context, handle func(Incident)) error {
	for {
		m, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var inc Incident
		if err := json.Unmarshal(m.Value, &inc); err != nil {
			slogctx.Warn(ctx, "skipping malformed incident message", "offset", m.Offset, "error", err)
			continue
		}
		handle(inc)
	}
}

func (w *Watcher) Close() error {
	return w.reader.Close()
}
