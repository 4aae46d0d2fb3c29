package incident

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/storage"
)

type fakeWriter struct {
	messages []kafka.Message
	failKey  string
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		if string(m.Key) == f.failKey {
			return errors.New("broker unavailable")
		}
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sample(tx int64) Incident {
	return Incident{
		TransactionID: tx,
		UserID:        3,
		Amount:        decimal.RequireFromString("20.39"),
		PaymentMethod: domain.PaymentCard,
		Items:         []domain.OrderItem{{DishID: 1, Amount: 2}},
		Reason:        "payments.create_order: server: Service Unavailable",
	}
}

func TestJournal_RecordAndList(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(storage.NewMemoryStore())
	fixed := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	rec, err := j.Record(ctx, sample(77))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, fixed, rec.CreatedAt)

	_, err = j.Record(ctx, sample(78))
	require.NoError(t, err)

	all, err := j.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(77), all[0].TransactionID)
	assert.Equal(t, int64(78), all[1].TransactionID)
	assert.True(t, all[0].Amount.Equal(decimal.RequireFromString("20.39")))
	assert.False(t, all[0].Published)
}

func TestJournal_EmptyList(t *testing.T) {
	all, err := NewJournal(storage.NewMemoryStore()).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestJournal_CorruptJournalIsAnError(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	require.NoError(t, st.Set(ctx, storage.KeyIncidents, []byte("{")))

	_, err := NewJournal(st).Record(ctx, sample(1))
	assert.Error(t, err)
}

func TestPublisher_Flush(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(storage.NewMemoryStore())
	first, err := j.Record(ctx, sample(77))
	require.NoError(t, err)
	_, err = j.Record(ctx, sample(78))
	require.NoError(t, err)

	w := &fakeWriter{failKey: "78"}
	p := NewPublisher(j, w)

	n, err := p.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, w.messages, 1)
	assert.Equal(t, "77", string(w.messages[0].Key))
	assert.Equal(t, first.ID, string(w.messages[0].Headers[1].Value))

	pending, err := j.Unpublished(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(78), pending[0].TransactionID)

	w.failKey = ""
	n, err = p.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = p.Flush(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, w.messages, 2)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_DisabledWithoutWriter(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(storage.NewMemoryStore())
	_, err := j.Record(ctx, sample(1))
	require.NoError(t, err)

	p := NewPublisher(j, nil)
	assert.False(t, p.Enabled())

	n, err := p.Flush(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, p.Close())

	pending, err := j.Unpublished(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestPublisher_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	j := NewJournal(storage.NewMemoryStore())
	_, err := j.Record(ctx, sample(5))
	require.NoError(t, err)
	w := &fakeWriter{}
	p := NewPublisher(j, w)

	done := make(chan struct{})
	go func() {
		p.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		pending, err := j.Unpublished(context.Background())
		return err == nil && len(pending) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestNewKafkaWriter_DefaultTopic(t *testing.T) {
	w := NewKafkaWriter("", "localhost:9092")
	assert.Equal(t, DefaultTopic, w.Topic)
	assert.Equal(t, "localhost:9092", w.Addr.String())
}

type fakeReader struct {
	messages []kafka.Message
	cancel   context.CancelFunc
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.messages) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := f.messages[0]
	f.messages = f.messages[1:]
	return m, nil
}

func (f *fakeReader) Close() error { return nil }

func TestWatcher_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	j := NewJournal(storage.NewMemoryStore())
	_, err := j.Record(ctx, sample(77))
	require.NoError(t, err)
	w := &fakeWriter{}
	_, err = NewPublisher(j, w).Flush(ctx)
	require.NoError(t, err)

	reader := &fakeReader{
		messages: append([]kafka.Message{{Value: []byte("not json")}}, w.messages...),
		cancel:   cancel,
	}

	var got []Incident
	err = NewWatcher(reader).Run(ctx, func(inc Incident) { got = append(got, inc) })

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(77), got[0].TransactionID)
	assert.Equal(t, []domain.OrderItem{{DishID: 1, Amount: 2}}, got[0].Items)
}

func TestWatcher_ReaderError(t *testing.T) {
	reader := &errReader{err: errors.New("broker gone")}

	err := NewWatcher(reader).Run(context.Background(), func(Incident) {})
	assert.EqualError(t, err, "broker gone")
}

type errReader struct{ err error }

func (e *errReader) ReadMessage(context.Context) (kafka.Message, error) { return kafka.Message{}, e.err }
func (e *errReader) Close() error                                      { return nil }
