package event

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RedeemBot_Go/internal/domain"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	calls    int
	failN    int // fail the first failN calls
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.calls <= w.failN {
		return errors.New("broker unavailable")
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) snapshot() ([]kafka.Message, int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.messages...), w.calls, w.closed
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fastSinkConfig() KafkaSinkConfig {
	return KafkaSinkConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, QueueSize: 10}
}

func TestKafkaSink_DeliversRedactedEvent(t *testing.T) {
	w := &fakeWriter{}
	bus := NewMemoryBus()
	sink := NewKafkaSink(w, nil, fastSinkConfig())
	sink.Register(bus)

	evt := NewRedemptionSettledEvent(settledPayload(domain.StatusCompleted), "host-1")
	require.NoError(t, bus.Publish(context.Background(), evt))
	require.NoError(t, sink.Shutdown(context.Background()))

	msgs, _, closed := w.snapshot()
	require.Len(t, msgs, 1)
	assert.True(t, closed)
	assert.Equal(t, "req-1", string(msgs[0].Key))
	assert.NotContains(t, string(msgs[0].Value), "sealed")
	assert.NotContains(t, string(msgs[0].Value), "details")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msgs[0].Value, &decoded))
	assert.Equal(t, string(RedemptionCompleted), decoded["type"])
}

func TestKafkaSink_RetriesThenSucceeds(t *testing.T) {
	w := &fakeWriter{failN: 2}
	dl := &syncBuffer{}
	sink := NewKafkaSink(w, NewDeadLetterWriterTo(dl), fastSinkConfig())

	evt := NewRedemptionSettledEvent(settledPayload(domain.StatusFailed), "host-1")
	require.NoError(t, sink.Handle(context.Background(), evt))
	require.NoError(t, sink.Shutdown(context.Background()))

	msgs, calls, _ := w.snapshot()
	assert.Len(t, msgs, 1)
	assert.Equal(t, 3, calls)
	assert.Empty(t, dl.String())
}

func TestKafkaSink_ExhaustedRetriesGoToDeadLetter(t *testing.T) {
	w := &fakeWriter{failN: 100}
	dl := &syncBuffer{}
	sink := NewKafkaSink(w, NewDeadLetterWriterTo(dl), fastSinkConfig())

	evt := NewRedemptionSettledEvent(settledPayload(domain.StatusCompleted), "host-1")
	require.NoError(t, sink.Handle(context.Background(), evt))
	require.NoError(t, sink.Shutdown(context.Background()))

	lines := strings.Split(strings.TrimSpace(dl.String()), "\n")
	require.Len(t, lines, 1)

	var entry DeadLetterEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, 3, entry.Attempts)
	assert.Equal(t, "broker unavailable", entry.LastError)
	assert.NotContains(t, lines[0], "sealed")
}

func TestKafkaSink_HandleAfterShutdown(t *testing.T) {
	w := &fakeWriter{}
	dl := &syncBuffer{}
	sink := NewKafkaSink(w, NewDeadLetterWriterTo(dl), fastSinkConfig())
	require.NoError(t, sink.Shutdown(context.Background()))

	evt := NewRedemptionSettledEvent(settledPayload(domain.StatusCompleted), "host-1")
	assert.NoError(t, sink.Handle(context.Background(), evt))

	msgs, _, _ := w.snapshot()
	assert.Empty(t, msgs)
	assert.Contains(t, dl.String(), string(RedemptionCompleted))
}

func TestDeadLetterWriter_File(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	dlw, err := NewDeadLetterWriter(path)
	require.NoError(t, err)

	evt := NewRedemptionSettledEvent(settledPayload(domain.StatusCompleted), "host-1")
	require.NoError(t, dlw.Write(evt, 2, nil))
	require.NoError(t, dlw.Close())
}
