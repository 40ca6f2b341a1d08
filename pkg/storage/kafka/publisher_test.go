package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"schwabstream/pkg/schwab/stream"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap/zaptest"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

// go test -v --run TestSaveActivity
func TestSaveActivity(t *testing.T) {
	w := &fakeWriter{}
	p := newActivityPublisher(w, "activity", zaptest.NewLogger(t))
	at := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)

	err := p.SaveActivity(context.Background(), at, stream.Activity{
		Account: "123",
		Type:    "OrderCreated",
		Payload: stream.OrderEvent{SchwabOrderID: "9"},
		Raw:     `{"SchwabOrderID":"9"}`,
	})
	if err != nil {
		t.Fatal(err)
	}
	_ = p.SaveActivity(context.Background(), at, stream.Activity{Account: "123", Type: "SUBSCRIBED", Payload: stream.SubscribedActivity{}, Raw: "plain text"})

	if len(w.msgs) != 2 {
		t.Fatalf("wrote %d messages, want 2", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "123" {
		t.Errorf("key = %q", w.msgs[0].Key)
	}

	var ev ActivityEvent
	if err := json.Unmarshal(w.msgs[0].Value, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "order" || string(ev.Payload) != `{"SchwabOrderID":"9"}` || !ev.ReceivedAt.Equal(at) {
		t.Errorf("unexpected event: %+v", ev)
	}

	if err := json.Unmarshal(w.msgs[1].Value, &ev); err != nil {
		t.Fatal(err)
	}
	if string(ev.Payload) != `"plain text"` {
		t.Errorf("non-JSON payload not quoted: %s", ev.Payload)
	}
}

// go test -v --run TestSaveActivityWriteError
func TestSaveActivityWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := newActivityPublisher(&fakeWriter{err: boom}, "activity", zaptest.NewLogger(t))
	if err := p.SaveActivity(context.Background(), time.Now(), stream.Activity{Account: "1"}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}
