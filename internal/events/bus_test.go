// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/goleak"

	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	cfg := DefaultConfig()
	cfg.CloseTimeout = time.Second
	bus, err := NewBus(cfg)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	return bus
}

// serve starts the bus and returns a stop func that waits for Serve to return.
func serve(t *testing.T, bus *Bus) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- bus.Serve(ctx) }()

	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("bus did not start")
	}

	return func() {
		cancel()
		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve returned %v, want context.Canceled", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Serve did not return after cancel")
		}
		if err := bus.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}
}

func TestNewEvent(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		userID    string
		wantErr   bool
	}{
		{"analysis", TypeAnalysisCompleted, "u1", false},
		{"routine", TypeRoutineGenerated, "u1", false},
		{"profile", TypeProfileCompleted, "u1", false},
		{"unknown type", "user.deleted", "u1", true},
		{"missing user", TypeAnalysisCompleted, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEvent(tt.eventType, tt.userID, map[string]int{"n": 1})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEvent error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if e.ID == "" || e.Timestamp.IsZero() {
				t.Errorf("event missing id or timestamp: %+v", e)
			}
			if string(e.Data) != `{"n":1}` {
				t.Errorf("Data = %s", e.Data)
			}
		})
	}
}

func TestUnmarshalEvent(t *testing.T) {
	e, _ := NewEvent(TypeRoutineGenerated, "u1", "x")
	raw, err := e.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := UnmarshalEvent(raw)
	if err != nil {
		t.Fatalf("UnmarshalEvent: %v", err)
	}
	if got.ID != e.ID || got.Type != e.Type || got.UserID != e.UserID {
		t.Errorf("round trip mismatch: %+v vs %+v", got, e)
	}

	if _, err := UnmarshalEvent([]byte(`{"id":"x"}`)); err == nil {
		t.Error("expected error for event without type")
	}
}

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus := newTestBus(t)

	first := make(chan *Event, 1)
	second := make(chan *Event, 1)
	bus.Subscribe("first", func(_ context.Context, e *Event) error {
		first <- e
		return nil
	})
	bus.Subscribe("second", func(_ context.Context, e *Event) error {
		second <- e
		return nil
	})
	stop := serve(t, bus)
	defer stop()

	payload := map[string]string{"analysisId": "a1"}
	if err := bus.Publish(context.Background(), TypeAnalysisCompleted, "user-1", payload); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for name, ch := range map[string]chan *Event{"first": first, "second": second} {
		select {
		case e := <-ch:
			if e.Type != TypeAnalysisCompleted || e.UserID != "user-1" {
				t.Errorf("%s got %+v", name, e)
			}
			var data map[string]string
			if err := json.Unmarshal(e.Data, &data); err != nil || data["analysisId"] != "a1" {
				t.Errorf("%s data = %s (%v)", name, e.Data, err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("%s did not receive event", name)
		}
	}
}

func TestBusCarriesLoggingContext(t *testing.T) {
	bus := newTestBus(t)

	type ids struct{ correlation, request string }
	got := make(chan ids, 1)
	bus.Subscribe("ids", func(ctx context.Context, _ *Event) error {
		got <- ids{logging.CorrelationIDFromContext(ctx), logging.RequestIDFromContext(ctx)}
		return nil
	})
	stop := serve(t, bus)
	defer stop()

	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-7")
	ctx = logging.ContextWithRequestID(ctx, "req-7")
	if err := bus.Publish(ctx, TypeRoutineGenerated, "u1", nil); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case v := <-got:
		if v.correlation != "corr-7" || v.request != "req-7" {
			t.Errorf("handler context ids = %+v", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBusDropsFailedEvents(t *testing.T) {
	bus := newTestBus(t)

	var calls atomic.Int32
	received := make(chan string, 2)
	bus.Subscribe("flaky", func(_ context.Context, e *Event) error {
		if calls.Add(1) == 1 {
			return errors.New("boom")
		}
		received <- e.Type
		return nil
	})
	stop := serve(t, bus)
	defer stop()

	ctx := context.Background()
	if err := bus.Publish(ctx, TypeProfileCompleted, "u1", nil); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := bus.Publish(ctx, TypeProfileCompleted, "u1", nil); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case got := <-received:
		if got != TypeProfileCompleted {
			t.Errorf("got %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("second event not delivered after handler failure")
	}

	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 2 {
		t.Errorf("handler called %d times, want 2 (failed event must not be redelivered)", n)
	}
}

func TestServeWithoutSubscribers(t *testing.T) {
	bus := newTestBus(t)
	stop := serve(t, bus)

	if err := bus.Publish(context.Background(), TypeRoutineGenerated, "u1", nil); err != nil {
		t.Errorf("Publish with no subscribers: %v", err)
	}
	stop()
}

func TestPublishAfterClose(t *testing.T) {
	bus := newTestBus(t)
	if err := bus.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	err := bus.Publish(context.Background(), TypeAnalysisCompleted, "u1", nil)
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish after close = %v, want ErrBusClosed", err)
	}
}

func TestPublishRejectsUnknownType(t *testing.T) {
	bus := newTestBus(t)
	defer bus.Close()

	err := bus.Publish(context.Background(), "unknown", "u1", nil)
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("Publish = %v, want ErrUnknownType", err)
	}
}

func TestFromConfig(t *testing.T) {
	got := FromConfig(&config.EventsConfig{TopicPrefix: "test.", NATSURL: "nats://localhost:4222"})
	if got.TopicPrefix != "test." || got.NATSURL != "nats://localhost:4222" {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.BufferSize != DefaultConfig().BufferSize {
		t.Errorf("BufferSize = %d, want default", got.BufferSize)
	}
	if FromConfig(nil) != DefaultConfig() {
		t.Error("nil config should yield defaults")
	}

	bus := &Bus{cfg: got}
	if topic := bus.Topic(TypeAnalysisCompleted); topic != "test.analysis.completed" {
		t.Errorf("Topic = %q", topic)
	}
}
