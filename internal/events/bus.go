// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/metrics"
)

// Message metadata keys carrying the publisher's logging context.
const (
	metadataCorrelationID = "correlation_id"
	metadataRequestID     = "request_id"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus is closed")

// Handler consumes a single event. A returned error is logged and the
// event is dropped for that handler only.
type Handler func(ctx context.Context, e *Event) error

type subscription struct {
	name    string
	handler Handler
}

// Bus routes domain events from publishers to registered handlers.
type Bus struct {
	cfg     Config
	logger  watermill.LoggerAdapter
	pubsub  *gochannel.GoChannel
	forward message.Publisher

	mu            sync.Mutex
	subscriptions []subscription
	closed        bool

	running     chan struct{}
	runningOnce sync.Once
}

// NewBus creates the bus. When cfg.NATSURL is set a core NATS publisher is
// connected for forwarding.
func NewBus(cfg Config) (*Bus, error) {
	logger := logging.NewWatermillAdapter()

	b := &Bus{
		cfg:    cfg,
		logger: logger,
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger),
		running: make(chan struct{}),
	}

	if cfg.NATSURL != "" {
		forward, err := newNATSForwarder(cfg, logger)
		if err != nil {
			_ = b.pubsub.Close()
			return nil, err
		}
		b.forward = forward
		logging.Info().Str("url", cfg.NATSURL).Msg("Forwarding domain events to NATS")
	}

	return b, nil
}

// Topic returns the bus topic for an event type.
func (b *Bus) Topic(eventType string) string {
	return b.cfg.TopicPrefix + eventType
}

// Subscribe registers a handler for every event type. Handlers registered
// after Serve has started take effect on the next Serve.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = append(b.subscriptions, subscription{name: name, handler: h})
}

// Publish builds and publishes an event. The correlation and request IDs
// in ctx travel as message metadata and are restored into the handler
// context.
func (b *Bus) Publish(ctx context.Context, eventType, userID string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, err := NewEvent(eventType, userID, data)
	if err != nil {
		return err
	}

	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrBusClosed
	}

	topic := b.Topic(e.Type)
	payload, err := e.Marshal()
	if err == nil {
		msg := message.NewMessage(e.ID, payload)
		msg.Metadata.Set("event_type", e.Type)
		msg.Metadata.Set("user_id", e.UserID)
		if id := logging.CorrelationIDFromContext(ctx); id != "" {
			msg.Metadata.Set(metadataCorrelationID, id)
		}
		if id := logging.RequestIDFromContext(ctx); id != "" {
			msg.Metadata.Set(metadataRequestID, id)
		}
		err = b.pubsub.Publish(topic, msg)
	}

	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Running is closed once the bus has started delivering events.
func (b *Bus) Running() <-chan struct{} {
	return b.running
}

func (b *Bus) markRunning() {
	b.runningOnce.Do(func() { close(b.running) })
}

// Serve runs a Watermill router until ctx is canceled. It implements
// suture.Service.
func (b *Bus) Serve(ctx context.Context) error {
	router, err := b.newRouter()
	if err != nil {
		return err
	}

	if router == nil {
		b.markRunning()
		<-ctx.Done()
		return ctx.Err()
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-router.Running():
			b.markRunning()
		case <-done:
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.New("event router stopped")
}

// String implements fmt.Stringer for supervisor logging.
func (b *Bus) String() string {
	return "event-bus"
}

func (b *Bus) newRouter() (*message.Router, error) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subscriptions...)
	b.mu.Unlock()

	if len(subs) == 0 && b.forward == nil {
		return nil, nil
	}

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: b.cfg.CloseTimeout,
	}, b.logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(b.dropFailed, middleware.Recoverer)

	for _, eventType := range Types {
		topic := b.Topic(eventType)
		for _, sub := range subs {
			router.AddConsumerHandler(sub.name+"."+eventType, topic, b.pubsub, consume(sub.handler))
		}
		if b.forward != nil {
			router.AddConsumerHandler("nats-forward."+eventType, topic, b.pubsub, b.forwardTo(topic))
		}
	}

	return router, nil
}

func consume(h Handler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		e, err := UnmarshalEvent(msg.Payload)
		if err != nil {
			return err
		}
		ctx := msg.Context()
		if id := msg.Metadata.Get(metadataCorrelationID); id != "" {
			ctx = logging.ContextWithCorrelationID(ctx, id)
		}
		if id := msg.Metadata.Get(metadataRequestID); id != "" {
			ctx = logging.ContextWithRequestID(ctx, id)
		}
		return h(ctx, e)
	}
}

func (b *Bus) forwardTo(topic string) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		return b.forward.Publish(topic, msg.Copy())
	}
}

// dropFailed acks messages whose handler failed. gochannel redelivers
// nacked messages without limit.
func (b *Bus) dropFailed(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		produced, err := h(msg)
		if err != nil {
			b.logger.Error("Event handler failed, dropping event", err, watermill.LogFields{
				"message_uuid": msg.UUID,
				"handler":      message.HandlerNameFromCtx(msg.Context()),
			})
			return nil, nil
		}
		return produced, nil
	}
}

// Close releases the Pub/Sub and the NATS connection.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	var errs []error
	if err := b.pubsub.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pubsub: %w", err))
	}
	if b.forward != nil {
		if err := b.forward.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close nats publisher: %w", err))
		}
	}
	return errors.Join(errs...)
}
