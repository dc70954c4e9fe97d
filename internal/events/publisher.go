package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/telemetry"
)

const (
	asyncPublishTimeout = 5 * time.Second
	// DefaultMaxLen caps the stream with approximate trimming.
	DefaultMaxLen = 10000
)

// Publisher appends events to a Redis stream. A nil *Publisher is a valid
// no-op, used when Redis is disabled.
type Publisher struct {
	client    *redis.Client
	stream    string
	maxLen    int64
	log       logger.Logger
	telemetry *telemetry.Provider
	inflight  sync.WaitGroup
}

// NewPublisher returns nil when client is nil.
func NewPublisher(client *redis.Client, stream string, maxLen int64, log logger.Logger, tp *telemetry.Provider) *Publisher {
	if client == nil {
		return nil
	}
	if stream == "" {
		stream = DefaultStream
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{client: client, stream: stream, maxLen: maxLen, log: log, telemetry: tp}
}

// Publish writes event synchronously.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if p == nil {
		return nil
	}
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"event_type":   string(event.EventType),
			"complaint_id": event.ComplaintID,
			"event":        string(payload),
		},
	})
	if publishErr := result.Err(); publishErr != nil {
		p.telemetry.RecordEvent(string(event.EventType), false)
		return fmt.Errorf("publish to stream %s: %w", p.stream, publishErr)
	}

	p.telemetry.RecordEvent(string(event.EventType), true)
	p.log.Debug("Published complaint event",
		logger.String("event_type", string(event.EventType)),
		logger.ComplaintID(event.ComplaintID),
		logger.String("stream_id", result.Val()))
	return nil
}

// PublishAsync publishes in the background. Failures are logged, never
// returned: an event must not fail the operation that produced it.
func (p *Publisher) PublishAsync(event Event) {
	if p == nil {
		return
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				logger.String("event_type", string(event.EventType)),
				logger.ComplaintID(event.ComplaintID),
				logger.Error(err))
		}
	}()
}

// Wait blocks until background publishes finish or ctx is done.
func (p *Publisher) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
