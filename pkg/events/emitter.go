// Package events publishes attribution lifecycle events for downstream
// consumers (reporting, CRM automation).
package events

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/attribution"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// AttributionResolvedEvent is published after a successful resolution.
type AttributionResolvedEvent struct {
	EventType     string    `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	DealID        string    `json:"deal_id"`
	URL           string    `json:"url"`
	Channel       string    `json:"channel"`
	Group         *string   `json:"group"`
	ResolvedAt    time.Time `json:"resolved_at"`
}

// Emitter publishes attribution events. A nil Emitter is a no-op, so eventing
// can stay unwired when no brokers are configured.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitAttributionResolved emits an attribution.resolved event. Publish
// failures are logged and reported but never fail the resolution that
// triggered them.
func (e *Emitter) EmitAttributionResolved(ctx context.Context, dealID string, result *attribution.Result) {
	if e == nil || e.producer == nil {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitAttributionResolved")
	defer span.End()

	event := &AttributionResolvedEvent{
		EventType:     "attribution.resolved",
		SchemaVersion: SchemaVersion,
		DealID:        dealID,
		URL:           result.URL,
		Channel:       string(result.Channel),
		Group:         result.Group,
		ResolvedAt:    time.Now().UTC(),
	}

	headers := map[string]string{"event_type": event.EventType}
	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		headers["traceparent"] = "00-" + traceID + "-" + tracing.GetSpanID(ctx) + "-01"
	}

	if err := e.producer.PublishJSON(ctx, dealID, headers, event); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit attribution.resolved event")
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues("success").Inc()
}
