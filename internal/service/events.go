package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/observability"
)

// Event is a domain event published after a committed change.
type Event struct {
	Type          string                 `json:"type"`
	Department    string                 `json:"department,omitempty"`
	EntityID      uint                   `json:"entity_id"`
	ActorID       uint                   `json:"actor_id"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
	OccurredAt    time.Time              `json:"occurred_at"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
}

// EventPublisher broadcasts domain events. Failures never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

type natsPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewEventPublisher publishes events to <subject>.<type> over NATS. A nil
// connection yields a publisher that only logs at debug level.
func NewEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) EventPublisher {
	return &natsPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsPublisher) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if event.CorrelationID == "" {
		event.CorrelationID = observability.CorrelationID(ctx)
	}
	if p.conn == nil || p.subject == "" {
		p.logger.Debug().Str("event", event.Type).Msg("event bus disabled, dropping event")
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Str("event", event.Type).Msg("failed to encode event")
		return
	}
	if err := p.conn.Publish(p.subject+"."+event.Type, payload); err != nil {
		p.logger.Warn().Err(err).Str("event", event.Type).Msg("failed to publish event")
	}
}

// Event type names.
const (
	EventDueCreated       = "due.created"
	EventDuePaid          = "due.paid"
	EventChallanUploaded  = "challan.uploaded"
	EventChallanReviewed  = "challan.reviewed"
	EventImportCompleted  = "import.completed"
	EventFeeStructureSet  = "fee_structure.upserted"
	EventOtherDueUpserted = "other_due.upserted"
)
