// Package events handles event emission for intake lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter publishes intake lifecycle events. A nil producer disables
// emission entirely, every Emit call becomes a no-op.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter.
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitFormReceived emits a form.received event after a submission is
// stored.
func (e *Emitter) EmitFormReceived(ctx context.Context, formType, email, caseID, savedTo string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitFormReceived")
	defer span.End()

	if e.producer == nil {
		return nil
	}

	data, _ := json.Marshal(map[string]any{
		"schema_version": SchemaVersion,
		"saved_to":       savedTo,
	})

	event := &kafka.IntakeEvent{
		EventType: "form.received",
		Email:     email,
		CaseID:    caseID,
		FormType:  formType,
		Data:      data,
	}

	if err := e.producer.PublishIntakeEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit form.received event")
		return err
	}

	return nil
}

// EmitMatchCreated emits a match.created event for a confirmed pair.
func (e *Emitter) EmitMatchCreated(ctx context.Context, match models.MatchResult) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchCreated")
	defer span.End()

	if e.producer == nil {
		return nil
	}

	data, _ := json.Marshal(map[string]any{
		"schema_version": SchemaVersion,
		"match_id":       match.ID,
		"confidence":     match.Confidence,
		"reasons":        match.Reasons,
	})

	event := &kafka.IntakeEvent{
		EventType: "match.created",
		Email:     match.FactFindEmail,
		CaseID:    match.CaseID,
		Data:      data,
	}

	if err := e.producer.PublishIntakeEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit match.created event")
		return err
	}

	return nil
}

// EmitWebhookDelivered emits a webhook.delivered event after a delivery
// attempt chain finishes, successful or not.
func (e *Emitter) EmitWebhookDelivered(ctx context.Context, email, status string, triggered bool, attempts int) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitWebhookDelivered")
	defer span.End()

	if e.producer == nil {
		return nil
	}

	data, _ := json.Marshal(map[string]any{
		"schema_version": SchemaVersion,
		"status":         status,
		"triggered":      triggered,
		"attempts":       attempts,
	})

	event := &kafka.IntakeEvent{
		EventType: "webhook.delivered",
		Email:     email,
		Data:      data,
	}

	if err := e.producer.PublishIntakeEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit webhook.delivered event")
		return err
	}

	return nil
}
