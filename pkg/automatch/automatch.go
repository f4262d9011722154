// Package automatch runs the end-to-end pipeline after every stored
// form: pair the submission with its counterpart, and on a confident
// match run all extractors, assemble the combined report and deliver it.
package automatch

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/internal/repositories/formstore"
	"github.com/Ramsey-B/clover/internal/repositories/matchhistory"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/extractors"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/webhook"
	"github.com/Ramsey-B/clover/pkg/workflow"
)

// Result summarises one pipeline run, returned inside the intake
// response body.
type Result struct {
	Email           string  `json:"email"`
	Matched         bool    `json:"matched"`
	Confidence      float64 `json:"confidence,omitempty"`
	Message         string  `json:"message"`
	ZapierTriggered bool    `json:"zapier_triggered"`
	ZapierStatus    string  `json:"zapier_status,omitempty"`
}

// Config holds the pipeline settings.
type Config struct {
	// Enabled gates the whole pipeline. When false, stored forms are
	// never paired automatically.
	Enabled bool
	// Threshold is the auto-match confidence floor. It is deliberately
	// lower than the matcher's confident-match threshold.
	Threshold float64
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{Enabled: true, Threshold: 0.7}
}

// Service drives the auto-match pipeline.
type Service struct {
	matcher *matching.Matcher
	store   *formstore.Repository
	history *matchhistory.Repository
	trigger *webhook.Trigger
	emitter *events.Emitter
	logger  ectologger.Logger
	config  Config
}

// NewService wires the pipeline.
func NewService(
	matcher *matching.Matcher,
	store *formstore.Repository,
	history *matchhistory.Repository,
	trigger *webhook.Trigger,
	emitter *events.Emitter,
	logger ectologger.Logger,
	config Config,
) *Service {
	return &Service{
		matcher: matcher,
		store:   store,
		history: history,
		trigger: trigger,
		emitter: emitter,
		logger:  logger,
		config:  config,
	}
}

// Process checks whether both forms now exist for an email and, on a
// confident pair, builds and delivers the combined report. Failures
// past the match stage are reported in the result, never as an error,
// the intake request that triggered the run must still succeed.
func (s *Service) Process(ctx context.Context, email string) Result {
	ctx, span := tracing.StartSpan(ctx, "automatch.Service.Process")
	defer span.End()

	if !s.config.Enabled {
		return Result{Email: email, Message: "auto-matching is disabled"}
	}

	result := Result{Email: email, Message: "no confident match found yet"}

	match := s.matcher.MatchByEmail(email)
	if match == nil || match.Confidence < s.config.Threshold {
		metrics.MatchesTotal.WithLabelValues("below_threshold").Inc()
		return result
	}

	result.Matched = true
	result.Confidence = match.Confidence
	metrics.MatchesTotal.WithLabelValues("matched").Inc()
	metrics.MatchConfidence.Observe(match.Confidence)

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"email":      email,
		"confidence": match.Confidence,
	}).Info("Forms matched")

	if err := s.emitter.EmitMatchCreated(ctx, *match); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("match.created emission failed")
	}
	// history is nil when persistence is disabled.
	if s.history != nil {
		if err := s.history.Save(ctx, s.matcher.History()); err != nil {
			s.logger.WithContext(ctx).WithError(err).Error("Persisting match history failed")
		}
	}

	report := s.BuildCombinedReport(ctx, match)

	start := time.Now()
	delivery := s.trigger.Trigger(ctx, report)
	metrics.WebhookDeliveryDuration.Observe(time.Since(start).Seconds())
	metrics.WebhookDeliveriesTotal.WithLabelValues(delivery.Status).Inc()

	if err := s.emitter.EmitWebhookDelivered(ctx, email, delivery.Status, delivery.Triggered, delivery.Attempts); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("webhook.delivered emission failed")
	}

	result.ZapierTriggered = delivery.Triggered
	result.ZapierStatus = delivery.Status
	if delivery.Triggered {
		result.Message = "forms matched and webhook triggered"
	} else {
		result.Message = fmt.Sprintf("forms matched but webhook not delivered: %s", delivery.Message)
	}

	return result
}

// BuildCombinedReport merges the raw stored submissions for the matched
// pair and runs every extractor over the combined data. The automation
// form is merged last so its values win on key collisions.
func (s *Service) BuildCombinedReport(ctx context.Context, match *models.MatchResult) map[string]any {
	ctx, span := tracing.StartSpan(ctx, "automatch.Service.BuildCombinedReport")
	defer span.End()

	combined := map[string]any{}
	s.mergeLatest(ctx, combined, formstore.FactFind, match.FactFindEmail)
	s.mergeLatest(ctx, combined, formstore.AutomationForm, match.AutomationEmail)

	report := map[string]any{
		"status":           "success",
		"client_name":      clientNameFrom(combined, match),
		"is_couple":        models.CoupleFromAutomation(combined["is_couple"]) || models.CoupleFromFactFind(combined),
		"email":            match.FactFindEmail,
		"case_id":          match.CaseID,
		"match_confidence": match.Confidence,
	}

	for _, section := range extractors.Sections() {
		report[section.ID] = section.Extract(combined)
	}

	ff, af := s.matcher.Pair(match.FactFindEmail)
	validation := workflow.Validate(ff, af)
	report["validation"] = map[string]any{
		"valid":    validation.Valid,
		"errors":   validation.Errors,
		"warnings": validation.Warnings,
	}

	return report
}

func (s *Service) mergeLatest(ctx context.Context, combined map[string]any, formType formstore.FormType, email string) {
	raw, err := s.store.LatestByEmail(ctx, formType, email)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"form_type": string(formType),
			"email":     email,
		}).Error("Loading stored form failed")
		return
	}
	for k, v := range raw {
		combined[k] = v
	}
}

func clientNameFrom(combined map[string]any, match *models.MatchResult) string {
	if s, ok := combined["client_name"].(string); ok && s != "" {
		return s
	}
	if s, ok := combined["3"].(string); ok && s != "" {
		return s
	}
	if match.ClientName != "" {
		return match.ClientName
	}
	return "the client"
}
