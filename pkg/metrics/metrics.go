// Package metrics provides Prometheus metrics for the Clover service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FormsReceivedTotal tracks received form submissions by type
	FormsReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "intake",
			Name:      "forms_received_total",
			Help:      "Total number of form submissions received by form type",
		},
		[]string{"form_type"},
	)

	// MatchesTotal tracks match attempts by outcome
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "matching",
			Name:      "matches_total",
			Help:      "Total number of match attempts by outcome",
		},
		[]string{"outcome"},
	)

	// MatchConfidence tracks the confidence distribution of scored pairs
	MatchConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "matching",
			Name:      "confidence",
			Help:      "Confidence scores of matched form pairs",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	// WebhookDeliveriesTotal tracks webhook delivery outcomes
	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "webhook",
			Name:      "deliveries_total",
			Help:      "Total number of webhook delivery attempts by status",
		},
		[]string{"status"},
	)

	// WebhookDeliveryDuration tracks time spent delivering payloads
	WebhookDeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "webhook",
			Name:      "delivery_duration_seconds",
			Help:      "Duration of webhook delivery attempt chains in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// StoredFormsGauge tracks forms currently held in the matcher
	StoredFormsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "clover",
			Subsystem: "matching",
			Name:      "stored_forms",
			Help:      "Number of forms currently loaded in the matcher by type",
		},
		[]string{"form_type"},
	)
)
