package automatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/internal/repositories/formstore"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/fieldmap"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/payload"
	"github.com/Ramsey-B/clover/pkg/webhook"
)

type staticConfig struct {
	cfg webhook.Config
}

func (s staticConfig) Load() webhook.Config { return s.cfg }

type pipeline struct {
	service *Service
	matcher *matching.Matcher
	store   *formstore.Repository
	mapper  *fieldmap.Mapper
}

func newPipeline(t *testing.T, webhookCfg webhook.Config, cfg Config) *pipeline {
	t.Helper()
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

	mapper, err := fieldmap.New("../../config/field_mappings.yaml")
	require.NoError(t, err)

	store := formstore.NewRepository(t.TempDir(), logger)
	require.NoError(t, store.EnsureDirs())

	matcher := matching.NewMatcher(matching.DefaultConfig())
	trigger := webhook.NewTrigger(staticConfig{webhookCfg}, payload.NewBuilder(logger), logger)
	emitter := events.NewEmitter(nil, logger)

	return &pipeline{
		service: NewService(matcher, store, nil, trigger, emitter, logger, cfg),
		matcher: matcher,
		store:   store,
		mapper:  mapper,
	}
}

func (p *pipeline) addPair(t *testing.T, ctx context.Context, email string) {
	t.Helper()

	ffRaw := map[string]any{
		"f516": "CASE-001",
		"f144": "John",
		"f145": "Smith",
		"f219": email,
		"f380": "$300,000",
	}
	afRaw := map[string]any{
		"f3":  email,
		"f39": "No",
		"5.1": "Life Insurance",
	}

	_, err := p.store.Save(ctx, formstore.FactFind, email, ffRaw)
	require.NoError(t, err)
	_, err = p.store.Save(ctx, formstore.AutomationForm, email, afRaw)
	require.NoError(t, err)

	_, err = p.matcher.AddFactFind(models.NewFactFind(ffRaw, p.mapper))
	require.NoError(t, err)
	_, err = p.matcher.AddAutomationForm(models.NewAutomationForm(afRaw, p.mapper))
	require.NoError(t, err)
}

func TestService_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled pipeline never pairs", func(t *testing.T) {
		p := newPipeline(t, webhook.DefaultConfig(), Config{Enabled: false, Threshold: 0.7})
		p.addPair(t, ctx, "john@example.com")

		result := p.service.Process(ctx, "john@example.com")
		assert.False(t, result.Matched)
		assert.Equal(t, "auto-matching is disabled", result.Message)
		assert.Empty(t, p.matcher.History())
	})

	t.Run("no counterpart yet", func(t *testing.T) {
		p := newPipeline(t, webhook.DefaultConfig(), DefaultConfig())

		result := p.service.Process(ctx, "john@example.com")
		assert.False(t, result.Matched)
		assert.Equal(t, "no confident match found yet", result.Message)
	})

	t.Run("match below threshold is not actioned", func(t *testing.T) {
		p := newPipeline(t, webhook.DefaultConfig(), Config{Enabled: true, Threshold: 0.99})
		p.addPair(t, ctx, "john@example.com")

		result := p.service.Process(ctx, "john@example.com")
		assert.False(t, result.Matched)
	})

	t.Run("matched pair with webhook disabled", func(t *testing.T) {
		p := newPipeline(t, webhook.DefaultConfig(), DefaultConfig())
		p.addPair(t, ctx, "john@example.com")

		result := p.service.Process(ctx, "john@example.com")
		assert.True(t, result.Matched)
		assert.GreaterOrEqual(t, result.Confidence, 0.7)
		assert.False(t, result.ZapierTriggered)
		assert.Equal(t, webhook.StatusDisabled, result.ZapierStatus)
		assert.Contains(t, result.Message, "forms matched but webhook not delivered")
	})

	t.Run("matched pair delivers the combined report", func(t *testing.T) {
		var delivered map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&delivered))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		cfg := webhook.DefaultConfig()
		cfg.Enabled = true
		cfg.WebhookURL = server.URL
		cfg.RetryDelaySeconds = 0

		p := newPipeline(t, cfg, DefaultConfig())
		p.addPair(t, ctx, "john@example.com")

		result := p.service.Process(ctx, "john@example.com")
		require.True(t, result.Matched)
		assert.True(t, result.ZapierTriggered)
		assert.Equal(t, webhook.StatusSuccess, result.ZapierStatus)
		assert.Equal(t, "forms matched and webhook triggered", result.Message)

		require.NotNil(t, delivered)
		assert.Equal(t, "john@example.com", delivered["client_email"])
		assert.Equal(t, "CASE-001", delivered["case_id"])
		assert.Equal(t, "success", delivered["life_insurance_status"])
	})
}

func TestService_BuildCombinedReport(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, webhook.DefaultConfig(), DefaultConfig())
	p.addPair(t, ctx, "john@example.com")

	match := p.matcher.MatchByEmail("john@example.com")
	require.NotNil(t, match)

	report := p.service.BuildCombinedReport(ctx, match)

	assert.Equal(t, "success", report["status"])
	assert.Equal(t, "john@example.com", report["email"])
	assert.Equal(t, "CASE-001", report["case_id"])
	assert.InDelta(t, match.Confidence, report["match_confidence"], 0.001)

	// Every extractor section is present.
	for _, name := range []string{"personal_information", "assets_liabilities", "scope_of_advice", "life_insurance", "trauma_insurance", "income_protection", "health_insurance", "accidental_injury", "insurance_quotes"} {
		assert.Contains(t, report, name, "section %s", name)
	}

	scope := report["scope_of_advice"].(map[string]any)
	assert.Contains(t, scope["products_in_scope"], "Life Insurance")

	validation := report["validation"].(map[string]any)
	assert.Equal(t, true, validation["valid"])
}
