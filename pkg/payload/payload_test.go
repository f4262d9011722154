package payload

import (
	"encoding/json"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuilder() *Builder {
	return NewBuilder(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
}

func TestBuilder_Build(t *testing.T) {
	builder := testBuilder()

	t.Run("complete report", func(t *testing.T) {
		report := map[string]any{
			"email":            "john@example.com",
			"client_name":      "John Smith",
			"case_id":          "CASE-001",
			"is_couple":        true,
			"match_confidence": 0.9,
			"life_insurance": map[string]any{
				"main_total": 500000,
			},
			"insurance_quotes": map[string]any{
				"quotes_count": 2,
			},
			"validation": map[string]any{
				"valid": true,
			},
		}

		p := builder.Build(report)

		assert.Equal(t, "john@example.com", p["client_email"])
		assert.Equal(t, "John Smith", p["client_name"])
		assert.Equal(t, "CASE-001", p["case_id"])
		assert.Equal(t, true, p["is_couple"])
		assert.InDelta(t, 0.9, p["match_confidence"], 0.001)
		assert.Equal(t, source, p["source"])
		assert.Equal(t, version, p["payload_version"])
		assert.NotEmpty(t, p["timestamp"])

		// Generated sections get a success status stamped on.
		life := p["life_insurance"].(map[string]any)
		assert.Equal(t, 500000, life["main_total"])
		assert.Equal(t, "success", life["status"])

		quotes := p["insurance_quotes"].(map[string]any)
		assert.Equal(t, 2, quotes["quotes_count"])

		validation := p["validation"].(map[string]any)
		assert.Equal(t, true, validation["valid"])
	})

	t.Run("empty report gets stubs and defaults", func(t *testing.T) {
		p := builder.Build(map[string]any{})

		assert.Equal(t, "", p["client_email"])
		assert.Equal(t, "Unknown Client", p["client_name"])
		assert.Equal(t, false, p["is_couple"])
		assert.InDelta(t, 0.0, p["match_confidence"], 0.001)

		for _, name := range []string{"life_insurance", "trauma_insurance", "income_protection", "health_insurance", "accidental_injury"} {
			section := p[name].(map[string]any)
			assert.Equal(t, "not_generated", section["status"], "section %s", name)
		}

		scope := p["scope_of_advice"].(map[string]any)
		assert.Equal(t, "not_generated", scope["status"])

		var alJSON map[string]any
		require.NoError(t, json.Unmarshal([]byte(p["assets_liabilities_json"].(string)), &alJSON))
		assert.Equal(t, "not_generated", alJSON["status"])

		// Optional sections are absent rather than stubbed.
		assert.NotContains(t, p, "insurance_quotes")
		assert.NotContains(t, p, "validation")
	})
}

func TestBuilder_Validate(t *testing.T) {
	builder := testBuilder()

	t.Run("a built payload validates clean", func(t *testing.T) {
		p := builder.Build(map[string]any{"email": "john@example.com"})
		assert.Empty(t, builder.Validate(p))
	})

	t.Run("wrong types are reported", func(t *testing.T) {
		p := builder.Build(map[string]any{})
		p["is_couple"] = "yes"
		p["match_confidence"] = "high"
		p["life_insurance"] = "not an object"

		problems := builder.Validate(p)
		assert.Contains(t, problems, "field is_couple must be boolean")
		assert.Contains(t, problems, "field match_confidence must be numeric")
		assert.Contains(t, problems, "field life_insurance must be an object")
	})
}

func TestBuilder_Summary(t *testing.T) {
	builder := testBuilder()
	p := builder.Build(map[string]any{
		"client_name": "John Smith",
		"email":       "john@example.com",
		"case_id":     "CASE-001",
		"is_couple":   true,
		"life_insurance": map[string]any{
			"status": "success",
		},
	})

	summary := builder.Summary(p)
	assert.Contains(t, summary, "Client: John Smith (john@example.com)")
	assert.Contains(t, summary, "Case ID: CASE-001")
	assert.Contains(t, summary, "Couple: Yes")
	assert.Contains(t, summary, "- life_insurance: success")
	assert.Contains(t, summary, "- trauma_insurance: not_generated")
}

func TestFlatten(t *testing.T) {
	t.Run("nested maps join with underscores", func(t *testing.T) {
		flat := Flatten(map[string]any{
			"client_email": "john@example.com",
			"life_insurance": map[string]any{
				"main_total": 500000,
				"needs": map[string]any{
					"debt": 300000,
				},
			},
		})

		assert.Equal(t, "john@example.com", flat["client_email"])
		assert.Equal(t, 500000, flat["life_insurance_main_total"])
		assert.Equal(t, 300000, flat["life_insurance_needs_debt"])
	})

	t.Run("slices become JSON strings", func(t *testing.T) {
		flat := Flatten(map[string]any{
			"scope": map[string]any{
				"products": []any{"Life Insurance", "Trauma Cover"},
				"names":    []string{"a", "b"},
			},
		})

		assert.Equal(t, `["Life Insurance","Trauma Cover"]`, flat["scope_products"])
		assert.Equal(t, `["a","b"]`, flat["scope_names"])
	})

	t.Run("scalars pass through", func(t *testing.T) {
		flat := Flatten(map[string]any{"count": 3, "ok": true, "none": nil})
		assert.Equal(t, 3, flat["count"])
		assert.Equal(t, true, flat["ok"])
		assert.Contains(t, flat, "none")
	})
}
