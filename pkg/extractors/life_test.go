package extractors

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifeInsurance(t *testing.T) {
	t.Run("single client with needs and offsets", func(t *testing.T) {
		data := map[string]any{
			"client_name": "John Smith",
			"f380":        "$300,000", // debt repayment
			"f381":        "$400,000", // replacement income
			"f383":        "$15,000",  // final expenses
			"f386":        "$100,000", // assets offset
			"f389":        "$615,000", // total cover
			"f504":        " Wants level premiums ",
		}

		result := LifeInsurance(data)

		assert.Equal(t, "John Smith", result["client_name"])
		assert.False(t, result["is_couple"].(bool))
		assert.Equal(t, "life_insurance", result["section_id"])
		assert.Equal(t, "success", result["status"])
		assert.Equal(t, "main_only_needs_coverage", result["recommendation_status"])
		assert.True(t, result["main_needs_insurance"].(bool))
		assert.False(t, result["partner_needs_insurance"].(bool))
		assert.Equal(t, "Wants level premiums", result["needs_analysis_notes"])

		var main map[string]any
		require.NoError(t, json.Unmarshal([]byte(result["life_insurance_main_json"].(string)), &main))
		assert.InDelta(t, 300000, main["debt_repayment"], 0.001)
		assert.Equal(t, "$300,000", main["debt_repayment_formatted"])
		assert.InDelta(t, 715000, main["total_needs"], 0.001)
		assert.InDelta(t, 100000, main["total_offsets"], 0.001)
		assert.InDelta(t, 615000, main["net_coverage_required"], 0.001)
		assert.InDelta(t, 615000, main["total_cover_needed"], 0.001)
		assert.Equal(t, true, main["needs_life_insurance"])

		assert.Equal(t, "{}", result["life_insurance_partner_json"])

		summary := result["main_summary_text"].(string)
		assert.Contains(t, summary, "Main Person Life Insurance Needs:")
		assert.Contains(t, summary, "Debt Repayment: $300,000")
		assert.Contains(t, summary, "Less Offsets:")
		assert.Contains(t, summary, "Assets: $100,000")
		assert.Contains(t, summary, "Net Coverage Required: $615,000")
		assert.Equal(t, "", result["partner_summary_text"])
	})

	t.Run("couple with partner needs", func(t *testing.T) {
		data := map[string]any{
			"is_couple": "yes",
			"f380":      "$200,000",
			"f391":      "$150,000",
		}

		result := LifeInsurance(data)

		assert.True(t, result["is_couple"].(bool))
		assert.Equal(t, "both_need_coverage", result["recommendation_status"])

		var partner map[string]any
		require.NoError(t, json.Unmarshal([]byte(result["life_insurance_partner_json"].(string)), &partner))
		assert.InDelta(t, 150000, partner["debt_repayment"], 0.001)
		assert.Contains(t, result["partner_summary_text"], "Partner Life Insurance Needs:")
	})

	t.Run("no needs at all", func(t *testing.T) {
		result := LifeInsurance(map[string]any{})

		assert.Equal(t, "no_coverage_needed", result["recommendation_status"])
		assert.Equal(t, "{}", result["life_insurance_main_json"])
		assert.Equal(t, "Main Person: No life insurance needed", result["main_summary_text"])
	})

	t.Run("partner fields are ignored for singles", func(t *testing.T) {
		result := LifeInsurance(map[string]any{"f391": "$150,000"})

		assert.Equal(t, "no_coverage_needed", result["recommendation_status"])
		assert.Equal(t, "{}", result["life_insurance_partner_json"])
	})
}
