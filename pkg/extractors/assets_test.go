package extractors

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetsLiabilities(t *testing.T) {
	t.Run("full financial position", func(t *testing.T) {
		data := map[string]any{
			"f16": "$850,000", // primary residence
			"f33": "ANZ Savings",
			"f26": "$45,000",
			"f60": "Milford",
			"f62": "$67,000",  // main kiwisaver
			"f65": "$23,000",  // partner kiwisaver, no provider
			"f15": "$400,000", // home mortgage
			"f71": "Car Loan",
			"f72": "$18,000",
		}

		result := AssetsLiabilities(data)

		assert.Equal(t, 985000, result["total_assets"])
		assert.Equal(t, 418000, result["total_liabilities"])
		assert.Equal(t, 567000, result["net_worth"])
		assert.Equal(t, 4, result["asset_count"])
		assert.Equal(t, 2, result["liability_count"])
		assert.Equal(t, "assets_liabilities", result["section_id"])

		var assets []LineItem
		require.NoError(t, json.Unmarshal([]byte(result["assets_json"].(string)), &assets))
		require.Len(t, assets, 4)
		assert.Equal(t, LineItem{Name: "Primary Residence", Value: 850000, Formatted: "$850,000"}, assets[0])
		assert.Equal(t, "ANZ Savings", assets[1].Name)
		assert.Equal(t, "KiwiSaver - Milford", assets[2].Name)
		assert.Equal(t, "KiwiSaver (Partner)", assets[3].Name)

		assetsText := result["assets_text"].(string)
		assert.Contains(t, assetsText, "Assets")
		assert.Contains(t, assetsText, "Total Assets")
		assert.Contains(t, assetsText, "$985,000")

		summary := result["summary_text"].(string)
		assert.Contains(t, summary, "Financial Summary")
		assert.Contains(t, summary, "Net Worth:")
		assert.Contains(t, summary, "$567,000")
	})

	t.Run("named pairs need both name and value", func(t *testing.T) {
		data := map[string]any{
			"f33": "Savings account with no value",
			"f36": "$10,000", // term deposit value with no name
		}

		result := AssetsLiabilities(data)
		assert.Equal(t, 0, result["asset_count"])
	})

	t.Run("empty submission", func(t *testing.T) {
		result := AssetsLiabilities(map[string]any{})

		assert.Equal(t, 0, result["total_assets"])
		assert.Equal(t, 0, result["net_worth"])
		assert.Equal(t, "[]", result["assets_json"])
		assert.Equal(t, "No assets recorded", result["assets_text"])
		assert.Equal(t, "No liabilities recorded", result["liabilities_text"])
	})
}
