package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsuranceQuotes(t *testing.T) {
	t.Run("upload arrays and bare URLs", func(t *testing.T) {
		data := map[string]any{
			"42": `[{"name": "quote.pdf", "url": "https://files.example.com/quote.pdf"}]`,
			"44": "https://files.example.com/aia.pdf",
		}

		result := InsuranceQuotes(data)

		assert.Equal(t, "https://files.example.com/quote.pdf", result["quote_partners_life"])
		assert.Equal(t, "https://files.example.com/aia.pdf", result["quote_aia"])
		assert.Equal(t, "", result["quote_chubb"])
		assert.Equal(t, 2, result["quotes_count"])
		assert.Equal(t, true, result["has_quotes"])
		assert.Equal(t, "insurance_quotes", result["section_id"])
	})

	t.Run("no quotes", func(t *testing.T) {
		result := InsuranceQuotes(map[string]any{})

		assert.Equal(t, 0, result["quotes_count"])
		assert.Equal(t, false, result["has_quotes"])
		for _, key := range []string{"quote_partners_life", "quote_fidelity_life", "quote_aia", "quote_asteron", "quote_chubb", "quote_nib"} {
			assert.Equal(t, "", result[key])
		}
	})
}

func TestQuoteURL(t *testing.T) {
	assert.Equal(t, "https://x.example.com/a.pdf", quoteURL(`[{"name": "a", "url": "https://x.example.com/a.pdf"}]`))
	assert.Equal(t, "https://x.example.com/a.pdf", quoteURL("https://x.example.com/a.pdf"))
	assert.Equal(t, "", quoteURL("[not json"))
	assert.Equal(t, "", quoteURL("[]"))
	assert.Equal(t, "", quoteURL("plain text"))
	assert.Equal(t, "", quoteURL(""))
	assert.Equal(t, "", quoteURL(nil))
	assert.Equal(t, "", quoteURL(42.0))
}
