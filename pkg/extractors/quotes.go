package extractors

import (
	"encoding/json"
	"strings"
)

// Quote upload fields on the automation form, one per provider.
var quoteProviders = []struct {
	key     string
	fieldID string
}{
	{"quote_partners_life", "42"},
	{"quote_fidelity_life", "43"},
	{"quote_aia", "44"},
	{"quote_asteron", "45"},
	{"quote_chubb", "46"},
	{"quote_nib", "47"},
}

// InsuranceQuotes extracts the uploaded quote document URLs per provider.
func InsuranceQuotes(data map[string]any) map[string]any {
	result := map[string]any{
		"section_id":   "insurance_quotes",
		"section_type": "quote_uploads",
	}

	count := 0
	for _, p := range quoteProviders {
		url := quoteURL(data[p.fieldID])
		result[p.key] = url
		if url != "" {
			count++
		}
	}

	result["quotes_count"] = count
	result["has_quotes"] = count > 0
	result["status"] = "success"
	return result
}

// quoteURL pulls the first upload URL out of the vendor's file field.
// The field holds either a JSON array of {name, url} objects or a bare
// URL string.
func quoteURL(value any) string {
	s, ok := value.(string)
	if !ok || s == "" {
		return ""
	}

	if strings.HasPrefix(s, "[") {
		var uploads []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		}
		if err := json.Unmarshal([]byte(s), &uploads); err == nil && len(uploads) > 0 {
			return uploads[0].URL
		}
		return ""
	}

	if strings.HasPrefix(s, "http") {
		return s
	}
	return ""
}
