package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeOfAdvice(t *testing.T) {
	t.Run("checked products are in scope", func(t *testing.T) {
		data := map[string]any{
			"5.1": "Life Insurance",
			"5.2": "Income Protection",
			"5.4": "",
		}

		result := ScopeOfAdvice(data)

		assert.Equal(t, []string{"Life Insurance", "Income Protection"}, result["products_in_scope"])
		assert.Equal(t, []string{
			"Trauma Cover",
			"Health Insurance",
			"Total Permanent Disability (TPD)",
			"ACC Top-Up",
		}, result["products_out_of_scope"])
	})

	t.Run("no limitations", func(t *testing.T) {
		result := ScopeOfAdvice(map[string]any{})

		sections := result["sections"].(map[string]any)
		assert.Equal(t,
			"No specific limitations have been identified that restrict the scope of insurance advice.",
			sections["limitations"])
		assert.Empty(t, result["products_in_scope"])
		assert.NotNil(t, result["products_in_scope"])
	})

	t.Run("limitations with notes", func(t *testing.T) {
		data := map[string]any{
			"6.3": "checked",
			"6.5": "checked",
			"f7":  "Client reviews again next year",
		}

		result := ScopeOfAdvice(data)

		limitations := result["sections"].(map[string]any)["limitations"].(string)
		assert.Contains(t, limitations, "Scope limitations: ")
		assert.Contains(t, limitations, "Budget constraints limit insurance options")
		assert.Contains(t, limitations, "No financial dependants requiring protection")
		assert.Contains(t, limitations, "Additional notes: Client reviews again next year")
	})

	t.Run("more than three limitations are summarized", func(t *testing.T) {
		data := map[string]any{
			"6.1": "x", "6.2": "x", "6.3": "x", "6.4": "x", "6.5": "x",
		}

		result := ScopeOfAdvice(data)

		limitations := result["sections"].(map[string]any)["limitations"].(string)
		assert.Contains(t, limitations, "and 2 other factor(s)")
		assert.NotContains(t, limitations, "No financial dependants")
	})

	t.Run("submission date is reformatted", func(t *testing.T) {
		data := map[string]any{"date_created": "2025-10-30 14:22:00"}

		result := ScopeOfAdvice(data)

		sections := result["sections"].(map[string]any)
		require.Contains(t, sections, "form_submission_date")
		assert.Equal(t, "Thursday, 30 October 2025", sections["form_submission_date"])
	})

	t.Run("unparseable date is omitted", func(t *testing.T) {
		result := ScopeOfAdvice(map[string]any{"date_created": "30/10/2025"})
		assert.NotContains(t, result["sections"].(map[string]any), "form_submission_date")
	})
}
