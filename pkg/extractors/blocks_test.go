package extractors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBlock(t *testing.T) {
	rows := []row{
		{"Monthly Mortgage", "420", rowCurrency},
		{"Wait Period (weeks)", "430", rowNumber},
		{"Income Type", "423", rowText},
		{"Private Care Access", "449", rowYesNo},
	}

	t.Run("renders only populated rows", func(t *testing.T) {
		data := map[string]any{
			"f420": "$2,500",
			"f430": "4",
			"f449": "Yes",
		}

		text, hasData := renderBlock(data, "TEST BLOCK", rows)
		require.True(t, hasData)

		lines := strings.Split(text, "\n")
		require.Len(t, lines, 6)
		assert.Equal(t, "TEST BLOCK", lines[0])
		assert.Equal(t, tableRule, lines[1])
		assert.Equal(t, tableLine("Monthly Mortgage", "$2,500"), lines[2])
		assert.Equal(t, tableLine("Wait Period (weeks)", "4"), lines[3])
		assert.Equal(t, tableLine("Private Care Access", "Yes"), lines[4])
		assert.Equal(t, tableRule, lines[5])
	})

	t.Run("zero and empty rows are skipped", func(t *testing.T) {
		data := map[string]any{
			"f420": "0",
			"f423": "",
			"f449": "no",
		}

		text, hasData := renderBlock(data, "TEST BLOCK", rows)
		assert.False(t, hasData)
		assert.Empty(t, text)
	})

	t.Run("text rows pass through", func(t *testing.T) {
		data := map[string]any{"f423": "Salary"}

		text, hasData := renderBlock(data, "TEST BLOCK", rows)
		require.True(t, hasData)
		assert.Contains(t, text, "Salary")
	})
}

func TestTableLine(t *testing.T) {
	line := tableLine("Base Excess", "$500")
	assert.Len(t, line, 41)
	assert.True(t, strings.HasPrefix(line, "Base Excess"))
	assert.True(t, strings.HasSuffix(line, "$500"))
}

func TestNotesField(t *testing.T) {
	t.Run("bare ID", func(t *testing.T) {
		assert.Equal(t, "See file", notesField(map[string]any{"508": "See file"}, "508"))
	})

	t.Run("prefixed ID", func(t *testing.T) {
		assert.Equal(t, "See file", notesField(map[string]any{"f508": "See file"}, "508"))
	})

	t.Run("float variant", func(t *testing.T) {
		assert.Equal(t, "See file", notesField(map[string]any{"508.0": "See file"}, "508"))
	})

	t.Run("placeholder when absent or blank", func(t *testing.T) {
		assert.Equal(t, "No additional notes", notesField(map[string]any{}, "508"))
		assert.Equal(t, "No additional notes", notesField(map[string]any{"508": "   "}, "508"))
	})
}

func TestCoverageStatus(t *testing.T) {
	assert.Equal(t, "both_need_coverage", coverageStatus(true, true))
	assert.Equal(t, "main_only_needs_coverage", coverageStatus(true, false))
	assert.Equal(t, "partner_only_needs_coverage", coverageStatus(false, true))
	assert.Equal(t, "no_coverage_needed", coverageStatus(false, false))
}
