package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSections(t *testing.T) {
	sections := Sections()
	require.Len(t, sections, 9)
	assert.Equal(t, "personal_information", sections[0].ID)
	assert.Equal(t, "insurance_quotes", sections[8].ID)

	for _, s := range sections {
		assert.NotNil(t, s.Extract, "section %s must have an extract function", s.ID)
	}
}

func TestByID(t *testing.T) {
	s, ok := ByID("trauma_insurance")
	require.True(t, ok)
	assert.Equal(t, "trauma_insurance", s.ID)

	_, ok = ByID("no_such_section")
	assert.False(t, ok)
}

func TestSafeInt(t *testing.T) {
	assert.Equal(t, 500000, SafeInt("$500,000"))
	assert.Equal(t, 1234, SafeInt("1,234.99"))
	assert.Equal(t, 42, SafeInt(42.7))
	assert.Equal(t, 42, SafeInt(42))
	assert.Zero(t, SafeInt(nil))
	assert.Zero(t, SafeInt(""))
	assert.Zero(t, SafeInt("  "))
	assert.Zero(t, SafeInt("garbage"))
	assert.Zero(t, SafeInt(-100))
	assert.Zero(t, SafeInt("-100"))
	assert.Zero(t, SafeInt([]int{1}))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0", FormatCurrency(0))
	assert.Equal(t, "$999", FormatCurrency(999))
	assert.Equal(t, "$1,234", FormatCurrency(1234))
	assert.Equal(t, "$1,234,567", FormatCurrency(1234567))
	assert.Equal(t, "-$50,000", FormatCurrency(-50000))
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "Yes", yesNo("yes"))
	assert.Equal(t, "Yes", yesNo(true))
	assert.Equal(t, "Yes", yesNo(" Relevant "))
	assert.Equal(t, "Yes", yesNo("needed"))
	assert.Equal(t, "No", yesNo("no"))
	assert.Equal(t, "No", yesNo(""))
	assert.Equal(t, "No", yesNo(nil))
}

func TestHasValue(t *testing.T) {
	data := map[string]any{
		"f420": "2500",
		"421":  "   ",
		"422":  0.0,
	}
	assert.True(t, hasValue(data, "420"))
	assert.False(t, hasValue(data, "421"))
	// Non-string zero values still count as present.
	assert.True(t, hasValue(data, "422"))
	assert.False(t, hasValue(data, "999"))
}

func TestClientName(t *testing.T) {
	assert.Equal(t, "John Smith", clientName(map[string]any{"client_name": "John Smith"}))
	assert.Equal(t, "Jane", clientName(map[string]any{"f3": "Jane"}))
	assert.Equal(t, "", clientName(map[string]any{}))
}
