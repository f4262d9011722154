// Package extractors turns combined raw form submissions into the
// per-section payload fragments delivered downstream. Each section takes
// the merged fact-find and automation form data keyed by raw field ID and
// returns a flat map ready for payload assembly.
package extractors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ramsey-B/clover/pkg/fieldmap"
	"github.com/Ramsey-B/clover/pkg/models"
)

// Section pairs a stable section identifier with its extraction function.
type Section struct {
	ID      string
	Extract func(data map[string]any) map[string]any
}

// Sections returns every payload section in delivery order.
func Sections() []Section {
	return []Section{
		{ID: "personal_information", Extract: PersonalInformation},
		{ID: "assets_liabilities", Extract: AssetsLiabilities},
		{ID: "scope_of_advice", Extract: ScopeOfAdvice},
		{ID: "life_insurance", Extract: LifeInsurance},
		{ID: "trauma_insurance", Extract: TraumaInsurance},
		{ID: "income_protection", Extract: IncomeProtection},
		{ID: "health_insurance", Extract: HealthInsurance},
		{ID: "accidental_injury", Extract: AccidentalInjury},
		{ID: "insurance_quotes", Extract: InsuranceQuotes},
	}
}

// ByID returns the section with the given identifier.
func ByID(id string) (Section, bool) {
	for _, s := range Sections() {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// SafeInt converts currency-ish values to a non-negative integer amount.
// Commas and dollar signs are stripped, unparseable or negative input
// collapses to zero.
func SafeInt(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return max(0, v)
	case int64:
		return max(0, int(v))
	case float64:
		return max(0, int(v))
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(v, ",", ""), "$", ""))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return max(0, int(f))
	default:
		return 0
	}
}

// FormatCurrency renders an integer amount as "$1,234,567".
func FormatCurrency(value int) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	digits := strconv.Itoa(value)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String()
}

// fieldValue resolves a raw field by ID across the vendor's key variants.
func fieldValue(data map[string]any, id string) any {
	return fieldmap.LookupRaw(data, id)
}

// hasValue reports whether a raw field is present and non-empty.
func hasValue(data map[string]any, id string) bool {
	v := fieldValue(data, id)
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func intField(data map[string]any, id string) int {
	return SafeInt(fieldValue(data, id))
}

func strField(data map[string]any, id string) string {
	v := fieldValue(data, id)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// yesNo folds a boolean-ish field into "Yes" or "No".
func yesNo(value any) string {
	if models.Affirmative(value) {
		return "Yes"
	}
	if s, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "relevant", "needed", "required":
			return "Yes"
		}
	}
	return "No"
}

// isCouple applies the extractor-level couple check: an explicit is_couple
// flag from the automation form, or couple signals on the raw fact find.
func isCouple(data map[string]any) bool {
	if models.CoupleFromAutomation(data["is_couple"]) {
		return true
	}
	return models.CoupleFromFactFind(data)
}

// clientName prefers the merged client_name key, falling back to the raw
// automation form name field.
func clientName(data map[string]any) string {
	if s, ok := data["client_name"].(string); ok && s != "" {
		return s
	}
	return strField(data, "3")
}

// tableLine renders one "Label          value" row of a fixed-width block.
func tableLine(label, value string) string {
	return fmt.Sprintf("%-25s %15s", label, value)
}

const tableRule = "---------------------------------------------"
