package extractors

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
)

// Checkbox field IDs for the insurance products covered by the advice.
var scopeProducts = []struct {
	fieldID string
	product string
}{
	{"5.1", "Life Insurance"},
	{"5.2", "Income Protection"},
	{"5.3", "Trauma Cover"},
	{"5.4", "Health Insurance"},
	{"5.5", "Total Permanent Disability (TPD)"},
	{"5.6", "ACC Top-Up"},
}

// Checkbox field IDs for the reasons limiting the advice scope.
var limitationReasons = []struct {
	fieldID     string
	code        string
	description string
}{
	{"6.1", "employer_medical", "Medical cover provided through employer"},
	{"6.2", "no_debt_strong_assets", "No debt and strong asset base eliminates need for life cover"},
	{"6.3", "budget_limitations", "Budget constraints limit insurance options"},
	{"6.4", "self_insure", "Client has sufficient assets to self-insure risks"},
	{"6.5", "no_dependants", "No financial dependants requiring protection"},
	{"6.6", "uninsurable_occupation", "Occupation is not insurable or has significant loadings"},
	{"6.7", "other", "Other reasons (see notes)"},
}

const scopeDateLayout = "2006-01-02 15:04:05"

// ScopeOfAdvice determines which insurance products are in and out of
// scope from the automation form checkboxes and summarises the active
// limitation reasons.
func ScopeOfAdvice(data map[string]any) map[string]any {
	var inScope, outOfScope []string
	for _, p := range scopeProducts {
		if models.Checked(fieldValue(data, p.fieldID)) {
			inScope = append(inScope, p.product)
		} else {
			outOfScope = append(outOfScope, p.product)
		}
	}

	var activeDescriptions []string
	for _, r := range limitationReasons {
		if models.Checked(fieldValue(data, r.fieldID)) {
			activeDescriptions = append(activeDescriptions, r.description)
		}
	}

	notes := ""
	if v := fieldValue(data, "7"); v != nil {
		notes = fmt.Sprint(v)
	}

	sections := map[string]any{
		"limitations": limitationsContent(activeDescriptions, notes),
	}
	if date := formSubmissionDate(data); date != "" {
		sections["form_submission_date"] = date
	}

	if inScope == nil {
		inScope = []string{}
	}
	if outOfScope == nil {
		outOfScope = []string{}
	}

	return map[string]any{
		"section_type":          "scope_of_advice",
		"products_in_scope":     inScope,
		"products_out_of_scope": outOfScope,
		"sections":              sections,
	}
}

func limitationsContent(descriptions []string, notes string) string {
	if len(descriptions) == 0 {
		return "No specific limitations have been identified that restrict the scope of insurance advice."
	}

	shown := descriptions
	if len(shown) > 3 {
		shown = shown[:3]
	}
	text := strings.Join(shown, "; ")
	if extra := len(descriptions) - 3; extra > 0 {
		text += fmt.Sprintf(" and %d other factor(s)", extra)
	}

	if notes != "" {
		if len(notes) > 100 {
			notes = notes[:100]
		}
		text += ". Additional notes: " + notes
	}

	return "Scope limitations: " + text
}

// formSubmissionDate reformats the vendor timestamp into a written date
// like "Wednesday, 30 October 2025".
func formSubmissionDate(data map[string]any) string {
	v, ok := data["date_created"]
	if !ok || v == nil {
		return ""
	}
	t, err := time.Parse(scopeDateLayout, fmt.Sprint(v))
	if err != nil {
		return ""
	}
	return t.Format("Monday, 02 January 2006")
}
