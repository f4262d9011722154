package models

import (
	"strings"
	"time"

	"github.com/Ramsey-B/clover/pkg/fieldmap"
)

// AutomationForm is the recommendation-stage form the adviser completes
// after the fact find.
type AutomationForm struct {
	ClientDetails map[string]any `json:"client_details"`

	ScopeOfAdvice map[string]any `json:"scope_of_advice"`
	Limitations   map[string]any `json:"limitations"`

	MainExistingCover    map[string]any `json:"main_existing_cover"`
	PartnerExistingCover map[string]any `json:"partner_existing_cover"`

	Recommendation map[string]any `json:"recommendation"`
	Additional     map[string]any `json:"additional"`

	IsCouple bool      `json:"is_couple"`
	FormDate time.Time `json:"form_date"`

	Raw map[string]any `json:"-"`
}

// coverCurrencyKeys are parsed as currency in the existing-cover sections.
var coverCurrencyKeys = []string{
	"life_amount", "tpd_amount", "trauma_amount",
	"income_protection_amount", "medical_amount", "existing_premiums",
}

// quoteCurrencyKeys are the per-provider premium quote fields.
var quoteCurrencyKeys = []string{
	"quote_partners_life", "quote_fidelity_life", "quote_aia",
	"quote_asteron", "quote_chubb", "quote_nib",
}

// NewAutomationForm builds an AutomationForm from a raw submission.
func NewAutomationForm(raw map[string]any, mapper *fieldmap.Mapper) *AutomationForm {
	all := mapper.ExtractAll(raw)

	af := &AutomationForm{
		ClientDetails: section(all, "client_details"),
		Raw:           raw,
	}

	af.IsCouple = CoupleFromAutomation(af.ClientDetails["is_couple"])

	af.ScopeOfAdvice = section(all, "scope_of_advice")
	coerceCheckboxes(af.ScopeOfAdvice)

	af.Limitations = section(all, "limitations")
	coerceCheckboxes(af.Limitations)

	af.MainExistingCover = section(all, "main_existing_cover")
	parseCurrencyKeys(af.MainExistingCover, coverCurrencyKeys...)

	if af.IsCouple {
		af.PartnerExistingCover = section(all, "partner_existing_cover")
		parseCurrencyKeys(af.PartnerExistingCover, coverCurrencyKeys...)
	} else {
		af.PartnerExistingCover = map[string]any{}
	}

	af.Recommendation = section(all, "recommendation")
	parseCurrencyKeys(af.Recommendation, quoteCurrencyKeys...)

	af.Additional = section(all, "additional")
	if t, ok := ParseFormTime(af.Additional["recommendation_date"]); ok {
		af.FormDate = t
	} else {
		af.FormDate = time.Now()
		af.Additional["recommendation_date"] = af.FormDate.Format(time.RFC3339)
	}

	return af
}

// Email returns the client email, falling back to the raw field.
func (af *AutomationForm) Email() string {
	if s := asString(af.ClientDetails["email"]); s != "" {
		return s
	}
	return asString(fieldmap.LookupRaw(af.Raw, "3"))
}

// CaseID returns the case identifier carried over from the fact find.
func (af *AutomationForm) CaseID() string {
	return asString(af.ClientDetails["case_id"])
}

// ClientFullName joins the client's names from the details section.
func (af *AutomationForm) ClientFullName() string {
	return joinName(af.ClientDetails["first_name"], af.ClientDetails["last_name"])
}

// scopeDisplayNames orders the scope checkboxes for reporting.
var scopeDisplayNames = []struct{ key, label string }{
	{"life_insurance", "Life Insurance"},
	{"income_protection", "Income Protection"},
	{"trauma_cover", "Trauma Cover"},
	{"health_insurance", "Health Insurance"},
	{"total_permanent_disability", "Total & Permanent Disability"},
	{"acc", "ACC"},
}

// SelectedScope lists the insurance types included in the advice scope.
func (af *AutomationForm) SelectedScope() []string {
	var types []string
	for _, entry := range scopeDisplayNames {
		if truthy(af.ScopeOfAdvice[entry.key]) {
			types = append(types, entry.label)
		}
	}
	return types
}

var limitationDisplayNames = []struct{ key, label string }{
	{"employer_medical", "Medical cover through employer"},
	{"no_debt_strong_assets", "No debt and strong asset base"},
	{"budget_limitations", "Budget limitations"},
	{"self_insure", "Can self-insure the risk"},
	{"no_dependants", "No dependants"},
	{"uninsurable_occupation", "Uninsurable occupation"},
	{"other", "Other reasons"},
}

// LimitationReasons lists the reasons the advice scope was limited.
func (af *AutomationForm) LimitationReasons() []string {
	var reasons []string
	for _, entry := range limitationDisplayNames {
		if truthy(af.Limitations[entry.key]) {
			reasons = append(reasons, entry.label)
		}
	}
	return reasons
}

// RecommendedProvider returns the adviser's selected provider, if any.
func (af *AutomationForm) RecommendedProvider() string {
	return asString(af.Recommendation["selected_provider"])
}

// LowestQuote returns the provider with the cheapest premium quote.
func (af *AutomationForm) LowestQuote() (string, *float64) {
	providers := []struct{ key, name string }{
		{"quote_partners_life", "Partners Life"},
		{"quote_fidelity_life", "Fidelity Life"},
		{"quote_aia", "AIA"},
		{"quote_asteron", "Asteron"},
		{"quote_chubb", "Chubb"},
		{"quote_nib", "nib"},
	}

	var bestName string
	var bestQuote *float64
	for _, p := range providers {
		amount, ok := af.Recommendation[p.key].(float64)
		if !ok {
			continue
		}
		if bestQuote == nil || amount < *bestQuote {
			a := amount
			bestQuote = &a
			bestName = p.name
		}
	}
	return bestName, bestQuote
}

// coerceCheckboxes converts yes/no style strings into booleans in place.
func coerceCheckboxes(section map[string]any) {
	for key, value := range section {
		s, ok := value.(string)
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "true", "1", "checked":
			section[key] = true
		case "no", "false", "0", "unchecked", "":
			section[key] = false
		}
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return Checked(t)
	case float64:
		return t != 0
	default:
		return false
	}
}
