// Package workflow cross-validates a matched fact-find and automation
// form pair and builds the advisory summary and text report.
package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Ramsey-B/clover/pkg/extractors"
	"github.com/Ramsey-B/clover/pkg/models"
)

// Validation is the outcome of cross-checking a form pair. Errors block
// report generation, warnings are informational.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate checks the pair for required data and consistency. Either
// form may be nil.
func Validate(ff *models.FactFind, af *models.AutomationForm) Validation {
	v := Validation{Errors: []string{}, Warnings: []string{}}

	if ff == nil {
		v.Errors = append(v.Errors, "fact find form not loaded")
	} else {
		if ff.Email() == "" {
			v.Errors = append(v.Errors, "client email is missing from fact find")
		}
		if ff.CaseID() == "" {
			v.Warnings = append(v.Warnings, "case ID is missing from fact find")
		}
	}

	if af == nil {
		v.Warnings = append(v.Warnings, "automation form not loaded, recommendation data unavailable")
	} else if af.Email() == "" {
		v.Warnings = append(v.Warnings, "client email is missing from automation form")
	}

	if ff != nil && af != nil {
		ffEmail, afEmail := ff.Email(), af.Email()
		if ffEmail != "" && afEmail != "" && ffEmail != afEmail {
			v.Warnings = append(v.Warnings, fmt.Sprintf("email mismatch: fact find has %s, automation has %s", ffEmail, afEmail))
		}
		if ff.IsCouple != af.IsCouple {
			v.Warnings = append(v.Warnings, "couple status mismatch between forms")
		}
	}

	v.Valid = len(v.Errors) == 0
	return v
}

// ClientSummary combines both forms into the advisory summary structure.
func ClientSummary(ff *models.FactFind, af *models.AutomationForm) map[string]any {
	summary := map[string]any{
		"client_info":        map[string]any{},
		"financial_position": map[string]any{},
		"insurance_needs":    map[string]any{},
		"recommendations":    map[string]any{},
	}

	if ff != nil {
		clientInfo := map[string]any{
			"name":          ff.ClientFullName(),
			"email":         ff.Email(),
			"date_of_birth": ff.ClientInfo["date_of_birth"],
			"occupation":    firstNonEmpty(ff.EmploymentMain["occupation"], ff.ClientInfo["occupation"]),
			"is_couple":     ff.IsCouple,
		}
		if ff.IsCouple {
			clientInfo["partner_name"] = ff.PartnerFullName()
		}
		summary["client_info"] = clientInfo

		summary["financial_position"] = map[string]any{
			"annual_income":   ff.EmploymentMain["annual_income"],
			"home_value":      ff.HouseholdInfo["current_house_value"],
			"mortgage":        ff.HouseholdInfo["current_mortgage"],
			"kiwisaver_total": totalKiwiSaver(ff),
		}

		summary["insurance_needs"] = map[string]any{
			"life_needs":              ff.NeedsLifeMain["total_cover"],
			"trauma_needs":            ff.NeedsTraumaMain["total"],
			"income_protection_needs": ff.NeedsIncomeMain["max_insurable_income"],
		}
	}

	if af != nil {
		summary["recommendations"] = map[string]any{
			"selected_provider": af.RecommendedProvider(),
			"scope_of_advice":   af.SelectedScope(),
			"limitations":       af.LimitationReasons(),
			"quotes":            providerQuotes(af),
		}

		existing := map[string]any{
			"main": coverSummary(af.MainExistingCover),
		}
		if af.IsCouple {
			existing["partner"] = coverSummary(af.PartnerExistingCover)
		}
		summary["existing_insurance"] = existing
	}

	return summary
}

// Report renders the plain-text advisory report for a form pair.
func Report(ff *models.FactFind, af *models.AutomationForm) string {
	rule := strings.Repeat("=", 70)
	subRule := strings.Repeat("-", 50)

	lines := []string{
		rule,
		"INSURANCE ADVISORY REPORT",
		rule,
		"Generated: " + time.Now().Format("2006-01-02 15:04:05"),
		"",
	}

	summary := ClientSummary(ff, af)
	clientInfo, _ := summary["client_info"].(map[string]any)

	applicationType := "Single"
	if b, ok := clientInfo["is_couple"].(bool); ok && b {
		applicationType = "Couple"
	}
	lines = append(lines,
		"CLIENT INFORMATION",
		subRule,
		"Name: "+textOr(clientInfo["name"]),
		"Email: "+textOr(clientInfo["email"]),
		"Date of Birth: "+textOr(clientInfo["date_of_birth"]),
		"Occupation: "+textOr(clientInfo["occupation"]),
		"Application Type: "+applicationType,
	)
	if partner := textOr(clientInfo["partner_name"]); partner != "N/A" {
		lines = append(lines, "Partner: "+partner)
	}
	lines = append(lines, "")

	if finPos, ok := summary["financial_position"].(map[string]any); ok && len(finPos) > 0 {
		lines = append(lines, "FINANCIAL POSITION", subRule)
		lines = appendAmount(lines, "Annual Income", finPos["annual_income"])
		lines = appendAmount(lines, "Home Value", finPos["home_value"])
		lines = appendAmount(lines, "Mortgage", finPos["mortgage"])
		lines = appendAmount(lines, "Total KiwiSaver", finPos["kiwisaver_total"])
		lines = append(lines, "")
	}

	if existing, ok := summary["existing_insurance"].(map[string]any); ok {
		lines = append(lines, "EXISTING INSURANCE", subRule)
		if main, ok := existing["main"].(map[string]any); ok {
			lines = append(lines, "Main Contact:")
			lines = appendCover(lines, main)
		}
		if partner, ok := existing["partner"].(map[string]any); ok {
			lines = append(lines, "", "Partner:")
			lines = appendCover(lines, partner)
		}
		lines = append(lines, "")
	}

	if rec, ok := summary["recommendations"].(map[string]any); ok && len(rec) > 0 {
		lines = append(lines, "RECOMMENDATIONS", subRule)
		selected := textOr(rec["selected_provider"])
		if selected != "N/A" && selected != "" {
			lines = append(lines, "Recommended Provider: "+selected)
		}
		if scope, ok := rec["scope_of_advice"].([]string); ok && len(scope) > 0 {
			lines = append(lines, "Scope: "+strings.Join(scope, ", "))
		}
		if limitations, ok := rec["limitations"].([]string); ok && len(limitations) > 0 {
			lines = append(lines, "Limitations: "+strings.Join(limitations, ", "))
		}
		if quotes, ok := rec["quotes"].(map[string]float64); ok && len(quotes) > 0 {
			lines = append(lines, "", "Provider Quotes:")
			for _, q := range sortedQuotes(quotes) {
				marker := ""
				if q.provider == selected {
					marker = " <- SELECTED"
				}
				lines = append(lines, fmt.Sprintf("  %-20s %s/month%s", q.provider, extractors.FormatCurrency(int(q.amount)), marker))
			}
		}
		lines = append(lines, "")
	}

	lines = append(lines, rule, "END OF REPORT", rule)
	return strings.Join(lines, "\n")
}

func totalKiwiSaver(ff *models.FactFind) any {
	total := models.Amount(ff.KiwiSaver["main_balance"]) +
		models.Amount(ff.KiwiSaver["partner_balance"]) +
		models.Amount(ff.KiwiSaver["balance_3"])
	if total > 0 {
		return total
	}
	return nil
}

func providerQuotes(af *models.AutomationForm) map[string]float64 {
	fields := map[string]string{
		"Partners Life": "quote_partners_life",
		"Fidelity Life": "quote_fidelity_life",
		"AIA":           "quote_aia",
		"Asteron":       "quote_asteron",
		"Chubb":         "quote_chubb",
		"nib":           "quote_nib",
	}

	quotes := map[string]float64{}
	for provider, key := range fields {
		if amount := models.Amount(af.Recommendation[key]); amount > 0 {
			quotes[provider] = amount
		}
	}
	return quotes
}

func coverSummary(cover map[string]any) map[string]any {
	return map[string]any{
		"life":              cover["life_amount"],
		"trauma":            cover["trauma_amount"],
		"income_protection": cover["income_protection_amount"],
		"total_premiums":    cover["existing_premiums"],
	}
}

func appendCover(lines []string, cover map[string]any) []string {
	if v := models.Amount(cover["life"]); v > 0 {
		lines = append(lines, "  Life Cover: "+extractors.FormatCurrency(int(v)))
	}
	if v := models.Amount(cover["trauma"]); v > 0 {
		lines = append(lines, "  Trauma Cover: "+extractors.FormatCurrency(int(v)))
	}
	if v := models.Amount(cover["income_protection"]); v > 0 {
		lines = append(lines, "  Income Protection: "+extractors.FormatCurrency(int(v))+"/month")
	}
	if v := models.Amount(cover["total_premiums"]); v > 0 {
		lines = append(lines, "  Current Premiums: "+extractors.FormatCurrency(int(v))+"/month")
	}
	return lines
}

func appendAmount(lines []string, label string, value any) []string {
	if v := models.Amount(value); v > 0 {
		lines = append(lines, label+": "+extractors.FormatCurrency(int(v)))
	}
	return lines
}

type quote struct {
	provider string
	amount   float64
}

func sortedQuotes(quotes map[string]float64) []quote {
	out := make([]quote, 0, len(quotes))
	for provider, amount := range quotes {
		out = append(out, quote{provider, amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].amount < out[j].amount })
	return out
}

func textOr(v any) string {
	if v == nil {
		return "N/A"
	}
	s := fmt.Sprint(v)
	if s == "" {
		return "N/A"
	}
	return s
}

func firstNonEmpty(values ...any) any {
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return v
	}
	return nil
}
