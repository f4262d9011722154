package extractors

import (
	"encoding/json"
	"strings"
)

// Needs analysis components per person, keyed by raw field ID.
var lifeMainFields = lifeFieldSet{
	debtRepayment: "380", replacementIncome: "381", childEducation: "382",
	finalExpenses: "383", otherConsiderations: "384",
	assetsOffset: "386", kiwisaverOffset: "388", totalCover: "389",
}

var lifePartnerFields = lifeFieldSet{
	debtRepayment: "391", replacementIncome: "392", childEducation: "393",
	finalExpenses: "394", otherConsiderations: "395",
	assetsOffset: "397", kiwisaverOffset: "399", totalCover: "400",
}

type lifeFieldSet struct {
	debtRepayment       string
	replacementIncome   string
	childEducation      string
	finalExpenses       string
	otherConsiderations string
	assetsOffset        string
	kiwisaverOffset     string
	totalCover          string
}

// LifeInsurance consolidates the life cover needs analysis into single
// JSON fields per person. Zero components are omitted, every amount
// carries a formatted currency twin.
func LifeInsurance(data map[string]any) map[string]any {
	couple := isCouple(data)

	main := lifeComponents(data, lifeMainFields)
	partner := map[string]any{}
	if couple {
		partner = lifeComponents(data, lifePartnerFields)
	}

	status := "no_coverage_needed"
	switch {
	case len(main) > 0 && len(partner) > 0:
		status = "both_need_coverage"
	case len(main) > 0:
		status = "main_only_needs_coverage"
	case len(partner) > 0:
		status = "partner_only_needs_coverage"
	}

	partnerSummary := ""
	if couple {
		partnerSummary = lifeSummary(partner, "Partner")
	}

	return map[string]any{
		"client_name": clientName(data),
		"is_couple":   couple,

		"life_insurance_main_json":    encodeComponents(main),
		"life_insurance_partner_json": encodeComponents(partner),

		"needs_analysis_notes": strings.TrimSpace(strField(data, "504")),

		"main_needs_insurance":    len(main) > 0,
		"partner_needs_insurance": len(partner) > 0,
		"recommendation_status":   status,

		"main_summary_text":    lifeSummary(main, "Main Person"),
		"partner_summary_text": partnerSummary,

		"section_id": "life_insurance",
		"status":     "success",
	}
}

func lifeComponents(data map[string]any, fields lifeFieldSet) map[string]any {
	c := map[string]any{}

	setAmount := func(key, fieldID string) int {
		v := intField(data, fieldID)
		if v > 0 {
			c[key] = v
			c[key+"_formatted"] = FormatCurrency(v)
		}
		return v
	}

	needs := setAmount("debt_repayment", fields.debtRepayment) +
		setAmount("replacement_income", fields.replacementIncome) +
		setAmount("child_education", fields.childEducation) +
		setAmount("final_expenses", fields.finalExpenses) +
		setAmount("other_considerations", fields.otherConsiderations)

	offsets := setAmount("assets_offset", fields.assetsOffset) +
		setAmount("kiwisaver_offset", fields.kiwisaverOffset)

	if total := intField(data, fields.totalCover); total > 0 {
		c["total_cover_needed"] = total
		c["total_cover_formatted"] = FormatCurrency(total)
	}

	if needs > 0 {
		c["total_needs"] = needs
		c["total_needs_formatted"] = FormatCurrency(needs)
	}
	if offsets > 0 {
		c["total_offsets"] = offsets
		c["total_offsets_formatted"] = FormatCurrency(offsets)
	}
	if net := needs - offsets; net > 0 {
		c["net_coverage_required"] = net
		c["net_coverage_formatted"] = FormatCurrency(net)
	}

	if len(c) > 0 {
		c["needs_life_insurance"] = true
	}
	return c
}

func encodeComponents(c map[string]any) string {
	if len(c) == 0 {
		return "{}"
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func lifeSummary(c map[string]any, label string) string {
	if len(c) == 0 {
		return label + ": No life insurance needed"
	}

	lines := []string{label + " Life Insurance Needs:"}
	appendLine := func(title, key string) {
		if _, ok := c[key]; ok {
			lines = append(lines, "  "+title+": "+c[key+"_formatted"].(string))
		}
	}

	appendLine("Debt Repayment", "debt_repayment")
	appendLine("Income Replacement", "replacement_income")
	appendLine("Child Education", "child_education")
	appendLine("Final Expenses", "final_expenses")
	appendLine("Other", "other_considerations")
	appendLine("Total Needs", "total_needs")

	_, hasAssets := c["assets_offset"]
	_, hasKiwisaver := c["kiwisaver_offset"]
	if hasAssets || hasKiwisaver {
		lines = append(lines, "  Less Offsets:")
		if hasAssets {
			lines = append(lines, "    Assets: "+c["assets_offset_formatted"].(string))
		}
		if hasKiwisaver {
			lines = append(lines, "    KiwiSaver: "+c["kiwisaver_offset_formatted"].(string))
		}
	}

	if _, ok := c["net_coverage_required"]; ok {
		lines = append(lines, "  Net Coverage Required: "+c["net_coverage_formatted"].(string))
	}

	return strings.Join(lines, "\n")
}
