package extractors

// Trauma needs analysis fields per person, keyed by raw field ID.
var traumaMainFields = traumaFieldSet{
	replacementIncome: "402", replacementExpenses: "486",
	debtRepayment: "403", medicalBills: "404", childcareAssistance: "405",
	buybackOption: "406", tpdAddon: "407", additionalChildTrauma: "408",
	total: "409",
}

var traumaPartnerFields = traumaFieldSet{
	replacementIncome: "411", replacementExpenses: "487",
	debtRepayment: "412", medicalBills: "413", childcareAssistance: "414",
	buybackOption: "415", tpdAddon: "416", additionalChildTrauma: "417",
	total: "418",
}

type traumaFieldSet struct {
	replacementIncome     string
	replacementExpenses   string
	debtRepayment         string
	medicalBills          string
	childcareAssistance   string
	buybackOption         string
	tpdAddon              string
	additionalChildTrauma string
	total                 string
}

type traumaNeeds struct {
	replacementIncome     int
	replacementExpenses   int
	debtRepayment         int
	medicalBills          int
	childcareAssistance   int
	buybackOption         int
	tpdAddon              int
	additionalChildTrauma int
	total                 int
}

// TraumaInsurance extracts trauma cover needs as individual numeric
// fields. A provided total wins over the calculated sum.
func TraumaInsurance(data map[string]any) map[string]any {
	couple := isCouple(data)

	main := readTraumaNeeds(data, traumaMainFields)

	result := map[string]any{
		"client_name": clientName(data),
		"is_couple":   couple,

		"main_replacement_income":      main.replacementIncome,
		"main_replacement_expenses":    main.replacementExpenses,
		"main_debt_repayment":          main.debtRepayment,
		"main_medical_bills":           main.medicalBills,
		"main_childcare_assistance":    main.childcareAssistance,
		"main_buyback_option":          main.buybackOption,
		"main_tpd_addon":               main.tpdAddon,
		"main_additional_child_trauma": main.additionalChildTrauma,

		"main_total_trauma": main.total,
		"main_needs_trauma": main.total > 0,

		"trauma_notes": strField(data, "506"),
	}

	partnerTotal := 0
	if couple {
		partner := readTraumaNeeds(data, traumaPartnerFields)
		partnerTotal = partner.total

		result["partner_replacement_income"] = partner.replacementIncome
		result["partner_replacement_expenses"] = partner.replacementExpenses
		result["partner_debt_repayment"] = partner.debtRepayment
		result["partner_medical_bills"] = partner.medicalBills
		result["partner_childcare_assistance"] = partner.childcareAssistance
		result["partner_buyback_option"] = partner.buybackOption
		result["partner_tpd_addon"] = partner.tpdAddon
		result["partner_additional_child_trauma"] = partner.additionalChildTrauma

		result["partner_total_trauma"] = partner.total
		result["partner_needs_trauma"] = partner.total > 0

		result["combined_trauma_coverage"] = main.total + partner.total
		result["both_need_trauma"] = main.total > 0 && partner.total > 0

		switch {
		case main.total > 0 && partner.total > 0:
			result["trauma_recommendation_status"] = "both_need_coverage"
		case main.total > 0:
			result["trauma_recommendation_status"] = "main_only_needs_coverage"
		case partner.total > 0:
			result["trauma_recommendation_status"] = "partner_only_needs_coverage"
		default:
			result["trauma_recommendation_status"] = "no_coverage_needed"
		}
	} else if main.total > 0 {
		result["trauma_recommendation_status"] = "coverage_needed"
	} else {
		result["trauma_recommendation_status"] = "no_coverage_needed"
	}

	switch total := main.total + partnerTotal; {
	case total == 0:
		result["trauma_coverage_level"] = "none"
	case total < 100_000:
		result["trauma_coverage_level"] = "basic"
	case total < 300_000:
		result["trauma_coverage_level"] = "moderate"
	default:
		result["trauma_coverage_level"] = "comprehensive"
	}

	result["includes_income_support"] = main.replacementIncome > 0 || main.replacementExpenses > 0
	result["includes_medical_costs"] = main.medicalBills > 0
	result["includes_childcare"] = main.childcareAssistance > 0
	result["includes_tpd_addon"] = main.tpdAddon > 0
	result["includes_child_trauma"] = main.additionalChildTrauma > 0

	result["section_id"] = "trauma_insurance"
	result["status"] = "success"

	return result
}

func readTraumaNeeds(data map[string]any, fields traumaFieldSet) traumaNeeds {
	n := traumaNeeds{
		replacementIncome:     intField(data, fields.replacementIncome),
		replacementExpenses:   intField(data, fields.replacementExpenses),
		debtRepayment:         intField(data, fields.debtRepayment),
		medicalBills:          intField(data, fields.medicalBills),
		childcareAssistance:   intField(data, fields.childcareAssistance),
		buybackOption:         intField(data, fields.buybackOption),
		tpdAddon:              intField(data, fields.tpdAddon),
		additionalChildTrauma: intField(data, fields.additionalChildTrauma),
	}

	n.total = intField(data, fields.total)
	if n.total == 0 {
		n.total = n.replacementIncome + n.replacementExpenses + n.debtRepayment +
			n.medicalBills + n.childcareAssistance + n.buybackOption +
			n.tpdAddon + n.additionalChildTrauma
	}
	return n
}
