package extractors

import "strings"

// AccidentalInjury reports whether accident cover was flagged as relevant
// for either person. There are no amounts on this section, only the
// relevance checkboxes.
func AccidentalInjury(data map[string]any) map[string]any {
	couple := isCouple(data)
	// A populated partner relevance field implies a couple.
	if !couple && hasValue(data, "447") {
		couple = true
	}

	mainText := "No accidental injury coverage needed"
	mainHasData := false
	if yesNo(fieldValue(data, "446")) == "Yes" {
		mainHasData = true
		mainText = relevanceBlock("MAIN PERSON ACCIDENTAL INJURY")
	}

	partnerText := ""
	partnerHasData := false
	if couple && yesNo(fieldValue(data, "447")) == "Yes" {
		partnerHasData = true
		partnerText = relevanceBlock("PARTNER ACCIDENTAL INJURY")
	}

	return map[string]any{
		"client_name": clientName(data),
		"is_couple":   couple,

		"accidental_injury_main":    mainText,
		"accidental_injury_partner": partnerText,
		"accidental_injury_notes":   "No additional notes",

		"accidental_injury_recommendation_status": coverageStatus(mainHasData, partnerHasData),
		"section_id": "accidental_injury",
		"status":     "success",
	}
}

func relevanceBlock(header string) string {
	return strings.Join([]string{
		header,
		tableRule,
		tableLine("Accident Cover Relevant", "Yes"),
		tableRule,
	}, "\n")
}
