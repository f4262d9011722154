package extractors

var healthPartnerFieldIDs = []string{"456", "457", "458", "459", "460", "461"}

func healthRows(ids [6]string) []row {
	return []row{
		{"Private Care Access", ids[0], rowYesNo},
		{"Specialists/Tests", ids[1], rowYesNo},
		{"Non-Pharmac Drugs", ids[2], rowYesNo},
		{"Dental/Optical/Physio", ids[3], rowYesNo},
		{"Base Excess", ids[4], rowCurrency},
		{"Child Coverage", ids[5], rowYesNo},
	}
}

// HealthInsurance formats the private health cover preferences as
// fixed-width text blocks per person.
func HealthInsurance(data map[string]any) map[string]any {
	couple := isCouple(data)
	if !couple {
		for _, id := range healthPartnerFieldIDs {
			if hasValue(data, id) {
				couple = true
				break
			}
		}
	}

	mainText, mainHasData := renderBlock(data, "MAIN PERSON HEALTH INSURANCE",
		healthRows([6]string{"449", "450", "451", "452", "453", "454"}))
	if !mainHasData {
		mainText = "No health insurance data"
	}

	partnerText := ""
	partnerHasData := false
	if couple {
		partnerText, partnerHasData = renderBlock(data, "PARTNER HEALTH INSURANCE",
			healthRows([6]string{"456", "457", "458", "459", "460", "461"}))
	}

	return map[string]any{
		"client_name": clientName(data),
		"is_couple":   couple,

		"health_insurance_main":    mainText,
		"health_insurance_partner": partnerText,
		"health_insurance_notes":   notesField(data, "510"),

		"health_insurance_recommendation_status": coverageStatus(mainHasData, partnerHasData),
		"section_id": "health_insurance",
		"status":     "success",
	}
}
