package extractors

var incomePartnerFieldIDs = []string{"433", "434", "435", "436", "437", "438", "440", "441", "442", "443", "444"}

func incomeRows(ids [11]string) []row {
	return []row{
		{"Monthly Mortgage", ids[0], rowCurrency},
		{"Living Expenses", ids[1], rowCurrency},
		{"Max Insurable Income", ids[2], rowCurrency},
		{"Income Type", ids[3], rowText},
		{"LOE/MRC Type", ids[4], rowText},
		{"ACC Offsets", ids[5], rowCurrency},
		{"Savings", ids[6], rowCurrency},
		{"Leave Entitlements $", ids[7], rowCurrency},
		{"Leave Entitlements Weeks", ids[8], rowNumber},
		{"Wait Period (weeks)", ids[9], rowNumber},
		{"Claim Period (years)", ids[10], rowNumber},
	}
}

// IncomeProtection formats the income protection inputs as fixed-width
// text blocks per person, plus the advisor notes field.
func IncomeProtection(data map[string]any) map[string]any {
	couple := isCouple(data)
	// Any populated partner field implies a couple even when the status
	// fields are silent.
	if !couple {
		for _, id := range incomePartnerFieldIDs {
			if hasValue(data, id) {
				couple = true
				break
			}
		}
	}

	mainRows := incomeRows([11]string{"420", "421", "422", "423", "424", "425", "427", "428", "429", "430", "431"})
	mainText, mainHasData := renderBlock(data, "MAIN PERSON INCOME PROTECTION", mainRows)
	if !mainHasData {
		mainText = "No income protection data"
	}

	partnerText := ""
	partnerHasData := false
	if couple {
		partnerRows := incomeRows([11]string{"433", "434", "435", "436", "437", "438", "440", "441", "442", "443", "444"})
		partnerText, partnerHasData = renderBlock(data, "PARTNER INCOME PROTECTION", partnerRows)
	}

	return map[string]any{
		"client_name": clientName(data),
		"is_couple":   couple,

		"income_protection_main":    mainText,
		"income_protection_partner": partnerText,
		"income_protection_notes":   notesField(data, "508"),

		"income_protection_recommendation_status": coverageStatus(mainHasData, partnerHasData),
		"section_id": "income_protection",
		"status":     "success",
	}
}
