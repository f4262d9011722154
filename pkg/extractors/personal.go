package extractors

import (
	"strconv"
	"strings"
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
)

var dobLayouts = []string{"01/02/2006", "2006-01-02", "02/01/2006"}

// Person is one member of the household in the personal information
// section.
type Person struct {
	Label              string `json:"label"`
	Age                int    `json:"age"`
	Occupation         string `json:"occupation"`
	Employer           string `json:"employer"`
	SalaryBeforeTaxNZD int    `json:"salary_before_tax_nzd"`
	EmploymentStatus   string `json:"employment_status"`
	WillEPAStatus      string `json:"will_epa_status"`
}

// PersonalInformation builds the compact household summary used for
// prose generation. Partner details are included whenever partner name
// fields or the relationship fields signal a couple.
func PersonalInformation(data map[string]any) map[string]any {
	people := []Person{mainPerson(data)}

	partnerFirst := strField(data, "146")
	partnerLast := strField(data, "147")
	couple := strings.TrimSpace(partnerFirst+" "+partnerLast) != "" || isCouple(data)

	if couple {
		people = append(people, partnerPerson(data, partnerFirst))
	}

	return map[string]any{
		"section_id": "personal_information",
		"household": map[string]any{
			"people": people,
		},
		"format": map[string]any{
			"currency": "NZD",
			"locale":   "en-NZ",
		},
		"constraints": map[string]any{
			"max_chars": 360,
		},
	}
}

func mainPerson(data map[string]any) Person {
	first := strField(data, "144")
	if first == "" {
		first = strField(data, "3")
	}
	label := first
	if label == "" {
		label = "Client"
	}

	selfEmployed := models.Affirmative(fieldValue(data, "276"))
	employer := strField(data, "277")
	if selfEmployed || employer == "" {
		employer = "Self-Employed"
	}

	dob := strField(data, "94")
	if dob == "" {
		dob = strField(data, "95")
	}

	return Person{
		Label:              label,
		Age:                ageFromDOB(dob),
		Occupation:         strField(data, "6"),
		Employer:           employer,
		SalaryBeforeTaxNZD: SafeInt(fieldValue(data, "10")),
		EmploymentStatus:   employmentStatus(selfEmployed, strField(data, "275")),
		WillEPAStatus:      willStatus(strField(data, "26")),
	}
}

func partnerPerson(data map[string]any, first string) Person {
	label := first
	if label == "" {
		label = "Partner"
	}

	selfEmployed := models.Affirmative(fieldValue(data, "483"))
	employer := strField(data, "297")
	if employer == "" {
		employer = strField(data, "288")
	}
	if selfEmployed || employer == "" {
		employer = "Self-Employed"
	}

	occupation := strField(data, "40")
	if occupation == "" {
		occupation = strField(data, "286")
	}

	salary := SafeInt(fieldValue(data, "42"))
	if salary == 0 {
		salary = SafeInt(fieldValue(data, "296"))
	}

	return Person{
		Label:              label,
		Age:                ageFromDOB(strField(data, "95")),
		Occupation:         occupation,
		Employer:           employer,
		SalaryBeforeTaxNZD: salary,
		EmploymentStatus:   employmentStatus(selfEmployed, strField(data, "295")),
		WillEPAStatus:      willStatus(strField(data, "300")),
	}
}

func ageFromDOB(dob string) int {
	dob = strings.TrimSpace(dob)
	if dob == "" {
		return 0
	}
	for _, layout := range dobLayouts {
		birth, err := time.Parse(layout, dob)
		if err != nil {
			continue
		}
		now := time.Now()
		age := now.Year() - birth.Year()
		if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
			age--
		}
		return age
	}
	return 0
}

func employmentStatus(selfEmployed bool, hours string) string {
	if selfEmployed {
		return "Self-Employed"
	}
	if h, err := strconv.ParseFloat(strings.TrimSpace(hours), 64); err == nil {
		if h >= 30 {
			return "Fulltime"
		}
		if h > 0 {
			return "Part-time"
		}
	}
	// Employed with unspecified hours reads as full time.
	return "Fulltime"
}

func willStatus(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1", "in place":
		return "In Place"
	case "no", "false", "0", "none":
		return "Not In Place"
	default:
		return ""
	}
}
