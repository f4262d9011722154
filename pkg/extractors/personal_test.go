package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonalInformation(t *testing.T) {
	t.Run("single client", func(t *testing.T) {
		data := map[string]any{
			"f144": "John",
			"f6":   "Engineer",
			"f277": "Acme Ltd",
			"f275": "40",
			"f10":  "$85,000",
			"f26":  "Yes",
		}

		result := PersonalInformation(data)

		household := result["household"].(map[string]any)
		people := household["people"].([]Person)
		require.Len(t, people, 1)

		main := people[0]
		assert.Equal(t, "John", main.Label)
		assert.Equal(t, "Engineer", main.Occupation)
		assert.Equal(t, "Acme Ltd", main.Employer)
		assert.Equal(t, 85000, main.SalaryBeforeTaxNZD)
		assert.Equal(t, "Fulltime", main.EmploymentStatus)
		assert.Equal(t, "In Place", main.WillEPAStatus)

		format := result["format"].(map[string]any)
		assert.Equal(t, "NZD", format["currency"])
	})

	t.Run("partner name fields imply a couple", func(t *testing.T) {
		data := map[string]any{
			"f144": "John",
			"f146": "Jane",
			"f147": "Smith",
			"f40":  "Teacher",
			"f42":  "$65,000",
			"f295": "20",
		}

		result := PersonalInformation(data)

		people := result["household"].(map[string]any)["people"].([]Person)
		require.Len(t, people, 2)

		partner := people[1]
		assert.Equal(t, "Jane", partner.Label)
		assert.Equal(t, "Teacher", partner.Occupation)
		assert.Equal(t, 65000, partner.SalaryBeforeTaxNZD)
		assert.Equal(t, "Part-time", partner.EmploymentStatus)
		// No employer anywhere defaults to self-employed.
		assert.Equal(t, "Self-Employed", partner.Employer)
	})

	t.Run("empty submission still yields a main person", func(t *testing.T) {
		result := PersonalInformation(map[string]any{})

		people := result["household"].(map[string]any)["people"].([]Person)
		require.Len(t, people, 1)
		assert.Equal(t, "Client", people[0].Label)
		assert.Zero(t, people[0].Age)
	})
}

func TestAgeFromDOB(t *testing.T) {
	assert.Zero(t, ageFromDOB(""))
	assert.Zero(t, ageFromDOB("not a date"))
	// Someone born in 1990 is at least 30 by now.
	assert.GreaterOrEqual(t, ageFromDOB("1990-06-15"), 30)
}

func TestEmploymentStatus(t *testing.T) {
	assert.Equal(t, "Self-Employed", employmentStatus(true, "40"))
	assert.Equal(t, "Fulltime", employmentStatus(false, "40"))
	assert.Equal(t, "Fulltime", employmentStatus(false, "30"))
	assert.Equal(t, "Part-time", employmentStatus(false, "15"))
	assert.Equal(t, "Fulltime", employmentStatus(false, ""))
	assert.Equal(t, "Fulltime", employmentStatus(false, "unknown"))
}

func TestWillStatus(t *testing.T) {
	assert.Equal(t, "In Place", willStatus("Yes"))
	assert.Equal(t, "In Place", willStatus("in place"))
	assert.Equal(t, "Not In Place", willStatus("No"))
	assert.Equal(t, "Not In Place", willStatus("none"))
	assert.Equal(t, "", willStatus("maybe"))
	assert.Equal(t, "", willStatus(""))
}
