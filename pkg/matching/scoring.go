// Package matching pairs fact-find and automation-form submissions for
// the same client using a weighted confidence score.
package matching

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// Signal weights. Email carries half the score because it is the only
// strong identifier the vendor guarantees on both forms.
const (
	WeightEmail              = 0.5
	WeightCoupleStatus       = 0.2
	WeightCaseID             = 0.1
	WeightDateProximity      = 0.1
	WeightDateProximityLoose = 0.05
	WeightInsurance          = 0.1
)

// Submission-gap boundaries for the temporal signal, in days.
const (
	dateProximityTightDays = 7
	dateProximityLooseDays = 30
)

// providerTolerance allows life cover amounts to differ by rounding.
const providerTolerance = 0.05

// Scorer computes the pairwise confidence between a fact find and an
// automation form.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns the confidence (0.0 to 1.0, capped) and the reasons that
// produced it. Two non-empty, unequal emails disqualify the pair outright.
func (s *Scorer) Score(ff *models.FactFind, af *models.AutomationForm) (float64, []string) {
	confidence := 0.0
	var reasons []string

	ffEmail := normalizers.NormalizeEmail(ff.Email())
	afEmail := normalizers.NormalizeEmail(af.Email())

	switch {
	case ffEmail != "" && afEmail != "" && ffEmail == afEmail:
		confidence += WeightEmail
		reasons = append(reasons, fmt.Sprintf("Email match: %s", ffEmail))
	case ffEmail != "" && afEmail != "":
		reasons = append(reasons, fmt.Sprintf("Email mismatch: %s vs %s", ffEmail, afEmail))
		return 0.0, reasons
	}

	if ff.IsCouple == af.IsCouple {
		confidence += WeightCoupleStatus
		status := "single"
		if ff.IsCouple {
			status = "couple"
		}
		reasons = append(reasons, fmt.Sprintf("Couple status match: %s", status))
	} else {
		reasons = append(reasons, "Couple status mismatch")
	}

	if caseID := ff.CaseID(); caseID != "" {
		confidence += WeightCaseID
		reasons = append(reasons, fmt.Sprintf("Case ID present: %s", caseID))
	}

	if score, reason, ok := s.dateProximity(ff, af); ok {
		confidence += score
		reasons = append(reasons, reason)
	}

	if s.insuranceConsistent(ff, af) {
		confidence += WeightInsurance
		reasons = append(reasons, "Existing insurance details consistent")
	}

	return math.Min(confidence, 1.0), reasons
}

// dateProximity scores how close together the two forms were submitted.
// Unparseable or missing timestamps contribute nothing, not even a reason.
func (s *Scorer) dateProximity(ff *models.FactFind, af *models.AutomationForm) (float64, string, bool) {
	ffDate, ffOK := models.ParseFormTime(ff.CaseInfo["form_date"])
	afDate, afOK := models.ParseFormTime(af.Additional["recommendation_date"])
	if !ffOK || !afOK {
		return 0, "", false
	}

	daysDiff := math.Abs(afDate.Sub(ffDate).Seconds()) / (24 * time.Hour.Seconds())

	switch {
	case daysDiff <= dateProximityTightDays:
		return WeightDateProximity, fmt.Sprintf("Forms submitted %.1f days apart", daysDiff), true
	case daysDiff <= dateProximityLooseDays:
		return WeightDateProximityLoose, fmt.Sprintf("Forms submitted %.1f days apart (acceptable)", daysDiff), true
	default:
		return 0, fmt.Sprintf("Forms submitted %.1f days apart (concerning)", daysDiff), true
	}
}

// insuranceConsistent checks that existing life cover looks like the same
// client on both forms: amounts within tolerance of the larger, provider
// names substring-matching, or neither side reporting anything at all.
func (s *Scorer) insuranceConsistent(ff *models.FactFind, af *models.AutomationForm) bool {
	ffLife, ffHasLife := asAmount(ff.ExistingInsuranceMain["life_cover_amount"])
	afLife, afHasLife := asAmount(af.MainExistingCover["life_amount"])

	if ffHasLife && afHasLife {
		larger := math.Max(ffLife, afLife)
		if larger > 0 && math.Abs(ffLife-afLife)/larger <= providerTolerance {
			return true
		}
	}

	ffProvider := normalizers.NormalizeProvider(asText(ff.ExistingInsuranceMain["life_cover_provider"]))
	afProvider := normalizers.NormalizeProvider(asText(af.MainExistingCover["life_provider"]))

	if ffProvider != "" && afProvider != "" {
		if strings.Contains(afProvider, ffProvider) || strings.Contains(ffProvider, afProvider) {
			return true
		}
	}

	// Nothing to compare on either side: benefit of the doubt.
	return !ffHasLife && !afHasLife && ffProvider == "" && afProvider == ""
}

func asAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, n != 0
	case int:
		return float64(n), n != 0
	default:
		return 0, false
	}
}

func asText(v any) string {
	s, _ := v.(string)
	return s
}
