package matching

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// Config holds the matcher thresholds.
type Config struct {
	// ConfidentThreshold is the score at or above which a match is
	// treated as confirmed.
	ConfidentThreshold float64
}

// DefaultConfig returns the standard matcher configuration.
func DefaultConfig() Config {
	return Config{
		ConfidentThreshold: 0.8,
	}
}

// Matcher holds every received form in memory, keyed by case ID and by
// normalized email, and records every pairing decision. One coarse mutex
// guards all state; form volume is human-scale and contention is not a
// concern.
type Matcher struct {
	mu     sync.Mutex
	config Config
	scorer *Scorer

	factFinds       map[string]*models.FactFind
	automationForms map[string]*models.AutomationForm

	// Insertion order of unique forms, so scans and tie-breaks are
	// deterministic (first seen wins).
	factFindOrder   []*models.FactFind
	automationOrder []*models.AutomationForm

	history []models.MatchResult
}

// NewMatcher creates a Matcher with the given configuration.
func NewMatcher(config Config) *Matcher {
	return &Matcher{
		config:          config,
		scorer:          NewScorer(),
		factFinds:       make(map[string]*models.FactFind),
		automationForms: make(map[string]*models.AutomationForm),
	}
}

// ErrMissingIdentifier is returned when a form carries neither a case ID
// nor an email to key it by.
var ErrMissingIdentifier = errors.New("form has no case_id or email identifier")

// AddFactFind registers a fact find, keyed by case ID and email. Returns
// the primary identifier used.
func (m *Matcher) AddFactFind(ff *models.FactFind) (string, error) {
	identifier := ff.CaseID()
	email := normalizers.NormalizeEmail(ff.Email())
	if identifier == "" {
		identifier = email
	}
	if identifier == "" {
		return "", ErrMissingIdentifier
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.knownFactFind(ff) {
		m.factFindOrder = append(m.factFindOrder, ff)
	}
	m.factFinds[identifier] = ff
	if email != "" && email != identifier {
		m.factFinds[email] = ff
	}

	return identifier, nil
}

// AddAutomationForm registers an automation form keyed by email.
func (m *Matcher) AddAutomationForm(af *models.AutomationForm) (string, error) {
	identifier := normalizers.NormalizeEmail(af.Email())
	if identifier == "" {
		return "", ErrMissingIdentifier
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.automationForms[identifier]; !ok {
		m.automationOrder = append(m.automationOrder, af)
	}
	m.automationForms[identifier] = af
	return identifier, nil
}

func (m *Matcher) knownFactFind(ff *models.FactFind) bool {
	for _, existing := range m.factFindOrder {
		if existing == ff {
			return true
		}
	}
	return false
}

// Score computes the pairwise confidence without recording anything.
func (m *Matcher) Score(ff *models.FactFind, af *models.AutomationForm) (float64, []string) {
	return m.scorer.Score(ff, af)
}

// MatchByEmail pairs the stored fact find and automation form for an
// email. Returns nil when either side is missing. The result is recorded
// in match history.
func (m *Matcher) MatchByEmail(email string) *models.MatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchByEmailLocked(email)
}

func (m *Matcher) matchByEmailLocked(email string) *models.MatchResult {
	email = normalizers.NormalizeEmail(email)

	ff := m.factFinds[email]
	if ff == nil {
		for _, candidate := range m.factFindOrder {
			if normalizers.NormalizeEmail(candidate.Email()) == email {
				ff = candidate
				break
			}
		}
	}

	af := m.automationForms[email]
	if af == nil {
		for _, candidate := range m.automationOrder {
			if normalizers.NormalizeEmail(candidate.Email()) == email {
				af = candidate
				break
			}
		}
	}

	if ff == nil || af == nil {
		return nil
	}

	result := m.buildResult(ff, af)
	m.history = append(m.history, result)
	return &result
}

// Pair returns the stored fact find and automation form for an email
// without scoring or recording anything. Either side may be nil.
func (m *Matcher) Pair(email string) (*models.FactFind, *models.AutomationForm) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = normalizers.NormalizeEmail(email)

	ff := m.factFinds[email]
	if ff == nil {
		for _, candidate := range m.factFindOrder {
			if normalizers.NormalizeEmail(candidate.Email()) == email {
				ff = candidate
				break
			}
		}
	}

	af := m.automationForms[email]
	if af == nil {
		for _, candidate := range m.automationOrder {
			if normalizers.NormalizeEmail(candidate.Email()) == email {
				af = candidate
				break
			}
		}
	}

	return ff, af
}

// FindBestMatch finds the fact find that best matches an automation form.
// A direct email match at or above the confident threshold short-circuits
// the scan; otherwise every fact find is scored in insertion order and the
// highest confidence wins, first seen winning ties.
func (m *Matcher) FindBestMatch(af *models.AutomationForm) *models.MatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if email := normalizers.NormalizeEmail(af.Email()); email != "" {
		if direct := m.matchByEmailLocked(email); direct != nil && direct.Confidence >= m.config.ConfidentThreshold {
			return direct
		}
	}

	var best *models.MatchResult
	bestConfidence := 0.0

	for _, ff := range m.factFindOrder {
		confidence, _ := m.scorer.Score(ff, af)
		if confidence > bestConfidence {
			bestConfidence = confidence
			result := m.buildResult(ff, af)
			best = &result
		}
	}

	if best != nil {
		m.history = append(m.history, *best)
	}

	return best
}

func (m *Matcher) buildResult(ff *models.FactFind, af *models.AutomationForm) models.MatchResult {
	confidence, reasons := m.scorer.Score(ff, af)
	return models.MatchResult{
		ID:              uuid.New().String(),
		CaseID:          ff.CaseID(),
		FactFindEmail:   normalizers.NormalizeEmail(ff.Email()),
		AutomationEmail: normalizers.NormalizeEmail(af.Email()),
		ClientName:      ff.ClientFullName(),
		Confidence:      confidence,
		Reasons:         reasons,
		MatchedAt:       time.Now(),
	}
}

// IsConfidentMatch reports whether a result clears the configured
// threshold.
func (m *Matcher) IsConfidentMatch(result *models.MatchResult) bool {
	return result != nil && result.Confidence >= m.config.ConfidentThreshold
}

// UnmatchedFactFinds returns the fact finds whose email has never appeared
// in match history, in insertion order.
func (m *Matcher) UnmatchedFactFinds() []*models.FactFind {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make(map[string]bool, len(m.history))
	for _, result := range m.history {
		matched[result.FactFindEmail] = true
	}

	var unmatched []*models.FactFind
	for _, ff := range m.factFindOrder {
		if !matched[normalizers.NormalizeEmail(ff.Email())] {
			unmatched = append(unmatched, ff)
		}
	}
	return unmatched
}

// UnmatchedAutomationForms returns the automation forms whose email has
// never appeared in match history, in insertion order.
func (m *Matcher) UnmatchedAutomationForms() []*models.AutomationForm {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make(map[string]bool, len(m.history))
	for _, result := range m.history {
		matched[result.AutomationEmail] = true
	}

	var unmatched []*models.AutomationForm
	for _, af := range m.automationOrder {
		if !matched[normalizers.NormalizeEmail(af.Email())] {
			unmatched = append(unmatched, af)
		}
	}
	return unmatched
}

// History returns a copy of the match history.
func (m *Matcher) History() []models.MatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := make([]models.MatchResult, len(m.history))
	copy(history, m.history)
	return history
}

// LoadHistory restores previously persisted match history, typically at
// startup.
func (m *Matcher) LoadHistory(history []models.MatchResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, history...)
}

// Statistics summarizes matcher state.
func (m *Matcher) Statistics() models.MatchStatistics {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := models.MatchStatistics{
		TotalFactFinds:       len(m.factFindOrder),
		TotalAutomationForms: len(m.automationOrder),
		TotalMatches:         len(m.history),
	}

	total := 0.0
	for _, result := range m.history {
		total += result.Confidence
		if result.Confidence >= m.config.ConfidentThreshold {
			stats.ConfidentMatches++
		}
	}
	if len(m.history) > 0 {
		stats.AverageConfidence = total / float64(len(m.history))
	}

	matchedFF := make(map[string]bool, len(m.history))
	matchedAF := make(map[string]bool, len(m.history))
	for _, result := range m.history {
		matchedFF[result.FactFindEmail] = true
		matchedAF[result.AutomationEmail] = true
	}
	for _, ff := range m.factFindOrder {
		if !matchedFF[normalizers.NormalizeEmail(ff.Email())] {
			stats.UnmatchedFactFinds++
		}
	}
	for _, af := range m.automationOrder {
		if !matchedAF[normalizers.NormalizeEmail(af.Email())] {
			stats.UnmatchedAutomationForms++
		}
	}

	return stats
}
