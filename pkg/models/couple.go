package models

import (
	"strings"

	"github.com/Ramsey-B/clover/pkg/fieldmap"
)

// Couple detection is the single source of truth for whether a submission
// covers a couple or a single client. Both form models, the matcher and
// every product extractor call into these functions.

// Raw field IDs carrying relationship data on the fact find.
const (
	fieldRelationshipStatus = "39" // "couple", "partner", "my partner and i", ...
	fieldMaritalStatus      = "8"  // "married", "de facto", "civil union", ...
)

var relationshipCoupleValues = map[string]bool{
	"couple":           true,
	"partner":          true,
	"yes":              true,
	"true":             true,
	"my partner and i": true,
}

var maritalCoupleValues = map[string]bool{
	"married":     true,
	"defacto":     true,
	"de facto":    true,
	"civil union": true,
	"partner":     true,
	"couple":      true,
}

// CoupleFromFactFind inspects the raw fact-find submission for couple
// signals on the relationship and marital status fields.
func CoupleFromFactFind(raw map[string]any) bool {
	if v := asLower(fieldmap.LookupRaw(raw, fieldRelationshipStatus)); v != "" {
		if relationshipCoupleValues[v] {
			return true
		}
	}
	if v := asLower(fieldmap.LookupRaw(raw, fieldMaritalStatus)); v != "" {
		if maritalCoupleValues[v] {
			return true
		}
	}
	return false
}

// CoupleFromAutomation interprets the automation form's is_couple value.
func CoupleFromAutomation(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "yes" || s == "true" || s == "couple" || s == "1"
	default:
		return false
	}
}

// Affirmative reports whether a value is one of the accepted boolean-ish
// affirmatives: yes, true, 1, y, checked, on, x.
func Affirmative(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case int:
		return v == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "true", "1", "y", "checked", "on", "x":
			return true
		}
	}
	return false
}

// Checked is the checkbox variant of Affirmative: the vendor sends the
// checkbox label itself when ticked, so any other non-empty string also
// counts as checked.
func Checked(value any) bool {
	if Affirmative(value) {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return false
}

func asLower(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}
