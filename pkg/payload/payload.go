// Package payload assembles the standardized webhook payload from a
// combined report. Every delivery carries the exact same top-level field
// structure so downstream automation mappings never break on missing keys.
package payload

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/extractor"
)

const (
	source  = "clover-intake"
	version = "1.0"
)

// Section names present on every payload, in summary order.
var sectionNames = []string{
	"scope_of_advice",
	"personal_information",
	"assets_liabilities",
	"life_insurance",
	"trauma_insurance",
	"income_protection",
	"health_insurance",
	"accidental_injury",
}

// Dotted paths that must resolve on a finished payload. Problems are
// logged, never fatal.
var requiredPaths = []string{
	"client_email",
	"client_name",
	"case_id",
	"is_couple",
	"scope_of_advice",
	"personal_information",
	"life_insurance",
	"trauma_insurance",
	"income_protection",
	"health_insurance",
	"accidental_injury",
}

// Builder produces standardized payloads.
type Builder struct {
	logger    ectologger.Logger
	extractor *extractor.Extractor
	now       func() time.Time
}

// NewBuilder creates a payload builder.
func NewBuilder(logger ectologger.Logger) *Builder {
	return &Builder{
		logger:    logger,
		extractor: extractor.New(),
		now:       time.Now,
	}
}

// Build assembles the standardized payload from the combined report.
// Missing sections are replaced with explicit not_generated stubs.
func (b *Builder) Build(report map[string]any) map[string]any {
	p := map[string]any{
		"client_email":     stringOr(report["email"], ""),
		"client_name":      stringOr(report["client_name"], "Unknown Client"),
		"partner_name":     report["partner_name"],
		"case_id":          stringOr(report["case_id"], ""),
		"is_couple":        boolOr(report["is_couple"]),
		"match_confidence": floatOr(report["match_confidence"]),

		"scope_of_advice": ensureSection(report["scope_of_advice"], map[string]any{
			"status":                "not_generated",
			"products_in_scope":     []any{},
			"products_out_of_scope": []any{},
			"limitations":           "",
		}),
		"personal_information": ensureSection(report["personal_information"], map[string]any{
			"status":    "not_generated",
			"household": map[string]any{"people": []any{}},
		}),
		"assets_liabilities": ensureSection(report["assets_liabilities"], map[string]any{
			"status":            "not_generated",
			"total_assets":      0,
			"total_liabilities": 0,
			"net_worth":         0,
		}),
		"assets_liabilities_json": assetsLiabilitiesJSON(report["assets_liabilities"]),

		"timestamp":       b.now().Format(time.RFC3339),
		"source":          source,
		"payload_version": version,
	}

	for _, name := range []string{"life_insurance", "trauma_insurance", "income_protection", "health_insurance", "accidental_injury"} {
		p[name] = ensureSection(report[name], map[string]any{
			"status":         "not_generated",
			"needs_analysis": map[string]any{},
			"coverage":       map[string]any{},
		})
	}

	if quotes, ok := report["insurance_quotes"].(map[string]any); ok {
		p["insurance_quotes"] = quotes
	}
	if validation, ok := report["validation"].(map[string]any); ok {
		p["validation"] = validation
	}

	return p
}

// Validate checks the required payload paths and logs any problems.
// The payload is always delivered, a broken mapping downstream is easier
// to diagnose with the data in hand.
func (b *Builder) Validate(p map[string]any) []string {
	var problems []string

	for _, path := range requiredPaths {
		if _, err := b.extractor.Extract(p, path); err != nil {
			problems = append(problems, "missing required field: "+path)
		}
	}

	if _, ok := p["is_couple"].(bool); !ok {
		problems = append(problems, "field is_couple must be boolean")
	}
	switch p["match_confidence"].(type) {
	case float64, int:
	default:
		problems = append(problems, "field match_confidence must be numeric")
	}
	for _, name := range sectionNames {
		if v, present := p[name]; present {
			if _, ok := v.(map[string]any); !ok {
				problems = append(problems, "field "+name+" must be an object")
			}
		}
	}

	if len(problems) > 0 {
		b.logger.WithFields(map[string]any{
			"problems": problems,
		}).Error("payload validation problems")
	}
	return problems
}

// Summary renders a short human-readable description of a payload for
// delivery logs.
func (b *Builder) Summary(p map[string]any) string {
	couple := "No"
	if v, ok := p["is_couple"].(bool); ok && v {
		couple = "Yes"
	}

	lines := []string{
		fmt.Sprintf("Client: %v (%v)", p["client_name"], p["client_email"]),
		fmt.Sprintf("Case ID: %v", p["case_id"]),
		"Couple: " + couple,
		"Sections included:",
	}
	for _, name := range sectionNames {
		status := "missing"
		if section, ok := p[name].(map[string]any); ok {
			status = stringOr(section["status"], "success")
		} else if _, present := p[name]; present {
			status = "invalid"
		}
		lines = append(lines, "  - "+name+": "+status)
	}
	return strings.Join(lines, "\n")
}

// Flatten collapses the nested payload into single-level keys joined
// with underscores. Slices become JSON-encoded strings so the receiver
// sees one field per value.
func Flatten(data map[string]any) map[string]any {
	out := map[string]any{}
	flattenInto(out, "", data)
	return out
}

func flattenInto(out map[string]any, prefix string, data map[string]any) {
	for k, v := range data {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		switch value := v.(type) {
		case map[string]any:
			flattenInto(out, key, value)
		case []any:
			out[key] = encodeJSON(value)
		case []string:
			out[key] = encodeJSON(value)
		default:
			out[key] = v
		}
	}
}

func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func ensureSection(v any, fallback map[string]any) map[string]any {
	section, ok := v.(map[string]any)
	if !ok || len(section) == 0 {
		return fallback
	}
	if _, ok := section["status"]; !ok {
		section["status"] = "success"
	}
	return section
}

// assetsLiabilitiesJSON packs the whole section into one JSON string so
// the receiver can map a single field.
func assetsLiabilitiesJSON(v any) string {
	section, ok := v.(map[string]any)
	if !ok || len(section) == 0 {
		return encodeObject(map[string]any{
			"status":  "not_generated",
			"message": "Assets & liabilities data not yet generated",
		})
	}
	return encodeObject(section)
}

func encodeObject(v map[string]any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func boolOr(v any) bool {
	b, _ := v.(bool)
	return b
}

func floatOr(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
