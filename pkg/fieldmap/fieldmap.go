// Package fieldmap resolves human-readable field names to the raw numeric
// field IDs used by the intake form vendor.
package fieldmap

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapper holds the category -> field name -> candidate raw field IDs
// loaded from the YAML mapping file. A field may map to several raw IDs
// because the vendor has renumbered fields across form revisions; the
// candidates are tried in file order.
type Mapper struct {
	path     string
	mappings map[string]map[string][]string
	reverse  map[string]string
}

// New loads the mapping file at path. A missing or unparseable file is an
// error; the service cannot run without its field mappings.
func New(path string) (*Mapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("field mappings %s: %w", path, err)
	}

	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("field mappings %s: %w", path, err)
	}

	m := &Mapper{
		path:     path,
		mappings: make(map[string]map[string][]string, len(raw)),
		reverse:  make(map[string]string),
	}

	for category, fields := range raw {
		m.mappings[category] = make(map[string][]string, len(fields))
		for name, id := range fields {
			ids := candidateIDs(id)
			m.mappings[category][name] = ids
			for _, canonID := range ids {
				m.reverse[canonID] = category + "." + name
			}
		}
	}

	return m, nil
}

// candidateIDs renders a YAML mapping value as an ordered candidate list.
// A scalar is a single-candidate list; a YAML sequence keeps its order.
func candidateIDs(id any) []string {
	if seq, ok := id.([]any); ok {
		ids := make([]string, 0, len(seq))
		for _, item := range seq {
			ids = append(ids, canonicalID(item))
		}
		return ids
	}
	return []string{canonicalID(id)}
}

// canonicalID renders a raw field ID as the string form used for lookups.
// YAML may carry IDs as integers (219), floats (5.1) or strings ("219").
func canonicalID(id any) string {
	switch v := id.(type) {
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// GetField returns the raw value for category/fieldName from a submission
// map. Candidate raw IDs are tried in mapping order; for each, vendors
// have shipped payloads keyed three ways over time, so the lookup tries
// the "f"-prefixed key, the bare ID, and (for integral IDs) the
// zero-trimmed numeric form. First present value wins; absent fields
// return nil.
func (m *Mapper) GetField(data map[string]any, category, fieldName string) any {
	for _, id := range m.RawIDs(category, fieldName) {
		if v := LookupRaw(data, id); v != nil {
			return v
		}
	}
	return nil
}

// LookupRaw tries every key variant for a raw field ID against data.
func LookupRaw(data map[string]any, id string) any {
	if data == nil {
		return nil
	}
	if v, ok := data["f"+id]; ok {
		return v
	}
	if v, ok := data[id]; ok {
		return v
	}
	// Numeric IDs sometimes arrive float-formatted ("219.0")
	if f, err := strconv.ParseFloat(id, 64); err == nil && f == float64(int64(f)) {
		alt := strconv.FormatFloat(f, 'f', 1, 64)
		if v, ok := data[alt]; ok {
			return v
		}
		if v, ok := data["f"+alt]; ok {
			return v
		}
	}
	return nil
}

// GetString is GetField with string coercion; nil becomes "".
func (m *Mapper) GetString(data map[string]any, category, fieldName string) string {
	v := m.GetField(data, category, fieldName)
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// RawID resolves a category/field name to its primary (first) raw ID.
func (m *Mapper) RawID(category, fieldName string) (string, bool) {
	ids := m.RawIDs(category, fieldName)
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// RawIDs resolves a category/field name to its ordered candidate raw IDs.
func (m *Mapper) RawIDs(category, fieldName string) []string {
	fields, ok := m.mappings[category]
	if !ok {
		return nil
	}
	return fields[fieldName]
}

// ExtractCategory returns every mapped field of a category that is present
// in the submission.
func (m *Mapper) ExtractCategory(data map[string]any, category string) map[string]any {
	fields, ok := m.mappings[category]
	if !ok {
		return nil
	}

	result := make(map[string]any)
	for name, ids := range fields {
		for _, id := range ids {
			if v := LookupRaw(data, id); v != nil {
				result[name] = v
				break
			}
		}
	}
	return result
}

// ExtractAll returns every category that has at least one present field.
func (m *Mapper) ExtractAll(data map[string]any) map[string]map[string]any {
	result := make(map[string]map[string]any)
	for category := range m.mappings {
		extracted := m.ExtractCategory(data, category)
		if len(extracted) > 0 {
			result[category] = extracted
		}
	}
	return result
}

// DescribeField reverse-maps a raw field ID to "category.field_name".
// Unknown IDs are described as such rather than erroring.
func (m *Mapper) DescribeField(id any) string {
	canon := canonicalID(id)
	canon = strings.TrimPrefix(canon, "f")
	if desc, ok := m.reverse[canon]; ok {
		return desc
	}
	return "unknown field " + canon
}

// Categories lists the mapping categories in sorted order.
func (m *Mapper) Categories() []string {
	categories := make([]string, 0, len(m.mappings))
	for category := range m.mappings {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// Statistics summarizes the loaded mappings.
type Statistics struct {
	Path        string         `json:"path"`
	Categories  int            `json:"categories"`
	TotalFields int            `json:"total_fields"`
	PerCategory map[string]int `json:"per_category"`
}

func (m *Mapper) Statistics() Statistics {
	stats := Statistics{
		Path:        m.path,
		Categories:  len(m.mappings),
		PerCategory: make(map[string]int, len(m.mappings)),
	}
	for category, fields := range m.mappings {
		stats.PerCategory[category] = len(fields)
		stats.TotalFields += len(fields)
	}
	return stats
}
