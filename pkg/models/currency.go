package models

import (
	"strconv"
	"strings"
	"time"
)

// ParseCurrency parses a currency value ("$1,234.50", 1234.5, "1234")
// into a float. Nil, empty strings and unparseable values return nil;
// callers that need a hard number use Amount instead.
func ParseCurrency(value any) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		f := v
		return &f
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		s = strings.ReplaceAll(s, "$", "")
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSpace(s)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// Amount is the extractor-side coercion: absent or malformed values become
// 0 and negative amounts are clamped to 0. Extraction never fails on bad
// data, it degrades to zero.
func Amount(value any) float64 {
	f := ParseCurrency(value)
	if f == nil || *f < 0 {
		return 0
	}
	return *f
}

// formTimeLayouts are the timestamp shapes the form vendor has produced.
var formTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFormTime parses a submission timestamp. The bool reports whether a
// usable time was found; callers treat unparseable timestamps as absent.
func ParseFormTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range formTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
