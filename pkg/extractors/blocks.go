package extractors

import (
	"fmt"
	"strconv"
	"strings"
)

// rowKind selects how a raw field renders inside a fixed-width text block.
type rowKind int

const (
	rowCurrency rowKind = iota
	rowNumber
	rowText
	rowYesNo
)

type row struct {
	label   string
	fieldID string
	kind    rowKind
}

// renderBlock formats the non-empty rows under a header. Currency and
// number rows are skipped at zero, yes/no rows are only shown when "Yes".
// Returns the block text and whether any row rendered.
func renderBlock(data map[string]any, header string, rows []row) (string, bool) {
	var lines []string

	appendRow := func(label, value string) {
		if len(lines) == 0 {
			lines = append(lines, header, tableRule)
		}
		lines = append(lines, tableLine(label, value))
	}

	for _, r := range rows {
		switch r.kind {
		case rowCurrency:
			if v := intField(data, r.fieldID); v > 0 {
				appendRow(r.label, FormatCurrency(v))
			}
		case rowNumber:
			if v := intField(data, r.fieldID); v > 0 {
				appendRow(r.label, strconv.Itoa(v))
			}
		case rowYesNo:
			if yesNo(fieldValue(data, r.fieldID)) == "Yes" {
				appendRow(r.label, "Yes")
			}
		default:
			if v := strField(data, r.fieldID); v != "" {
				appendRow(r.label, v)
			}
		}
	}

	if len(lines) == 0 {
		return "", false
	}
	lines = append(lines, tableRule)
	return strings.Join(lines, "\n"), true
}

// notesField returns the first non-empty notes value across the vendor's
// key variants, or the placeholder when none is present.
func notesField(data map[string]any, fieldID string) string {
	for _, key := range []string{fieldID, "f" + fieldID, fieldID + ".0"} {
		v, ok := data[key]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return s
		}
	}
	return "No additional notes"
}

// coverageStatus folds the two has-data flags into the shared status enum.
func coverageStatus(mainHasData, partnerHasData bool) string {
	switch {
	case mainHasData && partnerHasData:
		return "both_need_coverage"
	case mainHasData:
		return "main_only_needs_coverage"
	case partnerHasData:
		return "partner_only_needs_coverage"
	default:
		return "no_coverage_needed"
	}
}
