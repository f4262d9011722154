package extractors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LineItem is one named asset or liability with its dollar value.
type LineItem struct {
	Name      string `json:"name"`
	Value     int    `json:"value"`
	Formatted string `json:"formatted"`
}

// Name/value raw field ID pairs for the free-form asset rows.
var assetPairs = [][2]string{
	{"33", "26"}, {"19", "36"}, {"35", "34"}, {"45", "46"},
	{"47", "187"}, {"186", "48"}, {"198", "199"}, {"189", "188"},
	{"192", "193"}, {"195", "196"}, {"201", "202"}, {"204", "205"},
	{"207", "208"}, {"210", "211"}, {"213", "214"},
}

var liabilityPairs = [][2]string{
	{"71", "72"}, {"73", "74"}, {"75", "76"}, {"77", "78"}, {"88", "89"},
}

var kiwisaverAccounts = []struct {
	providerField string
	balanceField  string
	label         string
}{
	{"60", "62", "Main"},
	{"63", "65", "Partner"},
	{"215", "217", "Additional"},
}

// AssetsLiabilities collects every asset and liability with a non-zero
// value and renders totals, JSON arrays and text tables.
func AssetsLiabilities(data map[string]any) map[string]any {
	var assets []LineItem

	if v := intField(data, "16"); v > 0 {
		assets = append(assets, newLineItem("Primary Residence", v))
	}
	if v := intField(data, "468"); v > 0 {
		assets = append(assets, newLineItem("Investment Properties", v))
	}
	assets = append(assets, namedItems(data, assetPairs)...)

	for _, acct := range kiwisaverAccounts {
		balance := intField(data, acct.balanceField)
		if balance == 0 {
			continue
		}
		name := "KiwiSaver (" + acct.label + ")"
		if provider := strings.TrimSpace(strField(data, acct.providerField)); provider != "" {
			name = "KiwiSaver - " + provider
		}
		assets = append(assets, newLineItem(name, balance))
	}

	var liabilities []LineItem
	if v := intField(data, "15"); v > 0 {
		liabilities = append(liabilities, newLineItem("Home Mortgage", v))
	}
	if v := intField(data, "469"); v > 0 {
		liabilities = append(liabilities, newLineItem("Investment Property Mortgages", v))
	}
	liabilities = append(liabilities, namedItems(data, liabilityPairs)...)

	totalAssets := sumItems(assets)
	totalLiabilities := sumItems(liabilities)
	netWorth := totalAssets - totalLiabilities

	summary := strings.Join([]string{
		"Financial Summary",
		strings.Repeat("-", 50),
		fmt.Sprintf("Total Assets:                   %15s", FormatCurrency(totalAssets)),
		fmt.Sprintf("Total Liabilities:              %15s", FormatCurrency(totalLiabilities)),
		strings.Repeat("-", 50),
		fmt.Sprintf("Net Worth:                      %15s", FormatCurrency(netWorth)),
	}, "\n")

	return map[string]any{
		"section_id":   "assets_liabilities",
		"section_type": "financial_position",

		"assets_json":      encodeItems(assets),
		"liabilities_json": encodeItems(liabilities),

		"assets_text":      itemTable(assets, "Assets", totalAssets),
		"liabilities_text": itemTable(liabilities, "Liabilities", totalLiabilities),
		"summary_text":     summary,

		"total_assets":      totalAssets,
		"total_liabilities": totalLiabilities,
		"net_worth":         netWorth,
		"asset_count":       len(assets),
		"liability_count":   len(liabilities),

		"status": "success",
	}
}

func newLineItem(name string, value int) LineItem {
	return LineItem{Name: name, Value: value, Formatted: FormatCurrency(value)}
}

func namedItems(data map[string]any, pairs [][2]string) []LineItem {
	var items []LineItem
	for _, pair := range pairs {
		name := strings.TrimSpace(strField(data, pair[0]))
		value := intField(data, pair[1])
		if name != "" && value > 0 {
			items = append(items, newLineItem(name, value))
		}
	}
	return items
}

func sumItems(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Value
	}
	return total
}

func encodeItems(items []LineItem) string {
	if items == nil {
		items = []LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func itemTable(items []LineItem, title string, total int) string {
	if len(items) == 0 {
		return "No " + strings.ToLower(title) + " recorded"
	}

	lines := []string{title, strings.Repeat("-", 50)}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%-35s %12s", item.Name, item.Formatted))
	}
	lines = append(lines,
		strings.Repeat("-", 50),
		fmt.Sprintf("%-35s %12s", "Total "+title, FormatCurrency(total)),
	)
	return strings.Join(lines, "\n")
}
