package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a money or percentage cell. Sheets exported from
// spreadsheet tools mix formats: "12500", "12 500,00", "1.234,56",
// "1234.56", with an optional currency suffix or percent sign.
func parseAmount(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSuffix(clean, "%")
	clean = strings.TrimSuffix(clean, "MAD")
	clean = strings.TrimSuffix(clean, "€")
	clean = strings.TrimSpace(clean)
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, " ", "")

	// "1.234,56" uses the dot as a thousands separator.
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.InexactFloat64(), nil
}
