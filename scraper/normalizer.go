package scraper

import (
	"regexp"
	"strings"

	"pricewatch/models"

	"github.com/shopspring/decimal"
)

// Normalize converts a scraped price string into a decimal using the
// configured regional separators. "$ 1,234.56" under {".", ","} and
// "1.234,56 €" under {",", "."} both come out as 1234.56. The second return
// value is false when no number could be recovered.
func Normalize(raw string, settings models.Settings) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, false
	}

	decSep := settings.DecimalSeparator
	thoSep := settings.ThousandsSeparator
	if decSep == "" {
		decSep = "."
	}
	if thoSep == "" {
		thoSep = ","
	}

	// Keep only digits, the two separators and a minus sign, then collapse
	// the locale format into a plain decimal string.
	keep := regexp.MustCompile(`[^\d` + regexp.QuoteMeta(decSep) + regexp.QuoteMeta(thoSep) + `-]`)
	clean := keep.ReplaceAllString(raw, "")
	clean = strings.ReplaceAll(clean, thoSep, "")
	clean = strings.ReplaceAll(clean, decSep, ".")

	if clean == "" {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}

	return value, true
}
