package alerts

import (
	"fmt"

	"pricewatch/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Evaluate applies the two alert rules to a freshly extracted price. prior is
// the last stored reading for the product's URL captured before the new
// reading was inserted, or nil when none exists.
//
// The rules are independent and non-exclusive, so zero, one or two alerts can
// come back. There is no deduplication across passes: a product sitting below
// its target fires the threshold alert on every pass.
func Evaluate(product models.Product, newPrice decimal.Decimal, prior *decimal.Decimal, settings models.Settings) []models.Alert {
	var result []models.Alert
	priceFmt := models.FormatPrice(newPrice, settings)

	if product.TargetPrice != nil && newPrice.LessThanOrEqual(*product.TargetPrice) {
		targetFmt := models.FormatPrice(*product.TargetPrice, settings)
		result = append(result, models.Alert{
			Type:  models.AlertTypeThreshold,
			Title: "Target price reached",
			Message: fmt.Sprintf("%s\nCurrent price: %s\nTarget: %s\n%s",
				product.DisplayName(), priceFmt, targetFmt, product.URL),
		})
	}

	if product.AlertDropPercent != nil && prior != nil && prior.IsPositive() {
		variation := prior.Sub(newPrice).Div(*prior).Mul(hundred)
		if variation.GreaterThanOrEqual(*product.AlertDropPercent) {
			result = append(result, models.Alert{
				Type:  models.AlertTypeDrop,
				Title: fmt.Sprintf("Price dropped %s%%", variation.StringFixed(1)),
				Message: fmt.Sprintf("%s\nBefore: %s\nNow: %s\n%s",
					product.DisplayName(), models.FormatPrice(*prior, settings), priceFmt, product.URL),
			})
		}
	}

	return result
}

// RisePercent returns how much the price rose against the prior reading, and
// whether it rose at all. Used for logging only; rises never alert.
func RisePercent(newPrice decimal.Decimal, prior *decimal.Decimal) (decimal.Decimal, bool) {
	if prior == nil || !prior.IsPositive() || !newPrice.GreaterThan(*prior) {
		return decimal.Zero, false
	}
	return newPrice.Sub(*prior).Div(*prior).Mul(hundred), true
}
