package scraper

import (
	"context"
	"strings"

	"pricewatch/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// amazonSelectors is ordered by reliability; Amazon rotates its markup, so
// several fallbacks are kept.
var amazonSelectors = []string{
	"span.a-price-whole",
	".a-offscreen",
	"#priceblock_ourprice",
	"#priceblock_dealprice",
	"span[data-a-color='price'] .a-offscreen",
}

// AmazonExtractor resolves prices for amazon.* pages by walking the known
// visual selectors.
type AmazonExtractor struct{}

func NewAmazonExtractor() *AmazonExtractor { return &AmazonExtractor{} }

func (e *AmazonExtractor) Name() string { return "amazon" }

func (e *AmazonExtractor) Match(url string) bool {
	return strings.Contains(url, "amazon")
}

func (e *AmazonExtractor) Extract(ctx context.Context, url string, doc *goquery.Document, settings models.Settings) (decimal.Decimal, error) {
	if price, ok := selectorPrice(doc, amazonSelectors, settings); ok {
		return price, nil
	}
	return decimal.Zero, ErrPriceNotFound
}
