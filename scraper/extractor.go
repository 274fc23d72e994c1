package scraper

import (
	"context"
	"errors"

	"pricewatch/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// ErrPriceNotFound means every extraction strategy for a page came up empty.
// It is an expected outcome, not a failure: the monitor skips the product and
// moves on.
var ErrPriceNotFound = errors.New("price not found")

// Extractor is one retailer family's strategy for turning a fetched page into
// a price. Extract returns ErrPriceNotFound when none of its strategies
// produced a value.
type Extractor interface {
	Name() string
	Match(url string) bool
	Extract(ctx context.Context, url string, doc *goquery.Document, settings models.Settings) (decimal.Decimal, error)
}

// Registry maps URLs to extractors. Adding a retailer means registering a new
// Extractor, not editing a dispatch function.
type Registry struct {
	extractors []Extractor
}

func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Register appends an extractor; earlier registrations win on overlap.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Lookup returns the first extractor matching the URL, or nil when the domain
// is unsupported.
func (r *Registry) Lookup(url string) Extractor {
	for _, e := range r.extractors {
		if e.Match(url) {
			return e
		}
	}
	return nil
}

// Extract dispatches to the matching extractor. Unsupported domains report
// ErrPriceNotFound.
func (r *Registry) Extract(ctx context.Context, url string, doc *goquery.Document, settings models.Settings) (decimal.Decimal, error) {
	e := r.Lookup(url)
	if e == nil {
		return decimal.Zero, ErrPriceNotFound
	}
	return e.Extract(ctx, url, doc, settings)
}

// DefaultRegistry builds the registry with the supported retailer set.
func DefaultRegistry(settings models.Settings) *Registry {
	return NewRegistry(
		NewMercadoLibreExtractor(settings.RetailerAPIToken),
		NewAmazonExtractor(),
	)
}

// selectorPrice walks an ordered list of CSS selectors and normalizes the
// text of the first match that parses.
func selectorPrice(doc *goquery.Document, selectors []string, settings models.Settings) (decimal.Decimal, bool) {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if price, ok := Normalize(sel.Text(), settings); ok {
			return price, true
		}
	}
	return decimal.Zero, false
}
