package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"pricewatch/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

const mercadoLibreAPIBase = "https://api.mercadolibre.com"

// itemIDPattern matches the item code embedded in MercadoLibre product URLs,
// e.g. /MCO-123456789; the API wants it without the hyphen.
var itemIDPattern = regexp.MustCompile(`(?i)/(MC[A-Z]-\d+)`)

// MercadoLibreExtractor resolves prices for mercadolibre.* pages. When an API
// token is configured it tries the official items API first and only falls
// back to HTML scraping if that fails.
type MercadoLibreExtractor struct {
	apiToken string
	apiBase  string
	client   *http.Client
}

func NewMercadoLibreExtractor(apiToken string) *MercadoLibreExtractor {
	return &MercadoLibreExtractor{
		apiToken: apiToken,
		apiBase:  mercadoLibreAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (e *MercadoLibreExtractor) Name() string { return "mercadolibre" }

func (e *MercadoLibreExtractor) Match(url string) bool {
	return strings.Contains(url, "mercadolibre")
}

func (e *MercadoLibreExtractor) Extract(ctx context.Context, url string, doc *goquery.Document, settings models.Settings) (decimal.Decimal, error) {
	if e.apiToken != "" {
		if itemID := extractItemID(url); itemID != "" {
			if price, err := e.apiPrice(ctx, itemID); err == nil {
				return price, nil
			}
			// API misses fall through to the HTML strategies.
		}
	}

	// Structured data carries a normalized number, so it is parsed as a
	// plain decimal rather than through the locale cleanup.
	if content, ok := doc.Find(`meta[itemprop="price"]`).First().Attr("content"); ok {
		if price, err := decimal.NewFromString(strings.TrimSpace(content)); err == nil {
			return price, nil
		}
	}

	selectors := []string{
		"span.andes-money-amount__fraction",
		"span.price-tag-fraction",
	}
	if price, ok := selectorPrice(doc, selectors, settings); ok {
		return price, nil
	}

	return decimal.Zero, ErrPriceNotFound
}

// extractItemID pulls the item code out of a product URL, stripping the
// hyphen the API does not accept.
func extractItemID(url string) string {
	match := itemIDPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(match[1], "-", ""))
}

type mlItemResponse struct {
	Price     *float64 `json:"price"`
	SalePrice *struct {
		Amount *float64 `json:"amount"`
	} `json:"sale_price"`
}

// apiPrice queries the official items API. The sale price wins over the list
// price when both are present.
func (e *MercadoLibreExtractor) apiPrice(ctx context.Context, itemID string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/items/%s", e.apiBase, itemID), nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiToken)

	resp, err := e.client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("items API returned HTTP %d", resp.StatusCode)
	}

	var item mlItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return decimal.Zero, err
	}

	if item.SalePrice != nil && item.SalePrice.Amount != nil {
		return decimal.NewFromFloat(*item.SalePrice.Amount), nil
	}
	if item.Price != nil {
		return decimal.NewFromFloat(*item.Price), nil
	}

	return decimal.Zero, fmt.Errorf("items API response has no price for %s", itemID)
}
