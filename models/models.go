package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is one monitored item from the configuration file. The monitor
// never writes back to it; edits to the file are picked up on the next pass.
type Product struct {
	Name             string           `json:"name"`
	URL              string           `json:"url"`
	TargetPrice      *decimal.Decimal `json:"target_price,omitempty"`
	AlertDropPercent *decimal.Decimal `json:"alert_drop_percent,omitempty"`
}

// DisplayName returns the product name, falling back to a generic label.
func (p *Product) DisplayName() string {
	if p.Name == "" {
		return "Product"
	}
	return p.Name
}

// Settings holds the shared monitor configuration: the locale used to parse
// scraped price text plus optional credentials for the chat-bot push channel
// and the MercadoLibre items API.
type Settings struct {
	CurrencyCode       string `json:"currency_code"`
	DecimalSeparator   string `json:"decimal_separator"`
	ThousandsSeparator string `json:"thousands_separator"`
	ChatBotToken       string `json:"chat_bot_token"`
	ChatBotChatID      string `json:"chat_bot_chat_id"`
	RetailerAPIToken   string `json:"retailer_api_token"`
}

// DefaultSettings returns the settings used when the config file is missing,
// malformed, or in the legacy bare-array form.
func DefaultSettings() Settings {
	return Settings{
		CurrencyCode:       "$",
		DecimalSeparator:   ".",
		ThousandsSeparator: ",",
	}
}

// ApplyDefaults fills any blank locale fields with the default values.
func (s *Settings) ApplyDefaults() {
	def := DefaultSettings()
	if s.CurrencyCode == "" {
		s.CurrencyCode = def.CurrencyCode
	}
	if s.DecimalSeparator == "" {
		s.DecimalSeparator = def.DecimalSeparator
	}
	if s.ThousandsSeparator == "" {
		s.ThousandsSeparator = def.ThousandsSeparator
	}
}

// HasChatBot reports whether both chat-bot credentials are configured.
func (s *Settings) HasChatBot() bool {
	return s.ChatBotToken != "" && s.ChatBotChatID != ""
}

// PriceReading is one timestamped price observation. Readings are written
// once by the history repository and never updated or deleted.
type PriceReading struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	URL      string          `json:"url"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Date     string          `json:"date"`
}

// Alert types produced by the evaluator.
const (
	AlertTypeThreshold = "threshold"
	AlertTypeDrop      = "drop"
)

// Alert is a notification ready for delivery.
type Alert struct {
	Type    string
	Title   string
	Message string
}

// FormatPrice renders a price for console and notification text.
func FormatPrice(value decimal.Decimal, settings Settings) string {
	return fmt.Sprintf("%s %s", value.StringFixed(2), settings.CurrencyCode)
}
