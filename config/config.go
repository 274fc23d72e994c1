package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"pricewatch/models"
)

// Config is the parsed product/settings file. It is reloaded at the start of
// every monitoring pass so external edits take effect on the next cycle.
type Config struct {
	Settings models.Settings  `json:"settings"`
	Products []models.Product `json:"products"`
}

// Load reads the config file at path. A missing or malformed file degrades to
// default settings with an empty product list instead of failing the process;
// the returned error is informational so the caller can log the reason.
//
// Two layouts are accepted: the current object form with "settings" and
// "products" keys, and the legacy form of a bare product array (which gets
// default settings).
func Load(path string) (Config, error) {
	cfg := Config{Settings: models.DefaultSettings()}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []models.Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return cfg, fmt.Errorf("failed to parse legacy config: %w", err)
		}
		cfg.Products = products
		return cfg, nil
	}

	var parsed Config
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	parsed.Settings.ApplyDefaults()
	return parsed, nil
}

// ApplyEnvOverrides lets credentials come from the environment instead of the
// config file, so the JSON file can stay free of secrets.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHAT_BOT_TOKEN"); v != "" {
		c.Settings.ChatBotToken = v
	}
	if v := os.Getenv("CHAT_BOT_CHAT_ID"); v != "" {
		c.Settings.ChatBotChatID = v
	}
	if v := os.Getenv("RETAILER_API_TOKEN"); v != "" {
		c.Settings.RetailerAPIToken = v
	}
}
