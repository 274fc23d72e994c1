package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pricewatch/models"

	"go.uber.org/zap"
)

const chatBotAPIBase = "https://api.telegram.org"

// Notifier delivers an alert to the console and, when chat-bot credentials
// are configured, to the push endpoint. Push failures are logged and never
// affect the monitoring pass.
type Notifier struct {
	settings models.Settings
	logger   *zap.Logger
	apiBase  string
	client   *http.Client
}

func NewNotifier(settings models.Settings, logger *zap.Logger) *Notifier {
	return &Notifier{
		settings: settings,
		logger:   logger,
		apiBase:  chatBotAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify writes the alert to the console and fires the chat-bot push.
func (n *Notifier) Notify(title, message string) {
	fmt.Printf("\n🔔 %s: %s\n", title, message)
	n.logger.Info("alert raised", zap.String("title", title))

	if !n.settings.HasChatBot() {
		return
	}
	n.push(fmt.Sprintf("<b>%s</b>\n%s", title, message))
}

type pushRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// push is fire-and-forget: any transport or API failure only gets logged.
func (n *Notifier) push(text string) {
	body, err := json.Marshal(pushRequest{
		ChatID:    n.settings.ChatBotChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		n.logger.Error("failed to encode push message", zap.Error(err))
		return
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.settings.ChatBotToken)
	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		n.logger.Error("failed to send chat-bot push", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Error("chat-bot push rejected", zap.Int("status", resp.StatusCode))
		return
	}

	n.logger.Debug("chat-bot push delivered")
}
