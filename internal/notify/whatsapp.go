// Package notify sends WhatsApp messages through a WAHA gateway.
// Delivery is best-effort: sends run on their own goroutine, failures
// are logged and counted but never reach the caller. The gateway is
// treated as unreliable and messages are never retried.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"warung-service/pkg/config"
	"warung-service/prometheus"
)

// Notifier is the outbound message contract used by the order engine
// and the chatbot.
type Notifier interface {
	Send(number, text string)
}

// Client talks to a WAHA gateway (POST {base}/api/sendText).
type Client struct {
	baseURL string
	apiKey  string
	session string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a gateway client from configuration.
func NewClient(cfg *config.WhatsAppConfig, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		apiKey:  cfg.APIKey,
		session: cfg.Session,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

type sendTextRequest struct {
	ChatID  string `json:"chatId"`
	Text    string `json:"text"`
	Session string `json:"session"`
}

// Send dispatches a message to a phone number or chat identifier.
// It returns immediately; the HTTP call happens on a goroutine so
// gateway latency never blocks the request path that triggered it.
func (c *Client) Send(number, text string) {
	chatID, ok := ChatID(number)
	if !ok {
		prometheus.RecordNotification("skipped")
		return
	}

	c.log.Info("Sending WhatsApp message", zap.String("chat_id", chatID))

	go c.post(chatID, text)
}

func (c *Client) post(chatID, text string) {
	body, err := json.Marshal(sendTextRequest{
		ChatID:  chatID,
		Text:    text,
		Session: c.session,
	})
	if err != nil {
		c.log.Error("Failed to encode gateway request", zap.Error(err))
		prometheus.RecordNotification("failed")
		return
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/sendText", bytes.NewReader(body))
	if err != nil {
		c.log.Error("Failed to build gateway request", zap.Error(err))
		prometheus.RecordNotification("failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("WhatsApp gateway unreachable",
			zap.String("chat_id", chatID),
			zap.Error(err))
		prometheus.RecordNotification("failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("WhatsApp gateway rejected message",
			zap.String("chat_id", chatID),
			zap.Int("status", resp.StatusCode))
		prometheus.RecordNotification("failed")
		return
	}

	prometheus.RecordNotification("sent")
}

// ChatID normalizes a phone number into a WhatsApp chat identifier.
// Identifiers that already contain "@" (for example "...@c.us" or
// "...@lid") pass through unchanged. Plain numbers are stripped to
// digits with the leading "0" replaced by the "62" country code and
// suffixed with "@c.us". Blank, "-" or too-short numbers are rejected.
func ChatID(number string) (string, bool) {
	number = strings.TrimSpace(number)
	if number == "" || number == "-" {
		return "", false
	}
	if strings.Contains(number, "@") {
		return number, true
	}

	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	formatted := digits.String()
	if strings.HasPrefix(formatted, "0") {
		formatted = "62" + formatted[1:]
	}
	if len(formatted) < 5 {
		return "", false
	}
	return fmt.Sprintf("%s@c.us", formatted), true
}
