package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"warung-service/internal/bot"
	"warung-service/pkg/logger"
)

// WebhookHandler receives WAHA gateway events and feeds them to the
// command interpreter.
type WebhookHandler struct {
	interpreter *bot.Interpreter
}

func NewWebhookHandler(interpreter *bot.Interpreter) *WebhookHandler {
	return &WebhookHandler{interpreter: interpreter}
}

// Handle processes POST /api/webhook. The gateway only wants an
// acknowledgment: business-rule misses and unparsable payloads are
// still 200; only unexpected failures answer 500.
func (h *WebhookHandler) Handle(c echo.Context) error {
	log := logger.FromContext(c)

	var ev bot.Event
	if err := c.Bind(&ev); err != nil {
		log.Warn("Unparsable webhook payload", zap.Error(err))
		return c.String(http.StatusOK, "OK")
	}

	if err := h.interpreter.Process(ev); err != nil {
		log.Error("Webhook processing failed",
			zap.String("event", ev.Event),
			zap.Error(err))
		return c.String(http.StatusInternalServerError, "Error")
	}

	return c.String(http.StatusOK, "OK")
}
