// ABOUTME: This file implements the LINE webhook HTTP handler
// ABOUTME: Verifies signatures, decodes events and dispatches them to the interaction router
package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"briefcard/linebot"
	"briefcard/service"
)

// WebhookHandler receives LINE webhook callbacks. It always answers 200 so
// the platform never retries or disables the webhook; failures are logged.
type WebhookHandler struct {
	router        service.InteractionRouter
	channelSecret string
	logger        *slog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(router service.InteractionRouter, channelSecret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		router:        router,
		channelSecret: channelSecret,
		logger:        logger,
	}
}

// HandleWebhook handles POST /webhook/line requests.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	if h.channelSecret == "" {
		h.logger.WarnContext(ctx, "webhook received but channel secret is not configured")
		return c.JSON(http.StatusOK, map[string]string{"status": "disabled"})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read webhook body", "error", err)
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	signature := c.Request().Header.Get("X-Line-Signature")
	if !linebot.ValidateSignature(h.channelSecret, body, signature) {
		h.logger.WarnContext(ctx, "webhook signature validation failed")
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	events, err := linebot.ParseWebhook(body)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to parse webhook payload", "error", err)
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	for _, event := range events {
		switch {
		case event.Text != nil:
			if err := h.router.HandleTextMessage(ctx, event.Text); err != nil {
				h.logger.ErrorContext(ctx, "failed to handle text message", "user_id", event.Text.UserID, "error", err)
			}
		case event.Postback != nil:
			if err := h.router.HandlePostback(ctx, event.Postback); err != nil {
				h.logger.ErrorContext(ctx, "failed to handle postback", "user_id", event.Postback.UserID, "error", err)
			}
		default:
			h.logger.DebugContext(ctx, "skipping unsupported webhook event")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
