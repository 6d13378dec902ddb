// ABOUTME: This file implements the LINE Messaging API client
// ABOUTME: Sends reply and push messages, including flex bookmark cards
package linebot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"briefcard/config"
	"briefcard/domain"
)

const (
	replyPath = "/v2/bot/message/reply"
	pushPath  = "/v2/bot/message/push"
)

// Client talks to the LINE Messaging API. It implements the messaging
// gateway the interaction router sends through.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
	logger      *slog.Logger
}

// NewClient creates a LINE Messaging API client.
func NewClient(cfg *config.LineConfig, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		endpoint:    cfg.APIEndpoint,
		accessToken: cfg.ChannelAccessToken,
		logger:      logger,
	}
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type flexMessage struct {
	Type     string      `json:"type"`
	AltText  string      `json:"altText"`
	Contents *flexBubble `json:"contents"`
}

type replyRequest struct {
	ReplyToken string `json:"replyToken"`
	Messages   []any  `json:"messages"`
}

type pushRequest struct {
	To       string `json:"to"`
	Messages []any  `json:"messages"`
}

// ReplyText sends one text message consuming the reply token.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	payload := replyRequest{
		ReplyToken: replyToken,
		Messages:   []any{textMessage{Type: "text", Text: text}},
	}

	return c.post(ctx, replyPath, payload)
}

// PushText sends one text message directly to a user.
func (c *Client) PushText(ctx context.Context, userID, text string) error {
	payload := pushRequest{
		To:       userID,
		Messages: []any{textMessage{Type: "text", Text: text}},
	}

	return c.post(ctx, pushPath, payload)
}

// PushCard sends a rendered bookmark card to a user as a flex message.
func (c *Client) PushCard(ctx context.Context, userID string, card *domain.Card) error {
	payload := pushRequest{
		To: userID,
		Messages: []any{flexMessage{
			Type:     "flex",
			AltText:  card.AltText,
			Contents: buildBubble(card),
		}},
	}

	return c.post(ctx, pushPath, payload)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create messaging request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "messaging API request failed", "path", path, "error", err)
		return fmt.Errorf("messaging API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.ErrorContext(ctx, "messaging API returned non-200 status",
			"path", path,
			"status", resp.StatusCode,
			"body", string(respBody))

		return fmt.Errorf("messaging API returned status %d", resp.StatusCode)
	}

	c.logger.DebugContext(ctx, "message sent", "path", path)

	return nil
}
