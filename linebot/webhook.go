// ABOUTME: This file implements webhook payload parsing and signature validation
// ABOUTME: Decodes LINE webhook JSON into events and verifies the HMAC signature
package linebot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"briefcard/domain"
)

// WebhookEvent is the decoded union of the event types the bot handles.
// Exactly one of Text and Postback is non-nil; both nil means the event type
// is unsupported and should be skipped.
type WebhookEvent struct {
	Text     *domain.TextMessageEvent
	Postback *domain.PostbackEvent
}

type webhookPayload struct {
	Events []webhookEvent `json:"events"`
}

type webhookEvent struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
	Postback struct {
		Data string `json:"data"`
	} `json:"postback"`
}

// ValidateSignature checks the X-Line-Signature header against the request
// body using the channel secret.
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)

	return hmac.Equal(decoded, mac.Sum(nil))
}

// ParseWebhook decodes a webhook request body into events. Unsupported event
// and message types come back as empty WebhookEvents so callers can count and
// skip them.
func ParseWebhook(body []byte) ([]WebhookEvent, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	events := make([]WebhookEvent, 0, len(payload.Events))

	for _, raw := range payload.Events {
		var event WebhookEvent

		switch {
		case raw.Type == "message" && raw.Message.Type == "text":
			event.Text = &domain.TextMessageEvent{
				UserID:     raw.Source.UserID,
				Text:       raw.Message.Text,
				ReplyToken: raw.ReplyToken,
			}
		case raw.Type == "postback":
			event.Postback = &domain.PostbackEvent{
				UserID:     raw.Source.UserID,
				Data:       raw.Postback.Data,
				ReplyToken: raw.ReplyToken,
			}
		}

		events = append(events, event)
	}

	return events, nil
}
