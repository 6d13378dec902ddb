// ABOUTME: This file builds the flex bubble JSON for bookmark cards
// ABOUTME: Mirrors the card layout: hero image, title, body, edit button, two footer actions
package linebot

import "briefcard/domain"

type flexBubble struct {
	Type   string   `json:"type"`
	Hero   *flexBox `json:"hero,omitempty"`
	Body   *flexBox `json:"body,omitempty"`
	Footer *flexBox `json:"footer,omitempty"`
}

type flexBox struct {
	Type        string     `json:"type"`
	Layout      string     `json:"layout,omitempty"`
	Spacing     string     `json:"spacing,omitempty"`
	Contents    []flexNode `json:"contents,omitempty"`
	URL         string     `json:"url,omitempty"`
	Size        string     `json:"size,omitempty"`
	AspectRatio string     `json:"aspectRatio,omitempty"`
	AspectMode  string     `json:"aspectMode,omitempty"`
}

type flexNode struct {
	Type     string      `json:"type"`
	Text     string      `json:"text,omitempty"`
	Weight   string      `json:"weight,omitempty"`
	Size     string      `json:"size,omitempty"`
	Color    string      `json:"color,omitempty"`
	Wrap     bool        `json:"wrap,omitempty"`
	MaxLines int         `json:"maxLines,omitempty"`
	Margin   string      `json:"margin,omitempty"`
	Style    string      `json:"style,omitempty"`
	Flex     int         `json:"flex,omitempty"`
	Action   *flexAction `json:"action,omitempty"`
}

type flexAction struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	URI   string `json:"uri,omitempty"`
	Data  string `json:"data,omitempty"`
}

// buildBubble lays out a card as a LINE flex bubble. The structure is fixed:
// 16:9 hero image, bold title over muted body text, a primary edit button and
// a two-button footer.
func buildBubble(card *domain.Card) *flexBubble {
	return &flexBubble{
		Type: "bubble",
		Hero: &flexBox{
			Type:        "image",
			URL:         card.ImageURL,
			Size:        "full",
			AspectRatio: "16:9",
			AspectMode:  "cover",
		},
		Body: &flexBox{
			Type:   "box",
			Layout: "vertical",
			Contents: []flexNode{
				{
					Type:     "text",
					Text:     card.Title,
					Weight:   "bold",
					Size:     "lg",
					Wrap:     true,
					MaxLines: 2,
				},
				{
					Type:     "text",
					Text:     card.Body,
					Size:     "sm",
					Color:    "#666666",
					Wrap:     true,
					MaxLines: 4,
					Margin:   "md",
				},
				{
					Type:   "button",
					Style:  "primary",
					Margin: "lg",
					Action: &flexAction{
						Type:  "uri",
						Label: "編輯卡片",
						URI:   card.EditURL,
					},
				},
			},
		},
		Footer: &flexBox{
			Type:    "box",
			Layout:  "horizontal",
			Spacing: "sm",
			Contents: []flexNode{
				{
					Type:  "button",
					Style: "secondary",
					Flex:  1,
					Action: &flexAction{
						Type:  "uri",
						Label: card.ReadOriginal.Label,
						URI:   card.ReadOriginal.URI,
					},
				},
				{
					Type:  "button",
					Style: "secondary",
					Flex:  1,
					Action: &flexAction{
						Type:  "postback",
						Label: card.Save.Label,
						Data:  card.Save.Data,
					},
				},
			},
		},
	}
}
