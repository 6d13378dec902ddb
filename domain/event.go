package domain

import (
	"strings"
)

// TextMessageEvent is an inbound chat text message. ReplyToken is valid for
// exactly one synchronous reply; later messages to the same user must be
// pushed by user id.
type TextMessageEvent struct {
	UserID     string
	Text       string
	ReplyToken string
}

// PostbackEvent is an inbound action event carrying an opaque data string.
type PostbackEvent struct {
	UserID     string
	Data       string
	ReplyToken string
}

// ActionKind is the closed set of recognized postback actions.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionSaveBookmark
	ActionOverview
	ActionFolders
	ActionProfile
)

// Action is a postback data string parsed once at the router boundary.
type Action struct {
	Kind       ActionKind
	BookmarkID string
}

const savePrefix = "action=save&bookmark_id="

// ParseAction decodes a postback data string into a tagged Action.
// Unrecognized strings map to ActionUnknown, never an error.
func ParseAction(data string) Action {
	switch {
	case strings.HasPrefix(data, savePrefix):
		id := strings.TrimPrefix(data, savePrefix)
		if id == "" {
			return Action{Kind: ActionUnknown}
		}
		return Action{Kind: ActionSaveBookmark, BookmarkID: id}
	case data == "bookmark_overview":
		return Action{Kind: ActionOverview}
	case data == "folders":
		return Action{Kind: ActionFolders}
	case data == "my_profile":
		return Action{Kind: ActionProfile}
	default:
		return Action{Kind: ActionUnknown}
	}
}

// SaveActionData builds the postback data string embedded in rendered cards.
func SaveActionData(bookmarkID string) string {
	return savePrefix + bookmarkID
}
