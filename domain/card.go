package domain

// CardAction is one tappable affordance on a rendered card.
type CardAction struct {
	Label string
	// URI is set for link actions, Data for postback actions. Exactly one
	// of the two is non-empty.
	URI  string
	Data string
}

// Card is the truncation-safe visual projection of a bookmark. Every field
// is guaranteed non-empty by the renderer except EditURL's viewer id, which
// falls back to "anonymous".
type Card struct {
	AltText  string
	Title    string
	Body     string
	ImageURL string
	EditURL  string
	// ReadOriginal and Save are the two footer actions, always present.
	ReadOriginal CardAction
	Save         CardAction
}
