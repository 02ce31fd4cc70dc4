package models

// SuggestionCandidate is a suggestion parsed from generated text that has not
// been stored yet.
type SuggestionCandidate struct {
	Title       string
	URL         string
	Description string
}

type SuggestedBookmarkResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func NewSuggestedBookmarkResponse(bm *Bookmark) SuggestedBookmarkResponse {
	return SuggestedBookmarkResponse{
		ID:          bm.ID.Hex(),
		Title:       bm.Title,
		URL:         bm.URL,
		Description: bm.Description,
	}
}
