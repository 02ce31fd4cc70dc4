package handlers

import (
	"net/http"

	"bookmarker/internal/models"
	"bookmarker/internal/services"
	"bookmarker/internal/utils"
)

type AgentHandler struct {
	suggestions  services.SuggestionService
	agentService *services.AgentService
}

func NewAgentHandler(suggestions services.SuggestionService, agentService *services.AgentService) *AgentHandler {
	return &AgentHandler{suggestions: suggestions, agentService: agentService}
}

// Suggest creates one new bookmark suggested from the user's existing bookmarks.
func (a *AgentHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.UserIDFromContext(r.Context())

	bm, err := a.suggestions.Suggest(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to generate suggestion")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, models.NewSuggestedBookmarkResponse(bm))
}

func (a *AgentHandler) DescribeBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	bm, err := a.agentService.DescribeBookmark(r.Context(), userID, bookmarkID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to generate description")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bm)
}
