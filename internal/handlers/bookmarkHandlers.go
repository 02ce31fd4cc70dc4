package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"bookmarker/internal/models"
	"bookmarker/internal/services"
	"bookmarker/internal/utils"
)

type BookmarkHandler struct {
	service services.BookmarkService
}

func NewBookmarksHandler(service services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

// GetBookmarks lists bookmarks. Optional query params: folder_id and page.
func (h *BookmarkHandler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	query := r.URL.Query()
	folderParam := query.Get("folder_id")
	folderID, err := utils.ParseOptionalObjectID(&folderParam)
	if err != nil {
		utils.SendJSONError(w, "Invalid folder_id format", http.StatusBadRequest)
		return
	}

	var page int64
	if p := query.Get("page"); p != "" {
		page, err = strconv.ParseInt(p, 10, 64)
		if err != nil || page < 1 {
			utils.SendJSONError(w, "page must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	bookmarks, err := h.service.GetBookmarks(r.Context(), userID, folderID, page)
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve bookmarks")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bookmarks)
}

func (h *BookmarkHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.AddBookmarkRequestBody
	if err := utils.DecodeAndValidate(w, r, &reqBody); err != nil {
		log.Debug().Err(err).Msg("Rejected AddBookmark request body")
		return
	}

	bm, err := h.service.AddBookmark(r.Context(), userID, reqBody)
	if err != nil {
		writeServiceError(w, r, err, "Failed to add bookmark")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, bm)
}

func (h *BookmarkHandler) GetBookmarkByID(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	bm, err := h.service.GetBookmarkByID(r.Context(), userID, bookmarkID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve bookmark")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bm)
}

func (h *BookmarkHandler) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var payload models.UpdateBookmarkRequestBody
	if err := utils.DecodeAndValidate(w, r, &payload); err != nil {
		return
	}

	bm, err := h.service.UpdateBookmark(r.Context(), userID, bookmarkID, payload)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update bookmark")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bm)
}

// MoveBookmark handles PUT /api/bookmarks/{id}/folder.
func (h *BookmarkHandler) MoveBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var payload models.MoveBookmarkRequestBody
	if err := utils.DecodeAndValidate(w, r, &payload); err != nil {
		return
	}
	folderID, err := utils.ParseOptionalObjectID(payload.FolderID)
	if err != nil {
		utils.SendJSONError(w, "Invalid folder_id format", http.StatusBadRequest)
		return
	}

	bm, err := h.service.MoveBookmark(r.Context(), userID, bookmarkID, folderID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to move bookmark")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bm)
}

func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteBookmark(r.Context(), userID, bookmarkID); err != nil {
		writeServiceError(w, r, err, "Failed to delete bookmark")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
