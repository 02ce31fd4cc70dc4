package handlers

import (
	"net/http"

	"bookmarker/internal/models"
	"bookmarker/internal/services"
	"bookmarker/internal/utils"
)

type FolderHandler struct {
	service services.FolderService
}

func NewFolderHandler(service services.FolderService) *FolderHandler {
	return &FolderHandler{service: service}
}

func (h *FolderHandler) GetFolders(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	folders, err := h.service.GetFolders(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve folders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, folders)
}

func (h *FolderHandler) AddFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var body models.FolderRequestBody
	if err := utils.DecodeAndValidate(w, r, &body); err != nil {
		return
	}

	folder, err := h.service.AddFolder(r.Context(), userID, body.Name)
	if err != nil {
		writeServiceError(w, r, err, "Failed to add folder")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, folder)
}

func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	folderID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var body models.FolderRequestBody
	if err := utils.DecodeAndValidate(w, r, &body); err != nil {
		return
	}

	folder, err := h.service.RenameFolder(r.Context(), userID, folderID, body.Name)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update folder")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, folder)
}

func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	folderID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteFolder(r.Context(), userID, folderID); err != nil {
		writeServiceError(w, r, err, "Failed to delete folder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
