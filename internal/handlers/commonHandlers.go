package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"bookmarker/internal/database"
	"bookmarker/internal/repositories"
	"bookmarker/internal/services"
	"bookmarker/internal/utils"
)

type CommonHandler struct {
	db database.Service
}

func NewCommonHandler(db database.Service) *CommonHandler {
	return &CommonHandler{db: db}
}

func (h *CommonHandler) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

func (h *CommonHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := h.db.Health()
	status := http.StatusOK
	if health["message"] == database.HealthDown {
		status = http.StatusServiceUnavailable
	}
	utils.RespondWithJSON(w, status, health)
}

// statusFor maps service errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrBookmarkNotFound),
		errors.Is(err, services.ErrFolderNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrFolderExists),
		errors.Is(err, services.ErrEmailExists),
		errors.Is(err, services.ErrUsernameExists),
		errors.Is(err, services.ErrAccountConflict),
		errors.Is(err, repositories.ErrDuplicateBookmark):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidBookmark),
		errors.Is(err, services.ErrNoUpdateFields),
		errors.Is(err, services.ErrFolderNameRequired),
		errors.Is(err, services.ErrMissingCredentials),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInsufficientData),
		errors.Is(err, services.ErrAllSuggestionsRejected):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeServiceError sends the error message for known errors and a generic
// message for everything else, which is only logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, generic string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(generic)
		utils.SendJSONError(w, generic, status)
		return
	}
	utils.SendJSONError(w, err.Error(), status)
}
