package handlers

import (
	"net/http"

	"bookmarker/internal/models"
	"bookmarker/internal/services"
	"bookmarker/internal/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (u *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body models.RegisterRequestBody
	if err := utils.DecodeAndValidate(w, r, &body); err != nil {
		return
	}

	registeredUser, err := u.userService.RegisterUser(r.Context(), &models.User{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to register user")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, registeredUser)
}

func (u *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Login
	if err := utils.DecodeAndValidate(w, r, &creds); err != nil {
		return
	}

	resp, err := u.userService.LoginUser(r.Context(), &creds)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			utils.SendJSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		writeServiceError(w, r, err, "Failed to log in")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (u *UserHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	user, err := u.userService.GetUserProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch user profile")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (u *UserHandler) DeleteMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	if err := u.userService.DeleteUser(r.Context(), userID); err != nil {
		writeServiceError(w, r, err, "Failed to delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
