package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"

	"bookmarker/internal/middlewares"
	"bookmarker/internal/services"
	"bookmarker/internal/utils"
)

type AuthHandler struct {
	authService  services.AuthService
	frontendURL  string
	secureCookie bool
}

func NewAuthHandler(authService services.AuthService, frontendURL string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		secureCookie: secureCookie,
	}
}

func (a *AuthHandler) ProviderAuth(w http.ResponseWriter, r *http.Request) {
	provider, err := gothic.GetProviderName(r)
	if err != nil {
		log.Error().Err(err).Msg("Provider not specified in URL")
		utils.SendJSONError(w, "Provider not specified", http.StatusBadRequest)
		return
	}

	log.Info().Str("provider", provider).Msg("Initiating authentication with provider")
	gothic.BeginAuthHandler(w, r)
}

// ProviderCallback finishes the OAuth handshake, stores the token in the jwt
// cookie and sends the browser to the frontend dashboard.
func (a *AuthHandler) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	pUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Error completing user authentication")
		http.Redirect(w, r, "/api/auth/error", http.StatusTemporaryRedirect)
		return
	}

	resp, err := a.authService.HandleLogin(r.Context(), pUser)
	if err != nil {
		log.Error().Err(err).Str("login", pUser.NickName).Msg("Error handling login after provider authentication")
		http.Redirect(w, r, "/api/auth/error", http.StatusTemporaryRedirect)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.AuthCookieName,
		Value:    resp.Token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	query := url.Values{}
	query.Set("username", resp.Username)
	query.Set("user_id", resp.UserID)
	http.Redirect(w, r, a.frontendURL+"/dashboard?"+query.Encode(), http.StatusTemporaryRedirect)
}

func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := gothic.Logout(w, r); err != nil {
		log.Debug().Err(err).Msg("No provider session to clear on logout")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (a *AuthHandler) AuthError(w http.ResponseWriter, r *http.Request) {
	utils.SendJSONError(w, "Authentication failed. Please try again.", http.StatusBadRequest)
}
