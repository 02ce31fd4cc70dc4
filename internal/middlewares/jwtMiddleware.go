package middlewares

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"bookmarker/internal/utils"
)

// AuthCookieName is the cookie the GitHub callback stores the token in.
const AuthCookieName = "jwt"

// AuthMiddleware accepts a bearer token or the jwt cookie and puts the user id in the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := tokenFromRequest(r)
			if !ok {
				utils.SendJSONError(w, "Missing token", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ParseJWT(tokenString, secret)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected token")
				utils.SendJSONError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), claims.ID)))
		})
	}
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		return token, token != ""
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}
