package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/github"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"bookmarker/internal/config"
	"bookmarker/internal/metrics"
	"bookmarker/internal/models"
	"bookmarker/internal/repositories"
	"bookmarker/internal/utils"
)

const MaxAge = 86400 * 30

var (
	ErrMissingLogin    = errors.New("missing login in provider user data")
	ErrAccountConflict = errors.New("username or email already belongs to another account")
)

type AuthService interface {
	HandleLogin(ctx context.Context, u goth.User) (*models.LoginResponse, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret string
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) AuthService {
	return &authService{userRepo: userRepo, jwtSecret: jwtSecret}
}

// InitializeGoth registers the GitHub provider and the session store gothic uses
// during the OAuth handshake. Call it once at start-up.
func InitializeGoth(cfg *config.Config) {
	sessionKey := cfg.SessionKey
	if sessionKey == "" {
		log.Warn().Msg("SESSION_KEY not set, signing OAuth sessions with JWT_SECRET")
		sessionKey = cfg.JWTSecret
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.MaxAge(MaxAge)

	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.IsProd()
	store.Options.SameSite = http.SameSiteLaxMode

	gothic.Store = store

	goth.UseProviders(
		github.New(cfg.GithubClientID, cfg.GithubClientSecret, cfg.GithubCallbackURL, "read:user"),
	)
	log.Info().Msg("Goth providers initialized")
}

// HandleLogin finds or creates the account for a GitHub user and issues a token for it.
func (a *authService) HandleLogin(ctx context.Context, u goth.User) (*models.LoginResponse, error) {
	login := strings.TrimSpace(u.NickName)
	log.Info().Str("login", login).Msg("Attempting to handle login for user")
	if login == "" {
		log.Error().Msg("Missing login in Goth user data")
		metrics.LoginAttemptsTotal.WithLabelValues("github", "failed").Inc()
		return nil, ErrMissingLogin
	}

	user, err := a.userRepo.FindByGithubLogin(ctx, login)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		log.Info().Str("login", login).Msg("User not found, creating new user")
		user, err = a.createGithubUser(ctx, login)
		if err != nil {
			metrics.LoginAttemptsTotal.WithLabelValues("github", "failed").Inc()
			return nil, err
		}
	case err != nil:
		log.Error().Err(err).Str("login", login).Msg("Error finding user by GitHub login")
		metrics.LoginAttemptsTotal.WithLabelValues("github", "failed").Inc()
		return nil, err
	default:
		log.Info().Str("login", login).Str("userID", user.ID.Hex()).Msg("User found in database")
	}

	token, err := utils.GenerateJWT(user.ID, a.jwtSecret)
	if err != nil {
		log.Error().Err(err).Str("userID", user.ID.Hex()).Msg("Error generating JWT for user")
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("github", "success").Inc()
	return &models.LoginResponse{Token: token, UserID: user.ID.Hex(), Username: user.Username}, nil
}

// createGithubUser links a new account to login. A password account that already
// owns the username or e-mail is never reused.
func (a *authService) createGithubUser(ctx context.Context, login string) (*models.User, error) {
	now := time.Now().UTC()
	user, err := a.userRepo.Create(ctx, &models.User{
		Username:    login,
		Email:       strings.ToLower(login) + "@github.com",
		GithubLogin: login,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	switch {
	case errors.Is(err, repositories.ErrDuplicateGithub):
		// A concurrent callback for the same login created it first.
		return a.userRepo.FindByGithubLogin(ctx, login)
	case errors.Is(err, repositories.ErrDuplicateUsername), errors.Is(err, repositories.ErrDuplicateUser):
		log.Warn().Str("login", login).Msg("GitHub login clashes with an existing account")
		return nil, ErrAccountConflict
	case err != nil:
		log.Error().Err(err).Str("login", login).Msg("Error creating new user")
		return nil, err
	}

	metrics.NewUsersTotal.Inc()
	log.Info().Str("login", login).Str("userID", user.ID.Hex()).Msg("New user created successfully")
	return user, nil
}
