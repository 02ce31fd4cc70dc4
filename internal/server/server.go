package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"bookmarker/internal/config"
	"bookmarker/internal/database"
	"bookmarker/internal/middlewares"
	"bookmarker/internal/repositories"
	"bookmarker/internal/services"
)

type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	db         database.Service
	limiter    *middlewares.RateLimiter

	userService       services.UserService
	bookmarkService   services.BookmarkService
	folderService     services.FolderService
	suggestionService services.SuggestionService
	agentService      *services.AgentService
	authService       services.AuthService

	// background jobs started by Start run until cancel is called
	jobs   context.Context
	cancel context.CancelFunc
}

func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	userRepo := repositories.NewUserRepository(db)
	bookmarkRepo := repositories.NewBookmarkRepository(db)
	folderRepo := repositories.NewFolderRepository(db)

	generator := services.NewLLMGenerator(cfg.APIKey, cfg.LLMModel)
	if cfg.APIKey == "" {
		log.Warn().Msg("API_KEY not set, suggestions and descriptions will fail")
	}

	s := &Server{
		cfg:               cfg,
		db:                db,
		limiter:           middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		userService:       services.NewUserService(userRepo, bookmarkRepo, folderRepo, cfg.JWTSecret),
		bookmarkService:   services.NewBookmarkService(bookmarkRepo, folderRepo),
		folderService:     services.NewFolderService(folderRepo, bookmarkRepo),
		suggestionService: services.NewSuggestionService(bookmarkRepo, generator),
		agentService:      services.NewAgentService(bookmarkRepo, generator),
		authService:       services.NewAuthService(userRepo, cfg.JWTSecret),
	}

	s.jobs, s.cancel = context.WithCancel(context.Background())
	services.InitializeGoth(cfg)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

func (s *Server) Start() error {
	go s.limiter.CleanupVisitors(s.jobs, time.Minute)
	go s.userService.RefreshUserCount(s.jobs, 30*time.Second)

	log.Info().Int("port", s.cfg.Port).Str("env", s.cfg.Env).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}
	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Error disconnecting from MongoDB")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
