package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookmarker/internal/handlers"
	"bookmarker/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.RequestLogger)
	r.Use(middlewares.CorsMiddleware(s.cfg.Origins()))
	r.Use(middlewares.Instrument)
	r.Use(s.limiter.Limit)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloWorldHandler).Methods("GET")
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.registerAuthRoutes(r)
	s.registerBookmarkRoutes(r)
	s.registerFolderRoutes(r)
	s.registerAgentRoutes(r)

	return r
}

func (s *Server) auth(h http.HandlerFunc) http.Handler {
	return middlewares.AuthMiddleware(s.cfg.JWTSecret)(h)
}

func (s *Server) registerBookmarkRoutes(r *mux.Router) {
	bh := handlers.NewBookmarksHandler(s.bookmarkService)

	r.Handle("/api/bookmarks", s.auth(bh.GetBookmarks)).Methods("GET", "OPTIONS")
	r.Handle("/api/bookmarks", s.auth(bh.AddBookmark)).Methods("POST", "OPTIONS")
	r.Handle("/api/bookmarks/{id}", s.auth(bh.GetBookmarkByID)).Methods("GET", "OPTIONS")
	r.Handle("/api/bookmarks/{id}", s.auth(bh.DeleteBookmark)).Methods("DELETE", "OPTIONS")
	r.Handle("/api/bookmarks/{id}", s.auth(bh.UpdateBookmark)).Methods("PUT", "OPTIONS")
	r.Handle("/api/bookmarks/{id}/folder", s.auth(bh.MoveBookmark)).Methods("PUT", "OPTIONS")
}

func (s *Server) registerFolderRoutes(r *mux.Router) {
	fh := handlers.NewFolderHandler(s.folderService)

	r.Handle("/api/folders", s.auth(fh.GetFolders)).Methods("GET", "OPTIONS")
	r.Handle("/api/folders", s.auth(fh.AddFolder)).Methods("POST", "OPTIONS")
	r.Handle("/api/folders/{id}", s.auth(fh.RenameFolder)).Methods("PUT", "OPTIONS")
	r.Handle("/api/folders/{id}", s.auth(fh.DeleteFolder)).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	uh := handlers.NewUserHandler(s.userService)
	ah := handlers.NewAuthHandler(s.authService, s.cfg.FrontendURL, s.cfg.IsProd())

	r.HandleFunc("/api/auth/register", uh.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/login", uh.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/logout", ah.Logout).Methods("GET", "POST", "OPTIONS")
	r.HandleFunc("/api/auth/error", ah.AuthError).Methods("GET", "OPTIONS")
	r.Handle("/api/me", s.auth(uh.GetMyProfile)).Methods("GET", "OPTIONS")
	r.Handle("/api/me", s.auth(uh.DeleteMyProfile)).Methods("DELETE", "OPTIONS")

	// Provider routes come last so the fixed paths above win.
	r.HandleFunc("/api/auth/{provider}", ah.ProviderAuth).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}/callback", ah.ProviderCallback).Methods("GET", "OPTIONS")
}

func (s *Server) registerAgentRoutes(r *mux.Router) {
	ah := handlers.NewAgentHandler(s.suggestionService, s.agentService)

	r.Handle("/api/agent/suggestions", s.auth(ah.Suggest)).Methods("POST", "OPTIONS")
	r.Handle("/api/agent/describe/{id}", s.auth(ah.DescribeBookmark)).Methods("POST", "OPTIONS")
}
