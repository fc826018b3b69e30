package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"wwjtop/config"
	"wwjtop/core/auth"
	"wwjtop/db"
	"wwjtop/logger"
	"wwjtop/repository"
	"wwjtop/storage"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	// Redis and MinIO are optional: the cache degrades to pass-through and
	// uploads answer 503 when unavailable.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, running without cache", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
	}

	if err := storage.InitMinio(cfg); err != nil {
		logger.Warn("MinIO unavailable, uploads disabled", logger.ErrorField(err))
	}

	userRepo := repository.NewMySQLUserRepository(db.DB)
	trackRepo := repository.NewMySQLTrackRepository(db.DB)
	albumRepo := repository.NewMySQLAlbumRepository(db.DB)
	postRepo := repository.NewGormPostRepository(db.GormDB)
	commentRepo := repository.NewGormCommentRepository(db.GormDB)
	favoriteRepo := repository.NewGormFavoriteRepository(db.GormDB)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	apiHandler := NewAPIHandler(userRepo, trackRepo, albumRepo, postRepo, commentRepo, favoriteRepo, tokens, cfg)

	router := mux.NewRouter()
	router.Use(CORSMiddleware)
	router.Use(RequestIDMiddleware)

	loginLimit := RateLimit(1, 5) // 1 req/s with burst of 5, per IP

	// Authentication endpoints
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", loginLimit(apiHandler.LoginHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", apiHandler.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", apiHandler.AuthMiddleware(apiHandler.MeHandler)).Methods(http.MethodGet)

	// Admin endpoints
	router.HandleFunc("/api/admin/check", apiHandler.AdminMiddleware(apiHandler.AdminCheckHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/users/{id}/role", apiHandler.AdminMiddleware(apiHandler.UpdateUserRoleHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/admin/uploads", apiHandler.AdminMiddleware(apiHandler.UploadHandler)).Methods(http.MethodPost)

	// Music track endpoints: public reads and play events, admin mutations
	router.HandleFunc("/api/tracks", apiHandler.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks", apiHandler.AdminMiddleware(apiHandler.CreateTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/reorder", apiHandler.AdminMiddleware(apiHandler.ReorderTracksHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{id}", apiHandler.AdminMiddleware(apiHandler.UpdateTrackHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{id}", apiHandler.AdminMiddleware(apiHandler.DeleteTrackHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/tracks/{id}/play", apiHandler.PlayTrackHandler).Methods(http.MethodPost)

	// Album endpoints: public reads, admin mutations
	router.HandleFunc("/api/albums", apiHandler.GetAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums", apiHandler.AdminMiddleware(apiHandler.CreateAlbumHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/albums/{id}", apiHandler.GetAlbumHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums/{id}", apiHandler.AdminMiddleware(apiHandler.UpdateAlbumHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/albums/{id}", apiHandler.AdminMiddleware(apiHandler.DeleteAlbumHandler)).Methods(http.MethodDelete)

	// Blog post endpoints: public reads, author-or-admin mutations
	router.HandleFunc("/api/posts", apiHandler.GetPostsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", apiHandler.AuthMiddleware(apiHandler.CreatePostHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id:[0-9]+}", apiHandler.AuthMiddleware(apiHandler.UpdatePostHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/posts/{id:[0-9]+}", apiHandler.AuthMiddleware(apiHandler.DeletePostHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/posts/{id:[0-9]+}/comments", apiHandler.GetCommentsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id:[0-9]+}/comments", apiHandler.AuthMiddleware(apiHandler.CreateCommentHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{slug}", apiHandler.GetPostBySlugHandler).Methods(http.MethodGet)

	// Comment and favorite endpoints
	router.HandleFunc("/api/comments/{id}", apiHandler.AuthMiddleware(apiHandler.DeleteCommentHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/favorites", apiHandler.AuthMiddleware(apiHandler.GetFavoritesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites", apiHandler.AuthMiddleware(apiHandler.CreateFavoriteHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/favorites/{trackId}", apiHandler.AuthMiddleware(apiHandler.DeleteFavoriteHandler)).Methods(http.MethodDelete)

	httpServer.Handler = router

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server listening", logger.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", logger.ErrorField(err))
	}
	logger.Info("Server stopped")
}
