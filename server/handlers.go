package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wwjtop/config"
	"wwjtop/core/auth"
	"wwjtop/repository"
)

// APIHandler handles all API requests.
type APIHandler struct {
	userRepo     repository.UserRepository
	trackRepo    repository.TrackRepository
	albumRepo    repository.AlbumRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	favoriteRepo repository.FavoriteRepository
	tokens       *auth.TokenService
	cfg          *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	trackRepo repository.TrackRepository,
	albumRepo repository.AlbumRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	favoriteRepo repository.FavoriteRepository,
	tokens *auth.TokenService,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		trackRepo:    trackRepo,
		albumRepo:    albumRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		favoriteRepo: favoriteRepo,
		tokens:       tokens,
		cfg:          cfg,
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body. Messages are caller-safe: storage
// detail never goes through here, it gets logged and replaced by a generic
// message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// pathID parses the named integer path variable from the request.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// pathVar returns the named string path variable from the request.
func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
