package server

import (
	"encoding/json"
	"net/http"

	"wwjtop/logger"
	"wwjtop/model"
	"wwjtop/repository"
)

// FavoriteRequest is the create body for a favorite.
type FavoriteRequest struct {
	TrackID int64 `json:"trackId"`
}

// GetFavoritesHandler returns the caller's favorites.
func (h *APIHandler) GetFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	favorites, err := h.favoriteRepo.ListFavoritesByUser(r.Context(), identity.UserID)
	if err != nil {
		logger.Error("[Favorites] failed to list favorites", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if favorites == nil {
		favorites = []*model.Favorite{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"favorites": favorites})
}

// CreateFavoriteHandler favorites a track for the caller. Idempotent on the
// (user, track) pair: favoriting twice returns the existing row, never a
// second one. The uniqueness lives in a storage constraint, not an
// application-level existence check.
func (h *APIHandler) CreateFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TrackID == 0 {
		writeError(w, http.StatusBadRequest, "trackId is required")
		return
	}

	track, err := h.trackRepo.GetTrackByID(r.Context(), req.TrackID)
	if err != nil {
		logger.Error("[Favorites] failed to query track", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if track == nil {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	favorite, err := h.favoriteRepo.AddFavorite(r.Context(), identity.UserID, req.TrackID)
	if err != nil {
		logger.Error("[Favorites] failed to add favorite", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, favorite)
}

// DeleteFavoriteHandler removes the caller's favorite for a track. Deleting
// by the (caller, track) pair means a user can only ever remove their own.
func (h *APIHandler) DeleteFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	trackID, err := pathID(r, "trackId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid track ID")
		return
	}

	if err := h.favoriteRepo.RemoveFavorite(r.Context(), identity.UserID, trackID); err != nil {
		if err == repository.ErrNotFound {
			writeError(w, http.StatusNotFound, "favorite not found")
			return
		}
		logger.Error("[Favorites] failed to remove favorite", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "favorite removed"})
}
