package server

import (
	"encoding/json"
	"net/http"

	"wwjtop/cache"
	"wwjtop/logger"
	"wwjtop/model"
	"wwjtop/repository"
)

// TrackRequest is the create/update body for a music track.
type TrackRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"imageUrl"`
	AudioURL     *string `json:"audioUrl"`
	DisplayOrder int     `json:"displayOrder"`
}

// GetTracksHandler returns the public track list in display order. Served
// from the Redis cache when warm.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := cache.GetTrackList(r.Context())
	if err != nil {
		// Cache trouble degrades to a database read.
		logger.Warn("[Tracks] cache read failed", logger.ErrorField(err))
	}

	if tracks == nil {
		tracks, err = h.trackRepo.ListTracks(r.Context())
		if err != nil {
			logger.Error("[Tracks] failed to list tracks", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if err := cache.SetTrackList(r.Context(), tracks); err != nil {
			logger.Warn("[Tracks] cache write failed", logger.ErrorField(err))
		}
	}

	if tracks == nil {
		tracks = []*model.MusicTrack{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// CreateTrackHandler creates a music track. Admin-only.
func (h *APIHandler) CreateTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	track := &model.MusicTrack{
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		AudioURL:     req.AudioURL,
		DisplayOrder: req.DisplayOrder,
	}

	id, err := h.trackRepo.CreateTrack(r.Context(), track)
	if err != nil {
		logger.Error("[Tracks] failed to create track", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	track.ID = id

	if err := cache.InvalidateTrackList(r.Context()); err != nil {
		logger.Warn("[Tracks] cache invalidation failed", logger.ErrorField(err))
	}

	created, err := h.trackRepo.GetTrackByID(r.Context(), id)
	if err != nil || created == nil {
		// Insert succeeded; return what we have.
		writeJSON(w, http.StatusCreated, track)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTrackHandler updates track metadata. Admin-only. PlayCount cannot be
// edited here.
func (h *APIHandler) UpdateTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid track ID")
		return
	}

	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	track, err := h.trackRepo.GetTrackByID(r.Context(), id)
	if err != nil {
		logger.Error("[Tracks] failed to query track", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if track == nil {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	track.Title = req.Title
	track.Description = req.Description
	track.ImageURL = req.ImageURL
	track.AudioURL = req.AudioURL
	track.DisplayOrder = req.DisplayOrder

	if err := h.trackRepo.UpdateTrack(r.Context(), track); err != nil {
		logger.Error("[Tracks] failed to update track", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := cache.InvalidateTrackList(r.Context()); err != nil {
		logger.Warn("[Tracks] cache invalidation failed", logger.ErrorField(err))
	}
	writeJSON(w, http.StatusOK, track)
}

// DeleteTrackHandler removes a track. Admin-only.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid track ID")
		return
	}

	if err := h.trackRepo.DeleteTrack(r.Context(), id); err != nil {
		if err == repository.ErrNotFound {
			writeError(w, http.StatusNotFound, "track not found")
			return
		}
		logger.Error("[Tracks] failed to delete track", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := cache.InvalidateTrackList(r.Context()); err != nil {
		logger.Warn("[Tracks] cache invalidation failed", logger.ErrorField(err))
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "track deleted"})
}

// ReorderTracksHandler applies a new display order to the listed tracks in
// one transaction. Admin-only.
func (h *APIHandler) ReorderTracksHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tracks []model.TrackOrder `json:"tracks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Tracks) == 0 {
		writeError(w, http.StatusBadRequest, "tracks list is required")
		return
	}

	if err := h.trackRepo.ReorderTracks(r.Context(), req.Tracks); err != nil {
		logger.Error("[Tracks] failed to reorder tracks", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := cache.InvalidateTrackList(r.Context()); err != nil {
		logger.Warn("[Tracks] cache invalidation failed", logger.ErrorField(err))
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PlayTrackHandler records a play event: the only path that moves playCount.
// Public, no auth; the counter is bumped atomically in the database with a
// Redis mirror for cheap stat reads.
func (h *APIHandler) PlayTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid track ID")
		return
	}

	if err := h.trackRepo.IncrementPlayCount(r.Context(), id); err != nil {
		if err == repository.ErrNotFound {
			writeError(w, http.StatusNotFound, "track not found")
			return
		}
		logger.Error("[Tracks] failed to record play", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if _, err := cache.IncrementPlayCounter(r.Context(), id); err != nil {
		logger.Warn("[Tracks] play counter mirror failed", logger.ErrorField(err))
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
