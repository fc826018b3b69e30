package server

import (
	"encoding/json"
	"net/http"
	"time"

	"wwjtop/logger"
	"wwjtop/model"
	"wwjtop/repository"
)

// AlbumRequest is the create/update body for an album.
type AlbumRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	CoverURL    string `json:"coverUrl"`
	ReleaseDate string `json:"releaseDate"` // "2006-01-02", optional
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

func (req *AlbumRequest) toModel() (*model.Album, error) {
	album := &model.Album{
		Title:    req.Title,
		Artist:   req.Artist,
		CoverURL: req.CoverURL,
		Genre:    req.Genre,
	}
	if req.Description != "" {
		album.Description = &req.Description
	}
	if req.ReleaseDate != "" {
		t, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			return nil, err
		}
		album.ReleaseDate = &t
	}
	return album, nil
}

// GetAlbumsHandler returns all albums. Public.
func (h *APIHandler) GetAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albumRepo.ListAlbums(r.Context())
	if err != nil {
		logger.Error("[Albums] failed to list albums", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if albums == nil {
		albums = []*model.Album{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"albums": albums})
}

// GetAlbumHandler returns a single album. Public.
func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid album ID")
		return
	}

	album, err := h.albumRepo.GetAlbumByID(r.Context(), id)
	if err != nil {
		logger.Error("[Albums] failed to query album", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if album == nil {
		writeError(w, http.StatusNotFound, "album not found")
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// CreateAlbumHandler creates an album. Admin-only.
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	var req AlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	album, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "releaseDate must be YYYY-MM-DD")
		return
	}

	id, err := h.albumRepo.CreateAlbum(r.Context(), album)
	if err != nil {
		logger.Error("[Albums] failed to create album", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	album.ID = id

	writeJSON(w, http.StatusCreated, album)
}

// UpdateAlbumHandler updates an album. Admin-only.
func (h *APIHandler) UpdateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid album ID")
		return
	}

	var req AlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	existing, err := h.albumRepo.GetAlbumByID(r.Context(), id)
	if err != nil {
		logger.Error("[Albums] failed to query album", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "album not found")
		return
	}

	album, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "releaseDate must be YYYY-MM-DD")
		return
	}
	album.ID = id

	if err := h.albumRepo.UpdateAlbum(r.Context(), album); err != nil {
		logger.Error("[Albums] failed to update album", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// DeleteAlbumHandler removes an album. Admin-only.
func (h *APIHandler) DeleteAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid album ID")
		return
	}

	if err := h.albumRepo.DeleteAlbum(r.Context(), id); err != nil {
		if err == repository.ErrNotFound {
			writeError(w, http.StatusNotFound, "album not found")
			return
		}
		logger.Error("[Albums] failed to delete album", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "album deleted"})
}
