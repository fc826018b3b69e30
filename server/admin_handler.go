package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"wwjtop/logger"
	"wwjtop/model"
	"wwjtop/storage"
)

// AdminCheckHandler confirms the caller holds an admin session and returns
// the verified identity. The admin guard has already run; a failed check
// never gets this far.
func (h *APIHandler) AdminCheckHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    identity,
	})
}

// UpdateUserRoleHandler changes a user's role. Admin-only. Note that the
// target's already-issued tokens keep their old role until they expire;
// a role change takes full effect on the target's next login.
func (h *APIHandler) UpdateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role != model.RoleUser && req.Role != model.RoleAdmin {
		writeError(w, http.StatusBadRequest, "role must be user or admin")
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), userID)
	if err != nil {
		logger.Error("[UpdateRole] failed to query user", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.userRepo.UpdateUserRole(r.Context(), userID, req.Role); err != nil {
		logger.Error("[UpdateRole] failed to update role", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	identity, _ := IdentityFromContext(r.Context())
	logger.Info("[UpdateRole] role changed",
		logger.Int64("targetUserId", userID),
		logger.String("role", req.Role),
		logger.Int64("changedBy", identity.UserID))

	user.Role = req.Role
	writeJSON(w, http.StatusOK, user)
}

// allowed upload content types by kind.
var uploadContentTypes = map[string]map[string]bool{
	"cover": {"image/jpeg": true, "image/png": true, "image/webp": true},
	"audio": {"audio/mpeg": true, "audio/wav": true, "audio/flac": true, "audio/ogg": true},
}

// UploadHandler stores a cover or audio file in object storage and returns
// its public URL. Admin-only; track records reference the returned URL.
func (h *APIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if storage.GetMinioClient() == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage not available")
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil { // 64MB max memory
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	kind := r.FormValue("kind")
	allowed, ok := uploadContentTypes[kind]
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be cover or audio")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' in form")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowed[contentType] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported content type %q for %s upload", contentType, kind))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	objectName := fmt.Sprintf("%ss/%s%s", kind, uuid.New().String(), ext)

	url, err := storage.UploadObject(r.Context(), h.cfg, objectName, file, header.Size, contentType)
	if err != nil {
		logger.Error("[Upload] failed to store object", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	logger.Info("[Upload] stored object",
		logger.String("object", objectName),
		logger.Int64("size", header.Size))
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
