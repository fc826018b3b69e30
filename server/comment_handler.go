package server

import (
	"encoding/json"
	"net/http"

	"wwjtop/logger"
	"wwjtop/model"
	"wwjtop/repository"
)

// CommentRequest is the create body for a comment.
type CommentRequest struct {
	Body string `json:"body"`
}

// GetCommentsHandler returns a post's comments, oldest first. Public, but the
// post must exist.
func (h *APIHandler) GetCommentsHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	post, err := h.postRepo.GetPostByID(r.Context(), postID)
	if err != nil {
		logger.Error("[Comments] failed to query post", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	comments, err := h.commentRepo.ListCommentsByPost(r.Context(), postID)
	if err != nil {
		logger.Error("[Comments] failed to list comments", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// CreateCommentHandler adds a comment to an existing post. Requires an
// authenticated user; a comment on a missing post is NotFound and nothing is
// written.
func (h *APIHandler) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	postID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Body == "" {
		writeError(w, http.StatusBadRequest, "comment body is required")
		return
	}

	post, err := h.postRepo.GetPostByID(r.Context(), postID)
	if err != nil {
		logger.Error("[Comments] failed to query post", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: identity.UserID,
		Body:     req.Body,
	}

	if err := h.commentRepo.CreateComment(r.Context(), comment); err != nil {
		logger.Error("[Comments] failed to create comment", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// DeleteCommentHandler removes a comment. Only the comment's author or an
// admin may delete it.
func (h *APIHandler) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment ID")
		return
	}

	comment, err := h.commentRepo.GetCommentByID(r.Context(), id)
	if err != nil {
		logger.Error("[Comments] failed to query comment", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if comment == nil {
		writeError(w, http.StatusNotFound, "comment not found")
		return
	}
	if comment.AuthorID != identity.UserID && !identity.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.commentRepo.DeleteComment(r.Context(), id); err != nil {
		if err == repository.ErrNotFound {
			writeError(w, http.StatusNotFound, "comment not found")
			return
		}
		logger.Error("[Comments] failed to delete comment", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}
