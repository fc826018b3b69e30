package server

import (
	"encoding/json"
	"net/http"

	"wwjtop/logger"
	"wwjtop/model"
	"wwjtop/repository"
)

// PostRequest is the create/update body for a blog post.
type PostRequest struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	Published bool   `json:"published"`
}

// canEditPost applies the ownership rule: the author or an admin.
func canEditPost(identity model.Identity, post *model.Post) bool {
	return post.AuthorID == identity.UserID || identity.IsAdmin()
}

// GetPostsHandler returns published posts, newest first. Public.
func (h *APIHandler) GetPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postRepo.ListPublishedPosts(r.Context())
	if err != nil {
		logger.Error("[Posts] failed to list posts", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// GetPostBySlugHandler returns a single published post by slug. Public.
func (h *APIHandler) GetPostBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := pathVar(r, "slug")
	post, err := h.postRepo.GetPostBySlug(r.Context(), slug)
	if err != nil {
		logger.Error("[Posts] failed to query post", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if post == nil || !post.Published {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// CreatePostHandler creates a post authored by the caller. Requires an
// authenticated user; the author is always the verified identity, never a
// field of the request body.
func (h *APIHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Slug == "" {
		writeError(w, http.StatusBadRequest, "title and slug are required")
		return
	}

	post := &model.Post{
		AuthorID:  identity.UserID,
		Title:     req.Title,
		Slug:      req.Slug,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Published: req.Published,
	}

	if err := h.postRepo.CreatePost(r.Context(), post); err != nil {
		if err == repository.ErrDuplicateSlug {
			writeError(w, http.StatusConflict, "post slug already exists")
			return
		}
		logger.Error("[Posts] failed to create post", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// UpdatePostHandler updates a post. Only the author or an admin may edit.
func (h *APIHandler) UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Slug == "" {
		writeError(w, http.StatusBadRequest, "title and slug are required")
		return
	}

	post, err := h.postRepo.GetPostByID(r.Context(), id)
	if err != nil {
		logger.Error("[Posts] failed to query post", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if !canEditPost(identity, post) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	post.Title = req.Title
	post.Slug = req.Slug
	post.Content = req.Content
	post.Excerpt = req.Excerpt
	post.Published = req.Published

	if err := h.postRepo.UpdatePost(r.Context(), post); err != nil {
		if err == repository.ErrDuplicateSlug {
			writeError(w, http.StatusConflict, "post slug already exists")
			return
		}
		logger.Error("[Posts] failed to update post", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// DeletePostHandler removes a post and all its comments in one transaction.
// Only the author or an admin may delete.
func (h *APIHandler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	post, err := h.postRepo.GetPostByID(r.Context(), id)
	if err != nil {
		logger.Error("[Posts] failed to query post", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if !canEditPost(identity, post) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.postRepo.DeletePostWithComments(r.Context(), id); err != nil {
		if err == repository.ErrNotFound {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		logger.Error("[Posts] failed to delete post", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	logger.Info("[Posts] post deleted",
		logger.Int64("postId", id),
		logger.Int64("deletedBy", identity.UserID))
	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
