package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

// testRouter mirrors the production route table without the login rate limit,
// so tests go through real routing and guard composition.
func testRouter(env *testEnv) *mux.Router {
	h := env.handler
	router := mux.NewRouter()

	router.HandleFunc("/api/auth/register", h.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", h.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", h.AuthMiddleware(h.MeHandler)).Methods(http.MethodGet)

	router.HandleFunc("/api/admin/check", h.AdminMiddleware(h.AdminCheckHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/users/{id}/role", h.AdminMiddleware(h.UpdateUserRoleHandler)).Methods(http.MethodPut)

	router.HandleFunc("/api/tracks", h.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks", h.AdminMiddleware(h.CreateTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/reorder", h.AdminMiddleware(h.ReorderTracksHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{id}", h.AdminMiddleware(h.UpdateTrackHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{id}", h.AdminMiddleware(h.DeleteTrackHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/tracks/{id}/play", h.PlayTrackHandler).Methods(http.MethodPost)

	router.HandleFunc("/api/albums", h.GetAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums", h.AdminMiddleware(h.CreateAlbumHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/albums/{id}", h.GetAlbumHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums/{id}", h.AdminMiddleware(h.UpdateAlbumHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/albums/{id}", h.AdminMiddleware(h.DeleteAlbumHandler)).Methods(http.MethodDelete)

	router.HandleFunc("/api/posts", h.GetPostsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", h.AuthMiddleware(h.CreatePostHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id:[0-9]+}", h.AuthMiddleware(h.UpdatePostHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/posts/{id:[0-9]+}", h.AuthMiddleware(h.DeletePostHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/posts/{id:[0-9]+}/comments", h.GetCommentsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id:[0-9]+}/comments", h.AuthMiddleware(h.CreateCommentHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{slug}", h.GetPostBySlugHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/comments/{id}", h.AuthMiddleware(h.DeleteCommentHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/favorites", h.AuthMiddleware(h.GetFavoritesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites", h.AuthMiddleware(h.CreateFavoriteHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/favorites/{trackId}", h.AuthMiddleware(h.DeleteFavoriteHandler)).Methods(http.MethodDelete)

	return router
}

// doRequest sends a request through the router. A non-empty token rides in
// the session cookie, like a browser client.
func doRequest(t *testing.T, env *testEnv, router *mux.Router, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: env.cfg.SessionCookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals the recorded JSON response into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}
