package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"wwjtop/model"
)

func seedTrack(t *testing.T, env *testEnv, title string) *model.MusicTrack {
	t.Helper()
	track := &model.MusicTrack{Title: title}
	id, err := env.tracks.CreateTrack(context.Background(), track)
	if err != nil {
		t.Fatalf("failed to seed track: %v", err)
	}
	track.ID = id
	return track
}

func TestCreateFavoriteIsIdempotent(t *testing.T) {
	env := newTestEnv()
	router := testRouter(env)
	alice := env.addUser("alice", model.RoleUser)
	track := seedTrack(t, env, "song")

	rec := doRequest(t, env, router, http.MethodPost, "/api/favorites",
		FavoriteRequest{TrackID: track.ID}, env.tokenFor(alice))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var first model.Favorite
	decodeBody(t, rec, &first)

	rec = doRequest(t, env, router, http.MethodPost, "/api/favorites",
		FavoriteRequest{TrackID: track.ID}, env.tokenFor(alice))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on the duplicate, got %d", rec.Code)
	}
	var second model.Favorite
	decodeBody(t, rec, &second)

	if first.ID != second.ID {
		t.Errorf("duplicate favorite must return the existing row, got IDs %d and %d", first.ID, second.ID)
	}
	if len(env.favorites.favorites) != 1 {
		t.Errorf("expected exactly one stored favorite, found %d", len(env.favorites.favorites))
	}
}

func TestFavoritePairIsPerUser(t *testing.T) {
	env := newTestEnv()
	router := testRouter(env)
	alice := env.addUser("alice", model.RoleUser)
	bob := env.addUser("bob", model.RoleUser)
	track := seedTrack(t, env, "song")

	doRequest(t, env, router, http.MethodPost, "/api/favorites",
		FavoriteRequest{TrackID: track.ID}, env.tokenFor(alice))
	doRequest(t, env, router, http.MethodPost, "/api/favorites",
		FavoriteRequest{TrackID: track.ID}, env.tokenFor(bob))

	if len(env.favorites.favorites) != 2 {
		t.Fatalf("two users favoriting the same track is two rows, found %d", len(env.favorites.favorites))
	}

	// Each caller sees only their own list.
	rec := doRequest(t, env, router, http.MethodGet, "/api/favorites", nil, env.tokenFor(alice))
	var resp struct {
		Favorites []*model.Favorite `json:"favorites"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Favorites) != 1 || resp.Favorites[0].UserID != alice.ID {
		t.Errorf("expected only alice's favorite, got %+v", resp.Favorites)
	}
}

func TestCreateFavoriteMissingTrack(t *testing.T) {
	env := newTestEnv()
	router := testRouter(env)
	alice := env.addUser("alice", model.RoleUser)

	rec := doRequest(t, env, router, http.MethodPost, "/api/favorites",
		FavoriteRequest{TrackID: 42}, env.tokenFor(alice))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing track, got %d", rec.Code)
	}
	if len(env.favorites.favorites) != 0 {
		t.Error("no favorite may be written for a missing track")
	}
}

func TestDeleteFavoriteByPair(t *testing.T) {
	env := newTestEnv()
	router := testRouter(env)
	alice := env.addUser("alice", model.RoleUser)
	bob := env.addUser("bob", model.RoleUser)
	track := seedTrack(t, env, "song")

	doRequest(t, env, router, http.MethodPost, "/api/favorites",
		FavoriteRequest{TrackID: track.ID}, env.tokenFor(alice))

	// Bob never favorited it: his delete is 404 and alice's row survives.
	rec := doRequest(t, env, router, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", track.ID), nil, env.tokenFor(bob))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an absent pair, got %d", rec.Code)
	}
	if len(env.favorites.favorites) != 1 {
		t.Fatalf("alice's favorite must survive bob's delete, found %d rows", len(env.favorites.favorites))
	}

	rec = doRequest(t, env, router, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", track.ID), nil, env.tokenFor(alice))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if len(env.favorites.favorites) != 0 {
		t.Error("expected the favorite to be removed")
	}
}
