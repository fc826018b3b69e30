package server

import (
	"context"
	"sort"
	"time"

	"wwjtop/config"
	"wwjtop/core/auth"
	"wwjtop/model"
	"wwjtop/repository"
)

// In-memory repository fakes. They mirror the storage contracts the MySQL
// and GORM implementations provide: (nil, nil) for missing entities,
// repository.ErrNotFound from deletes of absent rows, and pair-unique
// favorites.

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*model.User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, repository.ErrDuplicateUser
		}
	}
	id := r.nextID
	r.nextID++
	stored := *user
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.users[id] = &stored
	return id, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateUserRole(ctx context.Context, userID int64, role string) error {
	if u, ok := r.users[userID]; ok {
		u.Role = role
	}
	return nil
}

type fakeTrackRepo struct {
	nextID int64
	tracks map[int64]*model.MusicTrack
}

func newFakeTrackRepo() *fakeTrackRepo {
	return &fakeTrackRepo{nextID: 1, tracks: make(map[int64]*model.MusicTrack)}
}

func (r *fakeTrackRepo) CreateTrack(ctx context.Context, track *model.MusicTrack) (int64, error) {
	id := r.nextID
	r.nextID++
	stored := *track
	stored.ID = id
	r.tracks[id] = &stored
	return id, nil
}

func (r *fakeTrackRepo) GetTrackByID(ctx context.Context, id int64) (*model.MusicTrack, error) {
	if t, ok := r.tracks[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeTrackRepo) ListTracks(ctx context.Context) ([]*model.MusicTrack, error) {
	var tracks []*model.MusicTrack
	for _, t := range r.tracks {
		copied := *t
		tracks = append(tracks, &copied)
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].DisplayOrder != tracks[j].DisplayOrder {
			return tracks[i].DisplayOrder < tracks[j].DisplayOrder
		}
		return tracks[i].ID < tracks[j].ID
	})
	return tracks, nil
}

func (r *fakeTrackRepo) UpdateTrack(ctx context.Context, track *model.MusicTrack) error {
	if _, ok := r.tracks[track.ID]; !ok {
		return nil
	}
	stored := *track
	r.tracks[track.ID] = &stored
	return nil
}

func (r *fakeTrackRepo) DeleteTrack(ctx context.Context, id int64) error {
	if _, ok := r.tracks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tracks, id)
	return nil
}

func (r *fakeTrackRepo) ReorderTracks(ctx context.Context, orders []model.TrackOrder) error {
	for _, o := range orders {
		if t, ok := r.tracks[o.ID]; ok {
			t.DisplayOrder = o.DisplayOrder
		}
	}
	return nil
}

func (r *fakeTrackRepo) IncrementPlayCount(ctx context.Context, id int64) error {
	t, ok := r.tracks[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.PlayCount++
	return nil
}

type fakeAlbumRepo struct {
	nextID int64
	albums map[int64]*model.Album
}

func newFakeAlbumRepo() *fakeAlbumRepo {
	return &fakeAlbumRepo{nextID: 1, albums: make(map[int64]*model.Album)}
}

func (r *fakeAlbumRepo) CreateAlbum(ctx context.Context, album *model.Album) (int64, error) {
	id := r.nextID
	r.nextID++
	stored := *album
	stored.ID = id
	r.albums[id] = &stored
	return id, nil
}

func (r *fakeAlbumRepo) GetAlbumByID(ctx context.Context, id int64) (*model.Album, error) {
	if a, ok := r.albums[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeAlbumRepo) ListAlbums(ctx context.Context) ([]*model.Album, error) {
	var albums []*model.Album
	for _, a := range r.albums {
		copied := *a
		albums = append(albums, &copied)
	}
	return albums, nil
}

func (r *fakeAlbumRepo) UpdateAlbum(ctx context.Context, album *model.Album) error {
	if _, ok := r.albums[album.ID]; !ok {
		return nil
	}
	stored := *album
	r.albums[album.ID] = &stored
	return nil
}

func (r *fakeAlbumRepo) DeleteAlbum(ctx context.Context, id int64) error {
	if _, ok := r.albums[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.albums, id)
	return nil
}

// fakePostRepo shares the comment store with fakeCommentRepo so the cascade
// delete contract can be observed from tests.
type fakePostRepo struct {
	nextID   int64
	posts    map[int64]*model.Post
	comments *fakeCommentRepo
}

func newFakePostRepo(comments *fakeCommentRepo) *fakePostRepo {
	return &fakePostRepo{nextID: 1, posts: make(map[int64]*model.Post), comments: comments}
}

func (r *fakePostRepo) CreatePost(ctx context.Context, post *model.Post) error {
	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return repository.ErrDuplicateSlug
		}
	}
	post.ID = r.nextID
	r.nextID++
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	stored := *post
	r.posts[post.ID] = &stored
	return nil
}

func (r *fakePostRepo) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	if p, ok := r.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *fakePostRepo) GetPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) ListPublishedPosts(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	for _, p := range r.posts {
		if p.Published {
			copied := *p
			posts = append(posts, &copied)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) UpdatePost(ctx context.Context, post *model.Post) error {
	stored := *post
	r.posts[post.ID] = &stored
	return nil
}

func (r *fakePostRepo) DeletePostWithComments(ctx context.Context, id int64) error {
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	for cid, c := range r.comments.comments {
		if c.PostID == id {
			delete(r.comments.comments, cid)
		}
	}
	delete(r.posts, id)
	return nil
}

type fakeCommentRepo struct {
	nextID   int64
	comments map[int64]*model.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, comments: make(map[int64]*model.Comment)}
}

func (r *fakeCommentRepo) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	comment.CreatedAt = time.Now()
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(ctx context.Context, id int64) (*model.Comment, error) {
	if c, ok := r.comments[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeCommentRepo) ListCommentsByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			copied := *c
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (r *fakeCommentRepo) DeleteComment(ctx context.Context, id int64) error {
	if _, ok := r.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

type favoriteKey struct {
	userID  int64
	trackID int64
}

type fakeFavoriteRepo struct {
	nextID    int64
	favorites map[favoriteKey]*model.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{nextID: 1, favorites: make(map[favoriteKey]*model.Favorite)}
}

func (r *fakeFavoriteRepo) AddFavorite(ctx context.Context, userID, trackID int64) (*model.Favorite, error) {
	key := favoriteKey{userID: userID, trackID: trackID}
	if existing, ok := r.favorites[key]; ok {
		copied := *existing
		return &copied, nil
	}
	favorite := &model.Favorite{
		ID:        r.nextID,
		UserID:    userID,
		TrackID:   trackID,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.favorites[key] = favorite
	copied := *favorite
	return &copied, nil
}

func (r *fakeFavoriteRepo) ListFavoritesByUser(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	var favorites []*model.Favorite
	for _, f := range r.favorites {
		if f.UserID == userID {
			copied := *f
			favorites = append(favorites, &copied)
		}
	}
	sort.Slice(favorites, func(i, j int) bool { return favorites[i].ID < favorites[j].ID })
	return favorites, nil
}

func (r *fakeFavoriteRepo) RemoveFavorite(ctx context.Context, userID, trackID int64) error {
	key := favoriteKey{userID: userID, trackID: trackID}
	if _, ok := r.favorites[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.favorites, key)
	return nil
}

// testEnv bundles the handler under test with its fakes.
type testEnv struct {
	handler   *APIHandler
	users     *fakeUserRepo
	tracks    *fakeTrackRepo
	albums    *fakeAlbumRepo
	posts     *fakePostRepo
	comments  *fakeCommentRepo
	favorites *fakeFavoriteRepo
	tokens    *auth.TokenService
	cfg       *config.Config
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	tracks := newFakeTrackRepo()
	albums := newFakeAlbumRepo()
	comments := newFakeCommentRepo()
	posts := newFakePostRepo(comments)
	favorites := newFakeFavoriteRepo()

	tokens := auth.NewTokenService("test-secret", time.Hour)
	cfg := &config.Config{
		AppEnv:            "development",
		SessionCookieName: "wwj_session",
	}

	return &testEnv{
		handler:   NewAPIHandler(users, tracks, albums, posts, comments, favorites, tokens, cfg),
		users:     users,
		tracks:    tracks,
		albums:    albums,
		posts:     posts,
		comments:  comments,
		favorites: favorites,
		tokens:    tokens,
		cfg:       cfg,
	}
}

// addUser seeds an account and returns it.
func (env *testEnv) addUser(username, role string) *model.User {
	hash, err := auth.HashPassword("password123")
	if err != nil {
		panic(err)
	}
	id, err := env.users.CreateUser(context.Background(), &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		panic(err)
	}
	user, _ := env.users.GetUserByID(context.Background(), id)
	return user
}

// tokenFor issues a session token for the user.
func (env *testEnv) tokenFor(user *model.User) string {
	token, _, err := env.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		panic(err)
	}
	return token
}
