package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wwjtop/model"
)

// FavoriteRepository defines data operations for track favorites. The
// (user_id, track_id) pair is unique in storage; AddFavorite is idempotent on
// that pair rather than racing an application-level existence check.
type FavoriteRepository interface {
	AddFavorite(ctx context.Context, userID, trackID int64) (*model.Favorite, error)
	ListFavoritesByUser(ctx context.Context, userID int64) ([]*model.Favorite, error)
	// RemoveFavorite deletes the caller's favorite for the track. Returns
	// ErrNotFound when no such favorite exists.
	RemoveFavorite(ctx context.Context, userID, trackID int64) error
}

// gormFavoriteRepository implements FavoriteRepository on GORM.
type gormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a GORM favorite repository.
func NewGormFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &gormFavoriteRepository{db: db}
}

// AddFavorite inserts the pair, relying on the unique index to swallow
// duplicates (INSERT ... ON CONFLICT DO NOTHING), then reads the row back so
// a repeated add returns the existing favorite instead of a second row.
func (r *gormFavoriteRepository) AddFavorite(ctx context.Context, userID, trackID int64) (*model.Favorite, error) {
	favorite := &model.Favorite{UserID: userID, TrackID: trackID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(favorite).Error
	if err != nil {
		return nil, err
	}

	// On conflict the insert is a no-op and the generated ID is unset, so
	// fetch the canonical row either way.
	var existing model.Favorite
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// ListFavoritesByUser returns the user's favorites, newest first.
func (r *gormFavoriteRepository) ListFavoritesByUser(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	var favorites []*model.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// RemoveFavorite deletes by the owning pair, so a caller can only ever remove
// their own favorite.
func (r *gormFavoriteRepository) RemoveFavorite(ctx context.Context, userID, trackID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Delete(&model.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
