package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wwjtop/model"
)

// TrackRepository defines data operations for music tracks. Reads are public;
// every mutation except IncrementPlayCount is admin-only and the handler
// enforces that before calling in.
type TrackRepository interface {
	CreateTrack(ctx context.Context, track *model.MusicTrack) (int64, error)
	GetTrackByID(ctx context.Context, id int64) (*model.MusicTrack, error)
	ListTracks(ctx context.Context) ([]*model.MusicTrack, error)
	UpdateTrack(ctx context.Context, track *model.MusicTrack) error
	DeleteTrack(ctx context.Context, id int64) error
	ReorderTracks(ctx context.Context, orders []model.TrackOrder) error
	IncrementPlayCount(ctx context.Context, id int64) error
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	db *sql.DB
}

// NewMySQLTrackRepository creates a new mysqlTrackRepository.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{db: db}
}

const trackColumns = "id, title, description, image_url, audio_url, display_order, play_count, created_at, updated_at"

func scanTrack(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.MusicTrack, error) {
	track := &model.MusicTrack{}
	var audioURL sql.NullString
	err := scanner.Scan(&track.ID, &track.Title, &track.Description, &track.ImageURL,
		&audioURL, &track.DisplayOrder, &track.PlayCount, &track.CreatedAt, &track.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if audioURL.Valid {
		track.AudioURL = &audioURL.String
	}
	return track, nil
}

// CreateTrack inserts a new track. New tracks go to the end of the display
// order unless an explicit order is given.
func (r *mysqlTrackRepository) CreateTrack(ctx context.Context, track *model.MusicTrack) (int64, error) {
	query := `
		INSERT INTO music_tracks (title, description, image_url, audio_url, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	var audioURL sql.NullString
	if track.AudioURL != nil {
		audioURL = sql.NullString{String: *track.AudioURL, Valid: true}
	}

	now := time.Now()
	res, err := r.db.ExecContext(ctx, query,
		track.Title, track.Description, track.ImageURL, audioURL, track.DisplayOrder, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert track: %w", err)
	}
	return res.LastInsertId()
}

// GetTrackByID retrieves a single track.
func (r *mysqlTrackRepository) GetTrackByID(ctx context.Context, id int64) (*model.MusicTrack, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+trackColumns+" FROM music_tracks WHERE id = ?", id)
	track, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Track not found
		}
		return nil, fmt.Errorf("failed to scan track row for ID %d: %w", id, err)
	}
	return track, nil
}

// ListTracks returns all tracks in display order.
func (r *mysqlTrackRepository) ListTracks(ctx context.Context) ([]*model.MusicTrack, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+trackColumns+" FROM music_tracks ORDER BY display_order ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*model.MusicTrack
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track row: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// UpdateTrack updates track metadata. PlayCount is deliberately not part of
// the update set; it only moves through IncrementPlayCount.
func (r *mysqlTrackRepository) UpdateTrack(ctx context.Context, track *model.MusicTrack) error {
	query := `
		UPDATE music_tracks
		SET title = ?, description = ?, image_url = ?, audio_url = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`
	var audioURL sql.NullString
	if track.AudioURL != nil {
		audioURL = sql.NullString{String: *track.AudioURL, Valid: true}
	}

	// MySQL reports 0 affected rows for a same-values update, so existence
	// is checked by the caller, not via RowsAffected.
	_, err := r.db.ExecContext(ctx, query,
		track.Title, track.Description, track.ImageURL, audioURL, track.DisplayOrder, time.Now(), track.ID)
	if err != nil {
		return fmt.Errorf("failed to update track %d: %w", track.ID, err)
	}
	return nil
}

// DeleteTrack removes a track. Favorites referencing it are removed by the
// ON DELETE CASCADE constraint.
func (r *mysqlTrackRepository) DeleteTrack(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM music_tracks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete track %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for track delete: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReorderTracks applies a new display order in one transaction so a partially
// applied reorder is never visible.
func (r *mysqlTrackRepository) ReorderTracks(ctx context.Context, orders []model.TrackOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reorder transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "UPDATE music_tracks SET display_order = ?, updated_at = NOW() WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare reorder statement: %w", err)
	}
	defer stmt.Close()

	for _, order := range orders {
		if _, err := stmt.ExecContext(ctx, order.DisplayOrder, order.ID); err != nil {
			return fmt.Errorf("failed to reorder track %d: %w", order.ID, err)
		}
	}

	return tx.Commit()
}

// IncrementPlayCount bumps the play counter atomically in the database.
func (r *mysqlTrackRepository) IncrementPlayCount(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE music_tracks SET play_count = play_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to increment play count for track %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for play count: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
