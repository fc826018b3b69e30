package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wwjtop/model"
)

// AlbumRepository defines data operations for featured albums. Albums are
// system-owned: handlers require the admin role for every mutation.
type AlbumRepository interface {
	CreateAlbum(ctx context.Context, album *model.Album) (int64, error)
	GetAlbumByID(ctx context.Context, id int64) (*model.Album, error)
	ListAlbums(ctx context.Context) ([]*model.Album, error)
	UpdateAlbum(ctx context.Context, album *model.Album) error
	DeleteAlbum(ctx context.Context, id int64) error
}

// mysqlAlbumRepository implements AlbumRepository for MySQL.
type mysqlAlbumRepository struct {
	db *sql.DB
}

// NewMySQLAlbumRepository creates a new mysqlAlbumRepository.
func NewMySQLAlbumRepository(db *sql.DB) AlbumRepository {
	return &mysqlAlbumRepository{db: db}
}

const albumColumns = "id, title, artist, cover_url, release_date, genre, description, created_at, updated_at"

// CreateAlbum inserts a new album.
func (r *mysqlAlbumRepository) CreateAlbum(ctx context.Context, album *model.Album) (int64, error) {
	query := `
		INSERT INTO albums (title, artist, cover_url, release_date, genre, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	res, err := r.db.ExecContext(ctx, query,
		album.Title, album.Artist, album.CoverURL, album.ReleaseDate, album.Genre, album.Description, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert album: %w", err)
	}
	return res.LastInsertId()
}

// scanAlbum scans one album row, converting nullable columns to pointers.
func scanAlbum(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Album, error) {
	album := &model.Album{}
	var releaseDate sql.NullTime
	var description sql.NullString
	err := scanner.Scan(
		&album.ID, &album.Title, &album.Artist, &album.CoverURL,
		&releaseDate, &album.Genre, &description,
		&album.CreatedAt, &album.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if releaseDate.Valid {
		album.ReleaseDate = &releaseDate.Time
	}
	if description.Valid {
		album.Description = &description.String
	}
	return album, nil
}

// GetAlbumByID retrieves a single album.
func (r *mysqlAlbumRepository) GetAlbumByID(ctx context.Context, id int64) (*model.Album, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+albumColumns+" FROM albums WHERE id = ?", id)
	album, err := scanAlbum(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Album not found
		}
		return nil, fmt.Errorf("failed to scan album row for ID %d: %w", id, err)
	}
	return album, nil
}

// ListAlbums returns all albums, newest first.
func (r *mysqlAlbumRepository) ListAlbums(ctx context.Context) ([]*model.Album, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+albumColumns+" FROM albums ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []*model.Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album row: %w", err)
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

// UpdateAlbum updates album metadata.
func (r *mysqlAlbumRepository) UpdateAlbum(ctx context.Context, album *model.Album) error {
	query := `
		UPDATE albums
		SET title = ?, artist = ?, cover_url = ?, release_date = ?, genre = ?, description = ?, updated_at = ?
		WHERE id = ?
	`
	// MySQL reports 0 affected rows for a same-values update, so existence
	// is checked by the caller, not via RowsAffected.
	_, err := r.db.ExecContext(ctx, query,
		album.Title, album.Artist, album.CoverURL, album.ReleaseDate, album.Genre, album.Description,
		time.Now(), album.ID)
	if err != nil {
		return fmt.Errorf("failed to update album %d: %w", album.ID, err)
	}
	return nil
}

// DeleteAlbum removes an album.
func (r *mysqlAlbumRepository) DeleteAlbum(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM albums WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete album %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for album delete: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
