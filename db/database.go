package db

import (
	"database/sql"
	"fmt"
	"log"

	"wwjtop/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't
// exist. Integrity rules live here: foreign keys with cascade from posts to
// comments, and the unique (user_id, track_id) pair on favorites.
func InitDB() error {
	for name, fn := range map[string]func() error{
		"users":        createUsersTable,
		"music_tracks": createMusicTracksTable,
		"albums":       createAlbumsTable,
		"posts":        createPostsTable,
		"comments":     createCommentsTable,
		"favorites":    createFavoritesTable,
	} {
		if err := fn(); err != nil {
			return fmt.Errorf("failed to initialize %s table: %w", name, err)
		}
	}

	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('user', 'admin') NOT NULL DEFAULT 'user',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	return err
}

func createMusicTracksTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS music_tracks (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		image_url VARCHAR(767),
		audio_url VARCHAR(767),
		display_order INT NOT NULL DEFAULT 0,
		play_count BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	return err
}

func createAlbumsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS albums (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		artist VARCHAR(255),
		cover_url VARCHAR(767),
		release_date DATE,
		genre VARCHAR(100),
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	return err
}

func createPostsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS posts (
		id INT AUTO_INCREMENT PRIMARY KEY,
		author_id INT NOT NULL,
		title VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL,
		content MEDIUMTEXT,
		excerpt TEXT,
		published BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_post_author FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT uq_post_slug UNIQUE (slug)
	);
	`
	_, err := DB.Exec(query)
	return err
}

func createCommentsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS comments (
		id INT AUTO_INCREMENT PRIMARY KEY,
		post_id INT NOT NULL,
		author_id INT NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_comment_post FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
		CONSTRAINT fk_comment_author FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
	);
	`
	_, err := DB.Exec(query)
	return err
}

func createFavoritesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS favorites (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		track_id INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_favorite_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT fk_favorite_track FOREIGN KEY (track_id) REFERENCES music_tracks(id) ON DELETE CASCADE,
		CONSTRAINT uq_user_track UNIQUE (user_id, track_id)
	);
	`
	_, err := DB.Exec(query)
	return err
}
