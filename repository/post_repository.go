package repository

import (
	"context"

	"gorm.io/gorm"

	"wwjtop/model"
)

// PostRepository defines data operations for blog posts. Ownership (author or
// admin) is checked by the handler with the identity the auth guard verified;
// the repository only runs the storage side.
type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id int64) (*model.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*model.Post, error)
	ListPublishedPosts(ctx context.Context) ([]*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	// DeletePostWithComments removes the post and every comment referencing
	// it in a single transaction. Returns ErrNotFound if the post is missing.
	DeletePostWithComments(ctx context.Context, id int64) error
}

// gormPostRepository implements PostRepository on GORM.
type gormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a GORM post repository.
func NewGormPostRepository(db *gorm.DB) PostRepository {
	return &gormPostRepository{db: db}
}

// CreatePost inserts a new post. The slug carries a unique index; a duplicate
// maps to ErrDuplicateSlug.
func (r *gormPostRepository) CreatePost(ctx context.Context, post *model.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err != nil && isDuplicateKeyError(err) {
		return ErrDuplicateSlug
	}
	return err
}

// GetPostByID returns the post or (nil, nil) when missing.
func (r *gormPostRepository) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetPostBySlug returns the post with the given slug or (nil, nil).
func (r *gormPostRepository) GetPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListPublishedPosts returns published posts, newest first.
func (r *gormPostRepository) ListPublishedPosts(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// UpdatePost saves the full post record.
func (r *gormPostRepository) UpdatePost(ctx context.Context, post *model.Post) error {
	err := r.db.WithContext(ctx).Save(post).Error
	if err != nil && isDuplicateKeyError(err) {
		return ErrDuplicateSlug
	}
	return err
}

// DeletePostWithComments deletes the post and its comments atomically: both
// succeed or neither does.
func (r *gormPostRepository) DeletePostWithComments(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
