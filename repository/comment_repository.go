package repository

import (
	"context"

	"gorm.io/gorm"

	"wwjtop/model"
)

// CommentRepository defines data operations for post comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id int64) (*model.Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// gormCommentRepository implements CommentRepository on GORM.
type gormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a GORM comment repository.
func NewGormCommentRepository(db *gorm.DB) CommentRepository {
	return &gormCommentRepository{db: db}
}

// CreateComment inserts a comment. The post_id foreign key rejects comments
// on posts that no longer exist; the handler checks first and maps the rest
// to a storage error.
func (r *gormCommentRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentByID returns the comment or (nil, nil) when missing.
func (r *gormCommentRepository) GetCommentByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// ListCommentsByPost returns a post's comments, oldest first.
func (r *gormCommentRepository) ListCommentsByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// DeleteComment removes a single comment.
func (r *gormCommentRepository) DeleteComment(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
