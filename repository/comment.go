package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/goblog/models"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	CommentsForPost(ctx context.Context, postID uint) ([]models.Comment, error)
	CountForPost(ctx context.Context, postID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// CommentsForPost returns the comments of a post, oldest first.
func (r *commentRepository) CommentsForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("id asc").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountForPost(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}
