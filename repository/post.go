package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/goblog/models"
)

// PostRepository defines persistence operations for blog posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uint) (*models.BlogPost, error)
	GetByTitle(ctx context.Context, title string) (*models.BlogPost, error)
	List(ctx context.Context) ([]models.BlogPost, error)
	PostsByAuthor(ctx context.Context, authorID uint) ([]models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByTitle(ctx context.Context, title string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns every post, newest first.
func (r *postRepository) List(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.WithContext(ctx).Order("id desc").Find(&posts).Error
	return posts, err
}

func (r *postRepository) PostsByAuthor(ctx context.Context, authorID uint) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("id desc").Find(&posts).Error
	return posts, err
}

// Update overwrites the editable fields; id, author and date are never written.
func (r *postRepository) Update(ctx context.Context, post *models.BlogPost) error {
	res := r.db.WithContext(ctx).Model(post).
		Select("title", "subtitle", "body", "img_url", "updated_at").
		Updates(post)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the post together with its comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.BlogPost{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
