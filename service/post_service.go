package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/goblog/models"
	"github.com/cppla/goblog/repository"
	"github.com/cppla/goblog/utils"
)

const (
	postCachePrefix   = "cache:posts:"
	postGenerationKey = postCachePrefix + "gen"
	postListKeyPrefix = postCachePrefix + "list:"

	MsgTitleTaken = "A post with this title already exists."
	MsgRequired   = "This field is required."
)

type PostService struct {
	posts     repository.PostRepository
	users     repository.UserRepository
	pageViews repository.PageViewRepository
	cache     *utils.Cache
	now       func() time.Time
}

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	pageViews repository.PageViewRepository,
	cache *utils.Cache,
) *PostService {
	return &PostService{
		posts:     posts,
		users:     users,
		pageViews: pageViews,
		cache:     cache,
		now:       time.Now,
	}
}

// clean trims the input and sanitizes the body, rejecting blank fields.
func (in PostInput) clean() (PostInput, error) {
	out := PostInput{
		Title:    strings.TrimSpace(in.Title),
		Subtitle: strings.TrimSpace(in.Subtitle),
		ImgURL:   strings.TrimSpace(in.ImgURL),
		Body:     utils.Sanitize(in.Body),
	}
	switch {
	case out.Title == "":
		return out, models.NewValidationError("title", MsgRequired)
	case out.Subtitle == "":
		return out, models.NewValidationError("subtitle", MsgRequired)
	case out.ImgURL == "":
		return out, models.NewValidationError("img_url", MsgRequired)
	case utils.IsBlankHTML(out.Body):
		return out, models.NewValidationError("body", MsgRequired)
	}
	return out, nil
}

// titleTaken reports whether a post other than exceptID already uses title.
func (s *PostService) titleTaken(ctx context.Context, title string, exceptID uint) (bool, error) {
	existing, err := s.posts.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, models.NewInternalError(err)
	}
	return existing.ID != exceptID, nil
}

// Create publishes a post authored by authorID dated today.
func (s *PostService) Create(ctx context.Context, authorID uint, in PostInput) (*models.BlogPost, error) {
	in, err := in.clean()
	if err != nil {
		return nil, err
	}
	taken, err := s.titleTaken(ctx, in.Title, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("title", MsgTitleTaken)
	}

	post := &models.BlogPost{
		AuthorID: authorID,
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Date:     s.now().Format(models.PostDateLayout),
		Body:     in.Body,
		ImgURL:   in.ImgURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("title", MsgTitleTaken)
		}
		return nil, models.NewInternalError(err)
	}
	s.invalidateCache(ctx)
	utils.Logger.Info("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", authorID))
	return post, nil
}

// Update overwrites title, subtitle, image and body of post id. Id, author and date stay.
func (s *PostService) Update(ctx context.Context, id uint, in PostInput) (*models.BlogPost, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "Post", id)
	}
	in, err = in.clean()
	if err != nil {
		return nil, err
	}
	taken, err := s.titleTaken(ctx, in.Title, post.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("title", MsgTitleTaken)
	}

	post.Title = in.Title
	post.Subtitle = in.Subtitle
	post.ImgURL = in.ImgURL
	post.Body = in.Body
	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("title", MsgTitleTaken)
		}
		return nil, wrapNotFound(err, "Post", id)
	}
	s.invalidateCache(ctx)
	return post, nil
}

// Delete removes post id and its comments.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return wrapNotFound(err, "Post", id)
	}
	s.invalidateCache(ctx)
	utils.Logger.Info("post deleted", zap.Uint("post_id", id))
	return nil
}

// Get loads post id with its author.
func (s *PostService) Get(ctx context.Context, id uint) (*models.PostWithAuthor, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "Post", id)
	}
	withAuthors, err := s.attachAuthors(ctx, []models.BlogPost{*post})
	if err != nil {
		return nil, err
	}
	return &withAuthors[0], nil
}

// List returns every post, newest first, with authors. Served from cache when available.
func (s *PostService) List(ctx context.Context) ([]models.PostWithAuthor, error) {
	gen, cacheable := s.cache.Generation(ctx, postGenerationKey)
	key := postListCacheKey(gen)
	if cacheable {
		var cached []models.PostWithAuthor
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}

	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	out, err := s.attachAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}
	if cacheable {
		// a write since gen was read has bumped the generation, so this entry is never served
		s.cache.SetJSON(ctx, key, out, time.Hour)
	}
	return out, nil
}

func postListCacheKey(gen int64) string {
	return postListKeyPrefix + strconv.FormatInt(gen, 10)
}

// invalidateCache retires the current listing generation and drops stored listings.
func (s *PostService) invalidateCache(ctx context.Context) {
	s.cache.Bump(ctx, postGenerationKey)
	s.cache.InvalidateByPrefix(ctx, postListKeyPrefix)
}

func (s *PostService) attachAuthors(ctx context.Context, posts []models.BlogPost) ([]models.PostWithAuthor, error) {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	authors, err := s.users.GetByIDs(ctx, utils.Unique(ids))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	out := make([]models.PostWithAuthor, 0, len(posts))
	for _, p := range posts {
		out = append(out, models.PostWithAuthor{BlogPost: p, Author: authors[p.AuthorID]})
	}
	return out, nil
}

// Views returns the total recorded page views of path. Failures count as zero.
func (s *PostService) Views(ctx context.Context, path string) int64 {
	if s.pageViews == nil {
		return 0
	}
	n, err := s.pageViews.TotalForPath(ctx, path)
	if err != nil {
		utils.Logger.Warn("page view lookup failed", zap.String("path", path), zap.Error(err))
		return 0
	}
	return n
}
