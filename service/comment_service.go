package service

import (
	"context"
	"unicode/utf8"

	"github.com/cppla/goblog/models"
	"github.com/cppla/goblog/repository"
	"github.com/cppla/goblog/utils"
)

// MaxCommentLength bounds the submitted comment text in characters.
const MaxCommentLength = 500

type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
}

type CreateCommentInput struct {
	PostID uint
	User   *models.User
	Body   string
}

func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	users repository.UserRepository,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
	}
}

// Create attaches a comment by in.User to post in.PostID.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.User == nil {
		return nil, models.NewUnauthorizedError(MsgLoginToComment)
	}
	if _, err := s.posts.GetByID(ctx, in.PostID); err != nil {
		return nil, wrapNotFound(err, "Post", in.PostID)
	}
	if utf8.RuneCountInString(in.Body) > MaxCommentLength {
		return nil, models.NewValidationError("body", "Comment must be at most 500 characters.")
	}
	body := utils.Sanitize(in.Body)
	if utils.IsBlankHTML(body) {
		return nil, models.NewValidationError("body", MsgRequired)
	}

	comment := &models.Comment{
		PostID:      in.PostID,
		CommenterID: in.User.ID,
		Body:        body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// ForPost lists the comments of a post, oldest first, with their commenters.
func (s *CommentService) ForPost(ctx context.Context, postID uint) ([]models.CommentWithCommenter, error) {
	comments, err := s.comments.CommentsForPost(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.CommenterID)
	}
	commenters, err := s.users.GetByIDs(ctx, utils.Unique(ids))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	out := make([]models.CommentWithCommenter, 0, len(comments))
	for _, c := range comments {
		out = append(out, models.CommentWithCommenter{Comment: c, Commenter: commenters[c.CommenterID]})
	}
	return out, nil
}
