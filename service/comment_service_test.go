package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/goblog/models"
)

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()
	alice := &models.User{ID: 4, Name: "Alice"}

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo(), noopUserRepo())
		_, err := svc.Create(ctx, CreateCommentInput{PostID: 1, Body: "Nice post!"})
		assertCode(t, err, models.CodeUnauthorized)
		assert.Equal(t, MsgLoginToComment, err.Error())
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo(), noopUserRepo())
		_, err := svc.Create(ctx, CreateCommentInput{PostID: 1, User: alice, Body: "  "})
		assertCode(t, err, models.CodeValidation)
		_, err = svc.Create(ctx, CreateCommentInput{PostID: 1, User: alice, Body: strings.Repeat("x", MaxCommentLength+1)})
		assertCode(t, err, models.CodeValidation)
		_, err = svc.Create(ctx, CreateCommentInput{PostID: 1, User: alice, Body: strings.Repeat("é", MaxCommentLength)})
		assert.NoError(t, err)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.BlogPost, error) { return nil, gorm.ErrRecordNotFound }
		svc := NewCommentService(noopCommentRepo(), posts, noopUserRepo())
		_, err := svc.Create(ctx, CreateCommentInput{PostID: 99, User: alice, Body: "hi"})
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("stores a sanitized comment", func(t *testing.T) {
		var stored *models.Comment
		comments := noopCommentRepo()
		comments.createFn = func(_ context.Context, c *models.Comment) error {
			stored = c
			return nil
		}
		svc := NewCommentService(comments, noopPostRepo(), noopUserRepo())
		_, err := svc.Create(ctx, CreateCommentInput{PostID: 1, User: alice, Body: `Nice post!<img src=x onerror="alert(1)">`})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, uint(1), stored.PostID)
		assert.Equal(t, uint(4), stored.CommenterID)
		assert.NotContains(t, stored.Body, "onerror")
		assert.Contains(t, stored.Body, "Nice post!")
	})
}

func TestCommentService_ForPost(t *testing.T) {
	comments := noopCommentRepo()
	comments.commentsForPostFn = func(_ context.Context, postID uint) ([]models.Comment, error) {
		return []models.Comment{
			{ID: 1, PostID: postID, CommenterID: 4, Body: "first"},
			{ID: 2, PostID: postID, CommenterID: 5, Body: "second"},
			{ID: 3, PostID: postID, CommenterID: 4, Body: "third"},
		}, nil
	}
	users := noopUserRepo()
	users.getByIDsFn = func(_ context.Context, ids []uint) (map[uint]models.User, error) {
		assert.Equal(t, []uint{4, 5}, ids)
		return map[uint]models.User{4: {ID: 4, Name: "Alice"}, 5: {ID: 5, Name: "Bob"}}, nil
	}

	out, err := NewCommentService(comments, noopPostRepo(), users).ForPost(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Alice", out[0].Commenter.Name)
	assert.Equal(t, "Bob", out[1].Commenter.Name)
	assert.Equal(t, "third", out[2].Body)
}
