package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/goblog/models"
	"github.com/cppla/goblog/utils"
)

func validPostInput() PostInput {
	return PostInput{
		Title:    "Hello World",
		Subtitle: "First steps",
		ImgURL:   "https://example.com/cover.jpg",
		Body:     "<p>Welcome</p>",
	}
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, time.August, 4, 15, 0, 0, 0, time.UTC)

	t.Run("dates the post and sanitizes the body", func(t *testing.T) {
		var stored *models.BlogPost
		posts := noopPostRepo()
		posts.createFn = func(_ context.Context, p *models.BlogPost) error {
			p.ID = 1
			stored = p
			return nil
		}
		svc := NewPostService(posts, noopUserRepo(), nil, nil)
		svc.now = func() time.Time { return fixed }

		in := validPostInput()
		in.Title = "  Hello World  "
		in.Body = `<p>Welcome</p><script>alert(1)</script>`
		post, err := svc.Create(ctx, 1, in)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "August 04, 2026", post.Date)
		assert.Equal(t, "Hello World", post.Title)
		assert.Equal(t, "<p>Welcome</p>", post.Body)
		assert.Equal(t, uint(1), post.AuthorID)
	})

	t.Run("blank fields are validation errors", func(t *testing.T) {
		svc := NewPostService(noopPostRepo(), noopUserRepo(), nil, nil)
		for field, mutate := range map[string]func(*PostInput){
			"title":    func(in *PostInput) { in.Title = " " },
			"subtitle": func(in *PostInput) { in.Subtitle = "" },
			"img_url":  func(in *PostInput) { in.ImgURL = "" },
			"body":     func(in *PostInput) { in.Body = "<p>&nbsp;</p>" },
		} {
			in := validPostInput()
			mutate(&in)
			_, err := svc.Create(ctx, 1, in)
			assertCode(t, err, models.CodeValidation)
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, field, appErr.Field)
		}
	})

	t.Run("duplicate title is a conflict on the title field", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByTitleFn = func(_ context.Context, title string) (*models.BlogPost, error) {
			return &models.BlogPost{ID: 9, Title: title}, nil
		}
		posts.createFn = func(_ context.Context, _ *models.BlogPost) error {
			t.Fatal("create must not be called")
			return nil
		}
		_, err := NewPostService(posts, noopUserRepo(), nil, nil).Create(ctx, 1, validPostInput())
		assertCode(t, err, models.CodeConflict)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "title", appErr.Field)
	})

	t.Run("duplicate key race is a conflict", func(t *testing.T) {
		posts := noopPostRepo()
		posts.createFn = func(_ context.Context, _ *models.BlogPost) error { return gorm.ErrDuplicatedKey }
		_, err := NewPostService(posts, noopUserRepo(), nil, nil).Create(ctx, 1, validPostInput())
		assertCode(t, err, models.CodeConflict)
	})
}

func TestPostService_Update(t *testing.T) {
	ctx := context.Background()
	original := models.BlogPost{ID: 3, AuthorID: 1, Title: "Old", Subtitle: "s", Date: "August 01, 2026", Body: "<p>old</p>", ImgURL: "https://example.com/a.jpg"}

	t.Run("keeps id, author and date", func(t *testing.T) {
		var saved *models.BlogPost
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.BlogPost, error) {
			p := original
			return &p, nil
		}
		posts.updateFn = func(_ context.Context, p *models.BlogPost) error {
			saved = p
			return nil
		}
		post, err := NewPostService(posts, noopUserRepo(), nil, nil).Update(ctx, 3, validPostInput())
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, uint(3), post.ID)
		assert.Equal(t, uint(1), post.AuthorID)
		assert.Equal(t, "August 01, 2026", post.Date)
		assert.Equal(t, "Hello World", post.Title)
		assert.Equal(t, "https://example.com/cover.jpg", post.ImgURL)
	})

	t.Run("keeping its own title is not a conflict", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.BlogPost, error) {
			p := original
			return &p, nil
		}
		posts.getByTitleFn = func(_ context.Context, _ string) (*models.BlogPost, error) {
			p := original
			return &p, nil
		}
		in := validPostInput()
		in.Title = "Old"
		_, err := NewPostService(posts, noopUserRepo(), nil, nil).Update(ctx, 3, in)
		assert.NoError(t, err)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.BlogPost, error) { return nil, gorm.ErrRecordNotFound }
		_, err := NewPostService(posts, noopUserRepo(), nil, nil).Update(ctx, 3, validPostInput())
		assertCode(t, err, models.CodeNotFound)
	})
}

func TestPostService_Delete(t *testing.T) {
	posts := noopPostRepo()
	posts.deleteFn = func(_ context.Context, id uint) error {
		if id == 1 {
			return nil
		}
		return gorm.ErrRecordNotFound
	}
	svc := NewPostService(posts, noopUserRepo(), nil, nil)
	assert.NoError(t, svc.Delete(context.Background(), 1))
	assertCode(t, svc.Delete(context.Background(), 2), models.CodeNotFound)
}

func TestPostService_ListUsesCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	calls := 0
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context) ([]models.BlogPost, error) {
		calls++
		return []models.BlogPost{{ID: 2, AuthorID: 1, Title: "Second"}, {ID: 1, AuthorID: 1, Title: "First"}}, nil
	}
	users := noopUserRepo()
	users.getByIDsFn = func(_ context.Context, ids []uint) (map[uint]models.User, error) {
		assert.Equal(t, []uint{1}, ids)
		return map[uint]models.User{1: {ID: 1, Name: "Angela"}}, nil
	}
	svc := NewPostService(posts, users, nil, utils.NewCache(rc))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Angela", list[0].Author.Name)
	assert.True(t, mr.Exists(postListCacheKey(0)))

	cached, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, list, cached)
	assert.Equal(t, 1, calls)

	require.NoError(t, svc.Delete(ctx, 2))
	assert.False(t, mr.Exists(postListCacheKey(0)))
	gen, err := mr.Get(postGenerationKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}

func TestPostService_ListLoadedBeforeWriteIsNotServed(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	var svc *PostService
	calls := 0
	posts := noopPostRepo()
	posts.listFn = func(ctx context.Context) ([]models.BlogPost, error) {
		calls++
		if calls == 1 {
			// the admin deletes post 2 while this listing is still loading
			require.NoError(t, svc.Delete(ctx, 2))
			return []models.BlogPost{{ID: 2, AuthorID: 1, Title: "Second"}, {ID: 1, AuthorID: 1, Title: "First"}}, nil
		}
		return []models.BlogPost{{ID: 1, AuthorID: 1, Title: "First"}}, nil
	}
	users := noopUserRepo()
	users.getByIDsFn = func(_ context.Context, _ []uint) (map[uint]models.User, error) {
		return map[uint]models.User{1: {ID: 1, Name: "Angela"}}, nil
	}
	svc = NewPostService(posts, users, nil, utils.NewCache(rc))

	stale, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 2)

	fresh, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "First", fresh[0].Title)
	assert.Equal(t, 2, calls)

	cached, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, cached)
	assert.Equal(t, 2, calls)
}
