package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/goblog/models"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		wantErr      error
	}{
		{
			name:   "found",
			userID: 1,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(1, "Angela", "angela@example.com"))
			},
		},
		{
			name:   "missing",
			userID: 2,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))
			},
			wantErr: gorm.ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Angela", user.Name)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	user := &models.User{Name: "Angela", Email: "angela@example.com", Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, uint(7), user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{Name: "Angela", Email: "angela@example.com", Password: "hash"}
	second := &models.User{Name: "Bob", Email: "bob@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	err := repo.Create(ctx, &models.User{Name: "Other", Email: "angela@example.com", Password: "hash"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	got, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	byID, err := repo.GetByIDs(ctx, []uint{first.ID, second.ID, 999})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.Equal(t, "Angela", byID[first.ID].Name)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
