package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"pixelaura/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
			WithArgs("ada@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "handle"}).
				AddRow(1, "ada@example.com", "@ada"))

		user, err := repo.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "@ada", user.Handle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found Returns Nil", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
			WithArgs("ghost@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		user, err := repo.GetByEmail(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Query Error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
			WithArgs("boom@example.com", 1).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetByEmail(ctx, "boom@example.com")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	})
}

func TestUserRepository_CreateUniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{
		Username: "Ada",
		Handle:   "@ada",
		Email:    "ada@example.com",
		Password: "hash",
	})
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, "User already exists", appErr.Message)
}

func TestUserRepository_ListExcludesFollowedUsers(t *testing.T) {
	repo := NewUserRepository(testDB)
	followRepo := NewFollowRepository(testDB)
	ctx := context.Background()

	viewer := createTestUser(t)
	followed := createTestUser(t)
	stranger := createTestUser(t)

	_, err := followRepo.ToggleFollow(ctx, viewer.ID, followed.ID)
	require.NoError(t, err)

	users, err := repo.List(ctx, viewer.ID, 1000, 0)
	require.NoError(t, err)

	ids := make(map[uint]bool, len(users))
	for _, u := range users {
		ids[u.ID] = true
	}
	assert.True(t, ids[stranger.ID])
	assert.False(t, ids[followed.ID], "suggestions must not include users the viewer already follows")
	assert.False(t, ids[viewer.ID])
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.False(t, isUniqueConstraintError(errors.New("syntax error")))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, isUniqueConstraintError(errors.New("ERROR: duplicate key value (SQLSTATE 23505)")))
}
