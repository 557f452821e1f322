package repository

import (
	"context"
	"errors"
	"testing"

	"pixelaura/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPost(t *testing.T, author *models.User) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:          author.ID,
		Username:        author.Username,
		Handle:          author.Handle,
		ProfileImageURL: author.ProfilePicture,
		Text:            gofakeit.Sentence(8),
	}
	require.NoError(t, testDB.Create(post).Error)
	return post
}

func TestInteractionRepository_ToggleLike(t *testing.T) {
	repo := NewInteractionRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t)
	viewer := createTestUser(t)
	post := createTestPost(t, author)

	liked, updated, err := repo.ToggleLike(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, updated.Likes)

	var membership int64
	testDB.Model(&models.PostLike{}).Where("post_id = ? AND user_id = ?", post.ID, viewer.ID).Count(&membership)
	assert.EqualValues(t, 1, membership)

	// Second toggle removes membership and counter together
	liked, updated, err = repo.ToggleLike(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, updated.Likes)

	testDB.Model(&models.PostLike{}).Where("post_id = ? AND user_id = ?", post.ID, viewer.ID).Count(&membership)
	assert.EqualValues(t, 0, membership)
}

func TestInteractionRepository_ToggleLikeMissingPost(t *testing.T) {
	repo := NewInteractionRepository(testDB)

	viewer := createTestUser(t)
	_, _, err := repo.ToggleLike(context.Background(), viewer.ID, 999999)
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestInteractionRepository_ToggleRepost(t *testing.T) {
	repo := NewInteractionRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t)
	reposter := createTestUser(t)
	post := createTestPost(t, author)

	reposted, updated, err := repo.ToggleRepost(ctx, reposter, post.ID)
	require.NoError(t, err)
	assert.True(t, reposted)
	assert.Equal(t, 1, updated.Reposts)

	var snapshot models.Repost
	require.NoError(t, testDB.Where("original_post_id = ? AND reposted_by_id = ?", post.ID, reposter.ID).First(&snapshot).Error)
	assert.Equal(t, post.Text, snapshot.Text)
	assert.Equal(t, author.ID, snapshot.OriginalAuthorID)
	assert.Equal(t, reposter.Handle, snapshot.Handle)

	// Un-repost removes the snapshot in the same transaction as the counter
	reposted, updated, err = repo.ToggleRepost(ctx, reposter, post.ID)
	require.NoError(t, err)
	assert.False(t, reposted)
	assert.Equal(t, 0, updated.Reposts)

	var count int64
	testDB.Model(&models.Repost{}).Where("original_post_id = ? AND reposted_by_id = ?", post.ID, reposter.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestInteractionRepository_ToggleLikeInsertRace(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewInteractionRepository(db)

	// The delete sees no row, the insert then loses to a concurrent toggle.
	// The returned snapshot must reflect the winner's committed counter.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "likes"}).AddRow(7, 2, 3))
	mock.ExpectExec(`DELETE FROM "post_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "post_likes"`).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_post_like" (SQLSTATE 23505)`))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "likes"}).AddRow(7, 2, 4))
	mock.ExpectCommit()

	liked, post, err := repo.ToggleLike(context.Background(), 9, 7)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.True(t, post.Liked)
	assert.Equal(t, 4, post.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionRepository_IncrementDownload(t *testing.T) {
	repo := NewInteractionRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t)
	post := createTestPost(t, author)

	updated, err := repo.IncrementDownload(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Downloads)

	// Downloads are not a toggle, repeating counts again
	updated, err = repo.IncrementDownload(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Downloads)
}
