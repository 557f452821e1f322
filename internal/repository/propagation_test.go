package repository

import (
	"context"
	"testing"

	"pixelaura/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_UpdateProfileEnqueuesPropagation(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := createTestUser(t)

	newName := "Renamed Person"
	updated, err := repo.UpdateProfile(ctx, user.ID, ProfileUpdate{Username: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Username)

	var jobs []models.ProfilePropagation
	require.NoError(t, testDB.Where("user_id = ?", user.ID).Find(&jobs).Error)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.PropagationStatusPending, jobs[0].Status)
	assert.Equal(t, newName, jobs[0].Username)
}

func TestUserRepository_UpdateProfileBioOnlySkipsPropagation(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := createTestUser(t)

	bio := "just a bio edit"
	_, err := repo.UpdateProfile(ctx, user.ID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)

	var count int64
	testDB.Model(&models.ProfilePropagation{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPropagationRepository_Apply(t *testing.T) {
	userRepo := NewUserRepository(testDB)
	propRepo := NewPropagationRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t)
	otherAuthor := createTestUser(t)
	post := createTestPost(t, author)
	otherPost := createTestPost(t, otherAuthor)

	// The author also reposted someone else's post, that snapshot carries
	// the author's display fields too
	interactions := NewInteractionRepository(testDB)
	_, _, err := interactions.ToggleRepost(ctx, author, otherPost.ID)
	require.NoError(t, err)

	newName := "Propagated Name"
	newAvatar := "https://img.example/new.png"
	_, err = userRepo.UpdateProfile(ctx, author.ID, ProfileUpdate{Username: &newName, ProfilePicture: &newAvatar})
	require.NoError(t, err)

	jobs, err := propRepo.Pending(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, jobs)

	var job *models.ProfilePropagation
	for i := range jobs {
		if jobs[i].UserID == author.ID {
			job = &jobs[i]
		}
	}
	require.NotNil(t, job)

	require.NoError(t, propRepo.Apply(ctx, job))
	assert.Equal(t, models.PropagationStatusDone, job.Status)
	assert.NotNil(t, job.CompletedAt)

	var refreshed models.Post
	require.NoError(t, testDB.First(&refreshed, post.ID).Error)
	assert.Equal(t, newName, refreshed.Username)
	assert.Equal(t, newAvatar, refreshed.ProfileImageURL)

	// Another author's post is untouched
	var untouched models.Post
	require.NoError(t, testDB.First(&untouched, otherPost.ID).Error)
	assert.Equal(t, otherAuthor.Username, untouched.Username)

	var snapshot models.Repost
	require.NoError(t, testDB.Where("reposted_by_id = ?", author.ID).First(&snapshot).Error)
	assert.Equal(t, newName, snapshot.Username)
	assert.Equal(t, newAvatar, snapshot.ProfileImageURL)

	// Done jobs leave the pending queue
	remaining, err := propRepo.Pending(ctx, 100)
	require.NoError(t, err)
	for _, j := range remaining {
		assert.NotEqual(t, job.ID, j.ID)
	}
}

func TestPropagationRepository_MarkAttempt(t *testing.T) {
	propRepo := NewPropagationRepository(testDB)
	ctx := context.Background()

	user := createTestUser(t)
	job := models.ProfilePropagation{
		UserID:   user.ID,
		Username: user.Username,
		Handle:   user.Handle,
		Status:   models.PropagationStatusPending,
	}
	require.NoError(t, testDB.Create(&job).Error)

	require.NoError(t, propRepo.MarkAttempt(ctx, &job))
	assert.Equal(t, 1, job.Attempts)

	var row models.ProfilePropagation
	require.NoError(t, testDB.First(&row, job.ID).Error)
	assert.Equal(t, 1, row.Attempts)
	assert.Equal(t, models.PropagationStatusPending, row.Status)
}
