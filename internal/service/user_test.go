package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastestack/backend/internal/apperrors"
	"github.com/tastestack/backend/internal/models"
	"github.com/tastestack/backend/internal/service"
	"github.com/tastestack/backend/internal/testhelpers"
)

func TestGetProfile(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)
	alice := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")
	bob := testhelpers.CreateTestUser(t, db, "Bob", "bob@example.com")
	testhelpers.CreateTestRecipe(t, db, alice, "Pasta")
	testhelpers.CreateTestRecipe(t, db, alice, "Salad")

	profile, err := svc.GetProfile(nil, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.User.Name)
	assert.Equal(t, int64(2), profile.Stats.RecipeCount)
	assert.Len(t, profile.RecentRecipes, 2)
	assert.False(t, profile.IsFollowing)

	_, err = svc.ToggleFollow(bob.ID, alice.ID)
	require.NoError(t, err)

	profile, err = svc.GetProfile(&bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsFollowing)
	assert.Equal(t, int64(1), profile.Stats.FollowersCount)

	_, err = svc.GetProfile(nil, uuid.New())
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestToggleFollow(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)
	alice := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")
	bob := testhelpers.CreateTestUser(t, db, "Bob", "bob@example.com")

	following, err := svc.ToggleFollow(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Toggling again removes the edge.
	following, err = svc.ToggleFollow(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)

	following, err = svc.ToggleFollow(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, following)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Follows are directional; Alice following Bob is a separate edge.
	following, err = svc.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSelfFollowRejected(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)
	alice := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")

	_, err := svc.ToggleFollow(alice.ID, alice.ID)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	profile, err := svc.GetProfile(nil, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, profile.Stats.FollowersCount)
	assert.Zero(t, profile.Stats.FollowingCount)
}

func TestToggleFollowMissingTarget(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)
	alice := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")

	_, err := svc.ToggleFollow(alice.ID, uuid.New())
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDashboardStats(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)
	interactions := service.NewInteractionService(db)
	alice := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")
	bob := testhelpers.CreateTestUser(t, db, "Bob", "bob@example.com")
	carol := testhelpers.CreateTestUser(t, db, "Carol", "carol@example.com")

	pasta := testhelpers.CreateTestRecipe(t, db, alice, "Pasta")
	salad := testhelpers.CreateTestRecipe(t, db, alice, "Salad")
	stew := testhelpers.CreateTestRecipe(t, db, bob, "Stew")

	require.NoError(t, interactions.Like(bob.ID, pasta.ID))
	require.NoError(t, interactions.Like(carol.ID, pasta.ID))
	require.NoError(t, interactions.Like(carol.ID, salad.ID))
	// A like on Bob's recipe must not count toward Alice.
	require.NoError(t, interactions.Like(alice.ID, stew.ID))

	_, err := interactions.AddComment(bob.ID, pasta.ID, "good")
	require.NoError(t, err)
	_, err = interactions.AddComment(alice.ID, stew.ID, "also good")
	require.NoError(t, err)

	_, err = svc.ToggleFollow(bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFollow(carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)

	stats, err := svc.DashboardStats(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalRecipes)
	assert.Equal(t, int64(3), stats.TotalLikes)
	assert.Equal(t, int64(1), stats.TotalComments)
	assert.Equal(t, int64(2), stats.FollowersCount)
	assert.Equal(t, int64(1), stats.FollowingCount)
}
