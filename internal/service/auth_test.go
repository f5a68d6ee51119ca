package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastestack/backend/internal/apperrors"
	"github.com/tastestack/backend/internal/models"
	"github.com/tastestack/backend/internal/service"
	"github.com/tastestack/backend/internal/testhelpers"
)

func TestRegister(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, testhelpers.TestJWTSecret)

	user, token, err := svc.Register("Alice", "alice@example.com", "password123", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, testhelpers.TestJWTSecret)

	user, _, err := svc.Register("Alice", "  Alice@Example.COM ", "password123", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestRegisterValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, testhelpers.TestJWTSecret)

	tests := []struct {
		name            string
		displayName     string
		email           string
		password        string
		passwordConfirm string
		wantField       string
	}{
		{"short password", "Alice", "alice@example.com", "short", "short", "password"},
		{"mismatched confirmation", "Alice", "alice@example.com", "password123", "password124", "password_confirm"},
		{"missing email", "Alice", "", "password123", "password123", "email"},
		{"missing name", "", "alice@example.com", "password123", "password123", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(tt.displayName, tt.email, tt.password, tt.passwordConfirm)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Details, tt.wantField)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, testhelpers.TestJWTSecret)

	_, _, err := svc.Register("Alice", "alice@example.com", "password123", "password123")
	require.NoError(t, err)

	_, _, err = svc.Register("Imposter", "alice@example.com", "password456", "password456")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "alice@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, testhelpers.TestJWTSecret)
	testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")

	user, token, err := svc.Login("alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestLoginBadCredentials(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, testhelpers.TestJWTSecret)
	testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")

	_, _, err := svc.Login("alice@example.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))

	_, _, err = svc.Login("nobody@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
}

func TestLoginStoreFailure(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, testhelpers.TestJWTSecret)
	testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// A broken store is not an authentication failure.
	_, _, err = svc.Login("alice@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, testhelpers.TestJWTSecret)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	other := service.NewAuthService(db, "different-secret")
	user := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")
	token, err := other.GenerateToken(user.ID)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, testhelpers.TestJWTSecret)
	user := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")

	bio := "I cook things."
	location := "Lisbon"
	updated, err := svc.UpdateProfile(user.ID, service.ProfileUpdate{Bio: &bio, Location: &location})
	require.NoError(t, err)
	assert.Equal(t, "I cook things.", updated.Bio)
	assert.Equal(t, "Lisbon", updated.Location)
	// Untouched fields survive.
	assert.Equal(t, "Alice", updated.Name)

	empty := "  "
	_, err = svc.UpdateProfile(user.ID, service.ProfileUpdate{Name: &empty})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestDeleteAccountCascades(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	authSvc := service.NewAuthService(db, testhelpers.TestJWTSecret)
	interactions := service.NewInteractionService(db)
	users := service.NewUserService(db)

	alice := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com")
	bob := testhelpers.CreateTestUser(t, db, "Bob", "bob@example.com")
	recipe := testhelpers.CreateTestRecipe(t, db, alice, "Pasta")

	_, err := interactions.Rate(bob.ID, recipe.ID, 4)
	require.NoError(t, err)
	require.NoError(t, interactions.Like(bob.ID, recipe.ID))
	_, err = interactions.AddComment(bob.ID, recipe.ID, "Looks great")
	require.NoError(t, err)
	_, err = users.ToggleFollow(bob.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, authSvc.DeleteAccount(alice.ID))

	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"recipes", &models.Recipe{}},
		{"ratings", &models.Rating{}},
		{"likes", &models.Like{}},
		{"comments", &models.Comment{}},
		{"follows", &models.Follow{}},
	} {
		var count int64
		require.NoError(t, db.Model(check.model).Count(&count).Error)
		assert.Zero(t, count, "expected no %s after cascade", check.name)
	}

	_, err = authSvc.GetUser(alice.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
