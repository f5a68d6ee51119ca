package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tastestack/backend/internal/models"
	"github.com/tastestack/backend/internal/service"
)

// TestJWTSecret signs tokens in tests.
const TestJWTSecret = "test-jwt-secret"

// CreateTestUser inserts a user with the given email and password
// "password123".
func CreateTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserAndToken inserts a user and returns it with a valid token.
func CreateTestUserAndToken(t *testing.T, db *gorm.DB, name, email string) (*models.User, string) {
	t.Helper()

	user := CreateTestUser(t, db, name, email)
	token, err := service.NewAuthService(db, TestJWTSecret).GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

// CreateTestRecipe inserts a minimal valid recipe owned by the given user.
func CreateTestRecipe(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Title:        title,
		Description:  "test recipe",
		Ingredients:  models.StringList{"ingredient one", "ingredient two"},
		Instructions: models.StringList{"step one", "step two"},
		PrepTime:     10,
		CookTime:     20,
		Servings:     2,
		Difficulty:   models.DifficultyEasy,
		Categories:   models.StringList{"Dinner"},
		AuthorID:     owner.ID,
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}
