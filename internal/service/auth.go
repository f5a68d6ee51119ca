package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tastestack/backend/internal/apperrors"
	"github.com/tastestack/backend/internal/middleware"
	"github.com/tastestack/backend/internal/models"
)

const minPasswordLength = 8

// AuthService handles registration, login and token validation.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates an account and returns it with a signed token.
func (s *AuthService) Register(name, email, password, passwordConfirm string) (*models.User, string, error) {
	details := map[string]string{}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		details["name"] = "name is required"
	}
	if email == "" || !strings.Contains(email, "@") {
		details["email"] = "a valid email is required"
	}
	if len(password) < minPasswordLength {
		details["password"] = "password must be at least 8 characters"
	}
	if password != passwordConfirm {
		details["password_confirm"] = "passwords do not match"
	}
	if len(details) > 0 {
		return nil, "", apperrors.Validation("invalid registration data", details)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	// The unique index on email is the arbiter; a losing racer gets a
	// duplicated-key error rather than a second row.
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.Conflict("email already registered")
		}
		return nil, "", apperrors.Internal(err)
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	return &user, token, nil
}

// Login verifies credentials and returns the account with a signed token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.Auth("invalid credentials")
		}
		return nil, "", apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.Auth("invalid credentials")
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	return &user, token, nil
}

// GetUser loads an account by id.
func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Internal(err)
	}
	return &user, nil
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Name              *string
	Bio               *string
	Location          *string
	Website           *string
	ProfilePictureURL *string
}

// UpdateProfile applies a partial update to the caller's own account.
func (s *AuthService) UpdateProfile(userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.Validation("invalid profile data", map[string]string{"name": "name cannot be empty"})
		}
		updates["name"] = name
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}
	if update.Location != nil {
		updates["location"] = *update.Location
	}
	if update.Website != nil {
		updates["website"] = *update.Website
	}
	if update.ProfilePictureURL != nil {
		updates["profile_picture_url"] = *update.ProfilePictureURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	return s.GetUser(userID)
}

// DeleteAccount removes the account and everything hanging off it: owned
// recipes with their ratings, likes and comments, the user's interactions
// on other recipes, and both directions of the follow graph.
func (s *AuthService) DeleteAccount(userID uuid.UUID) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var recipeIDs []uuid.UUID
		if err := tx.Model(&models.Recipe{}).Where("author_id = ?", userID).Pluck("id", &recipeIDs).Error; err != nil {
			return err
		}
		if len(recipeIDs) > 0 {
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.Rating{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("author_id = ?", userID).Delete(&models.Recipe{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// GenerateToken signs a 24h HS256 token carrying the user id.
func (s *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a bearer token.
func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDStr, ok := claims["user_id"].(string)
		if !ok {
			return nil, errors.New("invalid token claims")
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return nil, err
		}

		return &middleware.TokenClaims{
			UserID: userID,
		}, nil
	}

	return nil, errors.New("invalid token")
}
