package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tastestack/backend/internal/apperrors"
	"github.com/tastestack/backend/internal/models"
)

// UserService handles public profiles, the follow graph and per-user stats.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ProfileStats are a user's public counters, computed on demand.
type ProfileStats struct {
	RecipeCount    int64 `json:"recipe_count"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

// Profile is the public view of a user. IsFollowing reflects the viewer and
// is always false for anonymous callers.
type Profile struct {
	User          *models.User    `json:"user"`
	Stats         ProfileStats    `json:"stats"`
	RecentRecipes []*RecipeDetail `json:"recent_recipes"`
	IsFollowing   bool            `json:"is_following"`
}

// DashboardStats are the counters for a user's own dashboard. Likes and
// comments are those received on the user's recipes.
type DashboardStats struct {
	TotalRecipes   int64 `json:"total_recipes"`
	TotalLikes     int64 `json:"total_likes"`
	TotalComments  int64 `json:"total_comments"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

const recentRecipeLimit = 6

// GetProfile returns a user's public profile. viewerID may be nil.
func (s *UserService) GetProfile(viewerID *uuid.UUID, userID uuid.UUID) (*Profile, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Internal(err)
	}

	profile := &Profile{User: &user}

	if err := s.db.Model(&models.Recipe{}).Where("author_id = ?", userID).
		Count(&profile.Stats.RecipeCount).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.followCounts(userID, &profile.Stats.FollowersCount, &profile.Stats.FollowingCount); err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	if err := s.db.Preload("Author").
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Limit(recentRecipeLimit).
		Find(&recipes).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	recipeService := NewRecipeService(s.db)
	profile.RecentRecipes = make([]*RecipeDetail, 0, len(recipes))
	for i := range recipes {
		detail, err := recipeService.detail(viewerID, &recipes[i])
		if err != nil {
			return nil, err
		}
		profile.RecentRecipes = append(profile.RecentRecipes, detail)
	}

	if viewerID != nil {
		var count int64
		if err := s.db.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ?", *viewerID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Internal(err)
		}
		profile.IsFollowing = count > 0
	}

	return profile, nil
}

// ToggleFollow follows the target if not followed, unfollows otherwise, and
// returns whether the caller now follows the target. Self-follows are
// rejected. The unique (follower, following) index resolves create races.
func (s *UserService) ToggleFollow(callerID uuid.UUID, targetID uuid.UUID) (bool, error) {
	if callerID == targetID {
		return false, apperrors.Validation("invalid follow target", map[string]string{"user": "you cannot follow yourself"})
	}

	var target models.User
	if err := s.db.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NotFound("user")
		}
		return false, apperrors.Internal(err)
	}

	result := s.db.Where("follower_id = ? AND following_id = ?", callerID, targetID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, apperrors.Internal(result.Error)
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	follow := models.Follow{FollowerID: callerID, FollowingID: targetID}
	if err := s.db.Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent toggle already created the edge.
			return true, nil
		}
		return false, apperrors.Internal(err)
	}
	return true, nil
}

// DashboardStats computes the caller's dashboard counters.
func (s *UserService) DashboardStats(userID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.Recipe{}).Where("author_id = ?", userID).
		Count(&stats.TotalRecipes).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	recipeIDs := s.db.Model(&models.Recipe{}).Select("id").Where("author_id = ?", userID)
	if err := s.db.Model(&models.Like{}).Where("recipe_id IN (?)", recipeIDs).
		Count(&stats.TotalLikes).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.db.Model(&models.Comment{}).Where("recipe_id IN (?)", recipeIDs).
		Count(&stats.TotalComments).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.followCounts(userID, &stats.FollowersCount, &stats.FollowingCount); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *UserService) followCounts(userID uuid.UUID, followers, following *int64) error {
	if err := s.db.Model(&models.Follow{}).Where("following_id = ?", userID).
		Count(followers).Error; err != nil {
		return apperrors.Internal(err)
	}
	if err := s.db.Model(&models.Follow{}).Where("follower_id = ?", userID).
		Count(following).Error; err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
