package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tastestack/backend/internal/apperrors"
	"github.com/tastestack/backend/internal/models"
)

// InteractionService handles ratings, likes and comments.
type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// CommentView is a comment with its author's public fields.
type CommentView struct {
	models.Comment
	Author AuthorSummary `json:"author"`
}

// Rate upserts the caller's rating for a recipe and returns the new average.
// The unique (user, recipe) index guarantees a single row; a racing insert
// falls back to an update.
func (s *InteractionService) Rate(callerID uuid.UUID, recipeID uuid.UUID, score int) (float64, error) {
	if score < 1 || score > 5 {
		return 0, apperrors.Validation("invalid rating", map[string]string{"rating": "rating must be between 1 and 5"})
	}
	if err := s.recipeExists(recipeID); err != nil {
		return 0, err
	}

	var existing models.Rating
	err := s.db.Where("user_id = ? AND recipe_id = ?", callerID, recipeID).First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.Model(&existing).Update("score", score).Error; err != nil {
			return 0, apperrors.Internal(err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating := models.Rating{UserID: callerID, RecipeID: recipeID, Score: score}
		if err := s.db.Create(&rating).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return 0, apperrors.Internal(err)
			}
			// Lost the race to a concurrent insert; update that row.
			if err := s.db.Model(&models.Rating{}).
				Where("user_id = ? AND recipe_id = ?", callerID, recipeID).
				Update("score", score).Error; err != nil {
				return 0, apperrors.Internal(err)
			}
		}
	default:
		return 0, apperrors.Internal(err)
	}

	var average float64
	if err := s.db.Model(&models.Rating{}).
		Where("recipe_id = ?", recipeID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&average).Error; err != nil {
		return 0, apperrors.Internal(err)
	}
	return average, nil
}

// Like records a like. Liking an already-liked recipe is a no-op.
func (s *InteractionService) Like(callerID uuid.UUID, recipeID uuid.UUID) error {
	if err := s.recipeExists(recipeID); err != nil {
		return err
	}

	like := models.Like{UserID: callerID, RecipeID: recipeID}
	if err := s.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return apperrors.Internal(err)
	}
	return nil
}

// Unlike removes a like. Removing a like that does not exist is a no-op.
func (s *InteractionService) Unlike(callerID uuid.UUID, recipeID uuid.UUID) error {
	if err := s.recipeExists(recipeID); err != nil {
		return err
	}

	if err := s.db.Where("user_id = ? AND recipe_id = ?", callerID, recipeID).
		Delete(&models.Like{}).Error; err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// LikeCount returns the number of likes on a recipe.
func (s *InteractionService) LikeCount(recipeID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Like{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return 0, apperrors.Internal(err)
	}
	return count, nil
}

// ListComments returns a recipe's comments, oldest first. Hidden comments
// are excluded unless the viewer owns the recipe (moderation view).
func (s *InteractionService) ListComments(viewerID *uuid.UUID, recipeID uuid.UUID) ([]CommentView, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("recipe")
		}
		return nil, apperrors.Internal(err)
	}

	query := s.db.Preload("User").Where("recipe_id = ?", recipeID)
	if viewerID == nil || *viewerID != recipe.AuthorID {
		query = query.Where("hidden = ?", false)
	}

	var comments []models.Comment
	if err := query.Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		view := CommentView{Comment: c}
		if c.User != nil {
			view.Author = AuthorSummary{ID: c.User.ID, Name: c.User.Name}
		} else {
			view.Author = AuthorSummary{ID: c.UserID}
		}
		views = append(views, view)
	}
	return views, nil
}

// AddComment creates a comment owned by the caller.
func (s *InteractionService) AddComment(callerID uuid.UUID, recipeID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("invalid comment", map[string]string{"content": "content cannot be empty"})
	}
	if err := s.recipeExists(recipeID); err != nil {
		return nil, err
	}

	comment := models.Comment{UserID: callerID, RecipeID: recipeID, Content: content}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return &comment, nil
}

// EditComment replaces a comment's content. Only the comment owner may edit;
// the hidden flag is left as-is.
func (s *InteractionService) EditComment(callerID uuid.UUID, commentID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("invalid comment", map[string]string{"content": "content cannot be empty"})
	}

	comment, _, err := s.loadCommentWithRecipe(commentID)
	if err != nil {
		return nil, err
	}

	if !Allowed(ActionEditComment, callerID, Resource{Comment: comment}) {
		return nil, apperrors.Permission("only the comment owner can edit it")
	}

	if err := s.db.Model(comment).Update("content", content).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return comment, nil
}

// DeleteComment removes a comment. Allowed for the comment owner and the
// owner of the recipe it sits on.
func (s *InteractionService) DeleteComment(callerID uuid.UUID, commentID uuid.UUID) error {
	comment, recipe, err := s.loadCommentWithRecipe(commentID)
	if err != nil {
		return err
	}

	if !Allowed(ActionDeleteComment, callerID, Resource{Comment: comment, Recipe: recipe}) {
		return apperrors.Permission("not allowed to delete this comment")
	}

	if err := s.db.Delete(comment).Error; err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ToggleHideComment flips a comment's hidden flag and returns the new value.
// Allowed for the comment owner and the recipe owner. The row is retained
// either way.
func (s *InteractionService) ToggleHideComment(callerID uuid.UUID, commentID uuid.UUID) (bool, error) {
	comment, recipe, err := s.loadCommentWithRecipe(commentID)
	if err != nil {
		return false, err
	}

	if !Allowed(ActionHideComment, callerID, Resource{Comment: comment, Recipe: recipe}) {
		return false, apperrors.Permission("not allowed to hide this comment")
	}

	hidden := !comment.Hidden
	if err := s.db.Model(comment).Update("hidden", hidden).Error; err != nil {
		return false, apperrors.Internal(err)
	}
	return hidden, nil
}

func (s *InteractionService) loadCommentWithRecipe(commentID uuid.UUID) (*models.Comment, *models.Recipe, error) {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("comment")
		}
		return nil, nil, apperrors.Internal(err)
	}

	var recipe models.Recipe
	if err := s.db.First(&recipe, "id = ?", comment.RecipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &comment, nil, nil
		}
		return nil, nil, apperrors.Internal(err)
	}
	return &comment, &recipe, nil
}

func (s *InteractionService) recipeExists(recipeID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return apperrors.Internal(err)
	}
	if count == 0 {
		return apperrors.NotFound("recipe")
	}
	return nil
}
