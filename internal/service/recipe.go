package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tastestack/backend/internal/apperrors"
	"github.com/tastestack/backend/internal/models"
)

// PageSize is the fixed listing page size.
const PageSize = 12

// maxTimeMinutes caps prep and cook time at one day.
const maxTimeMinutes = 1440

// RecipeService handles recipe CRUD, listing and aggregation. Aggregates
// (average rating, like count) are never stored; they are computed from the
// interaction tables on every read.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// AuthorSummary is the public slice of a recipe author.
type AuthorSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RecipeDetail is a recipe with computed aggregates and, for authenticated
// viewers, their own rating and like state. The per-caller fields are nil
// for anonymous viewers and must never be shared across callers.
type RecipeDetail struct {
	models.Recipe
	Author        AuthorSummary `json:"author"`
	AverageRating float64       `json:"average_rating"`
	LikesCount    int64         `json:"likes_count"`
	UserRating    *int          `json:"user_rating"`
	UserHasLiked  *bool         `json:"user_has_liked"`
}

// RecipeInput carries the fields for creating a recipe.
type RecipeInput struct {
	Title        string
	Description  string
	Ingredients  []string
	Instructions []string
	PrepTime     int
	CookTime     int
	Servings     int
	Difficulty   string
	Categories   []string
}

// RecipeUpdate carries a partial update; nil fields are left untouched.
type RecipeUpdate struct {
	Title        *string
	Description  *string
	Ingredients  *[]string
	Instructions *[]string
	PrepTime     *int
	CookTime     *int
	Servings     *int
	Difficulty   *string
	Categories   *[]string
}

// RecipeFilters narrows a listing.
type RecipeFilters struct {
	Query      string
	Category   string
	Difficulty string
	MaxTime    *int
	Author     string
	MinRating  *float64
	Page       int
}

// RecipePage is one page of listing results.
type RecipePage struct {
	Results    []*RecipeDetail `json:"results"`
	Count      int64           `json:"count"`
	TotalPages int             `json:"total_pages"`
	Next       *int            `json:"next"`
	Previous   *int            `json:"previous"`
}

// PlatformStats are the site-wide counters, computed on demand.
type PlatformStats struct {
	TotalRecipes  int64   `json:"total_recipes"`
	TotalUsers    int64   `json:"total_users"`
	TotalLikes    int64   `json:"total_likes"`
	TotalComments int64   `json:"total_comments"`
	AverageRating float64 `json:"average_rating"`
}

// Create validates and persists a new recipe owned by authorID.
func (s *RecipeService) Create(authorID uuid.UUID, input RecipeInput) (*RecipeDetail, error) {
	if input.Difficulty == "" {
		input.Difficulty = models.DifficultyEasy
	}
	if details := validateRecipe(input); len(details) > 0 {
		return nil, apperrors.Validation("invalid recipe data", details)
	}

	recipe := models.Recipe{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Ingredients:  trimmedList(input.Ingredients),
		Instructions: trimmedList(input.Instructions),
		PrepTime:     input.PrepTime,
		CookTime:     input.CookTime,
		Servings:     input.Servings,
		Difficulty:   input.Difficulty,
		Categories:   models.StringList(input.Categories),
		AuthorID:     authorID,
	}

	if err := s.db.Create(&recipe).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return s.Get(&authorID, recipe.ID)
}

// Get returns a recipe with aggregates. viewerID may be nil for anonymous
// callers; their per-caller fields stay nil.
func (s *RecipeService) Get(viewerID *uuid.UUID, id uuid.UUID) (*RecipeDetail, error) {
	var recipe models.Recipe
	if err := s.db.Preload("Author").First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("recipe")
		}
		return nil, apperrors.Internal(err)
	}
	return s.detail(viewerID, &recipe)
}

// Update applies a partial update. Existence is checked before ownership so
// a missing recipe reads as not-found, not permission-denied.
func (s *RecipeService) Update(callerID uuid.UUID, id uuid.UUID, update RecipeUpdate) (*RecipeDetail, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("recipe")
		}
		return nil, apperrors.Internal(err)
	}

	if !Allowed(ActionUpdateRecipe, callerID, Resource{Recipe: &recipe}) {
		return nil, apperrors.Permission("only the recipe owner can update it")
	}

	merged := RecipeInput{
		Title:        recipe.Title,
		Description:  recipe.Description,
		Ingredients:  recipe.Ingredients,
		Instructions: recipe.Instructions,
		PrepTime:     recipe.PrepTime,
		CookTime:     recipe.CookTime,
		Servings:     recipe.Servings,
		Difficulty:   recipe.Difficulty,
		Categories:   recipe.Categories,
	}
	updates := map[string]interface{}{}
	if update.Title != nil {
		merged.Title = *update.Title
		updates["title"] = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		merged.Description = *update.Description
		updates["description"] = *update.Description
	}
	if update.Ingredients != nil {
		merged.Ingredients = *update.Ingredients
		updates["ingredients"] = models.StringList(trimmedList(*update.Ingredients))
	}
	if update.Instructions != nil {
		merged.Instructions = *update.Instructions
		updates["instructions"] = models.StringList(trimmedList(*update.Instructions))
	}
	if update.PrepTime != nil {
		merged.PrepTime = *update.PrepTime
		updates["prep_time"] = *update.PrepTime
	}
	if update.CookTime != nil {
		merged.CookTime = *update.CookTime
		updates["cook_time"] = *update.CookTime
	}
	if update.Servings != nil {
		merged.Servings = *update.Servings
		updates["servings"] = *update.Servings
	}
	if update.Difficulty != nil {
		merged.Difficulty = *update.Difficulty
		updates["difficulty"] = *update.Difficulty
	}
	if update.Categories != nil {
		merged.Categories = *update.Categories
		updates["categories"] = models.StringList(*update.Categories)
	}

	if details := validateRecipe(merged); len(details) > 0 {
		return nil, apperrors.Validation("invalid recipe data", details)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&recipe).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	return s.Get(&callerID, id)
}

// Delete removes a recipe and cascades its ratings, likes and comments in
// one transaction.
func (s *RecipeService) Delete(callerID uuid.UUID, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("recipe")
		}
		return apperrors.Internal(err)
	}

	if !Allowed(ActionDeleteRecipe, callerID, Resource{Recipe: &recipe}) {
		return apperrors.Permission("only the recipe owner can delete it")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// SetImage stores the uploaded image URL on the recipe (owner only). The
// blob is written by the caller before this record update, so a failed blob
// write never leaves a dangling reference.
func (s *RecipeService) SetImage(callerID uuid.UUID, id uuid.UUID, url string) (*RecipeDetail, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("recipe")
		}
		return nil, apperrors.Internal(err)
	}
	if !Allowed(ActionUpdateRecipe, callerID, Resource{Recipe: &recipe}) {
		return nil, apperrors.Permission("only the recipe owner can update it")
	}
	if err := s.db.Model(&recipe).Update("image_url", url).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.Get(&callerID, id)
}

// List returns one page of recipes matching the filters, newest first.
func (s *RecipeService) List(viewerID *uuid.UUID, filters RecipeFilters) (*RecipePage, error) {
	query := s.db.Model(&models.Recipe{})

	if q := strings.TrimSpace(filters.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		if s.db.Dialector.Name() == "postgres" {
			query = query.Where(
				"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients::text) LIKE ?",
				like, like, like,
			)
		} else {
			query = query.Where(
				"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ?",
				like, like, like,
			)
		}
	}

	if cat := strings.TrimSpace(filters.Category); cat != "" {
		// Categories are stored as a JSON array; match the quoted tag so
		// "Lunch" does not match "Brunch".
		like := `%"` + strings.ToLower(cat) + `"%`
		if s.db.Dialector.Name() == "postgres" {
			query = query.Where("LOWER(categories::text) LIKE ?", like)
		} else {
			query = query.Where("LOWER(categories) LIKE ?", like)
		}
	}

	if d := strings.TrimSpace(filters.Difficulty); d != "" {
		query = query.Where("difficulty = ?", d)
	}

	if filters.MaxTime != nil {
		query = query.Where("prep_time + cook_time <= ?", *filters.MaxTime)
	}

	if author := strings.TrimSpace(filters.Author); author != "" {
		like := "%" + strings.ToLower(author) + "%"
		query = query.Joins("JOIN users ON users.id = recipes.author_id").
			Where("LOWER(users.name) LIKE ?", like)
	}

	if filters.MinRating != nil {
		query = query.Where(
			"(SELECT COALESCE(AVG(score), 0) FROM ratings WHERE ratings.recipe_id = recipes.id) >= ?",
			*filters.MinRating,
		)
	}

	return s.paginate(viewerID, query, filters.Page)
}

// ListByAuthor returns one page of a single author's recipes, newest first.
func (s *RecipeService) ListByAuthor(viewerID *uuid.UUID, authorID uuid.UUID, page int) (*RecipePage, error) {
	query := s.db.Model(&models.Recipe{}).Where("author_id = ?", authorID)
	return s.paginate(viewerID, query, page)
}

// Statistics computes the platform-wide counters.
func (s *RecipeService) Statistics() (*PlatformStats, error) {
	stats := &PlatformStats{}
	if err := s.db.Model(&models.Recipe{}).Count(&stats.TotalRecipes).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.db.Model(&models.Like{}).Count(&stats.TotalLikes).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.db.Model(&models.Comment{}).Count(&stats.TotalComments).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0)").Scan(&stats.AverageRating).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return stats, nil
}

func (s *RecipeService) paginate(viewerID *uuid.UUID, query *gorm.DB, page int) (*RecipePage, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	totalPages := int((total + PageSize - 1) / PageSize)

	var recipes []models.Recipe
	if err := query.
		Preload("Author").
		Order("recipes.created_at DESC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&recipes).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	results := make([]*RecipeDetail, 0, len(recipes))
	for i := range recipes {
		detail, err := s.detail(viewerID, &recipes[i])
		if err != nil {
			return nil, err
		}
		results = append(results, detail)
	}

	resultPage := &RecipePage{
		Results:    results,
		Count:      total,
		TotalPages: totalPages,
	}
	if page > 1 && page <= totalPages {
		prev := page - 1
		resultPage.Previous = &prev
	}
	if page < totalPages {
		next := page + 1
		resultPage.Next = &next
	}
	return resultPage, nil
}

// detail attaches aggregates and per-caller state to a loaded recipe.
func (s *RecipeService) detail(viewerID *uuid.UUID, recipe *models.Recipe) (*RecipeDetail, error) {
	detail := &RecipeDetail{Recipe: *recipe}
	if recipe.Author != nil {
		detail.Author = AuthorSummary{ID: recipe.Author.ID, Name: recipe.Author.Name}
	} else {
		detail.Author = AuthorSummary{ID: recipe.AuthorID}
	}

	if err := s.db.Model(&models.Rating{}).
		Where("recipe_id = ?", recipe.ID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&detail.AverageRating).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.db.Model(&models.Like{}).
		Where("recipe_id = ?", recipe.ID).
		Count(&detail.LikesCount).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	if viewerID != nil {
		var rating models.Rating
		err := s.db.Where("recipe_id = ? AND user_id = ?", recipe.ID, *viewerID).First(&rating).Error
		switch {
		case err == nil:
			detail.UserRating = &rating.Score
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperrors.Internal(err)
		}

		var likeCount int64
		if err := s.db.Model(&models.Like{}).
			Where("recipe_id = ? AND user_id = ?", recipe.ID, *viewerID).
			Count(&likeCount).Error; err != nil {
			return nil, apperrors.Internal(err)
		}
		liked := likeCount > 0
		detail.UserHasLiked = &liked
	}

	return detail, nil
}

func validateRecipe(input RecipeInput) map[string]string {
	details := map[string]string{}

	if len(strings.TrimSpace(input.Title)) < 3 {
		details["title"] = "title must be at least 3 characters"
	}
	if input.PrepTime < 0 || input.PrepTime > maxTimeMinutes {
		details["prep_time"] = fmt.Sprintf("prep_time must be between 0 and %d minutes", maxTimeMinutes)
	}
	if input.CookTime < 0 || input.CookTime > maxTimeMinutes {
		details["cook_time"] = fmt.Sprintf("cook_time must be between 0 and %d minutes", maxTimeMinutes)
	}
	if input.Servings < 0 {
		details["servings"] = "servings cannot be negative"
	}
	switch input.Difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		details["difficulty"] = "difficulty must be Easy, Medium or Hard"
	}
	if len(trimmedList(input.Ingredients)) == 0 {
		details["ingredients"] = "at least one ingredient is required"
	}
	if len(trimmedList(input.Instructions)) == 0 {
		details["instructions"] = "at least one instruction is required"
	}
	for _, cat := range input.Categories {
		if !validCategory(cat) {
			details["categories"] = fmt.Sprintf("unknown category %q", cat)
			break
		}
	}

	return details
}

func validCategory(cat string) bool {
	for _, known := range models.Categories {
		if cat == known {
			return true
		}
	}
	return false
}

func trimmedList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
