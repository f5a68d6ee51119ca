package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tastestack/backend/internal/apperrors"
	"github.com/tastestack/backend/internal/middleware"
	"github.com/tastestack/backend/internal/service"
)

// RecipeHandler serves the /api/recipes endpoints.
type RecipeHandler struct {
	recipeService      *service.RecipeService
	interactionService *service.InteractionService
	authService        *service.AuthService
	fileStore          service.FileStore
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	interactionService *service.InteractionService,
	authService *service.AuthService,
	fileStore service.FileStore,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:      recipeService,
		interactionService: interactionService,
		authService:        authService,
		fileStore:          fileStore,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/", middleware.OptionalAuthMiddleware(h.authService), h.ListRecipes)
		recipes.GET("/search/", middleware.OptionalAuthMiddleware(h.authService), h.ListRecipes)
		recipes.GET("/statistics/", h.Statistics)
		recipes.GET("/my-recipes/", middleware.AuthMiddleware(h.authService), h.MyRecipes)
		recipes.GET("/:id/", middleware.OptionalAuthMiddleware(h.authService), h.GetRecipe)
		recipes.POST("/", middleware.AuthMiddleware(h.authService), h.CreateRecipe)
		recipes.PUT("/:id/", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id/", middleware.AuthMiddleware(h.authService), h.DeleteRecipe)
		recipes.POST("/:id/rate/", middleware.AuthMiddleware(h.authService), h.RateRecipe)
		recipes.POST("/:id/image/", middleware.AuthMiddleware(h.authService), h.UploadImage)
	}
}

// ListRecipes serves both the main listing and /search/; the filter set is
// identical.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}

	filters := service.RecipeFilters{
		Query:      c.Query("q"),
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		Author:     c.Query("author"),
		Page:       page,
	}

	if v := c.Query("max_time"); v != "" {
		maxTime, err := strconv.Atoi(v)
		if err != nil {
			respondError(c, apperrors.Validation("invalid filter", map[string]string{"max_time": "must be an integer"}))
			return
		}
		filters.MaxTime = &maxTime
	}
	if v := c.Query("min_rating"); v != "" {
		minRating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(c, apperrors.Validation("invalid filter", map[string]string{"min_rating": "must be a number"}))
			return
		}
		filters.MinRating = &minRating
	}

	result, err := h.recipeService.List(viewerID(c), filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	page, ok := pageParam(c)
	if !ok {
		return
	}

	result, err := h.recipeService.ListByAuthor(&callerID, callerID, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) Statistics(c *gin.Context) {
	stats, err := h.recipeService.Statistics()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	detail, err := h.recipeService.Get(viewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	detail, err := h.recipeService.Create(callerID, service.RecipeInput{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Difficulty:   req.Difficulty,
		Categories:   req.Categories,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, detail)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	detail, err := h.recipeService.Update(callerID, id, service.RecipeUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Difficulty:   req.Difficulty,
		Categories:   req.Categories,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.recipeService.Delete(callerID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	average, err := h.interactionService.Rate(callerID, id, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"average_rating": average,
		"user_rating":    req.Rating,
	})
}

// UploadImage stores a recipe image. The blob write happens first; only
// after it succeeds is the recipe record updated.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	id, ok := recipeID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, apperrors.Validation("invalid upload", map[string]string{"image": "image file is required"}))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respondError(c, apperrors.Validation("file too large", map[string]string{"image": "file exceeds 5MB"}))
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}
	url, err := h.fileStore.Save(c.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}

	detail, err := h.recipeService.SetImage(callerID, id, url)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NotFound("recipe"))
		return uuid.Nil, false
	}
	return id, true
}

func viewerID(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.CallerID(c); ok {
		return &id
	}
	return nil
}

// pageParam parses the page query parameter. Malformed values are a client
// error, consistent with max_time and min_rating.
func pageParam(c *gin.Context) (int, bool) {
	v := c.Query("page")
	if v == "" {
		return 1, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		respondError(c, apperrors.Validation("invalid filter", map[string]string{"page": "must be a positive integer"}))
		return 0, false
	}
	return n, true
}
