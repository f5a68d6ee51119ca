package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tastestack/backend/internal/apperrors"
	"github.com/tastestack/backend/internal/middleware"
	"github.com/tastestack/backend/internal/service"
)

// InteractionHandler serves the /api/interactions endpoints: likes and
// comments.
type InteractionHandler struct {
	interactionService *service.InteractionService
	authService        *service.AuthService
}

func NewInteractionHandler(interactionService *service.InteractionService, authService *service.AuthService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
		authService:        authService,
	}
}

func (h *InteractionHandler) RegisterRoutes(router *gin.RouterGroup) {
	interactions := router.Group("/interactions")
	{
		interactions.POST("/recipes/:id/like/", middleware.AuthMiddleware(h.authService), h.LikeRecipe)
		interactions.POST("/recipes/:id/unlike/", middleware.AuthMiddleware(h.authService), h.UnlikeRecipe)
		interactions.GET("/recipes/:id/comments/", middleware.OptionalAuthMiddleware(h.authService), h.ListComments)
		interactions.POST("/recipes/:id/comments/", middleware.AuthMiddleware(h.authService), h.AddComment)
		interactions.PUT("/comments/:id/", middleware.AuthMiddleware(h.authService), h.EditComment)
		interactions.DELETE("/comments/:id/", middleware.AuthMiddleware(h.authService), h.DeleteComment)
		interactions.POST("/comments/:id/hide/", middleware.AuthMiddleware(h.authService), h.HideComment)
	}
}

func (h *InteractionHandler) LikeRecipe(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.interactionService.Like(callerID, id); err != nil {
		respondError(c, err)
		return
	}

	count, err := h.interactionService.LikeCount(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": true, "likes_count": count})
}

func (h *InteractionHandler) UnlikeRecipe(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.interactionService.Unlike(callerID, id); err != nil {
		respondError(c, err)
		return
	}

	count, err := h.interactionService.LikeCount(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": false, "likes_count": count})
}

func (h *InteractionHandler) ListComments(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	comments, err := h.interactionService.ListComments(viewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *InteractionHandler) AddComment(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.interactionService.AddComment(callerID, id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *InteractionHandler) EditComment(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	id, ok := commentID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.interactionService.EditComment(callerID, id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *InteractionHandler) DeleteComment(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	id, ok := commentID(c)
	if !ok {
		return
	}

	if err := h.interactionService.DeleteComment(callerID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *InteractionHandler) HideComment(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	id, ok := commentID(c)
	if !ok {
		return
	}

	hidden, err := h.interactionService.ToggleHideComment(callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hidden": hidden})
}

func commentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NotFound("comment"))
		return uuid.Nil, false
	}
	return id, true
}
