package api

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tastestack/backend/internal/apperrors"
	"github.com/tastestack/backend/internal/middleware"
	"github.com/tastestack/backend/internal/service"
)

// maxUploadBytes caps profile picture and recipe image uploads at 5 MiB.
const maxUploadBytes = 5 << 20

// AuthHandler serves the /api/auth endpoints: accounts, sessions, profiles
// and the follow graph.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	fileStore   service.FileStore
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, fileStore service.FileStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		fileStore:   fileStore,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, limiter gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		register := auth.Group("")
		if limiter != nil {
			register.Use(limiter)
		}
		register.POST("/register/", h.Register)
		register.POST("/login/", h.Login)

		auth.GET("/user/", middleware.AuthMiddleware(h.authService), h.GetUser)
		auth.PUT("/user/update/", middleware.AuthMiddleware(h.authService), h.UpdateProfile)
		auth.DELETE("/user/delete/", middleware.AuthMiddleware(h.authService), h.DeleteAccount)
		auth.GET("/dashboard-stats/", middleware.AuthMiddleware(h.authService), h.DashboardStats)
		auth.GET("/profile/:userId/", middleware.OptionalAuthMiddleware(h.authService), h.GetProfile)
		auth.POST("/follow/:userId/", middleware.AuthMiddleware(h.authService), h.ToggleFollow)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, token, err := h.authService.Register(req.Name, req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	user, err := h.authService.GetUser(callerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// profileFields are the only keys accepted by the profile update form.
var profileFields = map[string]bool{
	"name":            true,
	"bio":             true,
	"location":        true,
	"website":         true,
	"profile_picture": true,
}

// UpdateProfile handles the multipart profile update. Unknown form fields are
// rejected rather than ignored so typos and privileged-field attempts fail
// loudly. The picture blob is written before the record so a failed upload
// leaves the profile untouched.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	if form, err := c.MultipartForm(); err == nil {
		details := map[string]string{}
		for key := range form.Value {
			if !profileFields[key] {
				details[key] = "unknown field"
			}
		}
		for key := range form.File {
			if !profileFields[key] {
				details[key] = "unknown field"
			}
		}
		if len(details) > 0 {
			respondError(c, apperrors.Validation("unknown profile fields", details))
			return
		}
	}

	update := service.ProfileUpdate{}
	if v, ok := c.GetPostForm("name"); ok {
		update.Name = &v
	}
	if v, ok := c.GetPostForm("bio"); ok {
		update.Bio = &v
	}
	if v, ok := c.GetPostForm("location"); ok {
		update.Location = &v
	}
	if v, ok := c.GetPostForm("website"); ok {
		update.Website = &v
	}

	if fileHeader, err := c.FormFile("profile_picture"); err == nil {
		if fileHeader.Size > maxUploadBytes {
			respondError(c, apperrors.Validation("file too large", map[string]string{"profile_picture": "file exceeds 5MB"}))
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
		update.ProfilePictureURL = &url
	}

	user, err := h.authService.UpdateProfile(callerID, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	if err := h.authService.DeleteAccount(callerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

func (h *AuthHandler) DashboardStats(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	stats, err := h.userService.DashboardStats(callerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, apperrors.NotFound("user"))
		return
	}

	var viewerID *uuid.UUID
	if id, ok := middleware.CallerID(c); ok {
		viewerID = &id
	}

	profile, err := h.userService.GetProfile(viewerID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) ToggleFollow(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, apperrors.NotFound("user"))
		return
	}

	following, err := h.userService.ToggleFollow(callerID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes))
}
