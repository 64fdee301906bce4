package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tessera-app/api-go/models"
	"github.com/tessera-app/api-go/utils"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

type UpdateProfileRequest struct {
	FullName        *string `json:"full_name"`
	AvatarURL       *string `json:"avatar_url"`
	Bio             *string `json:"bio"`
	IsActive        *bool   `json:"is_active"`
	ProfileComplete *bool   `json:"profile_complete"`
}

// GetUserProfile godoc
// @Summary Get a user's public profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.Profile
// @Router /users/{id} [get]
func (uc *UserController) GetUserProfile(c *gin.Context) {
	var profile models.Profile
	if err := uc.DB.First(&profile, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateUserProfile updates the caller's own profile fields.
func (uc *UserController) UpdateUserProfile(c *gin.Context) {
	user := utils.GetUser(c)
	userID := c.Param("id")

	if user.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own profile"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	if err := uc.DB.First(&profile, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.ProfileComplete != nil {
		updates["profile_complete"] = *req.ProfileComplete
	}

	if len(updates) > 0 {
		if err := uc.DB.Model(&profile).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteUserProfile removes the caller's own profile.
func (uc *UserController) DeleteUserProfile(c *gin.Context) {
	user := utils.GetUser(c)
	userID := c.Param("id")

	if user.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own profile"})
		return
	}

	if err := uc.DB.Delete(&models.Profile{}, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "User data deleted successfully",
	})
}
