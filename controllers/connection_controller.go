package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tessera-app/api-go/models"
	"github.com/tessera-app/api-go/utils"
	"gorm.io/gorm"
)

type ConnectionController struct {
	DB *gorm.DB
}

func NewConnectionController(db *gorm.DB) *ConnectionController {
	return &ConnectionController{DB: db}
}

type CreateConnectionRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type CreateConnectionByEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdateConnectionRequest struct {
	ConnectionID int64  `json:"connection_id" binding:"required"`
	Status       string `json:"status" binding:"required,oneof=accepted rejected"`
}

func (cc *ConnectionController) findPair(userA, userB string) (*models.Connection, error) {
	var connection models.Connection
	err := cc.DB.
		Where("(user_1 = ? AND user_2 = ?) OR (user_1 = ? AND user_2 = ?)",
			userA, userB, userB, userA).
		First(&connection).Error
	if err != nil {
		return nil, err
	}
	return &connection, nil
}

// CreateConnection godoc
// @Summary Request a connection with another user
// @Tags connections
// @Accept json
// @Produce json
// @Param connection body CreateConnectionRequest true "Target user"
// @Success 201 {object} models.Connection
// @Router /connections [post]
func (cc *ConnectionController) CreateConnection(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.UserID == user.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot connect with yourself"})
		return
	}

	if existing, err := cc.findPair(user.UserID, req.UserID); err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Connection already exists",
			"connection": existing,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	connection := models.Connection{
		User1:  user.UserID,
		User2:  req.UserID,
		Status: models.ConnectionStatusPending,
	}
	if err := cc.DB.Create(&connection).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, connection)
}

// CreateConnectionByEmail looks the target up by email and creates a pending
// invite connection.
func (cc *ConnectionController) CreateConnectionByEmail(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateConnectionByEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var target models.Profile
	if err := cc.DB.First(&target, "email = ?", req.Email).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found with that email"})
		return
	}

	if target.ID == user.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot connect with yourself"})
		return
	}

	if existing, err := cc.findPair(user.UserID, target.ID); err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Connection already exists",
			"connection": existing,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	connection := models.Connection{
		User1:          user.UserID,
		User2:          target.ID,
		Status:         models.ConnectionStatusPending,
		ConnectionType: models.ConnectionTypeEmailInvite,
	}
	if err := cc.DB.Create(&connection).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, connection)
}

// UpdateConnection transitions a pending connection to accepted or rejected.
// Either party may transition.
func (cc *ConnectionController) UpdateConnection(c *gin.Context) {
	user := utils.GetUser(c)
	var req UpdateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var connection models.Connection
	if err := cc.DB.First(&connection, req.ConnectionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Connection not found"})
		return
	}

	if !connection.Involves(user.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this connection"})
		return
	}

	if err := cc.DB.Model(&connection).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, connection)
}

// DeleteConnection removes a connection. Either party may delete.
func (cc *ConnectionController) DeleteConnection(c *gin.Context) {
	user := utils.GetUser(c)
	var req struct {
		ConnectionID int64 `json:"connection_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var connection models.Connection
	if err := cc.DB.First(&connection, req.ConnectionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Connection not found"})
		return
	}

	if !connection.Involves(user.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this connection"})
		return
	}

	if err := cc.DB.Delete(&connection).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "Connection deleted successfully",
	})
}

// GetConnection returns the connection between the caller and one peer.
func (cc *ConnectionController) GetConnection(c *gin.Context) {
	user := utils.GetUser(c)
	peerID := c.Query("peer_id")
	if peerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "peer_id query is required"})
		return
	}

	connection, err := cc.findPair(user.UserID, peerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Connection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, connection)
}

// GetConnections lists all of the caller's connections, optionally filtered
// by status.
func (cc *ConnectionController) GetConnections(c *gin.Context) {
	user := utils.GetUser(c)

	query := cc.DB.Where("user_1 = ? OR user_2 = ?", user.UserID, user.UserID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	connections := []models.Connection{}
	if err := query.Order("created_at DESC").Find(&connections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, connections)
}
