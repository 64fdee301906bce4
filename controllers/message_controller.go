package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tessera-app/api-go/models"
	"github.com/tessera-app/api-go/realtime"
	"github.com/tessera-app/api-go/utils"
	"gorm.io/gorm"
)

type MessageController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewMessageController(db *gorm.DB, hub *realtime.Hub) *MessageController {
	return &MessageController{DB: db, Hub: hub}
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required,uuid"`
	Content    string `json:"content" binding:"required,min=1,max=2000"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GetMessages returns the full conversation between the caller and a peer,
// oldest first.
func (mc *MessageController) GetMessages(c *gin.Context) {
	user := utils.GetUser(c)
	peerID := c.Param("peerId")

	messages := []models.Message{}
	if err := mc.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			user.UserID, peerID, peerID, user.UserID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Everything addressed to the caller in this thread is now read.
	if err := mc.DB.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", peerID, user.UserID, false).
		Update("is_read", true).Error; err != nil {
		log.Printf("Error marking messages read: %v", err)
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage persists a direct message and pushes it to the receiver's open
// websockets.
func (mc *MessageController) SendMessage(c *gin.Context) {
	user := utils.GetUser(c)
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := models.Message{
		SenderID:   user.UserID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := mc.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if payload, err := json.Marshal(message); err == nil {
		mc.Hub.Send(req.ReceiverID, payload)
	}

	c.JSON(http.StatusCreated, message)
}

// HandleWS upgrades the connection and keeps it registered for message
// delivery until the client goes away.
func (mc *MessageController) HandleWS(c *gin.Context) {
	user := utils.GetUser(c)

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed for %s: %v", user.UserID, err)
		return
	}

	mc.Hub.Add(user.UserID, conn)
	defer func() {
		mc.Hub.Remove(user.UserID, conn)
		conn.Close()
	}()

	// Delivery is server-to-client only; the read loop just detects closure.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
