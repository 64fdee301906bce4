package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tessera-app/api-go/controllers"
)

func SetupMessageRoutes(rg *gin.RouterGroup, messageController *controllers.MessageController) {
	messages := rg.Group("/messages")
	{
		messages.GET("/ws", messageController.HandleWS)
		messages.GET("/:peerId", messageController.GetMessages)
		messages.POST("", messageController.SendMessage)
	}
}
