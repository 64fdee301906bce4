package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tessera-app/api-go/controllers"
)

func SetupConnectionRoutes(rg *gin.RouterGroup, connectionController *controllers.ConnectionController) {
	connections := rg.Group("/connections")
	{
		connections.POST("", connectionController.CreateConnection)
		connections.POST("/email", connectionController.CreateConnectionByEmail)
		connections.PUT("", connectionController.UpdateConnection)
		connections.DELETE("", connectionController.DeleteConnection)
		connections.GET("", connectionController.GetConnection)
		connections.GET("/all", connectionController.GetConnections)
	}
}
