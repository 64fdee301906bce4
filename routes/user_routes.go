package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tessera-app/api-go/controllers"
)

func SetupUserRoutes(rg *gin.RouterGroup, userController *controllers.UserController) {
	users := rg.Group("/users")
	{
		users.GET("/:id", userController.GetUserProfile)
		users.PUT("/:id", userController.UpdateUserProfile)
		users.DELETE("/:id", userController.DeleteUserProfile)
	}
}
