package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tessera-app/api-go/controllers"
)

func SetupPostRoutes(rg *gin.RouterGroup, postController *controllers.PostController) {
	posts := rg.Group("/posts")
	{
		posts.POST("", postController.CreatePost)
		posts.GET("", postController.GetPosts)
		posts.GET("/:id", postController.GetPost)
		posts.PUT("/:id", postController.UpdatePost)
		posts.DELETE("/:id", postController.DeletePost)
	}
}
