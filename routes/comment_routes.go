package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tessera-app/api-go/controllers"
)

func SetupCommentRoutes(rg *gin.RouterGroup, commentController *controllers.CommentController) {
	comments := rg.Group("/comments")
	{
		comments.GET("/:postId", commentController.GetCommentsByPost)
		comments.POST("", commentController.AddComment)
		comments.PATCH("/:id", commentController.UpdateComment)
		comments.DELETE("/:id", commentController.DeleteComment)
	}
}
