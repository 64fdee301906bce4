package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tessera-app/api-go/controllers"
)

func SetupUploadRoutes(rg *gin.RouterGroup, uploadController *controllers.UploadController) {
	media := rg.Group("/post-media")
	{
		media.POST("/presign", uploadController.GetPresignedURL)
		media.POST("/confirm", uploadController.ConfirmUpload)
		// Keys contain slashes (uploads/{type}/{user}/...), so match the rest
		// of the path.
		media.DELETE("/file/*key", uploadController.DeleteFile)
	}
}
