package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tessera-app/api-go/controllers"
	"github.com/tessera-app/api-go/middleware"
)

func SetupSelfieRoutes(rg *gin.RouterGroup, selfieController *controllers.SelfieController) {
	selfies := rg.Group("/selfies")
	{
		// Every upload fans out to the matcher service, so cap the rate per caller.
		selfies.POST("/upload",
			middleware.RateLimitMiddleware(5, time.Minute, 2),
			selfieController.UploadSelfie)
		selfies.GET("/status", selfieController.GetSelfieStatus)
	}
}
