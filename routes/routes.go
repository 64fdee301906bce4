package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tessera-app/api-go/controllers"
	"github.com/tessera-app/api-go/middleware"
	"github.com/tessera-app/api-go/realtime"
	"github.com/tessera-app/api-go/vibematcher"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, redisClient *redis.Client) {
	// Initialize controllers
	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	connectionController := controllers.NewConnectionController(db)
	selfieController := controllers.NewSelfieController(db, vibematcher.NewClient(), redisClient)
	messageController := controllers.NewMessageController(db, realtime.NewHub())
	uploadController := controllers.NewUploadController(db)

	r.Use(middleware.PrometheusMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Routes resolving the acting user from the token when present, from the
	// request otherwise
	open := r.Group("/api")
	open.Use(middleware.OptionalAuthMiddleware())
	{
		SetupCommentRoutes(open, commentController)
		SetupSelfieRoutes(open, selfieController)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		SetupUserRoutes(protected, userController)
		SetupPostRoutes(protected, postController)
		SetupConnectionRoutes(protected, connectionController)
		SetupMessageRoutes(protected, messageController)
		SetupUploadRoutes(protected, uploadController)
	}
}
