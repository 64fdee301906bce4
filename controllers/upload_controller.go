package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tessera-app/api-go/config"
	"github.com/tessera-app/api-go/models"
	"github.com/tessera-app/api-go/utils"
	"gorm.io/gorm"
)

type UploadController struct {
	DB       *gorm.DB
	R2Client *s3.Client
	R2Config *config.R2Config
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
	MediaType   string `json:"mediaType" binding:"required,oneof=image video avatar"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

type ConfirmUploadRequest struct {
	Key       string `json:"key" binding:"required"`
	PostID    int64  `json:"postId" binding:"required"`
	MediaType string `json:"mediaType" binding:"required,oneof=image video"`
	Position  int    `json:"position"`
}

func NewUploadController(db *gorm.DB) *UploadController {
	r2Config := config.GetR2Config()

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &UploadController{
		DB:       db,
		R2Client: r2Client,
		R2Config: r2Config,
	}
}

// GetPresignedURL godoc
// @Summary Get a presigned URL for a media upload
// @Description The browser uploads directly to blob storage; the API only signs the request
// @Tags post-media
// @Accept json
// @Produce json
// @Param upload body PresignedURLRequest true "Upload request"
// @Success 200 {object} PresignedURLResponse
// @Router /post-media/presign [post]
func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	user := utils.GetUser(c)
	var req PresignedURLRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !uc.isValidFileType(req.ContentType, req.MediaType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type for media type"})
		return
	}

	if !uc.isValidFileSize(req.FileSize, req.MediaType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds limit"})
		return
	}

	key := uc.generateFileKey(user.UserID, req.FileName, req.MediaType)

	presignedURL, err := uc.createPresignedURL(key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: presignedURL,
			FileURL:   fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key),
			Key:       key,
			ExpiresIn: 3600,
		},
		Message: "Presigned URL generated successfully",
	})
}

// ConfirmUpload verifies the object landed in storage and records it as post
// media.
func (uc *UploadController) ConfirmUpload(c *gin.Context) {
	user := utils.GetUser(c)
	var req ConfirmUploadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !uc.verifyFileOwnership(req.Key, user.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	exists, err := uc.verifyFileExists(req.Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify file upload"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found in storage"})
		return
	}

	var post models.Post
	if err := uc.DB.First(&post, req.PostID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if post.UserID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only attach media to your own posts"})
		return
	}

	media := models.PostMedia{
		PostID:    req.PostID,
		MediaURL:  fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, req.Key),
		MediaType: req.MediaType,
		Position:  req.Position,
	}
	if err := uc.DB.Create(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record post media"})
		return
	}

	c.JSON(http.StatusCreated, media)
}

// DeleteFile removes an uploaded object and any post-media rows pointing at it.
func (uc *UploadController) DeleteFile(c *gin.Context) {
	user := utils.GetUser(c)
	key := strings.TrimPrefix(c.Param("key"), "/")

	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File key is required"})
		return
	}

	if !uc.verifyFileOwnership(key, user.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if err := uc.deleteFile(key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	fileURL := fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key)
	uc.DB.Where("media_url = ?", fileURL).Delete(&models.PostMedia{})

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "File deleted successfully",
	})
}

func (uc *UploadController) generateFileKey(userID, fileName, mediaType string) string {
	ext := filepath.Ext(fileName)
	id := uuid.New().String()
	timestamp := time.Now().Unix()

	return fmt.Sprintf("uploads/%s/%s/%d_%s%s", mediaType, userID, timestamp, id, ext)
}

func (uc *UploadController) createPresignedURL(key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.R2Client)
	req, err := presigner.PresignPutObject(context.TODO(), input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})

	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (uc *UploadController) verifyFileExists(key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}

	_, err := uc.R2Client.HeadObject(context.TODO(), input)
	if err != nil {
		return false, nil
	}

	return true, nil
}

func (uc *UploadController) deleteFile(key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}

	_, err := uc.R2Client.DeleteObject(context.TODO(), input)
	return err
}

// verifyFileOwnership extracts the owner from the key format
// uploads/{mediaType}/{userID}/{timestamp}_{uuid}.{ext}.
func (uc *UploadController) verifyFileOwnership(key, userID string) bool {
	parts := strings.Split(key, "/")
	if len(parts) < 3 {
		return false
	}

	return parts[2] == userID
}

func (uc *UploadController) isValidFileType(contentType, mediaType string) bool {
	imageTypes := []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}
	videoTypes := []string{"video/mp4", "video/quicktime", "video/webm"}

	var validTypes []string
	switch mediaType {
	case "image", "avatar":
		validTypes = imageTypes
	case "video":
		validTypes = videoTypes
	default:
		return false
	}

	for _, t := range validTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

func (uc *UploadController) isValidFileSize(fileSize int64, mediaType string) bool {
	const (
		maxImageSize  = 10 * 1024 * 1024  // 10 MB
		maxVideoSize  = 100 * 1024 * 1024 // 100 MB
		maxAvatarSize = 5 * 1024 * 1024   // 5 MB
	)

	switch mediaType {
	case "image":
		return fileSize > 0 && fileSize <= maxImageSize
	case "video":
		return fileSize > 0 && fileSize <= maxVideoSize
	case "avatar":
		return fileSize > 0 && fileSize <= maxAvatarSize
	}
	return false
}
