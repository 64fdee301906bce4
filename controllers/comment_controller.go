package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tessera-app/api-go/models"
	"github.com/tessera-app/api-go/utils"
	"gorm.io/gorm"
)

type CommentController struct {
	DB *gorm.DB
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{DB: db}
}

type CreateCommentRequest struct {
	PostID          int64  `json:"post_id" binding:"required"`
	UserID          string `json:"user_id"`
	Content         string `json:"content" binding:"required,min=1,max=500"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=500"`
}

// buildCommentTree nests a flat, chronologically ordered slice of comments
// into reply trees. Comments without a parent become roots in input order;
// every other comment is appended to its parent's Replies, also in input
// order. A comment whose parent id is not in the slice is dropped entirely.
func buildCommentTree(comments []*models.Comment) []*models.Comment {
	byID := make(map[int64]*models.Comment, len(comments))
	for _, comment := range comments {
		comment.Replies = []*models.Comment{}
		byID[comment.ID] = comment
	}

	roots := make([]*models.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.ParentCommentID == nil {
			roots = append(roots, comment)
			continue
		}
		parent, ok := byID[*comment.ParentCommentID]
		if !ok {
			// Orphaned reply: neither a root nor attached anywhere.
			continue
		}
		parent.Replies = append(parent.Replies, comment)
	}

	return roots
}

// GetCommentsByPost godoc
// @Summary Get nested comments for a post
// @Description Returns the post's comments as reply trees, roots in chronological order
// @Tags comments
// @Produce json
// @Param postId path integer true "Post ID"
// @Success 200 {array} models.Comment
// @Router /comments/{postId} [get]
func (cc *CommentController) GetCommentsByPost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "postId must be a number"})
		return
	}

	var comments []*models.Comment
	if err := cc.DB.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, buildCommentTree(comments))
}

// AddComment godoc
// @Summary Create a comment or reply
// @Tags comments
// @Accept json
// @Produce json
// @Param comment body CreateCommentRequest true "Comment creation request"
// @Success 201 {object} models.Comment
// @Router /comments [post]
func (cc *CommentController) AddComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := utils.ResolveUserID(c, req.UserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
		return
	}

	comment := models.Comment{
		PostID:          req.PostID,
		UserID:          userID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	}

	if err := cc.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	comment.Replies = []*models.Comment{}

	c.JSON(http.StatusCreated, comment)
}

// UpdateComment edits a comment's content. Only the author may edit, and only
// the content field is writable.
func (cc *CommentController) UpdateComment(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number"})
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var comment models.Comment
	if err := cc.DB.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	userID := utils.ResolveUserID(c, c.Query("user_id"))
	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own comments"})
		return
	}

	if err := cc.DB.Model(&comment).Update("content", req.Content).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment. Only the author may delete.
func (cc *CommentController) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number"})
		return
	}

	var body struct {
		UserID string `json:"user_id"`
	}
	_ = c.ShouldBindJSON(&body)

	var comment models.Comment
	if err := cc.DB.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	userID := utils.ResolveUserID(c, body.UserID)
	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	if err := cc.DB.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "Comment deleted successfully",
	})
}
