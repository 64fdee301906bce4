package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/tessera-app/api-go/middleware"
	"github.com/tessera-app/api-go/models"
	"github.com/tessera-app/api-go/utils"
	"github.com/tessera-app/api-go/vibematcher"
	"gorm.io/gorm"
)

const recentMatchesCacheTTL = 30 * time.Second

type SelfieController struct {
	DB      *gorm.DB
	Matcher *vibematcher.Client
	Redis   *redis.Client // optional; nil disables the status cache
}

func NewSelfieController(db *gorm.DB, matcher *vibematcher.Client, redisClient *redis.Client) *SelfieController {
	return &SelfieController{
		DB:      db,
		Matcher: matcher,
		Redis:   redisClient,
	}
}

// ConnectionResult is the connection half of a successful match response.
type ConnectionResult struct {
	ID              int64       `json:"id"`
	MatchedUser     interface{} `json:"matchedUser"`
	SimilarityScore float64     `json:"similarityScore"`
}

// UploadSelfie godoc
// @Summary Upload a selfie for vibe matching
// @Description Forwards the selfie to the matcher service and, on a match, reconciles a connection
// @Tags selfies
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /selfies/upload [post]
func (sc *SelfieController) UploadSelfie(c *gin.Context) {
	start := time.Now()

	userID := utils.ResolveUserID(c, c.PostForm("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User ID is required"})
		return
	}

	fileHeader, err := c.FormFile("selfie")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No selfie uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to read selfie"})
		return
	}
	defer file.Close()

	log.Printf("Processing selfie upload for user %s (%d bytes)", userID, fileHeader.Size)

	result, err := sc.Matcher.ProcessSelfie(
		file,
		fileHeader.Header.Get("Content-Type"),
		userID,
		c.PostForm("latitude"),
		c.PostForm("longitude"),
	)
	if err != nil {
		log.Printf("Error processing selfie: %v", err)
		middleware.RecordSelfieUpload("error", time.Since(start))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to process selfie",
			"details": err.Error(),
		})
		return
	}

	if !result.MatchFound {
		// No match: the candidate stays pending on the matcher side and no
		// rows are touched here.
		middleware.RecordSelfieUpload("no_match", time.Since(start))
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"matchFound": false,
		})
		return
	}

	connection, err := sc.reconcileMatch(userID, result)
	if err != nil {
		log.Printf("Error reconciling match for user %s: %v", userID, err)
		middleware.RecordSelfieUpload("error", time.Since(start))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	middleware.RecordSelfieUpload("match", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"matchFound": true,
		"connection": connection,
	})
}

// reconcileMatch turns a confirmed matcher verdict into exactly one connection
// row for the pair and consumes both users' pending selfie candidates.
//
// A failed connection insert aborts the whole operation before any candidate
// is consumed. The candidate update and the profile enrichment are
// best-effort: their failures are logged, never surfaced. The two steps are
// not transactional; a crash in between leaves a re-triggerable partial state.
func (sc *SelfieController) reconcileMatch(userID string, result *vibematcher.MatchResult) (*ConnectionResult, error) {
	if result.MatchedUserID == "" {
		return nil, errors.New("incomplete match data from vibe matcher service")
	}

	log.Printf("Match found between %s and %s with score %v", userID, result.MatchedUserID, result.Score())

	var connectionID int64

	var existing models.Connection
	err := sc.DB.
		Where("(user_1 = ? AND user_2 = ?) OR (user_1 = ? AND user_2 = ?)",
			userID, result.MatchedUserID, result.MatchedUserID, userID).
		First(&existing).Error

	switch {
	case err == nil:
		connectionID = existing.ID
		log.Printf("Using existing connection %d", connectionID)
	default:
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// A real lookup failure, not a miss. Treated like a miss: log it
			// and attempt the insert.
			log.Printf("Error checking for existing connection: %v", err)
		}

		connection := models.Connection{
			User1:           userID,
			User2:           result.MatchedUserID,
			Status:          models.ConnectionStatusPending,
			ConnectionType:  models.ConnectionTypeVibeMatch,
			SimilarityScore: result.SimilarityScore,
		}
		if err := sc.DB.Create(&connection).Error; err != nil {
			return nil, fmt.Errorf("failed to create connection: %w", err)
		}
		connectionID = connection.ID
		log.Printf("Created new connection %d", connectionID)
	}

	if err := sc.DB.Model(&models.SelfieCandidate{}).
		Where("user_id IN ? AND status = ?", []string{userID, result.MatchedUserID}, models.SelfieStatusPending).
		Update("status", models.SelfieStatusMatched).Error; err != nil {
		log.Printf("Error updating selfie candidates to matched: %v", err)
	}

	sc.invalidateRecentMatches(userID, result.MatchedUserID)

	matchedUser := interface{}(gin.H{"id": result.MatchedUserID})
	var profile models.Profile
	if err := sc.DB.Select("id", "full_name", "avatar_url").
		First(&profile, "id = ?", result.MatchedUserID).Error; err != nil {
		log.Printf("Error fetching matched user profile: %v", err)
	} else {
		matchedUser = gin.H{
			"id":         profile.ID,
			"full_name":  profile.FullName,
			"avatar_url": profile.AvatarURL,
		}
	}

	return &ConnectionResult{
		ID:              connectionID,
		MatchedUser:     matchedUser,
		SimilarityScore: result.Score(),
	}, nil
}

// GetSelfieStatus godoc
// @Summary Poll own pending/match state
// @Tags selfies
// @Produce json
// @Param user_id query string false "User ID fallback when unauthenticated"
// @Success 200 {object} map[string]interface{}
// @Router /selfies/status [get]
func (sc *SelfieController) GetSelfieStatus(c *gin.Context) {
	userID := utils.ResolveUserID(c, c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User ID is required"})
		return
	}

	var lastSelfie models.SelfieCandidate
	hasSelfie := true
	if err := sc.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&lastSelfie).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		hasSelfie = false
	}

	recentMatches, err := sc.recentMatches(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	response := gin.H{
		"success":          true,
		"hasPendingSelfie": hasSelfie && lastSelfie.Status == models.SelfieStatusPending,
		"recentMatches":    recentMatches,
	}
	if hasSelfie {
		response["lastSelfieTimestamp"] = lastSelfie.CreatedAt
	} else {
		response["lastSelfieTimestamp"] = nil
	}

	c.JSON(http.StatusOK, response)
}

func recentMatchesCacheKey(userID string) string {
	return "selfies:recent:" + userID
}

// recentMatches returns the user's five newest vibe-match connections, served
// from the cache when possible. Cache failures degrade to the database.
func (sc *SelfieController) recentMatches(userID string) ([]models.Connection, error) {
	ctx := context.Background()

	if sc.Redis != nil {
		cached, err := sc.Redis.Get(ctx, recentMatchesCacheKey(userID)).Result()
		if err == nil {
			var matches []models.Connection
			if jsonErr := json.Unmarshal([]byte(cached), &matches); jsonErr == nil {
				return matches, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("Error reading recent matches cache: %v", err)
		}
	}

	matches := []models.Connection{}
	if err := sc.DB.
		Where("(user_1 = ? OR user_2 = ?) AND connection_type = ?",
			userID, userID, models.ConnectionTypeVibeMatch).
		Order("created_at DESC").
		Limit(5).
		Find(&matches).Error; err != nil {
		return nil, err
	}

	if sc.Redis != nil {
		if payload, err := json.Marshal(matches); err == nil {
			if err := sc.Redis.Set(ctx, recentMatchesCacheKey(userID), payload, recentMatchesCacheTTL).Err(); err != nil {
				log.Printf("Error writing recent matches cache: %v", err)
			}
		}
	}

	return matches, nil
}

func (sc *SelfieController) invalidateRecentMatches(userIDs ...string) {
	if sc.Redis == nil {
		return
	}
	ctx := context.Background()
	for _, id := range userIDs {
		if err := sc.Redis.Del(ctx, recentMatchesCacheKey(id)).Err(); err != nil {
			log.Printf("Error invalidating recent matches cache for %s: %v", id, err)
		}
	}
}
