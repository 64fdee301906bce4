package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessera-app/api-go/models"
	"github.com/tessera-app/api-go/vibematcher"
	"gorm.io/gorm"
)

func ptrFloat64(v float64) *float64 { return &v }

func newSelfieController(db *gorm.DB, matcherURL string) *SelfieController {
	return NewSelfieController(db, &vibematcher.Client{
		BaseURL:    matcherURL,
		HTTPClient: http.DefaultClient,
	}, nil)
}

// stubMatcher serves a fixed process-selfie verdict.
func stubMatcher(t *testing.T, response map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/process-selfie", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
}

func selfieUploadRequest(t *testing.T, userID string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("selfie", "selfie.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-a-real-jpeg"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("userId", userID))
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", "/api/selfies/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestReconcileMatchCreatesConnectionOnce(t *testing.T) {
	db := setupTestDB(t)
	sc := newSelfieController(db, "http://unused")

	result := &vibematcher.MatchResult{
		MatchFound:      true,
		MatchedUserID:   "user-b",
		SimilarityScore: ptrFloat64(0.93),
	}

	first, err := sc.reconcileMatch("user-a", result)
	require.NoError(t, err)
	second, err := sc.reconcileMatch("user-a", result)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "second call must reuse the connection")

	var count int64
	db.Model(&models.Connection{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var connection models.Connection
	require.NoError(t, db.First(&connection, first.ID).Error)
	assert.Equal(t, models.ConnectionStatusPending, connection.Status)
	assert.Equal(t, models.ConnectionTypeVibeMatch, connection.ConnectionType)
	require.NotNil(t, connection.SimilarityScore)
	assert.InDelta(t, 0.93, *connection.SimilarityScore, 1e-9)
}

func TestReconcileMatchReusesReversedPair(t *testing.T) {
	db := setupTestDB(t)
	sc := newSelfieController(db, "http://unused")

	existing := models.Connection{User1: "user-b", User2: "user-a", Status: models.ConnectionStatusAccepted}
	require.NoError(t, db.Create(&existing).Error)

	result := &vibematcher.MatchResult{MatchFound: true, MatchedUserID: "user-b", SimilarityScore: ptrFloat64(0.8)}
	outcome, err := sc.reconcileMatch("user-a", result)
	require.NoError(t, err)

	assert.Equal(t, existing.ID, outcome.ID)

	var count int64
	db.Model(&models.Connection{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReconcileMatchMissingMatchedUserWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	sc := newSelfieController(db, "http://unused")

	require.NoError(t, db.Create(&models.SelfieCandidate{UserID: "user-a", Status: models.SelfieStatusPending}).Error)

	_, err := sc.reconcileMatch("user-a", &vibematcher.MatchResult{MatchFound: true})
	require.Error(t, err)

	var connections int64
	db.Model(&models.Connection{}).Count(&connections)
	assert.Zero(t, connections)

	var candidate models.SelfieCandidate
	require.NoError(t, db.First(&candidate, "user_id = ?", "user-a").Error)
	assert.Equal(t, models.SelfieStatusPending, candidate.Status)
}

func TestReconcileMatchConsumesPendingCandidatesForBothUsers(t *testing.T) {
	db := setupTestDB(t)
	sc := newSelfieController(db, "http://unused")

	require.NoError(t, db.Create(&models.SelfieCandidate{UserID: "user-a", Status: models.SelfieStatusPending}).Error)
	require.NoError(t, db.Create(&models.SelfieCandidate{UserID: "user-b", Status: models.SelfieStatusPending}).Error)
	require.NoError(t, db.Create(&models.SelfieCandidate{UserID: "user-c", Status: models.SelfieStatusPending}).Error)

	_, err := sc.reconcileMatch("user-a", &vibematcher.MatchResult{
		MatchFound:      true,
		MatchedUserID:   "user-b",
		SimilarityScore: ptrFloat64(0.91),
	})
	require.NoError(t, err)

	var matched int64
	db.Model(&models.SelfieCandidate{}).Where("status = ?", models.SelfieStatusMatched).Count(&matched)
	assert.Equal(t, int64(2), matched)

	var bystander models.SelfieCandidate
	require.NoError(t, db.First(&bystander, "user_id = ?", "user-c").Error)
	assert.Equal(t, models.SelfieStatusPending, bystander.Status, "unrelated users are untouched")
}

func TestReconcileMatchEnrichesProfileWhenAvailable(t *testing.T) {
	db := setupTestDB(t)
	sc := newSelfieController(db, "http://unused")

	require.NoError(t, db.Create(&models.Profile{
		ID:        "user-b",
		FullName:  "Jordan Doe",
		Email:     "jordan@example.com",
		AvatarURL: "https://cdn.example.com/jordan.png",
	}).Error)

	outcome, err := sc.reconcileMatch("user-a", &vibematcher.MatchResult{
		MatchFound:      true,
		MatchedUserID:   "user-b",
		SimilarityScore: ptrFloat64(0.95),
	})
	require.NoError(t, err)

	raw, errMarshal := json.Marshal(outcome.MatchedUser)
	require.NoError(t, errMarshal)
	var matchedUser map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &matchedUser))

	assert.Equal(t, "user-b", matchedUser["id"])
	assert.Equal(t, "Jordan Doe", matchedUser["full_name"])
}

func TestReconcileMatchFallsBackToBareIDWithoutProfile(t *testing.T) {
	db := setupTestDB(t)
	sc := newSelfieController(db, "http://unused")

	outcome, err := sc.reconcileMatch("user-a", &vibematcher.MatchResult{
		MatchFound:      true,
		MatchedUserID:   "user-b",
		SimilarityScore: ptrFloat64(0.9),
	})
	require.NoError(t, err)

	raw, errMarshal := json.Marshal(outcome.MatchedUser)
	require.NoError(t, errMarshal)
	var matchedUser map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &matchedUser))

	assert.Equal(t, "user-b", matchedUser["id"])
	_, hasName := matchedUser["full_name"]
	assert.False(t, hasName)
}

func TestUploadSelfieNoMatchTouchesNoRows(t *testing.T) {
	db := setupTestDB(t)
	matcher := stubMatcher(t, map[string]interface{}{"match_found": false})
	defer matcher.Close()

	sc := newSelfieController(db, matcher.URL)
	r := newTestRouter()
	r.POST("/api/selfies/upload", sc.UploadSelfie)

	req, w := selfieUploadRequest(t, "user-a")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, false, resp["matchFound"])

	var connections, candidates int64
	db.Model(&models.Connection{}).Count(&connections)
	db.Model(&models.SelfieCandidate{}).Count(&candidates)
	assert.Zero(t, connections)
	assert.Zero(t, candidates)
}

func TestUploadSelfieAcceptsEitherScoreSpelling(t *testing.T) {
	for _, field := range []string{"similarity_score", "similarity"} {
		t.Run(field, func(t *testing.T) {
			db := setupTestDB(t)
			matcher := stubMatcher(t, map[string]interface{}{
				"match_found":     true,
				"matched_user_id": "user-b",
				field:             0.87,
			})
			defer matcher.Close()

			sc := newSelfieController(db, matcher.URL)
			r := newTestRouter()
			r.POST("/api/selfies/upload", sc.UploadSelfie)

			req, w := selfieUploadRequest(t, "user-a")
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Success    bool `json:"success"`
				MatchFound bool `json:"matchFound"`
				Connection struct {
					ID              int64   `json:"id"`
					SimilarityScore float64 `json:"similarityScore"`
				} `json:"connection"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.MatchFound)
			assert.InDelta(t, 0.87, resp.Connection.SimilarityScore, 1e-9)
		})
	}
}

func TestUploadSelfieMissingMatchedUserIsServerFault(t *testing.T) {
	db := setupTestDB(t)
	matcher := stubMatcher(t, map[string]interface{}{
		"match_found":      true,
		"similarity_score": 0.99,
	})
	defer matcher.Close()

	sc := newSelfieController(db, matcher.URL)
	r := newTestRouter()
	r.POST("/api/selfies/upload", sc.UploadSelfie)

	req, w := selfieUploadRequest(t, "user-a")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var connections int64
	db.Model(&models.Connection{}).Count(&connections)
	assert.Zero(t, connections)
}

func TestUploadSelfieRequiresUserID(t *testing.T) {
	db := setupTestDB(t)
	sc := newSelfieController(db, "http://unused")
	r := newTestRouter()
	r.POST("/api/selfies/upload", sc.UploadSelfie)

	req, w := selfieUploadRequest(t, "")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadSelfieRequiresFile(t *testing.T) {
	db := setupTestDB(t)
	sc := newSelfieController(db, "http://unused")
	r := newTestRouter()
	r.POST("/api/selfies/upload", sc.UploadSelfie)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("userId", "user-a"))
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/selfies/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSelfieStatus(t *testing.T) {
	db := setupTestDB(t)
	sc := newSelfieController(db, "http://unused")
	r := newTestRouter()
	r.GET("/api/selfies/status", sc.GetSelfieStatus)

	now := time.Now()
	require.NoError(t, db.Create(&models.SelfieCandidate{UserID: "user-a", Status: models.SelfieStatusPending, CreatedAt: now}).Error)
	require.NoError(t, db.Create(&models.Connection{
		User1:          "user-a",
		User2:          "user-b",
		ConnectionType: models.ConnectionTypeVibeMatch,
		Status:         models.ConnectionStatusPending,
		CreatedAt:      now,
	}).Error)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/selfies/status?user_id=user-a", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success          bool                `json:"success"`
		HasPendingSelfie bool                `json:"hasPendingSelfie"`
		RecentMatches    []models.Connection `json:"recentMatches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.HasPendingSelfie)
	require.Len(t, resp.RecentMatches, 1)
	assert.Equal(t, "user-b", resp.RecentMatches[0].User2)
}

func TestGetSelfieStatusRequiresUserID(t *testing.T) {
	db := setupTestDB(t)
	sc := newSelfieController(db, "http://unused")
	r := newTestRouter()
	r.GET("/api/selfies/status", sc.GetSelfieStatus)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/selfies/status", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
