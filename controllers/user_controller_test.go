package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessera-app/api-go/models"
	"gorm.io/gorm"
)

func userRouter(db *gorm.DB, actingUser string) *gin.Engine {
	uc := NewUserController(db)
	r := newTestRouter()
	grp := r.Group("/api/users", fakeAuth(actingUser))
	grp.GET("/:id", uc.GetUserProfile)
	grp.PUT("/:id", uc.UpdateUserProfile)
	grp.DELETE("/:id", uc.DeleteUserProfile)
	return r
}

func TestGetUserProfile(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Profile{
		ID:       userAlice,
		FullName: "Alice Chen",
		Email:    "alice@example.com",
	}).Error)

	r := userRouter(db, userBob)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users/"+userAlice, nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Alice Chen", profile.FullName)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/users/"+userBob, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserProfileOwnOnly(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Profile{
		ID:       userAlice,
		FullName: "Alice Chen",
		Email:    "alice@example.com",
		Bio:      "original bio",
	}).Error)

	intruder := userRouter(db, userBob)
	w := postJSON(intruder, "PUT", "/api/users/"+userAlice, map[string]string{"bio": "defaced"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", userAlice).Error)
	assert.Equal(t, "original bio", stored.Bio)
}

func TestUpdateUserProfilePartialFields(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Profile{
		ID:       userAlice,
		FullName: "Alice Chen",
		Email:    "alice@example.com",
		Bio:      "original bio",
	}).Error)

	r := userRouter(db, userAlice)
	w := postJSON(r, "PUT", "/api/users/"+userAlice, map[string]interface{}{
		"bio":              "updated bio",
		"profile_complete": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", userAlice).Error)
	assert.Equal(t, "updated bio", stored.Bio)
	assert.True(t, stored.ProfileComplete)
	assert.Equal(t, "Alice Chen", stored.FullName, "omitted fields stay untouched")
}

func TestDeleteUserProfileOwnOnly(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Profile{
		ID:    userAlice,
		Email: "alice@example.com",
	}).Error)

	intruder := userRouter(db, userBob)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/users/"+userAlice, nil)
	intruder.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	owner := userRouter(db, userAlice)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/users/"+userAlice, nil)
	owner.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	assert.Zero(t, count)
}
