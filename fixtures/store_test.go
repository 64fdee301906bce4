package fixtures

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessera-app/api-go/config"
	"github.com/tessera-app/api-go/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestStoreLifecycle(t *testing.T) {
	gofakeit.Seed(11)

	store := NewStore()
	store.Init(5)

	profiles := store.Profiles()
	require.Len(t, profiles, 5)
	assert.NotEmpty(t, store.Posts())
	assert.NotEmpty(t, store.Comments())

	store.Reset()
	assert.Empty(t, store.Profiles())
	assert.Empty(t, store.Posts())
	assert.Empty(t, store.Comments())

	// Re-init after reset works from a clean slate.
	store.Init(2)
	assert.Len(t, store.Profiles(), 2)
}

func TestStoreGeneratesConsistentReferences(t *testing.T) {
	gofakeit.Seed(7)

	store := NewStore()
	store.Init(4)

	postIDs := map[int64]bool{}
	for _, post := range store.Posts() {
		postIDs[post.ID] = true
	}

	commentIDs := map[int64]bool{}
	for _, comment := range store.Comments() {
		commentIDs[comment.ID] = true
	}

	for _, comment := range store.Comments() {
		assert.True(t, postIDs[comment.PostID], "comment %d references post %d which must exist", comment.ID, comment.PostID)
		if comment.ParentCommentID != nil {
			assert.True(t, commentIDs[*comment.ParentCommentID], "reply %d references a generated parent", comment.ID)
		}
	}
}

func TestStoreSeed(t *testing.T) {
	gofakeit.Seed(3)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	store := NewStore()
	store.Init(3)
	require.NoError(t, store.Seed(db))

	var profiles, posts int64
	db.Model(&models.Profile{}).Count(&profiles)
	db.Model(&models.Post{}).Count(&posts)
	assert.Equal(t, int64(3), profiles)
	assert.Equal(t, int64(len(store.Posts())), posts)
}
