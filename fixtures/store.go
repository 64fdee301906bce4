// Package fixtures is the demo/test data layer. It replaces the old habit of
// mutating shared fixture slices in place: all demo data lives behind a Store
// with an explicit lifecycle, so tests can Init and Reset in isolation, and
// the demo deployment can seed a fresh database from one generated set.
package fixtures

import (
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/tessera-app/api-go/models"
	"gorm.io/gorm"
)

type Store struct {
	mu       sync.RWMutex
	profiles []models.Profile
	posts    []models.Post
	comments []models.Comment
}

func NewStore() *Store {
	return &Store{}
}

// Init generates n demo profiles, each with a handful of posts and comments.
// Deterministic when the caller seeds gofakeit first.
func (s *Store) Init(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = s.profiles[:0]
	s.posts = s.posts[:0]
	s.comments = s.comments[:0]

	var commentID int64
	for i := 0; i < n; i++ {
		profile := models.Profile{
			ID:              uuid.New().String(),
			FullName:        gofakeit.Name(),
			Email:           gofakeit.Email(),
			AvatarURL:       fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", gofakeit.Username()),
			Bio:             gofakeit.Sentence(12),
			IsActive:        true,
			ProfileComplete: true,
		}
		s.profiles = append(s.profiles, profile)

		for p := 0; p < gofakeit.Number(1, 3); p++ {
			post := models.Post{
				ID:      int64(len(s.posts) + 1),
				UserID:  profile.ID,
				Content: gofakeit.Sentence(20),
			}
			s.posts = append(s.posts, post)

			// One root comment with an optional reply, so nested trees show
			// up in the demo UI.
			commentID++
			root := models.Comment{
				ID:      commentID,
				PostID:  post.ID,
				UserID:  profile.ID,
				Content: gofakeit.Sentence(8),
			}
			s.comments = append(s.comments, root)
			if gofakeit.Bool() {
				parentID := root.ID
				commentID++
				s.comments = append(s.comments, models.Comment{
					ID:              commentID,
					PostID:          post.ID,
					UserID:          profile.ID,
					Content:         gofakeit.Sentence(6),
					ParentCommentID: &parentID,
				})
			}
		}
	}
}

// Reset drops everything, returning the store to its pre-Init state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = nil
	s.posts = nil
	s.comments = nil
}

func (s *Store) Profiles() []models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

func (s *Store) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

func (s *Store) Comments() []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

// Seed writes the generated set into the database. Used by demo deployments
// behind the SEED_DEMO_DATA flag.
func (s *Store) Seed(db *gorm.DB) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.profiles {
		if err := db.Create(&s.profiles[i]).Error; err != nil {
			return fmt.Errorf("seeding profile: %w", err)
		}
	}
	for i := range s.posts {
		if err := db.Create(&s.posts[i]).Error; err != nil {
			return fmt.Errorf("seeding post: %w", err)
		}
	}
	for i := range s.comments {
		if err := db.Create(&s.comments[i]).Error; err != nil {
			return fmt.Errorf("seeding comment: %w", err)
		}
	}
	return nil
}
