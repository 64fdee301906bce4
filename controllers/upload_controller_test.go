package controllers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyFileOwnership(t *testing.T) {
	uc := &UploadController{}

	cases := []struct {
		name   string
		key    string
		userID string
		want   bool
	}{
		{"owner matches", "uploads/image/user-a/1700000000_abc.jpg", "user-a", true},
		{"different user", "uploads/image/user-a/1700000000_abc.jpg", "user-b", false},
		{"avatar key", "uploads/avatar/user-a/1700000000_abc.png", "user-a", true},
		{"too few segments", "uploads/user-a", "user-a", false},
		{"empty key", "", "user-a", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, uc.verifyFileOwnership(tc.key, tc.userID))
		})
	}
}

func TestGenerateFileKeyRoundTripsOwnership(t *testing.T) {
	uc := &UploadController{}

	key := uc.generateFileKey("user-a", "photo.png", "image")

	parts := strings.Split(key, "/")
	require.Len(t, parts, 4)
	assert.Equal(t, "uploads", parts[0])
	assert.Equal(t, "image", parts[1])
	assert.Equal(t, "user-a", parts[2])
	assert.True(t, strings.HasSuffix(key, ".png"))

	assert.True(t, uc.verifyFileOwnership(key, "user-a"))
	assert.False(t, uc.verifyFileOwnership(key, "user-b"))
}

func TestIsValidFileType(t *testing.T) {
	uc := &UploadController{}

	cases := []struct {
		name        string
		contentType string
		mediaType   string
		want        bool
	}{
		{"jpeg image", "image/jpeg", "image", true},
		{"webp image", "image/webp", "image", true},
		{"png avatar", "image/png", "avatar", true},
		{"mp4 video", "video/mp4", "video", true},
		{"video as image", "video/mp4", "image", false},
		{"image as video", "image/jpeg", "video", false},
		{"gif rejected", "image/gif", "image", false},
		{"unknown media type", "image/jpeg", "document", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, uc.isValidFileType(tc.contentType, tc.mediaType))
		})
	}
}

func TestIsValidFileSize(t *testing.T) {
	uc := &UploadController{}

	const mb = 1024 * 1024

	cases := []struct {
		name      string
		size      int64
		mediaType string
		want      bool
	}{
		{"image within limit", 5 * mb, "image", true},
		{"image at limit", 10 * mb, "image", true},
		{"image over limit", 10*mb + 1, "image", false},
		{"video within limit", 80 * mb, "video", true},
		{"video over limit", 101 * mb, "video", false},
		{"avatar over limit", 6 * mb, "avatar", false},
		{"zero bytes", 0, "image", false},
		{"unknown media type", 1 * mb, "document", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, uc.isValidFileSize(tc.size, tc.mediaType))
		})
	}
}
