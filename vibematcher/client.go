// Package vibematcher is the HTTP client for the external image-similarity
// service. The service receives the raw selfie and either pairs it with a
// stored candidate or keeps it pending.
package vibematcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	baseURL := os.Getenv("VIBE_MATCHER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// MatchResult is the verdict from the matcher. The service has historically
// reported the score under either "similarity_score" or "similarity"; both
// spellings are accepted here and normalized onto SimilarityScore before the
// result leaves this package.
type MatchResult struct {
	MatchFound      bool     `json:"match_found"`
	MatchedUserID   string   `json:"matched_user_id"`
	SimilarityScore *float64 `json:"similarity_score"`
	Similarity      *float64 `json:"similarity"`
}

func (r *MatchResult) normalize() {
	if r.SimilarityScore == nil && r.Similarity != nil {
		r.SimilarityScore = r.Similarity
	}
	r.Similarity = nil
}

// Score returns the normalized similarity score, zero when the matcher sent none.
func (r *MatchResult) Score() float64 {
	if r.SimilarityScore == nil {
		return 0
	}
	return *r.SimilarityScore
}

// ProcessSelfie forwards the uploaded image to the matcher's process-selfie
// endpoint along with the uploader's id and optional coordinates.
func (c *Client) ProcessSelfie(selfie io.Reader, contentType, userID, latitude, longitude string) (*MatchResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", `form-data; name="selfie"; filename="selfie.jpg"`)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	partHeader.Set("Content-Type", contentType)

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, selfie); err != nil {
		return nil, err
	}

	if err := writer.WriteField("user_id", userID); err != nil {
		return nil, err
	}
	if latitude != "" && longitude != "" {
		if err := writer.WriteField("latitude", latitude); err != nil {
			return nil, err
		}
		if err := writer.WriteField("longitude", longitude); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/process-selfie", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vibe matcher request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("vibe matcher returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result MatchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode vibe matcher response: %w", err)
	}
	result.normalize()

	return &result, nil
}

// Health probes the matcher's health endpoint.
func (c *Client) Health() error {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vibe matcher unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
