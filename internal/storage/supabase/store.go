// Package supabase stores attachment blobs in a Supabase Storage bucket.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	fm "spisovka/internal/domain/services/filemanager"
)

// Store talks to the Supabase Storage REST API with the service role key.
type Store struct {
	supabaseURL string
	serviceKey  string
	bucket      string
	httpClient  *http.Client
}

var _ fm.BlobStore = (*Store)(nil)

// NewStore creates a Supabase Storage client for one bucket.
func NewStore(supabaseURL, serviceKey, bucket string) *Store {
	return &Store{
		supabaseURL: strings.TrimRight(supabaseURL, "/"),
		serviceKey:  serviceKey,
		bucket:      bucket,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// apiError is the error body returned by the storage API.
type apiError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Upload stores data under path and returns its public URL.
func (s *Store) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.supabaseURL, s.bucket, escapePath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	s.authorize(req)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", responseError("upload", path, resp)
	}

	return s.PublicURL(path), nil
}

// Delete removes the object at path. Deleting a missing object succeeds.
func (s *Store) Delete(ctx context.Context, path string) error {
	payload, err := json.Marshal(map[string][]string{"prefixes": {path}})
	if err != nil {
		return fmt.Errorf("failed to marshal delete request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", s.supabaseURL, s.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}

	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return responseError("delete", path, resp)
	}
	return nil
}

// PublicURL returns the public object URL for path.
func (s *Store) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.supabaseURL, s.bucket, escapePath(path))
}

func (s *Store) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
}

func responseError(op, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%s %s failed with status %d: %s", op, path, resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("%s %s failed with status %d: %s", op, path, resp.StatusCode, string(body))
}

// escapePath escapes each segment of an object key.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
