// Package api talks to the map web service that hosts exported overlays.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadMetadata describes an exported overlay.
type UploadMetadata struct {
	Zone      string
	Character string
	Frame     uint64
	Tag       string
}

// UploadResult is the service's reply to an upload.
type UploadResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client handles communication with the map web service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Healthcheck checks if the map web service is reachable.
func (c *Client) Healthcheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthcheck", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

// Upload sends an exported GeoJSON file to the map web service.
func (c *Client) Upload(ctx context.Context, filePath string, meta UploadMetadata) (UploadResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	errCh := make(chan error, 1)
	go func() {
		defer pw.Close()
		defer writer.Close()

		_ = writer.WriteField("secret", c.apiKey)
		_ = writer.WriteField("filename", filepath.Base(filePath))
		_ = writer.WriteField("zone", meta.Zone)
		_ = writer.WriteField("character", meta.Character)
		_ = writer.WriteField("frame", fmt.Sprintf("%d", meta.Frame))
		_ = writer.WriteField("tag", meta.Tag)

		part, err := writer.CreateFormFile("file", filepath.Base(filePath))
		if err != nil {
			errCh <- fmt.Errorf("failed to create form file: %w", err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			errCh <- fmt.Errorf("failed to copy file: %w", err)
			return
		}
		errCh <- nil
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/overlays/add", pr)
	if err != nil {
		pr.CloseWithError(err)
		return UploadResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		<-errCh
		return UploadResult{}, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if writeErr := <-errCh; writeErr != nil {
		return UploadResult{}, writeErr
	}

	if resp.StatusCode != http.StatusOK {
		return UploadResult{}, fmt.Errorf("upload returned status %d", resp.StatusCode)
	}

	var res UploadResult
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &res); err != nil {
			return UploadResult{}, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return res, nil
}
