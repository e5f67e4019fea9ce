package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfolio-api/internal/models"
)

// APIError is a response the API answered without success.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client reads the gallery API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchPhotos lists one collection. Dates in the response come back as time.Time.
func (c *Client) FetchPhotos(ctx context.Context, collection string) ([]models.SecurePhoto, error) {
	var body models.PhotosResponse
	status, err := c.getJSON(ctx, "/api/photos/"+url.PathEscape(collection), &body)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(status, body.Success, body.Error, "Failed to fetch photos"); err != nil {
		return nil, err
	}
	if body.Photos == nil {
		body.Photos = []models.SecurePhoto{}
	}
	return body.Photos, nil
}

// FetchCovers resolves the cover URL of each collection; a nil value means
// the collection has no cover.
func (c *Client) FetchCovers(ctx context.Context, collections []string) (map[string]*string, error) {
	var body models.CoversResponse
	query := url.Values{"collections": {strings.Join(collections, ",")}}
	status, err := c.getJSON(ctx, "/api/photos/covers?"+query.Encode(), &body)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(status, body.Success, body.Error, "Failed to fetch collection covers"); err != nil {
		return nil, err
	}
	if body.Covers == nil {
		body.Covers = map[string]*string{}
	}
	return body.Covers, nil
}

// RefreshPhoto asks the API for a new signed URL for one photo id.
func (c *Client) RefreshPhoto(ctx context.Context, photoID string) (models.SignedURL, error) {
	var body models.RefreshResponse
	query := url.Values{"id": {photoID}}
	status, err := c.getJSON(ctx, "/api/photos/refresh?"+query.Encode(), &body)
	if err != nil {
		return models.SignedURL{}, err
	}
	if err := checkEnvelope(status, body.Success, body.Error, "Failed to refresh photo URL"); err != nil {
		return models.SignedURL{}, err
	}

	signed := models.SignedURL{URL: body.SecureURL}
	if body.ExpiresAt != nil {
		signed.ExpiresAt = *body.ExpiresAt
	}
	return signed, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("API returned status %d", resp.StatusCode)}
		}
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// A non-2xx status reports the body's error or fallback; a 2xx body without
// success reports the body's error or a generic message.
func checkEnvelope(status int, success bool, message, fallback string) error {
	if status < 200 || status > 299 {
		if message == "" {
			message = fallback
		}
		return &APIError{StatusCode: status, Message: message}
	}
	if !success {
		if message == "" {
			message = "Unknown error occurred"
		}
		return &APIError{StatusCode: status, Message: message}
	}
	return nil
}
