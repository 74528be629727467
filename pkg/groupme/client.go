package groupme

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"gmdown/pkg/errors"
	"gmdown/pkg/logger"
)

// Client talks to the GroupMe REST API. It is read-only after construction
// and safe to reuse across retrievals.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     logger.Logger
}

// NewClient creates a new API client authenticated with the given token.
func NewClient(token string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: BaseURL,
		token:   token,
		logger:  log,
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// MessagePage fetches one page of messages for a group, newest first.
// beforeID is the pagination cursor; "" starts from the newest message.
// A page without messages means the history is exhausted.
func (c *Client) MessagePage(ctx context.Context, groupID, beforeID string) (MessagePage, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", MessagesPerPage))
	if beforeID != "" {
		query.Set("before_id", beforeID)
	}

	var resp MessagesResponse
	if err := c.getJSON(ctx, MessagesEndpoint(groupID), query, &resp); err != nil {
		return MessagePage{}, err
	}
	return resp.Response, nil
}

// Download fetches a media file. The media CDN does not require the API
// token.
func (c *Client) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Transport(err, "failed to create request for %s", rawURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Transport(err, "download failed: %s", rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Transport(nil, "download of %s returned status %d", rawURL, resp.StatusCode)
	}
	return resp.Body, nil
}

// getJSON performs an authenticated GET against the API and decodes the
// JSON response into target.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("token", c.token)
	href := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return errors.Transport(err, "failed to create request for %s", path)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"path":   path,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"path":     path,
			"error":    err.Error(),
			"duration": duration,
		})
		return errors.Transport(err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"path":     path,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if err := checkResponseStatus(path, resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Transport(err, "failed to read response body from %s", path)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.Decode(err, decodePath(err))
	}
	return nil
}

// checkResponseStatus maps non-200 statuses to transport errors.
func checkResponseStatus(path string, resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Transport(nil, "request to %s rejected (status %d): check the API token", path, resp.StatusCode)
	case http.StatusNotFound:
		return errors.Transport(nil, "resource %s not found (status %d)", path, resp.StatusCode)
	default:
		return errors.Transport(nil, "request to %s returned status %d", path, resp.StatusCode)
	}
}

// decodePath extracts the JSON field path from a decode failure, when the
// error carries one.
func decodePath(err error) string {
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		if typeErr.Struct != "" && typeErr.Field != "" {
			return typeErr.Field
		}
	}
	return ""
}
