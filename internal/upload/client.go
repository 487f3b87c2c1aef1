package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the object-storage broker. The broker hands out
// pre-authorized upload and view URLs; this client never signs anything
// itself.
type Client struct {
	brokerURL  string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the broker.
func NewClient(brokerURL string) *Client {
	return &Client{
		brokerURL: brokerURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// UploadGrant is the broker's response to an upload request: where to PUT
// the bytes and the storage key to record against the set.
type UploadGrant struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// RequestUpload asks the broker for an upload URL for the given file.
func (c *Client) RequestUpload(filename, contentType string) (*UploadGrant, error) {
	body, err := c.post("/request-upload", map[string]string{
		"filename":    filename,
		"contentType": contentType,
	})
	if err != nil {
		return nil, err
	}

	var grant UploadGrant
	if err := json.Unmarshal(body, &grant); err != nil {
		return nil, fmt.Errorf("decoding upload grant: %w", err)
	}
	if grant.UploadURL == "" || grant.Key == "" {
		return nil, fmt.Errorf("broker returned incomplete grant: %s", body)
	}
	return &grant, nil
}

// RequestViewURL asks the broker for a playback URL for a stored key.
func (c *Client) RequestViewURL(key string) (string, error) {
	body, err := c.post("/request-view-url", map[string]string{"key": key})
	if err != nil {
		return "", err
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding view url: %w", err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("broker returned empty view url")
	}
	return resp.URL, nil
}

// Put uploads the file bytes to the granted URL.
// Retries up to 3 times with exponential backoff on failure.
func (c *Client) Put(uploadURL, contentType string, data []byte) error {
	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPut, uploadURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("creating upload request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.ContentLength = int64(len(data))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, body)
	}

	return fmt.Errorf("after 3 attempts: %w", lastErr)
}

func (c *Client) post(path string, payload map[string]string) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	resp, err := c.httpClient.Post(c.brokerURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("broker %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading broker response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("broker %s failed (status %d): %s", path, resp.StatusCode, body)
	}
	return body, nil
}
