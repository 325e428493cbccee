package dataset

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HubClient talks to the Hugging Face Hub dataset API.
type HubClient struct {
	Token    string
	Endpoint string
	HTTP     *http.Client
}

var defaultHubHTTP = &http.Client{Timeout: 60 * time.Second}

// init resolves the endpoint and HTTP client for one call. It never writes to c,
// since one client is shared by concurrent submissions.
func (c *HubClient) init() (string, *http.Client, error) {
	if c.Token == "" {
		return "", nil, fmt.Errorf("missing hub token")
	}
	hc := c.HTTP
	if hc == nil {
		hc = defaultHubHTTP
	}
	endpoint := strings.TrimRight(c.Endpoint, "/")
	if endpoint == "" {
		endpoint = "https://huggingface.co"
	}
	return endpoint, hc, nil
}

// Download fetches the current revision of path in the dataset repo.
func (c *HubClient) Download(ctx context.Context, repo, path string) ([]byte, error) {
	endpoint, hc, err := c.init()
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/datasets/%s/resolve/main/%s", endpoint, repo, strings.TrimLeft(path, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	res, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return io.ReadAll(res.Body)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s/%s: %w", repo, path, ErrNotFound)
	}
	return nil, hubError(res)
}

type commitLine struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type commitHeader struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

type commitFile struct {
	Content  string `json:"content"`
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
}

// Upload replaces path in the dataset repo with data in a single commit.
func (c *HubClient) Upload(ctx context.Context, data []byte, repo, path string) error {
	endpoint, hc, err := c.init()
	if err != nil {
		return err
	}
	path = strings.TrimLeft(path, "/")

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	lines := []commitLine{
		{Key: "header", Value: commitHeader{Summary: "Append survey response", Description: ""}},
		{Key: "file", Value: commitFile{
			Content:  base64.StdEncoding.EncodeToString(data),
			Path:     path,
			Encoding: "base64",
		}},
	}
	for _, line := range lines {
		if err := enc.Encode(line); err != nil {
			return err
		}
	}

	url := fmt.Sprintf("%s/api/datasets/%s/commit/main", endpoint, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/x-ndjson")

	res, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return hubError(res)
	}
	return nil
}

// hubError extracts the {"error": "..."} message the Hub returns on failures.
func hubError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("hub: %s (status %d)", payload.Error, res.StatusCode)
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return fmt.Errorf("hub: %s (status %d)", text, res.StatusCode)
	}
	return fmt.Errorf("hub: unexpected status %d", res.StatusCode)
}
