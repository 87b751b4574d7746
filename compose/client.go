package compose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GatewayClient drives a remote upload gateway over HTTP. It satisfies
// ImageUploader so the inserter can run out-of-process from the gateway.
type GatewayClient struct {
	endpoint string
	client   *http.Client
}

func NewGatewayClient(endpoint string, client *http.Client) *GatewayClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &GatewayClient{endpoint: endpoint, client: client}
}

type uploadRequest struct {
	File string `json:"file"`
}

type uploadResponse struct {
	URL     string `json:"url"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Upload posts the payload and parses the response defensively: the body is
// read as raw text first, and a body that is not valid JSON becomes a typed
// UploadError rather than a propagated decode failure.
func (c *GatewayClient) Upload(ctx context.Context, dataURI string) (string, error) {
	body, err := json.Marshal(uploadRequest{File: dataURI})
	if err != nil {
		return "", fmt.Errorf("encoding upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &UploadError{Message: "Upload failed", Details: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UploadError{Message: "Upload failed", Details: err.Error()}
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &UploadError{
			Message: "Upload failed",
			Details: fmt.Sprintf("malformed gateway response (status %d)", resp.StatusCode),
		}
	}

	if resp.StatusCode != http.StatusOK || parsed.URL == "" {
		msg := parsed.Error
		if msg == "" {
			msg = "Upload failed"
		}
		return "", &UploadError{Message: msg, Details: parsed.Details}
	}
	return parsed.URL, nil
}
