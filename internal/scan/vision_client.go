package scan

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// VisionClient talks to the detection model service over HTTP. The
// service exposes POST {base}/v1/detect and POST {base}/v1/classify,
// both taking a base64 image payload.
type VisionClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewVisionClient(baseURL, apiKey string, timeout time.Duration) *VisionClient {
	return &VisionClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type visionRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Detections []Detection  `json:"detections"`
	Error      *visionError `json:"error"`
}

type classifyResponse struct {
	Labels []Classification `json:"labels"`
	Error  *visionError     `json:"error"`
}

type visionError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *VisionClient) Detect(ctx context.Context, imageData []byte) ([]Detection, error) {
	var resp detectResponse
	if err := c.post(ctx, "/v1/detect", imageData, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("vision service error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	return resp.Detections, nil
}

func (c *VisionClient) Classify(ctx context.Context, imageData []byte) ([]Classification, error) {
	var resp classifyResponse
	if err := c.post(ctx, "/v1/classify", imageData, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("vision service error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	return resp.Labels, nil
}

func (c *VisionClient) post(ctx context.Context, path string, imageData []byte, out interface{}) error {
	body, err := json.Marshal(visionRequest{
		Image: base64.StdEncoding.EncodeToString(imageData),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vision service returned status %d: %s", resp.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
