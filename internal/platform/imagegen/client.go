package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	generationsPath = "/v1/images/generations"
	defaultModel    = "dall-e-3"
	defaultSize     = "1024x1024"
	pngMimeType     = "image/png"
)

// Image is a generated picture.
type Image struct {
	Base64Data string `json:"base64_data"`
	MimeType   string `json:"mime_type"`
}

// Bytes decodes the image data.
func (i *Image) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(i.Base64Data)
}

// Client talks to an OpenAI-compatible image generation endpoint.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
}

// NewClient creates a new client for the image generation API at baseURL.
func NewClient(baseURL, apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		httpClient: &http.Client{},
		apiURL:     strings.TrimSuffix(baseURL, "/") + generationsPath,
		apiKey:     apiKey,
		model:      model,
	}
}

// Request represents the request body for the image generation API.
type Request struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

// Response represents the response from the image generation API.
type Response struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// GenerateDishImage renders a picture from a text description of a dish.
// It returns nil, nil when there is nothing to draw or the API sends no image.
func (c *Client) GenerateDishImage(ctx context.Context, description string) (*Image, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, nil
	}

	reqBody := Request{
		Model:          c.model,
		Prompt:         "A realistic, appetizing food photograph of " + description,
		N:              1,
		Size:           defaultSize,
		ResponseFormat: "b64_json",
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK status code: %d", resp.StatusCode)
	}

	var genResp Response
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(genResp.Data) == 0 || genResp.Data[0].B64JSON == "" {
		return nil, nil
	}

	return &Image{Base64Data: genResp.Data[0].B64JSON, MimeType: pngMimeType}, nil
}
