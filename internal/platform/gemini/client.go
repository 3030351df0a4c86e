package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"recipesnap/internal/recipe"
)

// ErrEmptyResponse is returned when the model answers with no usable text.
var ErrEmptyResponse = errors.New("empty response from Gemini")

const extractPrompt = `Extract the recipe shown in this image.
Return a single, clean JSON object following schema.org/Recipe with these keys:
'name' (string), 'description' (string or null), 'recipeIngredient' (array of strings, one line each,
keeping section labels such as "For the sauce:" as their own lines), 'recipeInstructions' (array of
strings or HowToStep objects with a 'text' key), 'prepTime' and 'cookTime' (ISO 8601 durations such as
"PT1H30M", or null), 'recipeYield' (string or null), 'recipeCategory' (string or null),
'recipeCuisine' (string or null), 'keywords' (comma separated string or null) and
'dishImageDescription' (one sentence describing how the finished dish looks).
If the image does not contain a recipe, return {"name": "No Recipe Found"}.
The JSON response should be clean and not contain any markdown formatting (e.g., ` + "```json" + `).`

// Client is a client for the Gemini API.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	return &Client{client: client, model: model}, nil
}

// Close closes the underlying Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateImageHash calculates the SHA256 hash of the image data.
func GenerateImageHash(imageData []byte) string {
	hash := sha256.Sum256(imageData)
	return hex.EncodeToString(hash[:])
}

// ExtractRecipe asks the model to read the recipe in an image.
// mimeType is the image's type, e.g. "image/jpeg".
func (c *Client) ExtractRecipe(ctx context.Context, imageData []byte, mimeType string) (*recipe.Record, error) {
	prompt := []genai.Part{
		genai.ImageData(imageFormat(mimeType), imageData),
		genai.Text(extractPrompt),
	}

	resp, err := c.model.GenerateContent(ctx, prompt...)
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response format from Gemini")
	}

	return ParseRecord(string(text))
}

// ParseRecord decodes the JSON object in a model reply, which might be wrapped in markdown.
func ParseRecord(reply string) (*recipe.Record, error) {
	startIndex := strings.Index(reply, "{")
	endIndex := strings.LastIndex(reply, "}")

	if startIndex == -1 || endIndex == -1 || startIndex > endIndex {
		return nil, fmt.Errorf("could not find JSON object in response: %s", reply)
	}

	cleanJSON := reply[startIndex : endIndex+1]

	var r recipe.Record
	if err := json.Unmarshal([]byte(cleanJSON), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w. Raw response: %s", err, cleanJSON)
	}
	return &r, nil
}

// imageFormat maps "image/png" to the "png" form genai expects.
func imageFormat(mimeType string) string {
	format := strings.TrimPrefix(strings.ToLower(mimeType), "image/")
	if format == "" || format == "jpg" {
		return "jpeg"
	}
	return format
}
