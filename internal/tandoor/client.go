package tandoor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"recipesnap/internal/recipe"
)

const (
	recipePath     = "/api/recipe/"
	maxErrorBody   = 1 << 20
	maxErrorDetail = 512
)

var acceptedSchemes = []string{"http://", "https://"}

// Client sends recipes to a Tandoor instance. It holds no per-instance
// configuration: the target and token come with each call.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new Tandoor client. A nil httpClient uses a default one.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient}
}

// Export creates payload as a new recipe on the Tandoor instance at baseURL.
// Failures are returned as one of the error types in this package.
func (c *Client) Export(ctx context.Context, baseURL, apiKey string, payload *Recipe) error {
	if !hasAcceptedScheme(baseURL) {
		return &ConfigurationError{URL: baseURL}
	}
	endpoint := strings.TrimSuffix(baseURL, "/") + recipePath

	body, err := json.Marshal(payload)
	if err != nil {
		return &UnknownExportError{Err: fmt.Errorf("failed to marshal recipe: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &UnknownExportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &UnknownExportError{Err: err}
		}
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Printf("exported recipe %q to %s", payload.Name, endpoint)
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		log.Printf("failed to read error body from %s: %v", endpoint, err)
	}
	return classify(resp.StatusCode, resp.Header.Get("Content-Type"), raw, endpoint)
}

func hasAcceptedScheme(baseURL string) bool {
	lower := strings.ToLower(baseURL)
	for _, scheme := range acceptedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

func classify(status int, contentType string, body []byte, endpoint string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthenticationError{StatusCode: status}
	case status == http.StatusBadRequest:
		return &ValidationError{Detail: errorDetail(body, contentType)}
	case status == http.StatusNotFound:
		return &EndpointNotFoundError{URL: endpoint}
	default:
		return &RequestFailedError{StatusCode: status, Detail: errorDetail(body, contentType)}
	}
}

// errorDetail pulls a readable message out of an error response. In order:
// field errors ({"field": ["msg", ...]}) joined with "; ", a "detail" string,
// the re-serialized JSON body, and finally the raw text.
func errorDetail(body []byte, contentType string) string {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return rawText(body, contentType)
	}

	if obj, ok := parsed.(map[string]any); ok {
		if fields := fieldErrors(obj); len(fields) > 0 {
			return strings.Join(fields, "; ")
		}
		if detail, ok := obj["detail"].(string); ok && detail != "" {
			return detail
		}
	}

	serialized, err := json.Marshal(parsed)
	if err != nil {
		return rawText(body, contentType)
	}
	return string(serialized)
}

func fieldErrors(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		list, ok := obj[k].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				msgs = append(msgs, s)
				continue
			}
			b, _ := json.Marshal(item)
			msgs = append(msgs, string(b))
		}
		out = append(out, k+": "+strings.Join(msgs, ", "))
	}
	return out
}

// rawText returns the body as text. HTML error pages are reduced to their
// title, or to their visible text when there is no title.
func rawText(body []byte, contentType string) string {
	text := strings.TrimSpace(string(body))
	if strings.Contains(contentType, "html") || strings.HasPrefix(text, "<") {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				return recipe.Truncate(title, maxErrorDetail)
			}
			text = strings.Join(strings.Fields(doc.Find("body").Text()), " ")
		}
	}
	return recipe.Truncate(text, maxErrorDetail)
}
