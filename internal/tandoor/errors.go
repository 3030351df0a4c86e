package tandoor

import (
	"fmt"
	"net/http"
)

// ConfigurationError reports a base URL without an http or https scheme.
// Nothing is sent when it is returned.
type ConfigurationError struct {
	URL string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid Tandoor URL %q: it must start with http:// or https://", e.URL)
}

// AuthenticationError reports a 401 or 403 from Tandoor.
type AuthenticationError struct {
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return "Tandoor rejected the API key: check that the token is valid and has write access"
}

// ValidationError reports a 400: Tandoor refused the payload.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "Tandoor rejected the recipe: " + e.Detail
}

// EndpointNotFoundError reports a 404 for the recipe endpoint.
type EndpointNotFoundError struct {
	URL string
}

func (e *EndpointNotFoundError) Error() string {
	return fmt.Sprintf("no Tandoor recipe API at %s: check the Tandoor URL", e.URL)
}

// RequestFailedError reports any other non-2xx status.
type RequestFailedError struct {
	StatusCode int
	Detail     string
}

func (e *RequestFailedError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("Tandoor request failed with status %d: %s", e.StatusCode, detail)
}

// NetworkError reports that the request never got a response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("could not reach Tandoor (%v): check the URL and the server's CORS settings", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UnknownExportError wraps anything else that went wrong during an export.
type UnknownExportError struct {
	Err error
}

func (e *UnknownExportError) Error() string {
	return "export failed: " + e.Err.Error()
}

func (e *UnknownExportError) Unwrap() error { return e.Err }
