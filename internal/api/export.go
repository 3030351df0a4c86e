package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipesnap/internal/recipe"
	"recipesnap/internal/tandoor"
)

type exportRequest struct {
	BaseURL string         `json:"base_url"`
	APIKey  string         `json:"api_key"`
	Recipe  *recipe.Record `json:"recipe"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// ExportStored sends a stored recipe to Tandoor.
func (h *Handler) ExportStored(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %s", err.Error()), Kind: "request"})
		return
	}

	entry, ok := h.loadEntry(c)
	if !ok {
		return
	}
	h.export(c, req, entry.Recipe)
}

// Export sends a recipe given in the request body to Tandoor.
func (h *Handler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %s", err.Error()), Kind: "request"})
		return
	}
	if req.Recipe == nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "recipe is required", Kind: "request"})
		return
	}
	h.export(c, req, req.Recipe)
}

// Preview returns the Tandoor payload for a recipe without sending it.
func (h *Handler) Preview(c *gin.Context) {
	var rec recipe.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid recipe: %s", err.Error()), Kind: "request"})
		return
	}
	c.JSON(http.StatusOK, tandoor.Normalize(&rec))
}

func (h *Handler) export(c *gin.Context, req exportRequest, rec *recipe.Record) {
	baseURL, apiKey := req.BaseURL, req.APIKey
	if baseURL == "" {
		baseURL = h.Options.TandoorURL
	}
	if apiKey == "" {
		apiKey = h.Options.TandoorAPIKey
	}

	payload := tandoor.Normalize(rec)
	if err := h.Exporter.Export(c.Request.Context(), baseURL, apiKey, payload); err != nil {
		status, kind := exportErrorStatus(err)
		log.Printf("export of %q to %s failed (%s): %v", payload.Name, baseURL, kind, err)
		c.JSON(status, errorResponse{Error: err.Error(), Kind: kind})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "exported", "name": payload.Name})
}

// exportErrorStatus maps an export failure to the status this API answers with.
func exportErrorStatus(err error) (int, string) {
	var (
		cfgErr  *tandoor.ConfigurationError
		authErr *tandoor.AuthenticationError
		valErr  *tandoor.ValidationError
		nfErr   *tandoor.EndpointNotFoundError
		reqErr  *tandoor.RequestFailedError
		netErr  *tandoor.NetworkError
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest, "configuration"
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, "authentication"
	case errors.As(err, &valErr):
		return http.StatusUnprocessableEntity, "validation"
	case errors.As(err, &nfErr):
		return http.StatusBadGateway, "endpoint_not_found"
	case errors.As(err, &reqErr):
		return http.StatusBadGateway, "request_failed"
	case errors.As(err, &netErr):
		return http.StatusBadGateway, "network"
	default:
		return http.StatusInternalServerError, "unknown"
	}
}
