package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"

	"recipesnap/internal/platform/gemini"
	"recipesnap/internal/platform/imagegen"
	"recipesnap/internal/recipe"
	"recipesnap/internal/tandoor"
)

const (
	extractTimeout = 45 * time.Second
	storeTimeout   = 5 * time.Second
	photoWidth     = 800
	dishWidth      = 512
)

var allowedExtensions = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
}

// RecipeExtractor reads a recipe out of a photo.
type RecipeExtractor interface {
	ExtractRecipe(ctx context.Context, imageData []byte, mimeType string) (*recipe.Record, error)
}

// DishImageGenerator draws a dish from a text description.
type DishImageGenerator interface {
	GenerateDishImage(ctx context.Context, description string) (*imagegen.Image, error)
}

// RecipeExporter sends a normalized recipe to Tandoor.
type RecipeExporter interface {
	Export(ctx context.Context, baseURL, apiKey string, payload *tandoor.Recipe) error
}

// RecipeStore defines the interface for recipe data operations.
type RecipeStore interface {
	GetRecipe(ctx context.Context, imageHash string) (*recipe.Entry, error)
	SaveRecipe(ctx context.Context, entry *recipe.Entry) error
	ListRecipes(ctx context.Context, category, cuisine string) ([]*recipe.Entry, error)
	SaveDishImage(ctx context.Context, img *recipe.DishImage) error
	GetDishImage(ctx context.Context, imageHash string) (*recipe.DishImage, error)
}

// Options holds handler settings that come from configuration.
type Options struct {
	ImageDir string

	// Export target used when a request does not name one.
	TandoorURL    string
	TandoorAPIKey string
}

// Handler handles HTTP requests.
type Handler struct {
	Extractor      RecipeExtractor
	ImageGenerator DishImageGenerator
	Exporter       RecipeExporter
	RecipeStore    RecipeStore
	Options        Options
}

// NewHandler creates a new Handler.
func NewHandler(extractor RecipeExtractor, imageGenerator DishImageGenerator, exporter RecipeExporter, recipeStore RecipeStore, opts Options) *Handler {
	if opts.ImageDir == "" {
		opts.ImageDir = "images"
	}
	return &Handler{
		Extractor:      extractor,
		ImageGenerator: imageGenerator,
		Exporter:       exporter,
		RecipeStore:    recipeStore,
		Options:        opts,
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/recipefinder", h.Upload)
	r.GET("/recipes", h.GetRecipes)
	r.GET("/recipes/:image_hash", h.GetRecipe)
	r.GET("/recipes/:image_hash/text", h.GetRecipeText)
	r.POST("/recipes/:image_hash/dish-image", h.GenerateDishImage)
	r.GET("/recipes/:image_hash/dish-image", h.GetDishImage)
	r.POST("/recipes/:image_hash/export", h.ExportStored)
	r.POST("/export", h.Export)
	r.POST("/preview", h.Preview)
}

type uploadResponse struct {
	ImageHash string         `json:"image_hash"`
	Recipe    *recipe.Record `json:"recipe"`
	Text      string         `json:"text"`
}

// Upload handles photo uploads and extracts the recipe in them.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("error getting form file: %v", err)
		c.String(http.StatusBadRequest, fmt.Sprintf("get form err: %s", err.Error()))
		return
	}

	extension := strings.ToLower(filepath.Ext(file.Filename))
	mimeType, ok := allowedExtensions[extension]
	if !ok {
		c.String(http.StatusBadRequest, "Invalid file type. Only JPEG, JPG, and PNG images are allowed.")
		return
	}

	src, err := file.Open()
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("open file err: %s", err.Error()))
		return
	}
	defer src.Close()

	imageData, err := io.ReadAll(src)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("read image err: %s", err.Error()))
		return
	}

	imageHash := gemini.GenerateImageHash(imageData)

	ctx, cancel := context.WithTimeout(c.Request.Context(), extractTimeout)
	defer cancel()

	entry, err := h.RecipeStore.GetRecipe(ctx, imageHash)
	switch {
	case err == nil:
		log.Printf("recipe found in database for image hash: %s", imageHash)
		c.JSON(http.StatusOK, uploadResponse{ImageHash: imageHash, Recipe: entry.Recipe, Text: recipe.Format(entry.Recipe)})
		return
	case !errors.Is(err, recipe.ErrNotFound):
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	log.Printf("recipe not found in database, extracting for image hash: %s", imageHash)
	rec, err := h.Extractor.ExtractRecipe(ctx, imageData, mimeType)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.String(http.StatusRequestTimeout, "Recipe extraction timed out after 45 seconds")
			return
		}
		c.String(http.StatusBadGateway, fmt.Sprintf("extraction err: %s", err.Error()))
		return
	}

	resp := uploadResponse{ImageHash: imageHash, Recipe: rec, Text: recipe.Format(rec)}
	if rec.IsNotFound() {
		log.Printf("no recipe found in image hash: %s", imageHash)
		c.JSON(http.StatusOK, resp)
		return
	}

	imagePath, err := saveImage(imageData, h.Options.ImageDir, imageHash+extension, photoWidth)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to save image: %s", err.Error()))
		return
	}

	err = h.RecipeStore.SaveRecipe(ctx, &recipe.Entry{ImageHash: imageHash, ImagePath: imagePath, Recipe: rec})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.String(http.StatusRequestTimeout, "Database save timed out")
			return
		}
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to save recipe: %s", err.Error()))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRecipes lists stored recipes, optionally filtered by category and cuisine.
func (h *Handler) GetRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	entries, err := h.RecipeStore.ListRecipes(ctx, c.Query("category"), c.Query("cuisine"))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.String(http.StatusRequestTimeout, "Database query timed out after 5 seconds")
			return
		}
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetRecipe returns a single stored recipe.
func (h *Handler) GetRecipe(c *gin.Context) {
	entry, ok := h.loadEntry(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetRecipeText returns a stored recipe as plain text.
func (h *Handler) GetRecipeText(c *gin.Context) {
	entry, ok := h.loadEntry(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, recipe.Format(entry.Recipe))
}

// GenerateDishImage draws the dish of a stored recipe and keeps the result.
func (h *Handler) GenerateDishImage(c *gin.Context) {
	entry, ok := h.loadEntry(c)
	if !ok {
		return
	}

	description := entry.Recipe.DishImageDescription
	if strings.TrimSpace(description) == "" {
		description = entry.Recipe.Name
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), extractTimeout)
	defer cancel()

	img, err := h.ImageGenerator.GenerateDishImage(ctx, description)
	if err != nil {
		c.String(http.StatusBadGateway, fmt.Sprintf("image generation err: %s", err.Error()))
		return
	}
	if img == nil {
		c.Status(http.StatusNoContent)
		return
	}

	if data, err := img.Bytes(); err != nil {
		log.Printf("generated image for %s is not valid base64: %v", entry.ImageHash, err)
	} else if _, err := saveImage(data, filepath.Join(h.Options.ImageDir, "dishes"), entry.ImageHash+".png", dishWidth); err != nil {
		log.Printf("failed to save dish image for %s: %v", entry.ImageHash, err)
	}

	err = h.RecipeStore.SaveDishImage(ctx, &recipe.DishImage{
		ImageHash:  entry.ImageHash,
		MimeType:   img.MimeType,
		Base64Data: img.Base64Data,
	})
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to save dish image: %s", err.Error()))
		return
	}

	c.JSON(http.StatusOK, img)
}

// GetDishImage serves the stored dish image bytes.
func (h *Handler) GetDishImage(c *gin.Context) {
	imageHash := c.Param("image_hash")

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	img, err := h.RecipeStore.GetDishImage(ctx, imageHash)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			c.String(http.StatusNotFound, "Dish image not found")
			return
		}
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	data, err := (&imagegen.Image{Base64Data: img.Base64Data}).Bytes()
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("corrupt dish image: %s", err.Error()))
		return
	}
	c.Data(http.StatusOK, img.MimeType, data)
}

func (h *Handler) loadEntry(c *gin.Context) (*recipe.Entry, bool) {
	imageHash := c.Param("image_hash")

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	entry, err := h.RecipeStore.GetRecipe(ctx, imageHash)
	if err != nil {
		switch {
		case errors.Is(err, recipe.ErrNotFound):
			c.String(http.StatusNotFound, "Recipe not found")
		case errors.Is(err, context.DeadlineExceeded):
			c.String(http.StatusRequestTimeout, "Database query timed out after 5 seconds")
		default:
			c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		}
		return nil, false
	}
	return entry, true
}

func saveImage(imageData []byte, dir, name string, width uint) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = resize.Resize(width, 0, img, resize.Lanczos3)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	imagePath := filepath.Join(dir, name)
	out, err := os.Create(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpeg", ".jpg":
		err = jpeg.Encode(out, img, nil)
	case ".png":
		err = png.Encode(out, img)
	default:
		return "", fmt.Errorf("unsupported image format: %s", filepath.Ext(name))
	}

	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return imagePath, nil
}
