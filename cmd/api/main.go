package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"recipesnap/internal/api"
	"recipesnap/internal/config"
	"recipesnap/internal/platform/gemini"
	"recipesnap/internal/platform/imagegen"
	"recipesnap/internal/recipe"
	"recipesnap/internal/tandoor"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		panic(fmt.Errorf("error creating gemini client: %w", err))
	}
	defer geminiClient.Close()

	imageClient := imagegen.NewClient(cfg.ImageGenURL, cfg.ImageGenAPIKey, cfg.ImageGenModel)

	dbStore, err := recipe.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		panic(fmt.Errorf("error creating postgresstore: %w", err))
	}
	defer dbStore.Close()

	handler := api.NewHandler(geminiClient, imageClient, tandoor.NewClient(nil), dbStore, api.Options{
		ImageDir:      cfg.ImageDir,
		TandoorURL:    cfg.TandoorURL,
		TandoorAPIKey: cfg.TandoorAPIKey,
	})

	r := newRouter(handler, cfg)
	log.Printf("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newRouter(handler *api.Handler, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler.Register(r)
	r.Static("/images", cfg.ImageDir)
	return r
}
