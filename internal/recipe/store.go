package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when no row exists for an image hash.
var ErrNotFound = errors.New("not found")

// Entry is an extracted record stored under the hash of the photo it came from.
type Entry struct {
	ImageHash string    `json:"image_hash"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
	Recipe    *Record   `json:"recipe"`
}

// DishImage is a generated illustration of a recipe, base64 encoded.
type DishImage struct {
	ImageHash  string `json:"image_hash" db:"image_hash"`
	MimeType   string `json:"mime_type" db:"mime_type"`
	Base64Data string `json:"base64_data" db:"data"`
}

// Store defines the interface for recipe data operations.
type Store interface {
	GetRecipe(ctx context.Context, imageHash string) (*Entry, error)
	SaveRecipe(ctx context.Context, entry *Entry) error
	ListRecipes(ctx context.Context, category, cuisine string) ([]*Entry, error)
	SaveDishImage(ctx context.Context, img *DishImage) error
	GetDishImage(ctx context.Context, imageHash string) (*DishImage, error)
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

type recipeRow struct {
	ImageHash string    `db:"image_hash"`
	Record    []byte    `db:"record"`
	ImagePath string    `db:"image_path"`
	CreatedAt time.Time `db:"created_at"`
}

func (r recipeRow) entry() (*Entry, error) {
	var rec Record
	if err := json.Unmarshal(r.Record, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", r.ImageHash, err)
	}
	return &Entry{
		ImageHash: r.ImageHash,
		ImagePath: r.ImagePath,
		CreatedAt: r.CreatedAt,
		Recipe:    &rec,
	}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	image_hash TEXT PRIMARY KEY,
	record JSONB NOT NULL,
	image_path TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS dish_images (
	image_hash TEXT PRIMARY KEY,
	mime_type TEXT NOT NULL,
	data TEXT NOT NULL
);
`

// NewPostgresStore connects to the database and creates the tables if needed.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// GetRecipe retrieves a stored record by its image hash.
func (s *PostgresStore) GetRecipe(ctx context.Context, imageHash string) (*Entry, error) {
	var row recipeRow
	err := s.db.GetContext(ctx, &row,
		"SELECT image_hash, record, image_path, created_at FROM recipes WHERE image_hash = $1", imageHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by hash: %w", err)
	}
	return row.entry()
}

// SaveRecipe upserts a record.
func (s *PostgresStore) SaveRecipe(ctx context.Context, entry *Entry) error {
	recordJSON, err := json.Marshal(entry.Recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO recipes (image_hash, record, image_path) VALUES ($1, $2, $3) ON CONFLICT (image_hash) DO UPDATE SET record = $2, image_path = $3",
		entry.ImageHash,
		recordJSON,
		entry.ImagePath,
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// ListRecipes returns stored records, optionally filtered by exact category and cuisine.
func (s *PostgresStore) ListRecipes(ctx context.Context, category, cuisine string) ([]*Entry, error) {
	var args []interface{}
	query := "SELECT image_hash, record, image_path, created_at FROM recipes WHERE 1=1"

	paramCount := 1
	if category != "" {
		query += fmt.Sprintf(" AND record->>'recipeCategory' = $%d", paramCount)
		args = append(args, category)
		paramCount++
	}
	if cuisine != "" {
		query += fmt.Sprintf(" AND record->>'recipeCuisine' = $%d", paramCount)
		args = append(args, cuisine)
	}
	query += " ORDER BY created_at DESC"

	var rows []recipeRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		e, err := row.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SaveDishImage upserts the generated image for a recipe.
func (s *PostgresStore) SaveDishImage(ctx context.Context, img *DishImage) error {
	_, err := s.db.NamedExecContext(ctx,
		"INSERT INTO dish_images (image_hash, mime_type, data) VALUES (:image_hash, :mime_type, :data) ON CONFLICT (image_hash) DO UPDATE SET mime_type = :mime_type, data = :data",
		img,
	)
	if err != nil {
		return fmt.Errorf("failed to save dish image: %w", err)
	}
	return nil
}

// GetDishImage retrieves the generated image for a recipe.
func (s *PostgresStore) GetDishImage(ctx context.Context, imageHash string) (*DishImage, error) {
	var img DishImage
	err := s.db.GetContext(ctx, &img,
		"SELECT image_hash, mime_type, data FROM dish_images WHERE image_hash = $1", imageHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get dish image by hash: %w", err)
	}
	return &img, nil
}
