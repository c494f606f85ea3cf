package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
	"github.com/ericfisherdev/mycookbook/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SavedRecipeStore = (*SavedRecipeRepo)(nil)

// SavedRecipeRepo is the SQLite implementation of the SavedRecipeStore port interface.
type SavedRecipeRepo struct {
	db *DB
}

// NewSavedRecipeRepo creates a new SavedRecipeRepo backed by the given DB.
func NewSavedRecipeRepo(db *DB) *SavedRecipeRepo {
	return &SavedRecipeRepo{db: db}
}

// savedRecipeRow maps one row of saved_recipes.
type savedRecipeRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	ImageURL     string         `db:"image_url"`
	Instructions string         `db:"instructions"`
	Ingredients  ingredientList `db:"ingredients"`
	Category     string         `db:"category"`
	Area         string         `db:"area"`
}

const selectColumns = `id, name, image_url, instructions, ingredients, category, area`

// Save inserts the recipe or replaces the stored copy with the same ID.
// The original saved_at timestamp is kept on replace.
func (r *SavedRecipeRepo) Save(ctx context.Context, recipe model.Recipe) error {
	const query = `
		INSERT INTO saved_recipes (id, name, image_url, instructions, ingredients, category, area)
		VALUES (:id, :name, :image_url, :instructions, :ingredients, :category, :area)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			image_url = excluded.image_url,
			instructions = excluded.instructions,
			ingredients = excluded.ingredients,
			category = excluded.category,
			area = excluded.area
	`

	if _, err := r.db.Writer.NamedExecContext(ctx, query, toRow(recipe)); err != nil {
		return fmt.Errorf("save recipe %s: %w", recipe.ID, err)
	}

	return nil
}

// Delete removes the recipe with the given ID. Deleting an unsaved ID is not an error.
func (r *SavedRecipeRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM saved_recipes WHERE id = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}

	return nil
}

// GetByID retrieves a saved recipe by ID. Returns nil, nil if it is not saved.
func (r *SavedRecipeRepo) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	const query = `SELECT ` + selectColumns + ` FROM saved_recipes WHERE id = ?`

	var row savedRecipeRow
	err := r.db.Reader.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}

	recipe := row.toDomain()
	return &recipe, nil
}

// Exists reports whether a recipe with the given ID is saved.
func (r *SavedRecipeRepo) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT COUNT(*) FROM saved_recipes WHERE id = ?`

	var count int
	if err := r.db.Reader.GetContext(ctx, &count, query, id); err != nil {
		return false, fmt.Errorf("check recipe %s: %w", id, err)
	}

	return count > 0, nil
}

// Search returns saved recipes whose name contains query, ordered by name.
// Matching folds case for every script and treats query as plain text.
func (r *SavedRecipeRepo) Search(ctx context.Context, query string) ([]model.Recipe, error) {
	const stmt = `
		SELECT ` + selectColumns + `
		FROM saved_recipes
		WHERE instr(` + foldFunc + `(name), ?) > 0
		ORDER BY name COLLATE NOCASE, id
	`

	var rows []savedRecipeRow
	if err := r.db.Reader.SelectContext(ctx, &rows, stmt, foldString(query)); err != nil {
		return nil, fmt.Errorf("search saved recipes for %q: %w", query, err)
	}

	return toDomainList(rows), nil
}

// ListAll returns every saved recipe ordered by name.
func (r *SavedRecipeRepo) ListAll(ctx context.Context) ([]model.Recipe, error) {
	const query = `SELECT ` + selectColumns + ` FROM saved_recipes ORDER BY name COLLATE NOCASE, id`

	var rows []savedRecipeRow
	if err := r.db.Reader.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list saved recipes: %w", err)
	}

	return toDomainList(rows), nil
}

func toRow(recipe model.Recipe) savedRecipeRow {
	return savedRecipeRow{
		ID:           recipe.ID,
		Name:         recipe.Name,
		ImageURL:     recipe.ImageURL,
		Instructions: recipe.Instructions,
		Ingredients:  ingredientList(recipe.Ingredients),
		Category:     recipe.Category,
		Area:         recipe.Area,
	}
}

func (row savedRecipeRow) toDomain() model.Recipe {
	ingredients := []model.Ingredient(row.Ingredients)
	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}

	return model.Recipe{
		ID:           row.ID,
		Name:         row.Name,
		ImageURL:     row.ImageURL,
		Instructions: row.Instructions,
		Ingredients:  ingredients,
		Category:     row.Category,
		Area:         row.Area,
	}
}

func toDomainList(rows []savedRecipeRow) []model.Recipe {
	recipes := make([]model.Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, row.toDomain())
	}
	return recipes
}
