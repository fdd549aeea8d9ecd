package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/iamrajpal/goodfood/internal/model"
	"github.com/iamrajpal/goodfood/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var (
	// ErrRecipeCreationFailed means the insert returned no identity.
	ErrRecipeCreationFailed = errors.New("recipe creation failed")
	// ErrDuplicateRecipe means the insert hit a (user, title) or
	// (user, slug) unique constraint. It wraps the driver error.
	ErrDuplicateRecipe = errors.New("duplicate recipe")
)

const (
	countRecipesByTitleSQL = `SELECT COUNT(recipe_title) FROM recipes WHERE recipe_title = $1 AND user_id = $2`

	countRecipesBySlugSQL = `SELECT COUNT(recipe_slug) FROM recipes WHERE recipe_slug = $1 AND user_id = $2`

	insertRecipeSQL = `INSERT INTO recipes (recipe_title, recipe_description, recipe_slug, recipe_category, user_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING recipe_id`

	updateRecipeSQL = `UPDATE recipes
SET recipe_title = $1, recipe_description = $2, recipe_category = $3
WHERE recipe_id = $4 AND user_id = $5`

	selectRecipeByUserSQL = `SELECT recipe_id, recipe_title, recipe_description, recipe_slug, recipe_category
FROM getRecipeByUserId($1, $2)`

	deleteRecipeSQL = `DELETE FROM recipes WHERE user_id = $1 AND recipe_id = $2`
)

// RecipeStore is what the service layer needs from recipe persistence.
// Every call is scoped to the owning user.
type RecipeStore interface {
	IsRecipeExists(ctx context.Context, name string, userID int) (bool, error)
	IsRecipeExistsWithSlug(ctx context.Context, name string, userID int, slug string) (bool, error)
	Create(ctx context.Context, userID int, recipe model.Recipe) (*model.Recipe, error)
	Update(ctx context.Context, userID, recipeID int, recipe model.Recipe) (bool, error)
	GetRecipe(ctx context.Context, recipeID, userID int) (*model.Recipe, error)
	Delete(ctx context.Context, userID int, recipeIDs []int) (bool, error)
}

// RecipeRepository is the PostgreSQL RecipeStore.
type RecipeRepository struct {
	db  DBTX
	log *zerolog.Logger
}

var _ RecipeStore = (*RecipeRepository)(nil)

func NewRecipeRepository(db DBTX, logger *zerolog.Logger) *RecipeRepository {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RecipeRepository{db: db, log: logger}
}

// IsRecipeExists reports whether userID already owns a recipe titled name.
// Titles compare exactly.
func (r *RecipeRepository) IsRecipeExists(ctx context.Context, name string, userID int) (bool, error) {
	r.log.Debug().Str("operation", "is_recipe_exists").Int("user_id", userID).Msg("checking recipe title")
	return r.count(ctx, countRecipesByTitleSQL, name, userID)
}

// IsRecipeExistsWithSlug reports whether userID already owns a recipe with
// this slug. name is not part of the predicate.
func (r *RecipeRepository) IsRecipeExistsWithSlug(ctx context.Context, name string, userID int, slug string) (bool, error) {
	r.log.Debug().Str("operation", "is_recipe_exists_with_slug").Int("user_id", userID).Msg("checking recipe slug")
	return r.count(ctx, countRecipesBySlugSQL, slug, userID)
}

func (r *RecipeRepository) count(ctx context.Context, query string, args ...any) (bool, error) {
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count recipes: %w", err)
	}
	return n > 0, nil
}

// Create inserts recipe for userID and returns a copy carrying the new id.
// It does not pre-check for duplicates; the schema constraints do that.
// A category outside the closed set is rejected before any SQL runs.
func (r *RecipeRepository) Create(ctx context.Context, userID int, recipe model.Recipe) (*model.Recipe, error) {
	if !recipe.Category.Valid() {
		return nil, &model.MalformedCategoryError{Value: recipe.Category.String()}
	}

	var id int
	err := r.db.QueryRow(ctx, insertRecipeSQL,
		recipe.Title,
		recipe.Description,
		recipe.SlugURL,
		recipe.Category.String(),
		userID,
	).Scan(&id)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		r.log.Warn().Str("operation", "create").Int("user_id", userID).Msg("insert returned no recipe id")
		return nil, ErrRecipeCreationFailed
	case sqlerr.IsUniqueViolation(err):
		return nil, fmt.Errorf("%w: %w", ErrDuplicateRecipe, err)
	case err != nil:
		return nil, err
	}

	if id <= 0 {
		r.log.Warn().Str("operation", "create").Int("user_id", userID).Int("recipe_id", id).Msg("insert returned invalid recipe id")
		return nil, ErrRecipeCreationFailed
	}

	r.log.Debug().Str("operation", "create").Int("user_id", userID).Int("recipe_id", id).Msg("recipe created")

	created := recipe
	created.ID = id
	return &created, nil
}

// Update rewrites title, description and category of one of userID's
// recipes. It reports false when no row matched.
func (r *RecipeRepository) Update(ctx context.Context, userID, recipeID int, recipe model.Recipe) (bool, error) {
	if !recipe.Category.Valid() {
		return false, &model.MalformedCategoryError{Value: recipe.Category.String()}
	}

	tag, err := r.db.Exec(ctx, updateRecipeSQL,
		recipe.Title,
		recipe.Description,
		recipe.Category.String(),
		recipeID,
		userID,
	)
	if err != nil {
		return false, err
	}

	r.log.Debug().Str("operation", "update").Int("user_id", userID).Int("recipe_id", recipeID).
		Int64("rows_affected", tag.RowsAffected()).Msg("recipe updated")

	return tag.RowsAffected() >= 1, nil
}

// GetRecipe loads recipeID if userID owns it. A missing recipe is
// (nil, nil), not an error.
func (r *RecipeRepository) GetRecipe(ctx context.Context, recipeID, userID int) (*model.Recipe, error) {
	rows, err := r.db.Query(ctx, selectRecipeByUserSQL, userID, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		r.log.Debug().Str("operation", "get_recipe").Int("user_id", userID).Int("recipe_id", recipeID).Msg("recipe not found")
		return nil, nil
	}

	var (
		recipe   model.Recipe
		category string
	)
	if err := rows.Scan(&recipe.ID, &recipe.Title, &recipe.Description, &recipe.SlugURL, &category); err != nil {
		return nil, fmt.Errorf("scan recipe: %w", err)
	}

	recipe.Category, err = model.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	return &recipe, nil
}

// Delete removes each of recipeIDs owned by userID, in order, one
// statement per id. The result reflects only the last id: true when that
// delete hit a row. An empty list is false. The first failure stops the
// loop; deletes already issued stay applied.
func (r *RecipeRepository) Delete(ctx context.Context, userID int, recipeIDs []int) (bool, error) {
	deleted := false
	for _, id := range recipeIDs {
		tag, err := r.db.Exec(ctx, deleteRecipeSQL, userID, id)
		if err != nil {
			return false, err
		}
		deleted = tag.RowsAffected() >= 1
	}

	r.log.Debug().Str("operation", "delete").Int("user_id", userID).Ints("recipe_ids", recipeIDs).
		Bool("deleted", deleted).Msg("recipes deleted")

	return deleted, nil
}
