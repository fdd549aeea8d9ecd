package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/iamrajpal/goodfood/internal/errs"
	"github.com/iamrajpal/goodfood/internal/lib/job"
	"github.com/iamrajpal/goodfood/internal/model"
	"github.com/iamrajpal/goodfood/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory RecipeStore keyed by owner.
type fakeStore struct {
	recipes map[int]map[int]model.Recipe
	nextID  int

	createErr error
	getErr    error
	countErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{recipes: map[int]map[int]model.Recipe{}, nextID: 1}
}

func (f *fakeStore) IsRecipeExists(_ context.Context, name string, userID int) (bool, error) {
	if f.countErr != nil {
		return false, f.countErr
	}
	for _, r := range f.recipes[userID] {
		if r.Title == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) IsRecipeExistsWithSlug(_ context.Context, _ string, userID int, slug string) (bool, error) {
	if f.countErr != nil {
		return false, f.countErr
	}
	for _, r := range f.recipes[userID] {
		if r.SlugURL == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(_ context.Context, userID int, recipe model.Recipe) (*model.Recipe, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	recipe.ID = f.nextID
	f.nextID++
	if f.recipes[userID] == nil {
		f.recipes[userID] = map[int]model.Recipe{}
	}
	f.recipes[userID][recipe.ID] = recipe
	return &recipe, nil
}

func (f *fakeStore) Update(_ context.Context, userID, recipeID int, recipe model.Recipe) (bool, error) {
	existing, ok := f.recipes[userID][recipeID]
	if !ok {
		return false, nil
	}
	existing.Title, existing.Description, existing.Category = recipe.Title, recipe.Description, recipe.Category
	f.recipes[userID][recipeID] = existing
	return true, nil
}

func (f *fakeStore) GetRecipe(_ context.Context, recipeID, userID int) (*model.Recipe, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.recipes[userID][recipeID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeStore) Delete(_ context.Context, userID int, recipeIDs []int) (bool, error) {
	deleted := false
	for _, id := range recipeIDs {
		_, deleted = f.recipes[userID][id]
		delete(f.recipes[userID], id)
	}
	return deleted, nil
}

type fakePublisher struct {
	events []job.RecipeEvent
	err    error
}

func (p *fakePublisher) PublishRecipeEvent(_ context.Context, ev job.RecipeEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func newTestService() (*RecipeService, *fakeStore, *fakePublisher) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewRecipeService(store, pub, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, store, pub
}

func requireHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, status, httpErr.Status)
	if code != "" {
		assert.Equal(t, code, httpErr.Code)
	}
}

func TestCreateDefaultsSlug(t *testing.T) {
	svc, _, pub := newTestService()

	created, err := svc.Create(context.Background(), 7, CreateRecipeInput{Title: "Apple Pie", Category: model.CategoryDessert})
	require.NoError(t, err)
	assert.Equal(t, "apple-pie", created.SlugURL)
	assert.Positive(t, created.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, job.RecipeCreated, pub.events[0].Action)
	assert.Equal(t, []int{created.ID}, pub.events[0].RecipeIDs)
}

func TestCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "Apple Pie"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 7, CreateRecipeInput{Title: "Apple Pie", SlugURL: "other"})
	requireHTTPError(t, err, http.StatusConflict, "RECIPE_TITLE_ALREADY_EXISTS")

	_, err = svc.Create(ctx, 7, CreateRecipeInput{Title: "Apple Pie!", SlugURL: "apple-pie"})
	requireHTTPError(t, err, http.StatusConflict, "RECIPE_SLUG_ALREADY_EXISTS")

	// Another user may reuse both.
	_, err = svc.Create(ctx, 8, CreateRecipeInput{Title: "Apple Pie"})
	assert.NoError(t, err)
}

func TestCreateUnsluggableTitle(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), 7, CreateRecipeInput{Title: "!!!"})
	requireHTTPError(t, err, http.StatusBadRequest, "")
}

func TestRejectsUnknownCategory(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newTestService()

	_, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "Soup", Category: model.Category(99)})
	requireHTTPError(t, err, http.StatusBadRequest, "RECIPE_INVALID_CATEGORY")
	assert.Empty(t, store.recipes[7])

	created, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "Soup", Category: model.CategorySoup})
	require.NoError(t, err)

	err = svc.Update(ctx, 7, created.ID, UpdateRecipeInput{Title: "Stew", Category: model.Category(-3)})
	requireHTTPError(t, err, http.StatusBadRequest, "RECIPE_INVALID_CATEGORY")
	assert.Equal(t, model.CategorySoup, store.recipes[7][created.ID].Category)
	assert.Len(t, pub.events, 1)
}

func TestCreateStoreOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("creation failed", func(t *testing.T) {
		svc, store, pub := newTestService()
		store.createErr = repository.ErrRecipeCreationFailed

		_, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "Soup"})
		requireHTTPError(t, err, http.StatusInternalServerError, "")
		assert.Empty(t, pub.events)
	})

	t.Run("race on unique constraint", func(t *testing.T) {
		svc, store, _ := newTestService()
		pgErr := &pgconn.PgError{Code: "23505", TableName: "recipes", ConstraintName: "recipes_user_id_recipe_slug_key"}
		store.createErr = fmt.Errorf("%w: %w", repository.ErrDuplicateRecipe, pgErr)

		_, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "Soup"})
		requireHTTPError(t, err, http.StatusConflict, "RECIPE_SLUG_ALREADY_EXISTS")
	})

	t.Run("bare duplicate", func(t *testing.T) {
		svc, store, _ := newTestService()
		store.createErr = repository.ErrDuplicateRecipe

		_, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "Soup"})
		requireHTTPError(t, err, http.StatusConflict, "RECIPE_ALREADY_EXISTS")
	})

	t.Run("store failure", func(t *testing.T) {
		svc, store, _ := newTestService()
		store.countErr = errors.New("connection refused")

		_, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "Soup"})
		requireHTTPError(t, err, http.StatusInternalServerError, "")
	})
}

func TestCreateIgnoresPublishFailure(t *testing.T) {
	svc, _, pub := newTestService()
	pub.err = errors.New("redis down")

	_, err := svc.Create(context.Background(), 7, CreateRecipeInput{Title: "Soup"})
	assert.NoError(t, err)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()

	created, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "Soup", Category: model.CategorySoup})
	require.NoError(t, err)

	dto, err := svc.Get(ctx, 7, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int(model.CategorySoup), dto.DishCategoryID)
	assert.Equal(t, "soup", dto.SlugURL)

	_, err = svc.Get(ctx, 8, created.ID)
	requireHTTPError(t, err, http.StatusNotFound, "RECIPE_NOT_FOUND")

	store.getErr = &model.MalformedCategoryError{Value: "Brunch"}
	_, err = svc.Get(ctx, 7, created.ID)
	requireHTTPError(t, err, http.StatusInternalServerError, "")
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newTestService()

	created, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "Soup"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, 7, created.ID, UpdateRecipeInput{Title: "Stew", Category: model.CategoryMainCourse}))
	assert.Equal(t, "Stew", store.recipes[7][created.ID].Title)
	assert.Equal(t, "soup", store.recipes[7][created.ID].SlugURL)
	assert.Equal(t, job.RecipeUpdated, pub.events[len(pub.events)-1].Action)

	err = svc.Update(ctx, 8, created.ID, UpdateRecipeInput{Title: "Stolen"})
	requireHTTPError(t, err, http.StatusNotFound, "RECIPE_NOT_FOUND")
}

func TestDeleteLastWins(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestService()

	a, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "B"})
	require.NoError(t, err)
	published := len(pub.events)

	deleted, err := svc.Delete(ctx, 7, []int{a.ID, 999})
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, pub.events, published)

	deleted, err = svc.Delete(ctx, 7, []int{999, b.ID})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, job.RecipeDeleted, pub.events[len(pub.events)-1].Action)

	deleted, err = svc.Delete(ctx, 7, nil)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Create(ctx, 7, CreateRecipeInput{Title: "Soup"})
	require.NoError(t, err)

	res, err := svc.Exists(ctx, 7, "Soup", "")
	require.NoError(t, err)
	assert.Equal(t, ExistsResult{TitleExists: true}, *res)

	res, err = svc.Exists(ctx, 7, "", "soup")
	require.NoError(t, err)
	assert.Equal(t, ExistsResult{SlugExists: true}, *res)

	res, err = svc.Exists(ctx, 8, "Soup", "soup")
	require.NoError(t, err)
	assert.Equal(t, ExistsResult{}, *res)
}
