package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iamrajpal/goodfood/internal/errs"
	"github.com/iamrajpal/goodfood/internal/lib/job"
	"github.com/iamrajpal/goodfood/internal/lib/utils"
	"github.com/iamrajpal/goodfood/internal/model"
	"github.com/iamrajpal/goodfood/internal/repository"
	"github.com/iamrajpal/goodfood/internal/sqlerr"
	"github.com/rs/zerolog"
)

// Error codes surfaced to API clients.
var (
	codeTitleExists = "RECIPE_TITLE_ALREADY_EXISTS"
	codeSlugExists  = "RECIPE_SLUG_ALREADY_EXISTS"
	codeDuplicate   = "RECIPE_ALREADY_EXISTS"
	codeNotFound    = "RECIPE_NOT_FOUND"
	codeBadCategory = "RECIPE_INVALID_CATEGORY"
)

// RecipeEventPublisher receives recipe lifecycle events.
// *job.JobService implements it.
type RecipeEventPublisher interface {
	PublishRecipeEvent(ctx context.Context, ev job.RecipeEvent) error
}

type CreateRecipeInput struct {
	Title       string
	Description string
	// SlugURL defaults to the slugified title when empty.
	SlugURL  string
	Category model.Category
}

type UpdateRecipeInput struct {
	Title       string
	Description string
	Category    model.Category
}

// ExistsResult answers a title/slug availability check.
type ExistsResult struct {
	TitleExists bool `json:"title_exists"`
	SlugExists  bool `json:"slug_exists"`
}

// RecipeService applies per-user recipe rules on top of a RecipeStore and
// turns store outcomes into HTTP errors.
type RecipeService struct {
	store  repository.RecipeStore
	events RecipeEventPublisher
	logger *zerolog.Logger
	now    func() time.Time
}

// NewRecipeService builds a RecipeService. events may be nil, in which
// case nothing is published.
func NewRecipeService(store repository.RecipeStore, events RecipeEventPublisher, logger *zerolog.Logger) *RecipeService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RecipeService{
		store:  store,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// Create stores a new recipe for userID. The title and slug must both be
// unused by that user.
func (s *RecipeService) Create(ctx context.Context, userID int, in CreateRecipeInput) (*model.Recipe, error) {
	if !in.Category.Valid() {
		return nil, invalidCategory()
	}

	slug := in.SlugURL
	if slug == "" {
		slug = utils.Slugify(in.Title)
	}
	if slug == "" {
		return nil, errs.NewBadRequestError("Title must contain letters or digits", true, nil,
			[]errs.FieldError{{Field: "title", Error: "cannot be turned into a slug"}}, nil)
	}

	exists, err := s.store.IsRecipeExists(ctx, in.Title, userID)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	if exists {
		return nil, errs.NewConflictError("A recipe with this title already exists", true, &codeTitleExists)
	}

	exists, err = s.store.IsRecipeExistsWithSlug(ctx, in.Title, userID, slug)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	if exists {
		return nil, errs.NewConflictError("A recipe with this slug already exists", true, &codeSlugExists)
	}

	created, err := s.store.Create(ctx, userID, model.Recipe{
		Title:       in.Title,
		Description: in.Description,
		SlugURL:     slug,
		Category:    in.Category,
	})
	switch {
	case errors.Is(err, repository.ErrDuplicateRecipe):
		// Lost a race with a concurrent create.
		if sqlerr.IsUniqueViolation(err) {
			return nil, sqlerr.HandleError(err)
		}
		return nil, errs.NewConflictError("A recipe with this title or slug already exists", true, &codeDuplicate)
	case errors.Is(err, repository.ErrRecipeCreationFailed):
		s.logger.Error().Err(err).Int("user_id", userID).Msg("recipe insert returned no id")
		return nil, errs.NewInternalServerError()
	case err != nil:
		return nil, sqlerr.HandleError(err)
	}

	s.publish(ctx, job.RecipeCreated, userID, created.ID)
	return created, nil
}

// Get returns recipeID as a FullRecipeDto when userID owns it.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID int) (*model.FullRecipeDto, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID, userID)
	if err != nil {
		if errors.Is(err, model.ErrMalformedCategory) {
			s.logger.Error().Err(err).Int("user_id", userID).Int("recipe_id", recipeID).Msg("stored recipe has unknown category")
			return nil, errs.NewInternalServerError()
		}
		return nil, sqlerr.HandleError(err)
	}
	if recipe == nil {
		return nil, errs.NewNotFoundError("Recipe not found", true, &codeNotFound)
	}
	return recipe.ToFullDto(), nil
}

// Update changes title, description and category. The slug is fixed at
// creation.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID int, in UpdateRecipeInput) error {
	if !in.Category.Valid() {
		return invalidCategory()
	}

	ok, err := s.store.Update(ctx, userID, recipeID, model.Recipe{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
	})
	if err != nil {
		return sqlerr.HandleError(err)
	}
	if !ok {
		return errs.NewNotFoundError("Recipe not found", true, &codeNotFound)
	}

	s.publish(ctx, job.RecipeUpdated, userID, recipeID)
	return nil
}

// Delete removes recipeIDs owned by userID. The result reports whether
// the last id in the list was deleted.
func (s *RecipeService) Delete(ctx context.Context, userID int, recipeIDs []int) (bool, error) {
	deleted, err := s.store.Delete(ctx, userID, recipeIDs)
	if err != nil {
		return false, sqlerr.HandleError(err)
	}
	if deleted {
		s.publish(ctx, job.RecipeDeleted, userID, recipeIDs...)
	}
	return deleted, nil
}

// Exists checks title and slug availability for userID. Empty values are
// not checked and report false.
func (s *RecipeService) Exists(ctx context.Context, userID int, title, slug string) (*ExistsResult, error) {
	var (
		res ExistsResult
		err error
	)
	if title != "" {
		if res.TitleExists, err = s.store.IsRecipeExists(ctx, title, userID); err != nil {
			return nil, sqlerr.HandleError(err)
		}
	}
	if slug != "" {
		if res.SlugExists, err = s.store.IsRecipeExistsWithSlug(ctx, title, userID, slug); err != nil {
			return nil, sqlerr.HandleError(err)
		}
	}
	return &res, nil
}

func invalidCategory() error {
	return errs.NewBadRequestError("Unknown recipe category", true, &codeBadCategory,
		[]errs.FieldError{{Field: "category", Error: "must be one of " + strings.Join(model.CategoryNames(), ", ")}}, nil)
}

func (s *RecipeService) publish(ctx context.Context, action job.RecipeAction, userID int, recipeIDs ...int) {
	if s.events == nil {
		return
	}
	ev := job.RecipeEvent{
		Action:    action,
		UserID:    userID,
		RecipeIDs: recipeIDs,
		At:        s.now().UTC(),
	}
	if err := s.events.PublishRecipeEvent(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("action", string(action)).Int("user_id", userID).Msg("failed to publish recipe event")
	}
}
