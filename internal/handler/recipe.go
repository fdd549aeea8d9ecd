package handler

import (
	"github.com/iamrajpal/goodfood/internal/errs"
	"github.com/iamrajpal/goodfood/internal/middleware"
	"github.com/iamrajpal/goodfood/internal/model"
	"github.com/iamrajpal/goodfood/internal/server"
	"github.com/iamrajpal/goodfood/internal/service"
	"github.com/labstack/echo/v4"
)

// RecipeHandler serves the /recipes endpoints. Every route sits behind
// RequireAuth, so a user id is always available.
type RecipeHandler struct {
	Handler
	recipes *service.RecipeService
}

func NewRecipeHandler(s *server.Server, recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		Handler: NewHandler(s),
		recipes: recipes,
	}
}

func currentUser(c echo.Context) (int, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return 0, errs.NewUnauthorizedError("Unauthorized", false)
	}
	return userID, nil
}

func (h *RecipeHandler) CreateRecipe(c echo.Context, req *CreateRecipeRequest) (*model.Recipe, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	return h.recipes.Create(c.Request().Context(), userID, service.CreateRecipeInput{
		Title:       req.Title,
		Description: req.Description,
		SlugURL:     req.SlugURL,
		Category:    *req.Category,
	})
}

func (h *RecipeHandler) GetRecipe(c echo.Context, req *GetRecipeRequest) (*model.FullRecipeDto, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	return h.recipes.Get(c.Request().Context(), userID, req.ID)
}

func (h *RecipeHandler) UpdateRecipe(c echo.Context, req *UpdateRecipeRequest) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	return h.recipes.Update(c.Request().Context(), userID, req.ID, service.UpdateRecipeInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    *req.Category,
	})
}

// DeleteRecipes deletes the listed ids. "deleted" reflects the last id.
func (h *RecipeHandler) DeleteRecipes(c echo.Context, req *DeleteRecipesRequest) (*DeleteRecipesResponse, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	deleted, err := h.recipes.Delete(c.Request().Context(), userID, req.IDs)
	if err != nil {
		return nil, err
	}
	return &DeleteRecipesResponse{Deleted: deleted}, nil
}

func (h *RecipeHandler) RecipeExists(c echo.Context, req *RecipeExistsRequest) (*service.ExistsResult, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	return h.recipes.Exists(c.Request().Context(), userID, req.Title, req.Slug)
}
