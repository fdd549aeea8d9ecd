package handler

import (
	"github.com/iamrajpal/goodfood/internal/model"
	"github.com/iamrajpal/goodfood/internal/validation"
)

type CreateRecipeRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	SlugURL     string          `json:"slug_url" validate:"omitempty,max=200,slug"`
	Category    *model.Category `json:"category" validate:"required,category"`
}

func (r *CreateRecipeRequest) Validate() error { return validation.Struct(r) }

type GetRecipeRequest struct {
	ID int `param:"id" validate:"gt=0"`
}

func (r *GetRecipeRequest) Validate() error { return validation.Struct(r) }

// UpdateRecipeRequest takes the id from the path; the slug cannot change.
type UpdateRecipeRequest struct {
	ID          int             `param:"id" json:"-" validate:"gt=0"`
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Category    *model.Category `json:"category" validate:"required,category"`
}

func (r *UpdateRecipeRequest) Validate() error { return validation.Struct(r) }

type DeleteRecipesRequest struct {
	IDs []int `json:"ids" validate:"required,min=1,max=100,dive,gt=0"`
}

func (r *DeleteRecipesRequest) Validate() error { return validation.Struct(r) }

type DeleteRecipesResponse struct {
	Deleted bool `json:"deleted"`
}

type RecipeExistsRequest struct {
	Title string `query:"title" validate:"required_without=Slug,max=200"`
	Slug  string `query:"slug" validate:"max=200"`
}

func (r *RecipeExistsRequest) Validate() error { return validation.Struct(r) }
