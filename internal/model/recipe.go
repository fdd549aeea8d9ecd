package model

// Recipe is a recipe record. The owning user id is not part of the entity;
// it is passed next to it on every repository call.
type Recipe struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SlugURL     string   `json:"slug_url"`
	Category    Category `json:"category"`
}

// FullRecipeDto is the read projection used for display, exposing the
// category as its raw DishCategoryID.
type FullRecipeDto struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	SlugURL        string `json:"slug_url"`
	DishCategoryID int    `json:"dish_category_id"`
}

// ToFullDto projects r into a FullRecipeDto.
func (r *Recipe) ToFullDto() *FullRecipeDto {
	return &FullRecipeDto{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		SlugURL:        r.SlugURL,
		DishCategoryID: int(r.Category),
	}
}

// Ingredient is a recipe ingredient. Amount is free text ("2 cups"),
// not a structured quantity.
type Ingredient struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SlugURL     string `json:"slug_url"`
	Amount      string `json:"amount"`
}
