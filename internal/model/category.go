package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedCategory is matched by every *MalformedCategoryError.
var ErrMalformedCategory = errors.New("malformed recipe category")

// MalformedCategoryError reports stored or submitted text that does not
// name one of the dish categories.
type MalformedCategoryError struct {
	Value string
}

func (e *MalformedCategoryError) Error() string {
	return fmt.Sprintf("malformed recipe category %q", e.Value)
}

func (e *MalformedCategoryError) Is(target error) bool {
	return target == ErrMalformedCategory
}

// Category is the closed set of dish categories a recipe can belong to.
//
// The integer value is the DishCategoryID exposed by FullRecipeDto and the
// name (String) is what gets persisted in recipes.recipe_category.
type Category int

const (
	CategoryBreakfast Category = iota
	CategoryLunch
	CategoryDinner
	CategoryAppetizer
	CategorySoup
	CategorySalad
	CategoryMainCourse
	CategorySideDish
	CategoryDessert
	CategorySnack
	CategoryBeverage
)

var categoryNames = [...]string{
	CategoryBreakfast:  "Breakfast",
	CategoryLunch:      "Lunch",
	CategoryDinner:     "Dinner",
	CategoryAppetizer:  "Appetizer",
	CategorySoup:       "Soup",
	CategorySalad:      "Salad",
	CategoryMainCourse: "MainCourse",
	CategorySideDish:   "SideDish",
	CategoryDessert:    "Dessert",
	CategorySnack:      "Snack",
	CategoryBeverage:   "Beverage",
}

var categoriesByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for i, name := range categoryNames {
		m[name] = Category(i)
	}
	return m
}()

// ParseCategory maps stored text to a Category. The match is exact and
// case-sensitive; anything else yields a *MalformedCategoryError.
func ParseCategory(text string) (Category, error) {
	c, ok := categoriesByName[text]
	if !ok {
		return 0, &MalformedCategoryError{Value: text}
	}
	return c, nil
}

// Categories returns every category in DishCategoryID order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

// CategoryNames returns every category name in DishCategoryID order.
func CategoryNames() []string {
	out := make([]string, len(categoryNames))
	copy(out, categoryNames[:])
	return out
}

func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalJSON encodes the category by name.
func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, &MalformedCategoryError{Value: c.String()}
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts only a category name.
func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return &MalformedCategoryError{Value: string(data)}
	}
	parsed, err := ParseCategory(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
