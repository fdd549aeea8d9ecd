package repository

import (
	"github.com/iamrajpal/goodfood/internal/server"
)

// Repositories holds every repository, built once at startup.
type Repositories struct {
	Recipes *RecipeRepository
}

// NewRepositories wires repositories onto the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Recipes: NewRecipeRepository(s.DB.Pool, s.Logger),
	}
}
