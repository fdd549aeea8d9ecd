package handler

import (
	"github.com/iamrajpal/goodfood/internal/server"
	"github.com/iamrajpal/goodfood/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Recipe  *RecipeHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Recipe:  NewRecipeHandler(s, services.Recipe),
	}
}
