package router

import (
	"net/http"

	"github.com/iamrajpal/goodfood/internal/handler"
	"github.com/iamrajpal/goodfood/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerRecipeRoutes mounts /recipes. Auth runs before the limiter so
// clients are limited per user.
func registerRecipeRoutes(g *echo.Group, h *handler.RecipeHandler, m *middleware.Middlewares) {
	recipes := g.Group("/recipes", m.Auth.RequireAuth, m.RateLimit.Limit())

	recipes.POST("", handler.Handle(h.Handler, h.CreateRecipe, http.StatusCreated))
	recipes.GET("/exists", handler.Handle(h.Handler, h.RecipeExists, http.StatusOK))
	recipes.GET("/:id", handler.Handle(h.Handler, h.GetRecipe, http.StatusOK))
	recipes.PUT("/:id", handler.HandleNoContent(h.Handler, h.UpdateRecipe, http.StatusNoContent))
	recipes.DELETE("", handler.Handle(h.Handler, h.DeleteRecipes, http.StatusOK))
}
