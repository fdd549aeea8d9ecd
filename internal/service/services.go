// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/iamrajpal/goodfood/internal/lib/job"
	"github.com/iamrajpal/goodfood/internal/repository"
	"github.com/iamrajpal/goodfood/internal/server"
)

type Services struct {
	Auth   *AuthService
	Recipe *RecipeService
	Job    *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var events RecipeEventPublisher
	if s.Job != nil {
		events = s.Job
	}

	return &Services{
		Auth:   NewAuthService(s),
		Recipe: NewRecipeService(repos.Recipes, events, s.Logger),
		Job:    s.Job,
	}, nil
}
