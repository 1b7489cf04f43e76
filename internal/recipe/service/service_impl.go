package service

import (
	"context"

	recipedomain "github.com/smallbiznis/pizzaria/internal/recipe/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo recipedomain.Repository
}

type Service struct {
	log  *zap.Logger
	repo recipedomain.Repository
}

func New(p Params) recipedomain.Service {
	return &Service{
		log:  p.Log.Named("recipe.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]recipedomain.Recipe, error) {
	return s.repo.List(ctx)
}

func (s *Service) Resolve(ctx context.Context, pizzaName string) (*recipedomain.Recipe, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	recipe, ok := recipedomain.MatchName(recipes, pizzaName)
	if !ok {
		s.log.Debug("recipe not found", zap.String("pizza_name", pizzaName))
		return nil, recipedomain.ErrNotFound
	}
	return recipe, nil
}

func (s *Service) ResolveForPizza(ctx context.Context, pizzaID, pizzaName string) (*recipedomain.Recipe, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	recipe, ok := recipedomain.MatchPizza(recipes, pizzaID, pizzaName)
	if !ok {
		return nil, recipedomain.ErrNotFound
	}
	return recipe, nil
}
