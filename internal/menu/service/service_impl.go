package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pizzaria/internal/events"
	menudomain "github.com/smallbiznis/pizzaria/internal/menu/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      menudomain.Repository
	Publisher events.Publisher `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	repo      menudomain.Repository
	publisher events.Publisher
}

func New(p Params) menudomain.Service {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		log:       p.Log.Named("menu.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		publisher: publisher,
	}
}

func (s *Service) ListPizzas(ctx context.Context) ([]menudomain.Pizza, error) {
	return s.repo.ListPizzas(ctx)
}

func (s *Service) CreatePizza(ctx context.Context, req menudomain.PizzaRequest) (*menudomain.Pizza, error) {
	if err := validatePizza(req); err != nil {
		return nil, err
	}
	pizza := buildPizza(s.genID.Generate().String(), req)

	err := s.repo.UpdatePizzas(ctx, func(items []menudomain.Pizza) ([]menudomain.Pizza, error) {
		return append(items, pizza), nil
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "pizza", pizza.ID)
	return &pizza, nil
}

func (s *Service) ReplacePizza(ctx context.Context, id string, req menudomain.PizzaRequest) (*menudomain.Pizza, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, menudomain.ErrInvalidID
	}
	if err := validatePizza(req); err != nil {
		return nil, err
	}
	pizza := buildPizza(id, req)

	err := s.repo.UpdatePizzas(ctx, func(items []menudomain.Pizza) ([]menudomain.Pizza, error) {
		for i := range items {
			if items[i].ID == id {
				items[i] = pizza
				return items, nil
			}
		}
		return nil, menudomain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "pizza", id)
	return &pizza, nil
}

func (s *Service) DeletePizza(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return menudomain.ErrInvalidID
	}
	err := s.repo.UpdatePizzas(ctx, func(items []menudomain.Pizza) ([]menudomain.Pizza, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, menudomain.ErrNotFound
	})
	if err != nil {
		return err
	}
	s.changed(ctx, "pizza", id)
	return nil
}

func (s *Service) ListComplements(ctx context.Context) ([]menudomain.Complement, error) {
	return s.repo.ListComplements(ctx)
}

func (s *Service) CreateComplement(ctx context.Context, req menudomain.ComplementRequest) (*menudomain.Complement, error) {
	if err := validateComplement(req); err != nil {
		return nil, err
	}
	complement := buildComplement(s.genID.Generate().String(), req)

	err := s.repo.UpdateComplements(ctx, func(items []menudomain.Complement) ([]menudomain.Complement, error) {
		return append(items, complement), nil
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "complement", complement.ID)
	return &complement, nil
}

func (s *Service) ReplaceComplement(ctx context.Context, id string, req menudomain.ComplementRequest) (*menudomain.Complement, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, menudomain.ErrInvalidID
	}
	if err := validateComplement(req); err != nil {
		return nil, err
	}
	complement := buildComplement(id, req)

	err := s.repo.UpdateComplements(ctx, func(items []menudomain.Complement) ([]menudomain.Complement, error) {
		for i := range items {
			if items[i].ID == id {
				items[i] = complement
				return items, nil
			}
		}
		return nil, menudomain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "complement", id)
	return &complement, nil
}

func (s *Service) DeleteComplement(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return menudomain.ErrInvalidID
	}
	err := s.repo.UpdateComplements(ctx, func(items []menudomain.Complement) ([]menudomain.Complement, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, menudomain.ErrNotFound
	})
	if err != nil {
		return err
	}
	s.changed(ctx, "complement", id)
	return nil
}

func (s *Service) changed(ctx context.Context, kind, id string) {
	s.log.Info("menu changed", zap.String("kind", kind), zap.String("id", id))
	s.publisher.Publish(ctx, events.MenuChanged, id, map[string]string{"kind": kind, "id": id})
}

func validatePizza(req menudomain.PizzaRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return menudomain.ErrInvalidName
	}
	for _, p := range []float64{req.Prices.Pequena, req.Prices.Media, req.Prices.Grande} {
		if !validPrice(p) {
			return menudomain.ErrInvalidPrice
		}
	}
	return nil
}

func validateComplement(req menudomain.ComplementRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return menudomain.ErrInvalidName
	}
	if !validPrice(req.Price) {
		return menudomain.ErrInvalidPrice
	}
	return nil
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

func buildPizza(id string, req menudomain.PizzaRequest) menudomain.Pizza {
	ingredients := req.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return menudomain.Pizza{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Ingredients: ingredients,
		Prices:      req.Prices,
		Image:       strings.TrimSpace(req.Image),
		Available:   req.Available == nil || *req.Available,
	}
}

func buildComplement(id string, req menudomain.ComplementRequest) menudomain.Complement {
	return menudomain.Complement{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Category:  strings.TrimSpace(req.Category),
		Price:     req.Price,
		Image:     strings.TrimSpace(req.Image),
		Available: req.Available == nil || *req.Available,
	}
}
