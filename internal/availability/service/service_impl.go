package service

import (
	"context"

	availabilitydomain "github.com/smallbiznis/pizzaria/internal/availability/domain"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	menudomain "github.com/smallbiznis/pizzaria/internal/menu/domain"
	recipedomain "github.com/smallbiznis/pizzaria/internal/recipe/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Ingredients ingredientdomain.Repository
	Recipes     recipedomain.Repository
}

type Service struct {
	log         *zap.Logger
	ingredients ingredientdomain.Repository
	recipes     recipedomain.Repository
}

func New(p Params) availabilitydomain.Service {
	return &Service{
		log:         p.Log.Named("availability.service"),
		ingredients: p.Ingredients,
		recipes:     p.Recipes,
	}
}

// snapshot is one consistent read of stock and recipes.
type snapshot struct {
	stock   map[string]ingredientdomain.Ingredient
	recipes []recipedomain.Recipe
}

func (s *Service) load(ctx context.Context) (*snapshot, error) {
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, err
	}
	stock := make(map[string]ingredientdomain.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		if _, dup := stock[ing.ID]; !dup {
			stock[ing.ID] = ing
		}
	}
	return &snapshot{stock: stock, recipes: recipes}, nil
}

// IsAvailable reports whether stock covers the smallest portion of the
// pizza. Pizzas without a recipe and failed reads count as available.
func (s *Service) IsAvailable(ctx context.Context, pizzaID, pizzaName string) bool {
	snap, err := s.load(ctx)
	if err != nil {
		s.log.Warn("availability check failed, treating pizza as available",
			zap.String("pizza_id", pizzaID),
			zap.Error(err),
		)
		return true
	}
	return s.check(snap, pizzaID, pizzaName)
}

// Project decorates every pizza with its stock availability. Nothing is
// cached between calls.
func (s *Service) Project(ctx context.Context, pizzas []menudomain.Pizza) []availabilitydomain.PizzaView {
	snap, err := s.load(ctx)
	if err != nil {
		s.log.Warn("availability projection failed, treating menu as available", zap.Error(err))
	}

	views := make([]availabilitydomain.PizzaView, 0, len(pizzas))
	for _, pizza := range pizzas {
		stockAvailable := true
		if snap != nil {
			stockAvailable = s.check(snap, pizza.ID, pizza.Name)
		}
		view := availabilitydomain.PizzaView{Pizza: pizza, StockAvailable: stockAvailable}
		view.Available = pizza.Available && stockAvailable
		views = append(views, view)
	}
	return views
}

func (s *Service) check(snap *snapshot, pizzaID, pizzaName string) bool {
	recipe, ok := recipedomain.MatchPizza(snap.recipes, pizzaID, pizzaName)
	if !ok {
		return true
	}
	for _, ri := range recipe.Ingredients() {
		ing, ok := snap.stock[ri.IngredientID]
		if !ok {
			continue
		}
		required := ri.Quantity * availabilitydomain.SmallestPortion
		if ing.Stock < required {
			s.log.Debug("pizza unavailable",
				zap.String("pizza", pizzaName),
				zap.String("ingredient_id", ing.ID),
				zap.Float64("stock", ing.Stock),
				zap.Float64("required", required),
			)
			return false
		}
	}
	return true
}
