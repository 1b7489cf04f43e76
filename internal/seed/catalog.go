package seed

import (
	"errors"
	"strings"

	"github.com/gosimple/slug"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	menudomain "github.com/smallbiznis/pizzaria/internal/menu/domain"
	recipedomain "github.com/smallbiznis/pizzaria/internal/recipe/domain"
	"github.com/spf13/viper"
)

// Catalog is the first-boot content of the data directory.
type Catalog struct {
	Pizzas      []menudomain.Pizza            `mapstructure:"pizzas"`
	Complements []menudomain.Complement       `mapstructure:"complements"`
	Ingredients []ingredientdomain.Ingredient `mapstructure:"ingredients"`
	Machines    []machinedomain.Machine       `mapstructure:"machines"`
	Recipes     []recipedomain.Recipe         `mapstructure:"recipes"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Pizzas: []menudomain.Pizza{
			{
				ID:          "1",
				Name:        "Margherita",
				Description: "Molho de tomate, mussarela, manjericão fresco",
				Category:    "tradicional",
				Ingredients: []string{"molho-tomate", "mussarela", "manjericao"},
				Prices:      menudomain.Prices{Pequena: 25.9, Media: 35.9, Grande: 45.9},
				Image:       "https://images.unsplash.com/photo-1604382354936-07c5d9983bd3?w=400&h=300&fit=crop",
				Available:   true,
			},
			{
				ID:          "2",
				Name:        "Pepperoni",
				Description: "Molho de tomate, mussarela, pepperoni",
				Category:    "tradicional",
				Ingredients: []string{"molho-tomate", "mussarela", "pepperoni"},
				Prices:      menudomain.Prices{Pequena: 29.9, Media: 39.9, Grande: 49.9},
				Image:       "https://images.unsplash.com/photo-1628840042765-356cda07504e?w=400&h=300&fit=crop",
				Available:   true,
			},
			{
				ID:          "3",
				Name:        "Quatro Queijos",
				Description: "Molho branco, mussarela, gorgonzola, parmesão, provolone",
				Category:    "especial",
				Ingredients: []string{"molho-branco", "mussarela", "gorgonzola", "parmesao", "provolone"},
				Prices:      menudomain.Prices{Pequena: 32.9, Media: 42.9, Grande: 52.9},
				Image:       "https://images.unsplash.com/photo-1571407970349-bc81e7e96d47?w=400&h=300&fit=crop",
				Available:   true,
			},
		},
		Complements: []menudomain.Complement{
			{ID: "1", Name: "Coca-Cola 350ml", Category: "bebida", Price: 5.5, Image: "https://images.unsplash.com/photo-1629203851122-3726ecdf080e?w=150&h=150&fit=crop", Available: true},
			{ID: "2", Name: "Guaraná Antarctica 350ml", Category: "bebida", Price: 5.5, Image: "https://images.unsplash.com/photo-1581636625402-29b2a704ef13?w=150&h=150&fit=crop", Available: true},
			{ID: "3", Name: "Pudim de Leite", Category: "sobremesa", Price: 8.9, Image: "https://images.unsplash.com/photo-1551024506-0bccd828d307?w=150&h=150&fit=crop", Available: true},
		},
		Ingredients: []ingredientdomain.Ingredient{
			{ID: "molho-tomate", Name: "Molho de Tomate", Stock: 50, Unit: "kg", MinStock: 10},
			{ID: "mussarela", Name: "Mussarela", Stock: 30, Unit: "kg", MinStock: 5},
		},
		Machines: []machinedomain.Machine{
			{
				ID:              "1",
				Name:            "Forno Principal",
				Type:            machinedomain.TypeOven,
				InstallDate:     "2023-01-15",
				LastMaintenance: "2024-01-01",
				NextMaintenance: "2024-04-01",
				Status:          machinedomain.StatusOperational,
				HoursUsed:       2400,
				MaxHours:        8760,
				Notes:           "Working normally",
			},
		},
		Recipes: []recipedomain.Recipe{
			{
				PizzaID:   "1",
				PizzaName: "Margherita",
				BaseIngredients: []recipedomain.Ingredient{
					{IngredientID: "molho-tomate", Quantity: 0.15},
					{IngredientID: "mussarela", Quantity: 0.25},
				},
				SpecificIngredients: []recipedomain.Ingredient{
					{IngredientID: "manjericao", Quantity: 0.01},
				},
			},
			{
				PizzaID:   "2",
				PizzaName: "Pepperoni",
				BaseIngredients: []recipedomain.Ingredient{
					{IngredientID: "molho-tomate", Quantity: 0.15},
					{IngredientID: "mussarela", Quantity: 0.2},
				},
				SpecificIngredients: []recipedomain.Ingredient{
					{IngredientID: "pepperoni", Quantity: 0.1},
				},
			},
			{
				PizzaID:   "3",
				PizzaName: "Quatro Queijos",
				BaseIngredients: []recipedomain.Ingredient{
					{IngredientID: "molho-branco", Quantity: 0.15},
					{IngredientID: "mussarela", Quantity: 0.15},
				},
				SpecificIngredients: []recipedomain.Ingredient{
					{IngredientID: "gorgonzola", Quantity: 0.05},
					{IngredientID: "parmesao", Quantity: 0.05},
					{IngredientID: "provolone", Quantity: 0.05},
				},
			},
		},
	}
}

// LoadCatalog reads catalog.yml from the given directories. Sections the
// file leaves out keep their defaults; a missing file means all defaults.
func LoadCatalog(dirs ...string) (Catalog, error) {
	v := viper.New()
	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	for _, dir := range dirs {
		if strings.TrimSpace(dir) != "" {
			v.AddConfigPath(dir)
		}
	}
	v.AddConfigPath(".")

	catalog := DefaultCatalog()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return catalog, nil
		}
		return Catalog{}, err
	}

	var loaded Catalog
	if err := v.Unmarshal(&loaded); err != nil {
		return Catalog{}, err
	}
	if v.IsSet("pizzas") {
		catalog.Pizzas = loaded.Pizzas
	}
	if v.IsSet("complements") {
		catalog.Complements = loaded.Complements
	}
	if v.IsSet("ingredients") {
		catalog.Ingredients = loaded.Ingredients
	}
	if v.IsSet("machines") {
		catalog.Machines = loaded.Machines
	}
	if v.IsSet("recipes") {
		catalog.Recipes = loaded.Recipes
	}
	catalog.linkRecipes()
	return catalog, nil
}

// linkRecipes fills a missing pizzaId from the menu, falling back to a slug
// of the pizza name.
func (c *Catalog) linkRecipes() {
	for i := range c.Recipes {
		r := &c.Recipes[i]
		if strings.TrimSpace(r.PizzaID) != "" {
			continue
		}
		r.PizzaID = slug.Make(r.PizzaName)
		for _, p := range c.Pizzas {
			if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(r.PizzaName)) {
				r.PizzaID = p.ID
				break
			}
		}
	}
}
