package service

import (
	"context"
	"testing"

	"github.com/smallbiznis/pizzaria/internal/datastore"
	recipedomain "github.com/smallbiznis/pizzaria/internal/recipe/domain"
	"github.com/smallbiznis/pizzaria/internal/recipe/repository"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, recipes ...recipedomain.Recipe) recipedomain.Service {
	t.Helper()
	store := jsonstore.New(afero.NewMemMapFs(), "/data")
	col := jsonstore.NewCollection[recipedomain.Recipe](store, datastore.RecipesFile)
	require.NoError(t, col.Update(context.Background(), func([]recipedomain.Recipe) ([]recipedomain.Recipe, error) {
		return recipes, nil
	}))
	return New(Params{Log: zap.NewNop(), Repo: repository.Provide(store)})
}

func TestResolve(t *testing.T) {
	svc := newService(t,
		recipedomain.Recipe{PizzaID: "1", PizzaName: "Margherita"},
		recipedomain.Recipe{PizzaID: "2", PizzaName: "Pepperoni"},
	)
	ctx := context.Background()

	got, err := svc.Resolve(ctx, "Meia Pepperoni")
	require.NoError(t, err)
	require.Equal(t, "2", got.PizzaID)

	_, err = svc.Resolve(ctx, "Portuguesa")
	require.ErrorIs(t, err, recipedomain.ErrNotFound)
}

func TestResolveForPizza(t *testing.T) {
	svc := newService(t, recipedomain.Recipe{PizzaID: "3", PizzaName: "Quatro Queijos"})
	ctx := context.Background()

	got, err := svc.ResolveForPizza(ctx, "3", "")
	require.NoError(t, err)
	require.Equal(t, "Quatro Queijos", got.PizzaName)

	_, err = svc.ResolveForPizza(ctx, "9", "Quatro Queijos Especial")
	require.ErrorIs(t, err, recipedomain.ErrNotFound)
}

func TestResolveMissingFileIsEmpty(t *testing.T) {
	store := jsonstore.New(afero.NewMemMapFs(), "/data")
	svc := New(Params{Log: zap.NewNop(), Repo: repository.Provide(store)})

	_, err := svc.Resolve(context.Background(), "Margherita")
	require.ErrorIs(t, err, recipedomain.ErrNotFound)
}
