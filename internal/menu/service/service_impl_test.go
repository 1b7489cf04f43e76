package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	menudomain "github.com/smallbiznis/pizzaria/internal/menu/domain"
	"github.com/smallbiznis/pizzaria/internal/menu/repository"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) menudomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	store := jsonstore.New(afero.NewMemMapFs(), "/data")
	return New(Params{Log: zap.NewNop(), GenID: node, Repo: repository.Provide(store)})
}

func TestPizzaLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePizza(ctx, menudomain.PizzaRequest{
		Name:   " Calabresa ",
		Prices: menudomain.Prices{Pequena: 27.9, Media: 37.9, Grande: 47.9},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Calabresa", created.Name)
	require.True(t, created.Available)
	require.NotNil(t, created.Ingredients)

	off := false
	replaced, err := svc.ReplacePizza(ctx, created.ID, menudomain.PizzaRequest{Name: "Calabresa", Available: &off})
	require.NoError(t, err)
	require.False(t, replaced.Available)

	list, err := svc.ListPizzas(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.False(t, list[0].Available)

	require.NoError(t, svc.DeletePizza(ctx, created.ID))
	require.ErrorIs(t, svc.DeletePizza(ctx, created.ID), menudomain.ErrNotFound)

	list, err = svc.ListPizzas(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestPizzaValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePizza(ctx, menudomain.PizzaRequest{})
	require.ErrorIs(t, err, menudomain.ErrInvalidName)

	_, err = svc.CreatePizza(ctx, menudomain.PizzaRequest{Name: "X", Prices: menudomain.Prices{Media: -1}})
	require.ErrorIs(t, err, menudomain.ErrInvalidPrice)

	_, err = svc.ReplacePizza(ctx, "404", menudomain.PizzaRequest{Name: "X"})
	require.ErrorIs(t, err, menudomain.ErrNotFound)
}

func TestComplementLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateComplement(ctx, menudomain.ComplementRequest{Name: "Pudim de Leite", Category: "sobremesa", Price: 8.9})
	require.NoError(t, err)

	_, err = svc.ReplaceComplement(ctx, created.ID, menudomain.ComplementRequest{Name: "Pudim", Price: -2})
	require.ErrorIs(t, err, menudomain.ErrInvalidPrice)

	updated, err := svc.ReplaceComplement(ctx, created.ID, menudomain.ComplementRequest{Name: "Pudim", Price: 9.5})
	require.NoError(t, err)
	require.Equal(t, 9.5, updated.Price)

	require.NoError(t, svc.DeleteComplement(ctx, created.ID))
	_, err = svc.ReplaceComplement(ctx, created.ID, menudomain.ComplementRequest{Name: "Pudim"})
	require.ErrorIs(t, err, menudomain.ErrNotFound)
}
