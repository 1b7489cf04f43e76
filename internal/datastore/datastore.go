package datastore

import (
	"context"

	"github.com/smallbiznis/pizzaria/internal/config"
	"github.com/smallbiznis/pizzaria/internal/events"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Collection file names under DATA_DIR.
const (
	IngredientsFile = "ingredients.json"
	MachinesFile    = "machines.json"
	RecipesFile     = "pizza-recipes.json"
	OrdersFile      = "orders.json"
	PizzasFile      = "pizzas.json"
	ComplementsFile = "complements.json"
)

var Module = fx.Module("datastore",
	fx.Provide(New),
	fx.Invoke(watch),
)

type Params struct {
	fx.In

	Cfg    config.Config
	Log    *zap.Logger
	Locker jsonstore.Locker `optional:"true"`
}

// New opens the data directory on the OS filesystem.
func New(p Params) *jsonstore.Store {
	return jsonstore.New(afero.NewOsFs(), p.Cfg.Data.Dir,
		jsonstore.WithLocker(p.Locker),
		jsonstore.WithLogger(p.Log.Named("jsonstore")),
	)
}

type watchParams struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       config.Config
	Log       *zap.Logger
	Store     *jsonstore.Store
	Publisher events.Publisher `optional:"true"`
}

// watch publishes collection.changed when another process rewrites a file.
func watch(p watchParams) {
	if !p.Cfg.Data.WatchEnabled || p.Publisher == nil {
		return
	}
	log := p.Log.Named("datastore.watch")
	ctx, cancel := context.WithCancel(context.Background())

	p.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := p.Store.EnsureDir(); err != nil {
				return err
			}
			err := p.Store.Watch(ctx, func(file string) {
				log.Info("collection changed on disk", zap.String("collection", file))
				p.Publisher.Publish(ctx, events.CollectionChanged, file, map[string]string{"collection": file})
			})
			if err != nil {
				log.Warn("data dir watcher disabled", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
