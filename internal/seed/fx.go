package seed

import (
	"context"

	"github.com/smallbiznis/pizzaria/internal/clock"
	"github.com/smallbiznis/pizzaria/internal/config"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("seed",
	fx.Invoke(bootstrap),
)

func bootstrap(lc fx.Lifecycle, cfg config.Config, store *jsonstore.Store, clk clock.Clock, log *zap.Logger) {
	if !cfg.Data.SeedOnBoot {
		return
	}
	log = log.Named("seed")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			catalog, err := LoadCatalog(cfg.Data.Dir)
			if err != nil {
				return err
			}
			created, err := EnsureDataFiles(ctx, store, catalog, clk.Now())
			if err != nil {
				return err
			}
			if len(created) > 0 {
				log.Info("seeded data files", zap.Strings("files", created))
			}
			return nil
		},
	})
}
