package ratelimit

import (
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewOrderLimiter),
	fx.Provide(NewCollectionLocker),
	fx.Provide(provideStoreLocker),
)

// provideStoreLocker hides a nil *CollectionLocker behind a nil interface.
func provideStoreLocker(l *CollectionLocker) jsonstore.Locker {
	if l == nil {
		return nil
	}
	return l
}
