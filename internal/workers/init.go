package workers

import (
	"context"
	"time"
)

type WorkersContainer struct {
	CacheWarmer *CatalogCacheWarmer
}

func InitWorkers(ctx context.Context, catalog CacheFiller, cacheWarmInterval time.Duration) *WorkersContainer {
	warmer := NewCatalogCacheWarmer(catalog)

	// Start workers
	go warmer.Start(ctx, cacheWarmInterval)

	return &WorkersContainer{
		CacheWarmer: warmer,
	}
}
