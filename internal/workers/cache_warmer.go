package workers

import (
	"context"
	"time"

	"river-transit/ticketdesk/internal/logging"
)

// CacheFiller is the part of the catalog the warmer refreshes.
type CacheFiller interface {
	WarmCache(ctx context.Context) (int, error)
}

// CatalogCacheWarmer keeps vessel and route lookups hot for the sale path.
type CatalogCacheWarmer struct {
	catalog CacheFiller
}

func NewCatalogCacheWarmer(catalog CacheFiller) *CatalogCacheWarmer {
	return &CatalogCacheWarmer{catalog: catalog}
}

// Start fills the cache once, then every interval until ctx is done.
func (w *CatalogCacheWarmer) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.refill(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refill(ctx)
		}
	}
}

func (w *CatalogCacheWarmer) refill(ctx context.Context) {
	n, err := w.catalog.WarmCache(ctx)
	if err != nil {
		logging.Warn("catalog cache warm failed", "error", err)
		return
	}
	logging.Debug("catalog cache warmed", "entries", n)
}
