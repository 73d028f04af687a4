// Package cache provides read caches for theme preference lookups.
package cache

import "github.com/CreativeUnicorns/themeprefs"

var (
	_ themeprefs.Cache = (*MemoryCache)(nil)
	_ themeprefs.Cache = (*RedisCache)(nil)
)
