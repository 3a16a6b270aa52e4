package memcache_fx

import (
	"go.uber.org/fx"
	mem "veritrip/pkg/memcache"
)

var Module = fx.Provide(provideSearchCache)

func provideSearchCache() mem.SearchCache {
	return mem.NewSearchResults()
}
