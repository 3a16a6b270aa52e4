package places_fx

import (
	"go.uber.org/fx"
	"veritrip/pkg/googleplaces"
	mem "veritrip/pkg/memcache"
)

var Module = fx.Provide(provideProvider)

func provideProvider(cache mem.SearchCache) googleplaces.Provider {
	return googleplaces.NewClient(cache)
}
