package availability_fx

import (
	"go.uber.org/fx"
	"veritrip/internal/services"
)

var Module = fx.Provide(provideAvailabilityService)

func provideAvailabilityService() services.AvailabilityServiceInterface {
	return services.NewAvailabilityService()
}
