package pipeline_fx

import (
	"go.uber.org/fx"
	"veritrip/internal/services"
)

var Module = fx.Provide(providePipelineService)

func providePipelineService(validator services.ValidationServiceInterface, availability services.AvailabilityServiceInterface) services.PipelineServiceInterface {
	return services.NewPipelineService(validator, availability)
}
