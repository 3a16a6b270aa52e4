package controllers_fx

import (
	"go.uber.org/fx"
	"veritrip/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewValidationController),
	fx.Provide(controllers.NewAvailabilityController))
