package validation_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"veritrip/internal/repositories"
	"veritrip/internal/services"
	"veritrip/pkg/googleplaces"
)

var Module = fx.Provide(
	provideRegistryRepo, provideValidationService)

func provideRegistryRepo(db *gorm.DB) repositories.PlaceRegistryRepository {
	return repositories.NewPlaceRegistryRepository(db)
}

func provideValidationService(provider googleplaces.Provider, registry repositories.PlaceRegistryRepository) services.ValidationServiceInterface {
	return services.NewValidationService(provider, registry)
}
