package main

import (
	"context"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"log"
	"os"
	"veritrip/cmd/fx/availability_fx"
	"veritrip/cmd/fx/controllers_fx"
	"veritrip/cmd/fx/db_fx"
	"veritrip/cmd/fx/memcache_fx"
	"veritrip/cmd/fx/pipeline_fx"
	"veritrip/cmd/fx/places_fx"
	"veritrip/cmd/fx/validation_fx"
	"veritrip/internal/api/controllers"
	"veritrip/internal/infra"
	"veritrip/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		db_fx.Module,
		memcache_fx.Module,
		places_fx.Module,
		validation_fx.Module,
		availability_fx.Module,
		pipeline_fx.Module,
		controllers_fx.Module,

		fx.Invoke(infra.MigrateRegistry),
		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Println("Starting HTTP server at ${PORT}")
				if err := engine.Run(":" + os.Getenv("PORT")); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	validationController *controllers.ValidationController,
	availabilityController *controllers.AvailabilityController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, validationController, availabilityController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	validationController *controllers.ValidationController,
	availabilityController *controllers.AvailabilityController) {

	placesGroup := r.Group("/places")
	placesGroup.POST("/validate", validationController.ValidatePlace)
	placesGroup.GET("/registry/top", validationController.TopPlaces)
	placesGroup.POST("/availability/report", availabilityController.AvailabilityReport)

	itinerariesGroup := r.Group("/itineraries")
	itinerariesGroup.POST("/:id/validate", validationController.ValidateItinerary)
}
