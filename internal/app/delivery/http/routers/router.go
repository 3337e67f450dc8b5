package routers

import (
	"clinic-service/internal/app/config"
	"clinic-service/internal/app/delivery/http/controllers"
	"clinic-service/internal/app/delivery/http/middlewares"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	compensationController *controllers.CompensationController,
	healthController *controllers.HealthController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "x-api-key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.GlobalRateLimit())
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.BodyLimit)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/health", func(r chi.Router) {
				attachHealthRoutes(r, healthController)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewares.RequireAPIKey)
				attachCompensationRoutes(r, middlewares, compensationController)
			})
		})
	})
}
