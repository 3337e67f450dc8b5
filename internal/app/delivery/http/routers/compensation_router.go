package routers

import (
	"clinic-service/internal/app/delivery/http/controllers"
	"clinic-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachCompensationRoutes(router chi.Router, middlewares *middlewares.Middlewares, compensationController *controllers.CompensationController) {
	router.Get("/doctors/{doctorID}/compensation", compensationController.GetDoctorCompensation)

	batchLimiter := middlewares.BatchRateLimiter()
	router.With(batchLimiter.Limit).Post("/compensations/batch", compensationController.CalculateBatch)
}
