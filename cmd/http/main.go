package main

import (
	"clinic-service/internal/app/config"
	"clinic-service/internal/app/delivery/http/controllers"
	"clinic-service/internal/app/delivery/http/middlewares"
	"clinic-service/internal/app/delivery/http/routers"
	"clinic-service/internal/app/drivers/database"
	"clinic-service/internal/app/drivers/logger"
	"clinic-service/internal/app/drivers/messaging"
	"clinic-service/internal/app/drivers/storage"
	"clinic-service/internal/app/services/core/compensations"
	"clinic-service/internal/app/services/core/doctors"
	treatmentPlans "clinic-service/internal/app/services/core/treatment_plans"
	payrollMessaging "clinic-service/internal/app/services/shared/messaging"
	"clinic-service/internal/app/services/shared/redis"
	"clinic-service/internal/app/services/shared/report"
	sharedStorage "clinic-service/internal/app/services/shared/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig, internalConfig.Minio.ReportBucketName)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Minio:          minioClient,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	err = bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatalf("Error bootstraping the app: %v", err)
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		zapLogger.Info("Server started", zap.String("port", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Error closing drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	mongoDatabase := bootstrap.MongoDB.Database(bootstrap.DriverConfig.MongoDB.DbName)

	// Shared
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	storageService := sharedStorage.NewMinioStorage(bootstrap.Minio)
	reportRenderer := report.NewXLSXPayrollReport()
	payrollPublisher, err := payrollMessaging.NewPayrollPublisher(bootstrap.RabbitMQ, bootstrap.InternalConfig.RabbitMQ.PayrollQueue)
	if err != nil {
		return err
	}

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	// Repositories
	doctorRepository := doctors.NewDoctorMongoRepository(mongoDatabase, bootstrap.Logger)
	treatmentPlanRepository := treatmentPlans.NewTreatmentPlanMongoRepository(mongoDatabase, bootstrap.Logger)

	// Compensation
	compensationUsecase := compensations.NewCompensationUsecase(
		doctorRepository,
		treatmentPlanRepository,
		redisRepository,
		storageService,
		payrollPublisher,
		reportRenderer,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	compensationController := controllers.NewCompensationController(bootstrap.Logger, compensationUsecase, bootstrap.InternalConfig)

	// Health
	healthController := controllers.NewHealthController(bootstrap.Logger, bootstrap.MongoDB, bootstrap.InternalConfig)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, compensationController, healthController)
	return nil
}
