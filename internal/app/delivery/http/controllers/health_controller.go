package controllers

import (
	"clinic-service/internal/app/config"
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/dto/responses"
	"clinic-service/internal/pkg/exceptions"
	"clinic-service/internal/pkg/utils"
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type HealthController struct {
	Log            *zap.Logger
	Database       Pinger
	InternalConfig *config.InternalConfig
}

func NewHealthController(logger *zap.Logger, database Pinger, internalConfig *config.InternalConfig) *HealthController {
	return &HealthController{
		Log:            logger,
		Database:       database,
		InternalConfig: internalConfig,
	}
}

func (ctrl *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if ctrl.Database != nil {
		err := ctrl.Database.Ping(ctx, readpref.Primary())
		if err != nil {
			ctrl.Log.Error("HealthController.Check database unreachable", zap.Error(err))
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerProcess(err))
			return
		}
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, responses.Health{
		Status:  constvars.ResponseSuccess,
		Version: ctrl.InternalConfig.App.Version,
	})
}
