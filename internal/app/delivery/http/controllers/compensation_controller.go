package controllers

import (
	"clinic-service/internal/app/config"
	"clinic-service/internal/app/contracts"
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/dto/requests"
	"clinic-service/internal/pkg/exceptions"
	"clinic-service/internal/pkg/utils"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type CompensationController struct {
	Log                 *zap.Logger
	CompensationUsecase contracts.CompensationUsecase
	InternalConfig      *config.InternalConfig
}

func NewCompensationController(logger *zap.Logger, compensationUsecase contracts.CompensationUsecase, internalConfig *config.InternalConfig) *CompensationController {
	return &CompensationController{
		Log:                 logger,
		CompensationUsecase: compensationUsecase,
		InternalConfig:      internalConfig,
	}
}

func (ctrl *CompensationController) GetDoctorCompensation(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("CompensationController.GetDoctorCompensation requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	doctorID := strings.TrimSpace(chi.URLParam(r, constvars.URLParamDoctorID))
	ctrl.Log.Info("CompensationController.GetDoctorCompensation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)
	if doctorID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(nil, constvars.URLParamDoctorID))
		return
	}

	query := r.URL.Query()
	dateRange := requests.DateRange{
		DateFrom: query.Get(constvars.QueryParamDateFrom),
		DateTo:   query.Get(constvars.QueryParamDateTo),
	}
	err := utils.ValidateStruct(dateRange)
	if err != nil {
		ctrl.Log.Error("CompensationController.GetDoctorCompensation error validating query",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	result, err := ctrl.CompensationUsecase.CalculateForDoctor(ctx, doctorID, dateRange)
	if err != nil {
		ctrl.Log.Error("CompensationController.GetDoctorCompensation error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		ctrl.writeUsecaseError(w, err)
		return
	}

	ctrl.Log.Info("CompensationController.GetDoctorCompensation succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetCompensationSuccessMessage, result)
}

func (ctrl *CompensationController) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("CompensationController.CalculateBatch requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("CompensationController.CalculateBatch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.BatchCompensation)
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		ctrl.Log.Error("CompensationController.CalculateBatch error parsing body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.Log.Error("CompensationController.CalculateBatch error validating body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	result, err := ctrl.CompensationUsecase.CalculateBatch(ctx, request)
	if err != nil {
		ctrl.Log.Error("CompensationController.CalculateBatch error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		ctrl.writeUsecaseError(w, err)
		return
	}

	ctrl.Log.Info("CompensationController.CalculateBatch succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingDoctorCountKey, len(result.Entries)),
		zap.Int(constvars.LoggingFailedCountKey, result.FailedCount),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBatchCompensationSuccessMessage, result)
}

func (ctrl *CompensationController) writeUsecaseError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(ctrl.Log, w, err)
}

func (ctrl *CompensationController) requestTimeout() time.Duration {
	if ctrl.InternalConfig == nil || ctrl.InternalConfig.App.RequestTimeoutInSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
}
