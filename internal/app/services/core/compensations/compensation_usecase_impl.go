package compensations

import (
	"clinic-service/internal/app/config"
	"clinic-service/internal/app/contracts"
	"clinic-service/internal/app/models"
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/dto/requests"
	"clinic-service/internal/pkg/dto/responses"
	"clinic-service/internal/pkg/exceptions"
	"clinic-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const batchPeriodOwner = "batch"

type compensationUsecase struct {
	DoctorRepository        contracts.DoctorRepository
	TreatmentPlanRepository contracts.TreatmentPlanRepository
	RedisRepository         contracts.RedisRepository
	StorageService          contracts.StorageService
	PayrollPublisher        contracts.PayrollEventPublisher
	ReportRenderer          contracts.PayrollReportRenderer
	Calculator              *Calculator
	InternalConfig          *config.InternalConfig
	Log                     *zap.Logger
	Now                     func() time.Time
}

func NewCompensationUsecase(
	doctorRepository contracts.DoctorRepository,
	treatmentPlanRepository contracts.TreatmentPlanRepository,
	redisRepository contracts.RedisRepository,
	storageService contracts.StorageService,
	payrollPublisher contracts.PayrollEventPublisher,
	reportRenderer contracts.PayrollReportRenderer,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CompensationUsecase {
	return &compensationUsecase{
		DoctorRepository:        doctorRepository,
		TreatmentPlanRepository: treatmentPlanRepository,
		RedisRepository:         redisRepository,
		StorageService:          storageService,
		PayrollPublisher:        payrollPublisher,
		ReportRenderer:          reportRenderer,
		Calculator:              NewCalculator(internalConfig.Compensation.StrictPaymentConfig),
		InternalConfig:          internalConfig,
		Log:                     logger,
		Now:                     time.Now,
	}
}

func (uc *compensationUsecase) CalculateForDoctor(ctx context.Context, doctorID string, dateRange requests.DateRange) (*responses.Compensation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("compensationUsecase.CalculateForDoctor called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String(constvars.LoggingDateFromKey, dateRange.DateFrom),
		zap.String(constvars.LoggingDateToKey, dateRange.DateTo),
	)

	period, err := parsePeriod(dateRange, doctorID)
	if err != nil {
		uc.Log.Error("compensationUsecase.CalculateForDoctor invalid period",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return nil, err
	}

	cacheKey := compensationCacheKey(doctorID, period)
	cacheable := uc.isCacheable(period)
	if cached := uc.getCached(ctx, cacheKey, cacheable); cached != nil {
		uc.Log.Info("compensationUsecase.CalculateForDoctor served from cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCacheKey, cacheKey),
		)
		return cached, nil
	}

	doctor, err := uc.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		uc.Log.Error("compensationUsecase.CalculateForDoctor error fetching doctor",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil, doctorID)
	}

	plans, err := uc.TreatmentPlanRepository.FindPaidInPeriod(ctx, period.From, period.To)
	if err != nil {
		uc.Log.Error("compensationUsecase.CalculateForDoctor error fetching treatment plans",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return nil, err
	}

	response, _, err := uc.compute(ctx, *doctor, period, plans)
	if err != nil {
		return nil, err
	}

	uc.setCached(ctx, cacheKey, response, cacheable)

	uc.Log.Info("compensationUsecase.CalculateForDoctor succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.Float64(constvars.LoggingPeriodRevenueKey, response.PeriodRevenue),
		zap.Float64(constvars.LoggingCompensationAmountKey, response.CompensationAmount),
	)
	return response, nil
}

func (uc *compensationUsecase) CalculateBatch(ctx context.Context, request *requests.BatchCompensation) (*responses.BatchCompensation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("compensationUsecase.CalculateBatch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingDoctorCountKey, len(request.DoctorIDs)),
		zap.String(constvars.LoggingDateFromKey, request.DateFrom),
		zap.String(constvars.LoggingDateToKey, request.DateTo),
	)

	period, err := parsePeriod(request.DateRange(), batchPeriodOwner)
	if err != nil {
		uc.Log.Error("compensationUsecase.CalculateBatch invalid period",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	doctors, missing, err := uc.resolveDoctors(ctx, request.DoctorIDs)
	if err != nil {
		uc.Log.Error("compensationUsecase.CalculateBatch error fetching doctors",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	plans, err := uc.TreatmentPlanRepository.FindPaidInPeriod(ctx, period.From, period.To)
	if err != nil {
		uc.Log.Error("compensationUsecase.CalculateBatch error fetching treatment plans",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	entries := make([]responses.BatchCompensationEntry, len(doctors))
	results := make([]*Result, len(doctors))

	group := new(errgroup.Group)
	group.SetLimit(uc.batchConcurrency())
	for i, doctor := range doctors {
		i, doctor := i, doctor
		group.Go(func() error {
			entries[i].DoctorID = doctor.ID.String()
			response, result, err := uc.compute(ctx, doctor, period, plans)
			if err != nil {
				entries[i].Error = batchEntryError(err, doctor.ID.String(), period)
				return nil
			}
			entries[i].Compensation = response
			results[i] = &result
			return nil
		})
	}
	group.Wait()

	for _, doctorID := range missing {
		entries = append(entries, responses.BatchCompensationEntry{
			DoctorID: doctorID,
			Error:    batchEntryError(exceptions.ErrDoctorNotFound(nil, doctorID), doctorID, period),
		})
	}

	batch := summarizeBatch(period, entries, results)

	if request.ExportReport {
		objectName, err := uc.exportReport(ctx, batch, requestID)
		if err != nil {
			uc.Log.Error("compensationUsecase.CalculateBatch error exporting report",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, err
		}
		batch.ReportObject = objectName
	}

	uc.publishCalculated(ctx, batch, requestID)

	uc.Log.Info("compensationUsecase.CalculateBatch succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingDoctorCountKey, len(batch.Entries)),
		zap.Int(constvars.LoggingFailedCountKey, batch.FailedCount),
	)
	return batch, nil
}

// compute runs the calculator for one doctor and maps its failures to
// client facing errors. It never touches storage.
func (uc *compensationUsecase) compute(ctx context.Context, doctor models.Doctor, period Period, plans []models.TreatmentPlan) (*responses.Compensation, Result, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	doctorID := doctor.ID.String()

	result, err := uc.Calculator.Calculate(doctor, period, plans)
	if err != nil {
		uc.Log.Error("compensationUsecase.compute calculation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.String(constvars.LoggingPaymentTypeKey, string(doctor.PaymentType)),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, ErrInvalidPeriod):
			return nil, Result{}, exceptions.ErrCompensationInvalidPeriod(err, doctorID)
		case errors.Is(err, ErrUnknownPaymentType):
			return nil, Result{}, exceptions.ErrCompensationUnknownPaymentType(err, doctorID)
		case errors.Is(err, ErrMissingPaymentConfig):
			return nil, Result{}, exceptions.ErrCompensationMissingPaymentConfig(err, doctorID)
		default:
			return nil, Result{}, exceptions.ErrServerProcess(err)
		}
	}

	if len(result.DefaultedFields) > 0 {
		uc.Log.Warn("compensationUsecase.compute payment configuration missing, counted as 0",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.String(constvars.LoggingPaymentTypeKey, string(doctor.PaymentType)),
			zap.Strings(constvars.LoggingDefaultedFieldsKey, result.DefaultedFields),
		)
	}

	return buildCompensationResponse(doctor, period, result), result, nil
}

// resolveDoctors loads the requested doctors in request order, or every
// doctor when no ids are given. Unknown ids are returned separately.
func (uc *compensationUsecase) resolveDoctors(ctx context.Context, doctorIDs []string) ([]models.Doctor, []string, error) {
	if len(doctorIDs) == 0 {
		doctors, err := uc.DoctorRepository.FindAll(ctx)
		return doctors, nil, err
	}

	uniqueIDs := make([]string, 0, len(doctorIDs))
	seen := make(map[string]struct{}, len(doctorIDs))
	for _, doctorID := range doctorIDs {
		if _, ok := seen[doctorID]; ok {
			continue
		}
		seen[doctorID] = struct{}{}
		uniqueIDs = append(uniqueIDs, doctorID)
	}

	found, err := uc.DoctorRepository.FindByIDs(ctx, uniqueIDs)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]models.Doctor, len(found))
	for _, doctor := range found {
		byID[doctor.ID.String()] = doctor
	}

	doctors := make([]models.Doctor, 0, len(uniqueIDs))
	var missing []string
	for _, doctorID := range uniqueIDs {
		doctor, ok := byID[doctorID]
		if !ok {
			missing = append(missing, doctorID)
			continue
		}
		doctors = append(doctors, doctor)
	}
	return doctors, missing, nil
}

func (uc *compensationUsecase) exportReport(ctx context.Context, batch *responses.BatchCompensation, requestID string) (string, error) {
	data, err := uc.ReportRenderer.Render(batch)
	if err != nil {
		return "", err
	}

	suffix := requestID
	if suffix == "" {
		suffix = utils.GenerateRequestID()
	}
	objectName := fmt.Sprintf(constvars.PayrollReportObjectFormat, batch.DateFrom, batch.DateTo, suffix)

	objectName, err = uc.StorageService.UploadObject(
		ctx,
		uc.InternalConfig.Minio.ReportBucketName,
		objectName,
		constvars.MIMEApplicationSpreadsheet,
		data,
	)
	if err != nil {
		return "", err
	}

	uc.Log.Info("compensationUsecase.exportReport uploaded payroll report",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)
	return objectName, nil
}

// publishCalculated notifies downstream payroll consumers. Delivery failures
// are logged only; the computed batch is still returned.
func (uc *compensationUsecase) publishCalculated(ctx context.Context, batch *responses.BatchCompensation, requestID string) {
	if uc.PayrollPublisher == nil {
		return
	}

	event := &requests.PayrollCalculatedEvent{
		EventType:         constvars.PayrollCalculatedEventType,
		RequestID:         requestID,
		DateFrom:          batch.DateFrom,
		DateTo:            batch.DateTo,
		DoctorCount:       len(batch.Entries),
		FailedCount:       batch.FailedCount,
		TotalRevenue:      batch.TotalRevenue,
		TotalCompensation: batch.TotalCompensation,
		ReportObject:      batch.ReportObject,
	}

	err := uc.PayrollPublisher.PublishPayrollCalculated(ctx, event)
	if err != nil {
		uc.Log.Error("compensationUsecase.publishCalculated error publishing event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueNameKey, uc.InternalConfig.RabbitMQ.PayrollQueue),
			zap.Error(err),
		)
	}
}

func (uc *compensationUsecase) getCached(ctx context.Context, key string, cacheable bool) *responses.Compensation {
	if !cacheable {
		return nil
	}

	data, err := uc.RedisRepository.Get(ctx, key)
	if err != nil {
		uc.Log.Warn("compensationUsecase.getCached error reading cache",
			zap.String(constvars.LoggingCacheKey, key),
			zap.Error(err),
		)
		return nil
	}
	if data == "" {
		return nil
	}

	var cached responses.Compensation
	err = json.Unmarshal([]byte(data), &cached)
	if err != nil {
		uc.Log.Warn("compensationUsecase.getCached error parsing cached value, evicting",
			zap.String(constvars.LoggingCacheKey, key),
			zap.Error(err),
		)
		_ = uc.RedisRepository.Delete(ctx, key)
		return nil
	}
	return &cached
}

func (uc *compensationUsecase) setCached(ctx context.Context, key string, response *responses.Compensation, cacheable bool) {
	if !cacheable {
		return
	}

	err := uc.RedisRepository.Set(ctx, key, response, uc.cacheTTL())
	if err != nil {
		uc.Log.Warn("compensationUsecase.setCached error writing cache",
			zap.String(constvars.LoggingCacheKey, key),
			zap.Error(err),
		)
	}
}

// isCacheable limits caching to periods that ended before today. Plans in an
// open period can still be paid and change the result.
func (uc *compensationUsecase) isCacheable(period Period) bool {
	if uc.cacheTTL() <= 0 || uc.RedisRepository == nil {
		return false
	}
	return period.To.Before(utils.TruncateToDate(uc.Now()))
}

func (uc *compensationUsecase) cacheTTL() time.Duration {
	return time.Duration(uc.InternalConfig.Compensation.CacheTTLInSeconds) * time.Second
}

func (uc *compensationUsecase) batchConcurrency() int {
	if uc.InternalConfig.Compensation.BatchConcurrency <= 0 {
		return 1
	}
	return uc.InternalConfig.Compensation.BatchConcurrency
}

// parsePeriod validates the raw date range before any data access.
func parsePeriod(dateRange requests.DateRange, owner string) (Period, error) {
	from, err := utils.ParseDate(dateRange.DateFrom)
	if err != nil {
		return Period{}, exceptions.ErrCannotParseDate(err, constvars.QueryParamDateFrom)
	}
	to, err := utils.ParseDate(dateRange.DateTo)
	if err != nil {
		return Period{}, exceptions.ErrCannotParseDate(err, constvars.QueryParamDateTo)
	}

	period, err := NewPeriod(from, to)
	if err != nil {
		return Period{}, exceptions.ErrCompensationInvalidPeriod(err, owner)
	}
	return period, nil
}

func compensationCacheKey(doctorID string, period Period) string {
	return fmt.Sprintf(constvars.RedisKeyCompensationFormat, doctorID, utils.FormatDate(period.From), utils.FormatDate(period.To))
}

func batchEntryError(err error, doctorID string, period Period) string {
	message := err.Error()
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		message = customErr.ClientMessage
	}
	return fmt.Sprintf("doctor %s, period %s to %s: %s", doctorID, utils.FormatDate(period.From), utils.FormatDate(period.To), message)
}

func buildCompensationResponse(doctor models.Doctor, period Period, result Result) *responses.Compensation {
	return &responses.Compensation{
		DoctorID:           doctor.ID.String(),
		DoctorName:         doctor.Name,
		DateFrom:           utils.FormatDate(period.From),
		DateTo:             utils.FormatDate(period.To),
		PaymentType:        string(doctor.PaymentType),
		PeriodRevenue:      result.PeriodRevenue.InexactFloat64(),
		CompensationAmount: result.CompensationAmount.InexactFloat64(),
		PlansConsidered:    result.PlansConsidered,
		PlansSkipped:       result.PlansSkipped,
		MatchedItems:       result.MatchedItems,
		DefaultedFields:    result.DefaultedFields,
	}
}

func summarizeBatch(period Period, entries []responses.BatchCompensationEntry, results []*Result) *responses.BatchCompensation {
	totalRevenue := decimal.Zero
	totalCompensation := decimal.Zero
	for _, result := range results {
		if result == nil {
			continue
		}
		totalRevenue = totalRevenue.Add(result.PeriodRevenue)
		totalCompensation = totalCompensation.Add(result.CompensationAmount)
	}

	batch := &responses.BatchCompensation{
		DateFrom:          utils.FormatDate(period.From),
		DateTo:            utils.FormatDate(period.To),
		Entries:           entries,
		TotalRevenue:      totalRevenue.InexactFloat64(),
		TotalCompensation: totalCompensation.InexactFloat64(),
	}
	for _, entry := range entries {
		if entry.Compensation == nil {
			batch.FailedCount++
			continue
		}
		batch.SucceededCount++
	}
	return batch
}
