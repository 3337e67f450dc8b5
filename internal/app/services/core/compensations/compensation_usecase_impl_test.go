package compensations

import (
	"clinic-service/internal/app/config"
	"clinic-service/internal/app/models"
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/dto/requests"
	"clinic-service/internal/pkg/dto/responses"
	"clinic-service/internal/pkg/exceptions"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDoctorRepository struct {
	doctors []models.Doctor
	err     error
	calls   int
}

func (f *fakeDoctorRepository) FindAll(ctx context.Context) ([]models.Doctor, error) {
	f.calls++
	return f.doctors, f.err
}

func (f *fakeDoctorRepository) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, doctor := range f.doctors {
		if doctor.ID.String() == doctorID {
			found := doctor
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorRepository) FindByIDs(ctx context.Context, doctorIDs []string) ([]models.Doctor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var found []models.Doctor
	for _, doctor := range f.doctors {
		for _, id := range doctorIDs {
			if doctor.ID.String() == id {
				found = append(found, doctor)
			}
		}
	}
	return found, nil
}

type fakeTreatmentPlanRepository struct {
	plans []models.TreatmentPlan
	err   error
	calls int
}

func (f *fakeTreatmentPlanRepository) FindPaidInPeriod(ctx context.Context, from, to time.Time) ([]models.TreatmentPlan, error) {
	f.calls++
	return f.plans, f.err
}

type fakeRedisRepository struct {
	mu      sync.Mutex
	values  map[string]string
	deleted []string
}

func newFakeRedisRepository() *fakeRedisRepository {
	return &fakeRedisRepository{values: make(map[string]string)}
}

func (f *fakeRedisRepository) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = string(data)
	return nil
}

func (f *fakeRedisRepository) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

type fakeStorageService struct {
	bucket      string
	object      string
	contentType string
	data        []byte
	err         error
}

func (f *fakeStorageService) UploadObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.bucket, f.object, f.contentType, f.data = bucketName, objectName, contentType, data
	return objectName, nil
}

type fakePublisher struct {
	events []*requests.PayrollCalculatedEvent
	err    error
}

func (f *fakePublisher) PublishPayrollCalculated(ctx context.Context, event *requests.PayrollCalculatedEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeRenderer struct {
	rendered *responses.BatchCompensation
}

func (f *fakeRenderer) Render(batch *responses.BatchCompensation) ([]byte, error) {
	f.rendered = batch
	return []byte("xlsx"), nil
}

type usecaseFixture struct {
	doctors   *fakeDoctorRepository
	plans     *fakeTreatmentPlanRepository
	redis     *fakeRedisRepository
	storage   *fakeStorageService
	publisher *fakePublisher
	renderer  *fakeRenderer
	config    *config.InternalConfig
}

func newUsecaseFixture() *usecaseFixture {
	return &usecaseFixture{
		doctors: &fakeDoctorRepository{doctors: []models.Doctor{
			{ID: "D1", Name: "Dr. Percent", Services: []models.FlexibleID{"S1"}, PaymentType: models.PaymentTypePercentage, PaymentValue: float(40)},
			{ID: "D2", Name: "Dr. Fixed", PaymentType: models.PaymentTypeFixed, PaymentValue: float(75000)},
			{ID: "D3", Name: "Dr. Unknown", PaymentType: "salary"},
			{ID: "D4", Name: "Dr. Hybrid", Services: []models.FlexibleID{"S2"}, PaymentType: models.PaymentTypeHybrid, PaymentValue: float(75000), HybridPercentageValue: float(8.5)},
		}},
		plans: &fakeTreatmentPlanRepository{plans: []models.TreatmentPlan{
			paidPlan("2025-09-05", models.PlanLineItem{ServiceID: "S1", Price: 10000}),
			paidPlan("2025-09-06", models.PlanLineItem{LegacyServiceID: "S2", Price: 20000}),
		}},
		redis:     newFakeRedisRepository(),
		storage:   &fakeStorageService{},
		publisher: &fakePublisher{},
		renderer:  &fakeRenderer{},
		config: &config.InternalConfig{
			Compensation: config.AppCompensation{CacheTTLInSeconds: 300, BatchConcurrency: 2},
			Minio:        config.AppMinio{ReportBucketName: "payroll-reports"},
			RabbitMQ:     config.AppRabbitMQ{PayrollQueue: "payroll"},
		},
	}
}

func (f *usecaseFixture) usecase() *compensationUsecase {
	return NewCompensationUsecase(f.doctors, f.plans, f.redis, f.storage, f.publisher, f.renderer, f.config, zap.NewNop()).(*compensationUsecase)
}

func requestContext() context.Context {
	return context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "CLNC_SVC_test")
}

var septemberRange = requests.DateRange{DateFrom: "2025-09-01", DateTo: "2025-09-30"}

func TestCompensationUsecase_CalculateForDoctor(t *testing.T) {
	t.Run("Computes and caches", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()

		result, err := uc.CalculateForDoctor(requestContext(), "D1", septemberRange)
		require.NoError(t, err)
		assert.Equal(t, "D1", result.DoctorID)
		assert.Equal(t, "Dr. Percent", result.DoctorName)
		assert.Equal(t, 10000.0, result.PeriodRevenue)
		assert.Equal(t, 4000.0, result.CompensationAmount)
		assert.Equal(t, "2025-09-01", result.DateFrom)
		assert.Equal(t, "2025-09-30", result.DateTo)
		assert.Contains(t, fixture.redis.values, "compensation:D1:2025-09-01:2025-09-30")
	})

	t.Run("Served from cache on second call", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()

		first, err := uc.CalculateForDoctor(requestContext(), "D4", septemberRange)
		require.NoError(t, err)
		second, err := uc.CalculateForDoctor(requestContext(), "D4", septemberRange)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 76700.0, second.CompensationAmount)
		assert.Equal(t, 1, fixture.plans.calls)
		assert.Equal(t, 1, fixture.doctors.calls)
	})

	t.Run("Corrupt cache entry is evicted and recomputed", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.redis.values["compensation:D2:2025-09-01:2025-09-30"] = "{not json"
		uc := fixture.usecase()

		result, err := uc.CalculateForDoctor(requestContext(), "D2", septemberRange)
		require.NoError(t, err)
		assert.Equal(t, 75000.0, result.CompensationAmount)
		assert.Equal(t, []string{"compensation:D2:2025-09-01:2025-09-30"}, fixture.redis.deleted)
	})

	t.Run("Cache disabled when TTL is zero", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.config.Compensation.CacheTTLInSeconds = 0
		uc := fixture.usecase()

		_, err := uc.CalculateForDoctor(requestContext(), "D1", septemberRange)
		require.NoError(t, err)
		assert.Empty(t, fixture.redis.values)
	})

	t.Run("Period that has not ended is never cached", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()
		uc.Now = func() time.Time { return time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC) }

		_, err := uc.CalculateForDoctor(requestContext(), "D1", septemberRange)
		require.NoError(t, err)
		_, err = uc.CalculateForDoctor(requestContext(), "D1", septemberRange)
		require.NoError(t, err)

		assert.Empty(t, fixture.redis.values)
		assert.Equal(t, 2, fixture.plans.calls)
	})

	t.Run("Period ended yesterday is cached", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()
		uc.Now = func() time.Time { return time.Date(2025, 10, 1, 0, 30, 0, 0, time.UTC) }

		_, err := uc.CalculateForDoctor(requestContext(), "D1", septemberRange)
		require.NoError(t, err)

		assert.Contains(t, fixture.redis.values, "compensation:D1:2025-09-01:2025-09-30")
	})

	t.Run("Reversed period fails before data access", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()

		_, err := uc.CalculateForDoctor(requestContext(), "D1", requests.DateRange{DateFrom: "2025-09-30", DateTo: "2025-09-01"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPeriod))

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Equal(t, 0, fixture.doctors.calls)
		assert.Equal(t, 0, fixture.plans.calls)
	})

	t.Run("Malformed date", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()

		_, err := uc.CalculateForDoctor(requestContext(), "D1", requests.DateRange{DateFrom: "09/01/2025", DateTo: "2025-09-30"})
		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Contains(t, customErr.ClientMessage, constvars.QueryParamDateFrom)
	})

	t.Run("Unknown doctor", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()

		_, err := uc.CalculateForDoctor(requestContext(), "missing", septemberRange)
		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
		assert.Equal(t, 0, fixture.plans.calls)
	})

	t.Run("Unknown payment type maps to 422", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()

		_, err := uc.CalculateForDoctor(requestContext(), "D3", septemberRange)
		assert.True(t, errors.Is(err, ErrUnknownPaymentType))
		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)
		assert.Empty(t, fixture.redis.values)
	})

	t.Run("Plan fetch failure yields no partial result", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.plans.err = exceptions.ErrMongoDBFindDocument(errors.New("connection reset"))
		uc := fixture.usecase()

		result, err := uc.CalculateForDoctor(requestContext(), "D1", septemberRange)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Empty(t, fixture.redis.values)
	})
}

func TestCompensationUsecase_CalculateBatch(t *testing.T) {
	t.Run("One failing doctor does not abort the others", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()

		batch, err := uc.CalculateBatch(requestContext(), &requests.BatchCompensation{
			DateFrom: "2025-09-01",
			DateTo:   "2025-09-30",
		})
		require.NoError(t, err)
		require.Len(t, batch.Entries, 4)
		assert.Equal(t, 3, batch.SucceededCount)
		assert.Equal(t, 1, batch.FailedCount)
		assert.Equal(t, 1, fixture.plans.calls)

		byID := map[string]responses.BatchCompensationEntry{}
		for _, entry := range batch.Entries {
			byID[entry.DoctorID] = entry
		}
		assert.Equal(t, 4000.0, byID["D1"].Compensation.CompensationAmount)
		assert.Equal(t, 75000.0, byID["D2"].Compensation.CompensationAmount)
		assert.Nil(t, byID["D3"].Compensation)
		assert.Contains(t, byID["D3"].Error, "D3")
		assert.Contains(t, byID["D3"].Error, "2025-09-01")
		assert.Equal(t, 76700.0, byID["D4"].Compensation.CompensationAmount)

		assert.Equal(t, 30000.0, batch.TotalRevenue)
		assert.Equal(t, 4000.0+75000.0+76700.0, batch.TotalCompensation)

		require.Len(t, fixture.publisher.events, 1)
		assert.Equal(t, constvars.PayrollCalculatedEventType, fixture.publisher.events[0].EventType)
		assert.Equal(t, 1, fixture.publisher.events[0].FailedCount)
		assert.Empty(t, batch.ReportObject)
	})

	t.Run("Entries follow request order and unknown ids are reported", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()

		batch, err := uc.CalculateBatch(requestContext(), &requests.BatchCompensation{
			DoctorIDs: []string{"D4", "ghost", "D1", "D4"},
			DateFrom:  "2025-09-01",
			DateTo:    "2025-09-30",
		})
		require.NoError(t, err)
		require.Len(t, batch.Entries, 3)
		assert.Equal(t, "D4", batch.Entries[0].DoctorID)
		assert.Equal(t, "D1", batch.Entries[1].DoctorID)
		assert.Equal(t, "ghost", batch.Entries[2].DoctorID)
		assert.Contains(t, batch.Entries[2].Error, constvars.ErrClientDoctorNotFound)
		assert.Equal(t, 1, batch.FailedCount)
	})

	t.Run("Exports the report when requested", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()

		batch, err := uc.CalculateBatch(requestContext(), &requests.BatchCompensation{
			DoctorIDs:    []string{"D1"},
			DateFrom:     "2025-09-01",
			DateTo:       "2025-09-30",
			ExportReport: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "payroll/2025-09-01_2025-09-30_CLNC_SVC_test.xlsx", batch.ReportObject)
		assert.Equal(t, "payroll-reports", fixture.storage.bucket)
		assert.Equal(t, constvars.MIMEApplicationSpreadsheet, fixture.storage.contentType)
		assert.Equal(t, []byte("xlsx"), fixture.storage.data)
		assert.Same(t, batch, fixture.renderer.rendered)
		assert.Equal(t, batch.ReportObject, fixture.publisher.events[0].ReportObject)
	})

	t.Run("Upload failure fails the batch", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.storage.err = exceptions.ErrMinioCreateObject(errors.New("bucket gone"), "payroll-reports")
		uc := fixture.usecase()

		_, err := uc.CalculateBatch(requestContext(), &requests.BatchCompensation{
			DateFrom:     "2025-09-01",
			DateTo:       "2025-09-30",
			ExportReport: true,
		})
		require.Error(t, err)
		assert.Empty(t, fixture.publisher.events)
	})

	t.Run("Publish failure still returns the batch", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.publisher.err = errors.New("channel closed")
		uc := fixture.usecase()

		batch, err := uc.CalculateBatch(requestContext(), &requests.BatchCompensation{
			DateFrom: "2025-09-01",
			DateTo:   "2025-09-30",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, batch.SucceededCount)
	})

	t.Run("Plan fetch failure aborts the batch", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.plans.err = errors.New("timeout")
		uc := fixture.usecase()

		batch, err := uc.CalculateBatch(requestContext(), &requests.BatchCompensation{
			DateFrom: "2025-09-01",
			DateTo:   "2025-09-30",
		})
		require.Error(t, err)
		assert.Nil(t, batch)
	})

	t.Run("Reversed period", func(t *testing.T) {
		fixture := newUsecaseFixture()
		uc := fixture.usecase()

		_, err := uc.CalculateBatch(requestContext(), &requests.BatchCompensation{
			DateFrom: "2025-09-30",
			DateTo:   "2025-09-01",
		})
		assert.True(t, errors.Is(err, ErrInvalidPeriod))
		assert.Equal(t, 0, fixture.doctors.calls)
	})

	t.Run("Strict mode reports missing configuration per doctor", func(t *testing.T) {
		fixture := newUsecaseFixture()
		fixture.config.Compensation.StrictPaymentConfig = true
		fixture.doctors.doctors = append(fixture.doctors.doctors, models.Doctor{ID: "D5", PaymentType: models.PaymentTypeFixed})
		uc := fixture.usecase()

		batch, err := uc.CalculateBatch(requestContext(), &requests.BatchCompensation{
			DoctorIDs: []string{"D5", "D2"},
			DateFrom:  "2025-09-01",
			DateTo:    "2025-09-30",
		})
		require.NoError(t, err)
		assert.True(t, strings.Contains(batch.Entries[0].Error, constvars.ErrClientMissingPaymentConfig))
		assert.NotNil(t, batch.Entries[1].Compensation)
	})
}
