package contracts

import (
	"clinic-service/internal/app/models"
	"context"
	"time"
)

type TreatmentPlanRepository interface {
	FindPaidInPeriod(ctx context.Context, from, to time.Time) ([]models.TreatmentPlan, error)
}
