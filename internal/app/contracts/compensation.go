package contracts

import (
	"clinic-service/internal/pkg/dto/requests"
	"clinic-service/internal/pkg/dto/responses"
	"context"
)

type CompensationUsecase interface {
	CalculateForDoctor(ctx context.Context, doctorID string, dateRange requests.DateRange) (*responses.Compensation, error)
	CalculateBatch(ctx context.Context, request *requests.BatchCompensation) (*responses.BatchCompensation, error)
}
