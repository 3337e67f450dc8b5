package contracts

import (
	"clinic-service/internal/pkg/dto/requests"
	"context"
)

type PayrollEventPublisher interface {
	PublishPayrollCalculated(ctx context.Context, event *requests.PayrollCalculatedEvent) error
}
