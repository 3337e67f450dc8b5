package contracts

import "clinic-service/internal/pkg/dto/responses"

type PayrollReportRenderer interface {
	Render(batch *responses.BatchCompensation) ([]byte, error)
}
