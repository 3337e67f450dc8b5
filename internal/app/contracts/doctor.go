package contracts

import (
	"clinic-service/internal/app/models"
	"context"
)

type DoctorRepository interface {
	FindAll(ctx context.Context) ([]models.Doctor, error)
	FindByID(ctx context.Context, doctorID string) (*models.Doctor, error)
	FindByIDs(ctx context.Context, doctorIDs []string) ([]models.Doctor, error)
}
