package treatment_plans

import (
	"clinic-service/internal/app/contracts"
	"clinic-service/internal/app/models"
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/exceptions"
	"clinic-service/internal/pkg/utils"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type treatmentPlanMongoRepository struct {
	Collection *mongo.Collection
	Log        *zap.Logger
}

func NewTreatmentPlanMongoRepository(db *mongo.Database, logger *zap.Logger) contracts.TreatmentPlanRepository {
	return &treatmentPlanMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionTreatmentPlans),
		Log:        logger,
	}
}

func (repo *treatmentPlanMongoRepository) FindPaidInPeriod(ctx context.Context, from, to time.Time) ([]models.TreatmentPlan, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	repo.Log.Info("treatmentPlanMongoRepository.FindPaidInPeriod called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDateFromKey, utils.FormatDate(from)),
		zap.String(constvars.LoggingDateToKey, utils.FormatDate(to)),
	)

	cursor, err := repo.Collection.Find(ctx, PaidInPeriodFilter(from, to))
	if err != nil {
		repo.Log.Error("treatmentPlanMongoRepository.FindPaidInPeriod error finding documents",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	plans, err := decodePlans(ctx, cursor, repo.Log)
	if err != nil {
		repo.Log.Error("treatmentPlanMongoRepository.FindPaidInPeriod error iterating documents",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}

	repo.Log.Info("treatmentPlanMongoRepository.FindPaidInPeriod succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPlanCountKey, len(plans)),
	)
	return plans, nil
}

// decodePlans skips documents that cannot be decoded so that one broken
// plan does not fail the period for every doctor.
func decodePlans(ctx context.Context, cursor *mongo.Cursor, log *zap.Logger) ([]models.TreatmentPlan, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var plans []models.TreatmentPlan
	for cursor.Next(ctx) {
		var plan models.TreatmentPlan
		if err := cursor.Decode(&plan); err != nil {
			log.Warn("treatmentPlanMongoRepository.decodePlans skipping undecodable document",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingDocumentIDKey, cursor.Current.Lookup("_id").String()),
				zap.Error(err),
			)
			continue
		}
		plans = append(plans, plan)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// PaidInPeriodFilter selects paid plans whose payment_date falls inside the
// inclusive date range, whether the date is stored as an ISO string or as a
// BSON datetime.
func PaidInPeriodFilter(from, to time.Time) bson.M {
	from = utils.TruncateToDate(from)
	dayAfter := utils.TruncateToDate(to).AddDate(0, 0, 1)
	return bson.M{
		"payment_status": models.PaymentStatusPaid,
		"$or": bson.A{
			bson.M{"payment_date": bson.M{"$gte": utils.FormatDate(from), "$lt": utils.FormatDate(dayAfter)}},
			bson.M{"payment_date": bson.M{"$gte": from, "$lt": dayAfter}},
		},
	}
}
