package doctors

import (
	"clinic-service/internal/app/contracts"
	"clinic-service/internal/app/models"
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/exceptions"
	"context"
	"errors"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type doctorMongoRepository struct {
	Collection *mongo.Collection
	Log        *zap.Logger
}

func NewDoctorMongoRepository(db *mongo.Database, logger *zap.Logger) contracts.DoctorRepository {
	return &doctorMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionDoctors),
		Log:        logger,
	}
}

func (repo *doctorMongoRepository) FindAll(ctx context.Context) ([]models.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	repo.Log.Info("doctorMongoRepository.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	doctors, err := repo.find(ctx, bson.M{"deletedAt": nil})
	if err != nil {
		repo.Log.Error("doctorMongoRepository.FindAll error finding documents",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	repo.Log.Info("doctorMongoRepository.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingDoctorCountKey, len(doctors)),
	)
	return doctors, nil
}

func (repo *doctorMongoRepository) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	repo.Log.Info("doctorMongoRepository.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	var doctor models.Doctor
	filter := bson.M{"_id": bson.M{"$in": idCandidates(doctorID)}}
	err := repo.Collection.FindOne(ctx, filter).Decode(&doctor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			repo.Log.Warn("doctorMongoRepository.FindByID no document found",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingDoctorIDKey, doctorID),
			)
			return nil, nil
		}
		repo.Log.Error("doctorMongoRepository.FindByID error finding document",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	repo.Log.Info("doctorMongoRepository.FindByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)
	return &doctor, nil
}

func (repo *doctorMongoRepository) FindByIDs(ctx context.Context, doctorIDs []string) ([]models.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	repo.Log.Info("doctorMongoRepository.FindByIDs called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingDoctorCountKey, len(doctorIDs)),
	)

	candidates := make([]interface{}, 0, len(doctorIDs)*2)
	for _, doctorID := range doctorIDs {
		candidates = append(candidates, idCandidates(doctorID)...)
	}

	doctors, err := repo.find(ctx, bson.M{"_id": bson.M{"$in": candidates}})
	if err != nil {
		repo.Log.Error("doctorMongoRepository.FindByIDs error finding documents",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	repo.Log.Info("doctorMongoRepository.FindByIDs succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingDoctorCountKey, len(doctors)),
	)
	return doctors, nil
}

func (repo *doctorMongoRepository) find(ctx context.Context, filter bson.M) ([]models.Doctor, error) {
	cursor, err := repo.Collection.Find(ctx, filter)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	return decodeDoctors(ctx, cursor, repo.Log)
}

// decodeDoctors skips documents that cannot be decoded so that one broken
// record does not hide every other doctor.
func decodeDoctors(ctx context.Context, cursor *mongo.Cursor, log *zap.Logger) ([]models.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var doctors []models.Doctor
	for cursor.Next(ctx) {
		var doctor models.Doctor
		if err := cursor.Decode(&doctor); err != nil {
			log.Warn("doctorMongoRepository.decodeDoctors skipping undecodable document",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingDocumentIDKey, cursor.Current.Lookup("_id").String()),
				zap.Error(err),
			)
			continue
		}
		doctors = append(doctors, doctor)
	}
	if err := cursor.Err(); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return doctors, nil
}

// idCandidates matches string, ObjectID and numeric primary keys. Numeric
// candidates match int32, int64 and double keys alike.
func idCandidates(id string) []interface{} {
	candidates := []interface{}{id}
	if objectID, err := primitive.ObjectIDFromHex(id); err == nil {
		candidates = append(candidates, objectID)
	}
	if number, err := strconv.ParseInt(id, 10, 64); err == nil {
		candidates = append(candidates, number)
	} else if number, err := strconv.ParseFloat(id, 64); err == nil && !math.IsNaN(number) && !math.IsInf(number, 0) {
		candidates = append(candidates, number)
	}
	return candidates
}
