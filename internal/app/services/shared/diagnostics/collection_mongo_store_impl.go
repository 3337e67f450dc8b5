package diagnostics

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionMongoStore struct {
	DB *mongo.Database
}

func NewCollectionMongoStore(db *mongo.Database) CollectionStore {
	return &collectionMongoStore{DB: db}
}

func (s *collectionMongoStore) Count(ctx context.Context, collection string, filter bson.D) (int64, error) {
	return s.DB.Collection(collection).CountDocuments(ctx, filter)
}

func (s *collectionMongoStore) Find(ctx context.Context, collection string, filter, projection bson.D, limit int64) ([]bson.M, error) {
	findOptions := options.Find()
	if len(projection) > 0 {
		findOptions.SetProjection(projection)
	}
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := s.DB.Collection(collection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	documents := make([]bson.M, 0)
	err = cursor.All(ctx, &documents)
	if err != nil {
		return nil, err
	}
	return documents, nil
}

func (s *collectionMongoStore) DeleteMany(ctx context.Context, collection string, filter bson.D) (int64, error) {
	result, err := s.DB.Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
