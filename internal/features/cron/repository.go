package cron_feature

import (
	"context"
	"time"

	"go-court/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SweepRepository interface {
	Create(ctx context.Context, log *SweepLog) error
	Update(ctx context.Context, log *SweepLog) error
	ListRecent(ctx context.Context, limit int64) ([]SweepLog, error)
}

type SweepRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSweepRepository(db *database.MongodbDB) SweepRepository {
	return &SweepRepositoryImpl{
		Collection: db.DB.Collection("reconcile_sweeps"),
	}
}

func (r *SweepRepositoryImpl) Create(ctx context.Context, log *SweepLog) error {
	log.CreatedAt = time.Now()
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, log)
	return err
}

func (r *SweepRepositoryImpl) Update(ctx context.Context, log *SweepLog) error {
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": log.ID}, log)
	return err
}

func (r *SweepRepositoryImpl) ListRecent(ctx context.Context, limit int64) ([]SweepLog, error) {
	opts := options.Find().
		SetSort(bson.M{"start_time": -1}).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []SweepLog
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
