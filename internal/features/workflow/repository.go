package workflow

import (
	"context"
	"time"

	"go-court/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StepRepository interface {
	Create(ctx context.Context, step *WorkflowStep) error
	ListByCase(ctx context.Context, caseID primitive.ObjectID) ([]WorkflowStep, error)

	// SetStatus applies a status transition. The write is conditioned on
	// the stored status being non-terminal, so Completed/Rejected steps
	// are never regressed even under concurrent reconciliations.
	// Returns whether a row actually changed.
	SetStatus(ctx context.Context, id primitive.ObjectID, status ActionStatus, failureReason string, meta StepMetadata, activate bool) (bool, error)

	// Activate flags a step actionable and merges in fresh metadata
	// without touching its status.
	Activate(ctx context.Context, id primitive.ObjectID, meta StepMetadata) error

	DeleteByCase(ctx context.Context, caseID primitive.ObjectID) error
}

type StepRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewStepRepository(mongodb *database.MongodbDB) StepRepository {
	return &StepRepositoryImpl{
		Collection: mongodb.DB.Collection("case_workflow_steps"),
	}
}

func (r *StepRepositoryImpl) Create(ctx context.Context, step *WorkflowStep) error {
	_, err := r.Collection.InsertOne(ctx, step)
	return err
}

func (r *StepRepositoryImpl) ListByCase(ctx context.Context, caseID primitive.ObjectID) ([]WorkflowStep, error) {
	opts := options.Find().SetSort(bson.M{"step_order": 1})
	cursor, err := r.Collection.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var steps []WorkflowStep
	if err = cursor.All(ctx, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *StepRepositoryImpl) SetStatus(ctx context.Context, id primitive.ObjectID, status ActionStatus, failureReason string, meta StepMetadata, activate bool) (bool, error) {
	now := time.Now()

	set := bson.M{
		"action_status":    status,
		"action_metadata":  meta,
		"action_timestamp": now,
	}
	if activate {
		set["is_active"] = true
	}

	update := bson.M{"$set": set}
	if failureReason != "" {
		set["failure_reason"] = failureReason
	} else {
		update["$unset"] = bson.M{"failure_reason": ""}
	}

	// The filter excludes terminal statuses: lost-update races collapse
	// into no-ops instead of regressions.
	filter := bson.M{
		"_id":           id,
		"action_status": bson.M{"$nin": bson.A{StatusCompleted, StatusRejected}},
	}

	res, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *StepRepositoryImpl) Activate(ctx context.Context, id primitive.ObjectID, meta StepMetadata) error {
	update := bson.M{
		"$set": bson.M{
			"is_active":       true,
			"action_metadata": meta,
		},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *StepRepositoryImpl) DeleteByCase(ctx context.Context, caseID primitive.ObjectID) error {
	_, err := r.Collection.DeleteMany(ctx, bson.M{"case_id": caseID})
	return err
}
