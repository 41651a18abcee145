package cases

import (
	"context"
	"fmt"
	"time"

	"go-court/internal/database"
	"go-court/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CaseRepository interface {
	Create(ctx context.Context, c *Case) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Case, error)
	FindByCaseNumber(ctx context.Context, caseNumber string) (*Case, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Case, int64, error)

	// ListInFlight returns cases whose workflow may still move, for the
	// periodic reconcile sweep.
	ListInFlight(ctx context.Context) ([]Case, error)

	// NextCaseNumber reserves a unique case number from a monotonic
	// store-side counter.
	NextCaseNumber(ctx context.Context) (string, error)

	SetCaseStatus(ctx context.Context, caseID primitive.ObjectID, status string) error
	GetCaseInfo(ctx context.Context, caseID primitive.ObjectID) (*workflow.CaseInfo, error)

	Delete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type CaseRepositoryImpl struct {
	Collection *mongo.Collection
	Counters   *mongo.Collection
}

func NewCaseRepository(db *database.MongodbDB) CaseRepository {
	return &CaseRepositoryImpl{
		Collection: db.DB.Collection("cases"),
		Counters:   db.DB.Collection("counters"),
	}
}

func (r *CaseRepositoryImpl) Create(ctx context.Context, c *Case) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, c)
	return err
}

func (r *CaseRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Case, error) {
	var c Case
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepositoryImpl) FindByCaseNumber(ctx context.Context, caseNumber string) (*Case, error) {
	var c Case
	if err := r.Collection.FindOne(ctx, bson.M{"case_number": caseNumber}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Case, int64, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var out []Case
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *CaseRepositoryImpl) ListInFlight(ctx context.Context) ([]Case, error) {
	query := bson.M{
		"status":          bson.M{"$nin": bson.A{workflow.CaseStatusCompleted, workflow.CaseStatusRejected, workflow.CaseStatusRejectedReviewer, workflow.CaseStatusRejectedSigner}},
		"signcare_doc_id": bson.M{"$ne": ""},
	}

	cursor, err := r.Collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Case
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NextCaseNumber increments a named counter document and formats the
// result. findOneAndUpdate with $inc is atomic, so concurrent
// submissions never share a sequence value.
func (r *CaseRepositoryImpl) NextCaseNumber(ctx context.Context) (string, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := r.Counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "case_number"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("SF-%d-%05d", time.Now().Year(), counter.Seq), nil
}

func (r *CaseRepositoryImpl) SetCaseStatus(ctx context.Context, caseID primitive.ObjectID, status string) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": caseID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	return err
}

func (r *CaseRepositoryImpl) GetCaseInfo(ctx context.Context, caseID primitive.ObjectID) (*workflow.CaseInfo, error) {
	c, err := r.FindByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return &workflow.CaseInfo{
		ReviewerEmail: c.ReviewerEmail,
		SignerEmail:   c.SignerEmail,
		SignCareDocID: c.SignCareDocID,
		Status:        c.Status,
	}, nil
}

func (r *CaseRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *CaseRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "case_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
