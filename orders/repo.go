package orders

import (
	"context"
	"errors"
	"time"

	"dukaan/apperr"
	"dukaan/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repo is the persistence surface the order service needs. The Mongo
// implementation below is the real one; tests inject an in-memory fake.
type Repo interface {
	Insert(ctx context.Context, o models.Order) error
	FindByOrderID(ctx context.Context, orderID string) (models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	// TransitionStatus writes the new status guarded on the previously read
	// one, so two racing transitions cannot both win.
	TransitionStatus(ctx context.Context, orderID string, from, to models.OrderStatus, at time.Time, reason string) (models.Order, error)
	// MergeSyncFields updates only the reconciler-owned fields. Status is
	// deliberately not among them.
	MergeSyncFields(ctx context.Context, orderID string, info models.CustomerInfo, link string, at time.Time) error
	UpdateCustomerInfo(ctx context.Context, orderID string, info models.CustomerInfo, at time.Time) (models.Order, error)
}

type mongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(coll *mongo.Collection) Repo {
	return &mongoRepo{coll: coll}
}

func (r *mongoRepo) Insert(ctx context.Context, o models.Order) error {
	_, err := r.coll.InsertOne(ctx, o)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict("order %s already exists", o.OrderID)
	}
	return err
}

func (r *mongoRepo) FindByOrderID(ctx context.Context, orderID string) (models.Order, error) {
	var o models.Order
	err := r.coll.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, apperr.NotFound("order %s not found", orderID)
	}
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r *mongoRepo) List(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Order{}
	}
	return out, nil
}

func statusTimestampField(to models.OrderStatus) string {
	switch to {
	case models.StatusConfirmed:
		return "confirmedAt"
	case models.StatusShipped:
		return "shippedAt"
	case models.StatusDelivered:
		return "deliveredAt"
	case models.StatusCancelled:
		return "cancelledAt"
	}
	return ""
}

func (r *mongoRepo) TransitionStatus(ctx context.Context, orderID string, from, to models.OrderStatus, at time.Time, reason string) (models.Order, error) {
	set := bson.M{"status": to, "updatedAt": at}
	if f := statusTimestampField(to); f != "" {
		set[f] = at
	}
	if reason != "" {
		set["cancellationReason"] = reason
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"orderId": orderID, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return models.Order{}, err
	}
	if res.MatchedCount == 0 {
		// Either the order vanished or someone else transitioned it first.
		if _, findErr := r.FindByOrderID(ctx, orderID); findErr != nil {
			return models.Order{}, findErr
		}
		return models.Order{}, apperr.Conflict("order %s changed status concurrently", orderID)
	}
	return r.FindByOrderID(ctx, orderID)
}

func (r *mongoRepo) MergeSyncFields(ctx context.Context, orderID string, info models.CustomerInfo, link string, at time.Time) error {
	set := bson.M{"customerInfo": info, "updatedAt": at}
	if link != "" {
		set["notificationLink"] = link
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"orderId": orderID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("order %s not found", orderID)
	}
	return nil
}

func (r *mongoRepo) UpdateCustomerInfo(ctx context.Context, orderID string, info models.CustomerInfo, at time.Time) (models.Order, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"customerInfo": info, "updatedAt": at}},
	)
	if err != nil {
		return models.Order{}, err
	}
	if res.MatchedCount == 0 {
		return models.Order{}, apperr.NotFound("order %s not found", orderID)
	}
	return r.FindByOrderID(ctx, orderID)
}
