package repositories

import (
	"context"
	"time"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository persists the notification ledger.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uint, skip, limit int64) ([]models.Notification, error)
	ListBetween(ctx context.Context, recipientID uint, from, to time.Time, limit int64) ([]models.Notification, error)
	CountByRecipient(ctx context.Context, recipientID uint) (int64, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// EnsureIndexes creates the recipient indexes used by the list and unread queries.
func (r *MongoNotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "read", Value: 1}}},
	})
	return err
}

func (r *MongoNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, n); err != nil {
		return apperrors.Storage(err, "insert notification")
	}
	return nil
}

func (r *MongoNotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Notification not found")
	}
	var n models.Notification
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&n); err != nil {
		return nil, translate(err, "Notification not found", "find notification")
	}
	return &n, nil
}

// ListByRecipient returns newest first. _id breaks created_at ties.
func (r *MongoNotificationRepository) ListByRecipient(ctx context.Context, recipientID uint, skip, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	return r.find(ctx, bson.M{"recipient_id": recipientID}, opts)
}

// ListBetween returns records with from <= created_at < to, newest first. A zero bound is open.
func (r *MongoNotificationRepository) ListBetween(ctx context.Context, recipientID uint, from, to time.Time, limit int64) ([]models.Notification, error) {
	filter := bson.M{"recipient_id": recipientID}
	window := bson.M{}
	if !from.IsZero() {
		window["$gte"] = from
	}
	if !to.IsZero() {
		window["$lt"] = to
	}
	if len(window) > 0 {
		filter["created_at"] = window
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, filter, opts)
}

func (r *MongoNotificationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Notification, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Storage(err, "find notifications")
	}
	defer cursor.Close(ctx)

	list := []models.Notification{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, apperrors.Storage(err, "decode notifications")
	}
	return list, nil
}

func (r *MongoNotificationRepository) CountByRecipient(ctx context.Context, recipientID uint) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"recipient_id": recipientID})
	if err != nil {
		return 0, apperrors.Storage(err, "count notifications")
	}
	return n, nil
}

func (r *MongoNotificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
	if err != nil {
		return 0, apperrors.Storage(err, "count unread notifications")
	}
	return n, nil
}

// MarkAllRead flips every unread record of the recipient and returns how many changed.
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, apperrors.Storage(err, "mark notifications read")
	}
	return res.ModifiedCount, nil
}

func (r *MongoNotificationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Storage(err, "delete notification")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("Notification not found")
	}
	return nil
}
