package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
)

// MessageRepository definition message store access. One document per
// message; _id (ObjectID) is the time-sortable identifier every cursor is
// built from.
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error)
	// FindMessagesBefore newest-first page of the scope, identifiers
	// strictly below before (nil = from the top). Fetches at most limit
	// rows; the caller sizes limit for the N+1 probe. Soft-deleted
	// messages are excluded.
	FindMessagesBefore(ctx context.Context, scope domain.Scope, before *primitive.ObjectID, limit int) ([]domain.Message, error)
	// UpdateReactions replace the full reaction list. Callers linearize
	// per message; see ReactionUseCase.
	UpdateReactions(ctx context.Context, id primitive.ObjectID, reactions []domain.Reaction) error
	MarkRead(ctx context.Context, id primitive.ObjectID, userID string) error
	// MarkDeleted soft delete, issued by the moderation collaborator
	MarkDeleted(ctx context.Context, id primitive.ObjectID) error
}

type messageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		coll: db.Collection("messages"),
	}
}

func (r *messageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *messageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	var msg domain.Message
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) FindMessagesBefore(ctx context.Context, scope domain.Scope, before *primitive.ObjectID, limit int) ([]domain.Message, error) {
	filter := bson.M{
		"scope_kind": scope.Kind,
		"scope_id":   scope.ID,
		"is_deleted": bson.M{"$ne": true},
	}
	if before != nil {
		filter["_id"] = bson.M{"$lt": *before}
	}

	opts := options.Find().
		SetSort(bson.M{"_id": -1}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) UpdateReactions(ctx context.Context, id primitive.ObjectID, reactions []domain.Reaction) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"reactions": reactions}},
	)
	return err
}

func (r *messageRepository) MarkRead(ctx context.Context, id primitive.ObjectID, userID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"read_by": userID}},
	)
	return err
}

func (r *messageRepository) MarkDeleted(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_deleted": true}},
	)
	return err
}
