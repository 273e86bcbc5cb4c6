package repository

import (
	"context"
	"errors"

	"message_board_service/internal/board/domain"
	"message_board_service/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoMessageRepository struct {
	db   *database.MongoDB
	coll *mongo.Collection
	page domain.PageLimits
}

// NewMongoMessageRepository create a MessageRepository on collection, 並建立 (room_id, msg_id) 唯一索引
func NewMongoMessageRepository(ctx context.Context, db *database.MongoDB, collection string, page domain.PageLimits) (MessageRepository, error) {
	r := &mongoMessageRepository{
		db:   db,
		coll: db.Database.Collection(collection),
		page: page,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *mongoMessageRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "msg_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("room_msg_unique"),
	})
	if err != nil {
		return domain.NewStoreError("ensure index", err)
	}
	return nil
}

func (r *mongoMessageRepository) Append(ctx context.Context, msg domain.Message) (domain.Message, error) {
	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Message{}, domain.ErrAlreadyExists
		}
		return domain.Message{}, domain.NewStoreError("append", err)
	}
	return msg, nil
}

func (r *mongoMessageRepository) List(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "msg_id", Value: 1}}).
		SetLimit(int64(r.page.Clamp(limit))).
		SetProjection(bson.M{"_id": 0})

	cur, err := r.coll.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	defer cur.Close(ctx)

	messages := make([]domain.Message, 0)
	for cur.Next(ctx) {
		var msg domain.Message
		if err := cur.Decode(&msg); err != nil {
			return nil, domain.NewStoreError("list", err)
		}
		messages = append(messages, msg)
	}
	if err := cur.Err(); err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	return messages, nil
}

func (r *mongoMessageRepository) Remove(ctx context.Context, roomID, msgID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"room_id": roomID, "msg_id": msgID})
	if err != nil {
		return domain.NewStoreError("remove", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mongoMessageRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return domain.NewStoreError("ping", err)
	}
	return nil
}

func (r *mongoMessageRepository) Close(ctx context.Context) error {
	if err := r.db.Close(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}
