package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stateDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStateRepository keeps client state in a MongoDB collection, one
// document per key.
type MongoStateRepository struct {
	collection *mongo.Collection
}

func NewMongoStateRepository(collection *mongo.Collection) *MongoStateRepository {
	return &MongoStateRepository{collection: collection}
}

func (r *MongoStateRepository) Get(ctx context.Context, key string) (string, error) {
	var doc stateDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return doc.Value, nil
}

func (r *MongoStateRepository) Set(ctx context.Context, key, value string) error {
	doc := stateDocument{Key: key, Value: value, UpdatedAt: time.Now()}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoStateRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}})
	return err
}
