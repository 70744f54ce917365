package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const clientStateCollection = "client_state"

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB connects and pings; stateTTL > 0 makes stored credentials
// expire that long after their last write.
func NewMongoDB(uri, dbName string, stateTTL time.Duration) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("journal-dashboard"))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	log.Printf("Connected to MongoDB database %s", dbName)

	m := &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
	}
	if stateTTL > 0 {
		if err := m.ensureStateTTL(ctx, stateTTL); err != nil {
			client.Disconnect(ctx)
			return nil, err
		}
	}
	return m, nil
}

func (m *MongoDB) ensureStateTTL(ctx context.Context, ttl time.Duration) error {
	_, err := m.ClientState().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updatedAt", Value: 1}},
		Options: options.Index().SetName("updatedAt_ttl").SetExpireAfterSeconds(int32(ttl.Seconds())),
	})
	return err
}

func (m *MongoDB) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// ClientState holds the persisted credential documents.
func (m *MongoDB) ClientState() *mongo.Collection {
	return m.Database.Collection(clientStateCollection)
}
