package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore backs the Store contract with a live MongoDB database,
// one collection per entity kind.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Store = (*MongoStore)(nil)

func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect -> %w", err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)

		return nil, fmt.Errorf("client.Ping -> %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter Filter, out interface{}) error {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M(filter))
	if err != nil {
		return fmt.Errorf("collection.Find -> %w", err)
	}

	if err = cursor.All(ctx, out); err != nil {
		return fmt.Errorf("cursor.All -> %w", err)
	}

	return nil
}

func (s *MongoStore) FindOne(ctx context.Context, collection string, filter Filter, out interface{}) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M(filter)).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}

		return fmt.Errorf("collection.FindOne -> %w", err)
	}

	return nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc interface{}) error {
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("collection.InsertOne -> %w", err)
	}

	return nil
}

func (s *MongoStore) UpdateOne(ctx context.Context, collection string, filter Filter, doc interface{}) error {
	result, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M(filter), doc)
	if err != nil {
		return fmt.Errorf("collection.ReplaceOne -> %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoStore) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	result, err := s.db.Collection(collection).DeleteMany(ctx, bson.M(filter))
	if err != nil {
		return 0, fmt.Errorf("collection.DeleteMany -> %w", err)
	}

	return result.DeletedCount, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	count, err := s.db.Collection(collection).CountDocuments(ctx, bson.M(filter))
	if err != nil {
		return 0, fmt.Errorf("collection.CountDocuments -> %w", err)
	}

	return count, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
