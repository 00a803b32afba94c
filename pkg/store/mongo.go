package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const storiesCollection = "stories"

// MongoStore persists stories in a MongoDB collection.
// Documents carry the bson tags defined in package storyfile, so stored
// stories keep the same field names as their JSON form.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies connectivity.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect %s: %w", uri, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping %s: %w", uri, err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(storiesCollection),
	}, nil
}

// Save creates or replaces a story record.
func (s *MongoStore) Save(ctx context.Context, rec StoryRecord) error {
	filter := bson.M{"_id": rec.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, filter, rec, opts); err != nil {
		return fmt.Errorf("save story %s: %w", rec.ID, err)
	}
	return nil
}

// Load retrieves a story by ID.
func (s *MongoStore) Load(ctx context.Context, id string) (StoryRecord, error) {
	var rec StoryRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return StoryRecord{}, ErrNotFound
	}
	if err != nil {
		return StoryRecord{}, fmt.Errorf("load story %s: %w", id, err)
	}
	return rec, nil
}

// List returns metadata for all stored stories, most recently updated first.
func (s *MongoStore) List(ctx context.Context) ([]StoryInfo, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "title": 1, "updated_at": 1}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer cur.Close(ctx)

	var infos []StoryInfo
	if err := cur.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("decode stories: %w", err)
	}
	return infos, nil
}

// Delete removes a story.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete story %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
