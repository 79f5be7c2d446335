package store

import (
	"context"
	"fmt"

	"notevault/config"
	"notevault/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore implements DocumentStore on top of a MongoDB database. Documents
// are keyed by a string _id which the store assigns on Add.
type MongoStore struct {
	db *mongo.Database
}

// NewClient connects to MongoDB using the configured pool settings and
// verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.DatabaseSettings) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{db: client.Database(database)}
}

// Get fetches a document by id. Returns nil without error when absent. The
// returned fields carry the document id under "id".
func (s *MongoStore) Get(ctx context.Context, collection, id string) (Fields, error) {
	timer := utils.TrackDBOperation("get", collection)
	defer timer.ObserveDuration()

	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return withID(doc), nil
}

// Add inserts a new document under a generated id and returns the id.
func (s *MongoStore) Add(ctx context.Context, collection string, fields Fields) (string, error) {
	timer := utils.TrackDBOperation("add", collection)
	defer timer.ObserveDuration()

	id := uuid.New().String()
	doc := bson.M(sanitize(fields))
	doc["_id"] = id

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return id, nil
}

// Put creates or overwrites a document by id. With merge, existing fields not
// present in the payload are kept.
func (s *MongoStore) Put(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	timer := utils.TrackDBOperation("put", collection)
	defer timer.ObserveDuration()

	payload := bson.M(sanitize(fields))
	coll := s.db.Collection(collection)

	if merge {
		_, err := coll.UpdateByID(ctx, id,
			bson.M{"$set": payload}, options.Update().SetUpsert(true))
		return err
	}
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, payload,
		options.Replace().SetUpsert(true))
	return err
}

// Update applies a partial update to an existing document. Fails with
// ErrDocumentNotFound when the document is absent.
func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	timer := utils.TrackDBOperation("update", collection)
	defer timer.ObserveDuration()

	result, err := s.db.Collection(collection).UpdateByID(ctx, id,
		bson.M{"$set": bson.M(sanitize(fields))})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// Delete removes a document by id. Deleting an absent document is not an
// error.
func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	timer := utils.TrackDBOperation("delete", collection)
	defer timer.ObserveDuration()

	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// List returns every document in a collection.
func (s *MongoStore) List(ctx context.Context, collection string) ([]Fields, error) {
	timer := utils.TrackDBOperation("list", collection)
	defer timer.ObserveDuration()

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return drain(ctx, cursor)
}

// ListWhere returns documents where field equals value, optionally sorted.
func (s *MongoStore) ListWhere(ctx context.Context, collection, field string, value interface{}, orderBy string, descending bool) ([]Fields, error) {
	timer := utils.TrackDBOperation("list_where", collection)
	defer timer.ObserveDuration()

	opts := options.Find()
	if orderBy != "" {
		direction := 1
		if descending {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: orderBy, Value: direction}})
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{field: value}, opts)
	if err != nil {
		return nil, err
	}
	return drain(ctx, cursor)
}

func drain(ctx context.Context, cursor *mongo.Cursor) ([]Fields, error) {
	defer cursor.Close(ctx)

	var docs []Fields
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, withID(doc))
	}
	return docs, cursor.Err()
}

// withID renames the mongo _id key to the adapter-level "id" key.
func withID(doc bson.M) Fields {
	fields := Fields(doc)
	if id, ok := fields["_id"]; ok {
		delete(fields, "_id")
		fields["id"] = id
	}
	return fields
}
