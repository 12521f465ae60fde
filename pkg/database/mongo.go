package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// InitMongo connects to MONGO_URI and uses DB_NAME as the database
func InitMongo(ctx context.Context, config utils.DatabaseConfig) (*MongoStore, error) {
	if config.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required for the mongo driver")
	}

	clientOpts := options.Client().
		ApplyURI(config.MongoURI).
		SetMaxPoolSize(uint64(config.MaxConns)).
		SetConnectTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo failed: %w", err)
	}

	db := client.Database(config.Name)
	if err := ensureIndexes(ctx, db); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{client: client, db: db}, nil
}

// ensureIndexes creates a unique index for every entry in uniqueKeys
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, fields := range uniqueKeys {
		models := make([]mongo.IndexModel, 0, len(fields))
		for _, field := range fields {
			models = append(models, mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}},
				Options: options.Index().SetUnique(true).SetName(field + "_unique"),
			})
		}

		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc Document) error {
	if doc.ID() == "" {
		return fmt.Errorf("insert into %s: missing %s", c.coll.Name(), IDKey)
	}

	if _, err := c.coll.InsertOne(ctx, bson.M(doc)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert into %s: %w: %v", c.coll.Name(), ErrDuplicate, err)
		}
		return fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}

	return nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	var doc Document
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", c.coll.Name(), err)
	}

	return doc, nil
}

func (c *mongoCollection) Find(ctx context.Context, filter Filter) ([]Document, error) {
	// natural order is insertion order for a collection without deletes in between
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})

	cursor, err := c.coll.Find(ctx, toBSON(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s documents: %w", c.coll.Name(), err)
	}

	return docs, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter Filter, set Document) error {
	update := bson.M{"$set": bson.M(set.without(IDKey))}

	result, err := c.coll.UpdateOne(ctx, toBSON(filter), update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("update in %s: %w: %v", c.coll.Name(), ErrDuplicate, err)
		}
		return fmt.Errorf("update in %s: %w", c.coll.Name(), err)
	}

	if result.MatchedCount == 0 {
		return ErrNoDocument
	}

	return nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter Filter) error {
	result, err := c.coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return fmt.Errorf("delete in %s: %w", c.coll.Name(), err)
	}

	if result.DeletedCount == 0 {
		return ErrNoDocument
	}

	return nil
}

func toBSON(filter Filter) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return bson.M(filter)
}
