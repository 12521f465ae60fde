package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDKey is the document field holding the record identifier
const IDKey = "_id"

var (
	ErrNoDocument = errors.New("document not found")
	ErrDuplicate  = errors.New("duplicate document")
)

// uniqueKeys lists per collection the fields no two documents may share.
// Every driver enforces them on insert and reports ErrDuplicate.
var uniqueKeys = map[string][]string{
	"users": {"username"},
}

// Document is a flat field record as stored in a collection
type Document map[string]any

// Filter matches documents whose fields equal every given value
type Filter map[string]any

func ByID(id string) Filter {
	return Filter{IDKey: id}
}

// Collection is the opaque record store every repository is written against.
// UpdateOne and DeleteOne return ErrNoDocument when nothing matched.
type Collection interface {
	InsertOne(ctx context.Context, doc Document) error
	FindOne(ctx context.Context, filter Filter) (Document, error)
	Find(ctx context.Context, filter Filter) ([]Document, error)
	UpdateOne(ctx context.Context, filter Filter, set Document) error
	DeleteOne(ctx context.Context, filter Filter) error
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects the driver selected in config
func Open(ctx context.Context, config utils.DatabaseConfig) (Store, error) {
	switch config.Driver {
	case "postgres", "":
		db, err := InitDB(config)
		if err != nil {
			return nil, err
		}
		store := NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil
	case "mongo":
		return InitMongo(ctx, config)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", config.Driver)
	}
}

func (d Document) ID() string {
	return d.String(IDKey)
}

func (d Document) String(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// OptionalString returns nil for a missing or null field
func (d Document) OptionalString(key string) *string {
	v, ok := d[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// Int tolerates the numeric types each driver decodes into
func (d Document) Int(key string) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

func (d Document) Time(key string) time.Time {
	switch v := d[key].(type) {
	case time.Time:
		return v
	case primitive.DateTime:
		return v.Time()
	case string:
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	default:
		return time.Time{}
	}
}

// without returns a copy that drops the identifier so it can never be rewritten
func (d Document) without(key string) Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k != key {
			out[k] = v
		}
	}
	return out
}
