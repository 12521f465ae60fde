package database

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// MemoryStore is an in-process driver for local runs and tests. Documents are
// normalized through JSON so reads look the same as from the postgres driver.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Document)}
}

func (s *MemoryStore) Collection(name string) Collection {
	return &memCollection{store: s, name: name}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

type memCollection struct {
	store *MemoryStore
	name  string
}

func (c *memCollection) InsertOne(ctx context.Context, doc Document) error {
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("insert into %s: missing %s", c.name, IDKey)
	}

	stored, err := normalize(doc)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", c.name, err)
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	docs := c.store.collections[c.name]
	if field, clash := c.conflict(docs, stored, -1); clash {
		return fmt.Errorf("insert into %s: %w on %s", c.name, ErrDuplicate, field)
	}
	c.store.collections[c.name] = append(docs, stored)

	return nil
}

func (c *memCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	match, err := normalize(Document(filter))
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	for _, doc := range c.store.collections[c.name] {
		if matches(doc, match) {
			return copyDocument(doc), nil
		}
	}

	return nil, ErrNoDocument
}

func (c *memCollection) Find(ctx context.Context, filter Filter) ([]Document, error) {
	match, err := normalize(Document(filter))
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var docs []Document
	for _, doc := range c.store.collections[c.name] {
		if matches(doc, match) {
			docs = append(docs, copyDocument(doc))
		}
	}

	return docs, nil
}

func (c *memCollection) UpdateOne(ctx context.Context, filter Filter, set Document) error {
	match, err := normalize(Document(filter))
	if err != nil {
		return fmt.Errorf("encode filter: %w", err)
	}
	patch, err := normalize(set.without(IDKey))
	if err != nil {
		return fmt.Errorf("encode %s update: %w", c.name, err)
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	docs := c.store.collections[c.name]
	for i, doc := range docs {
		if !matches(doc, match) {
			continue
		}

		updated := copyDocument(doc)
		for k, v := range patch {
			updated[k] = v
		}
		if field, clash := c.conflict(docs, updated, i); clash {
			return fmt.Errorf("update in %s: %w on %s", c.name, ErrDuplicate, field)
		}
		docs[i] = updated
		return nil
	}

	return ErrNoDocument
}

// conflict reports the first id or unique field that candidate shares with a
// document other than docs[skip]
func (c *memCollection) conflict(docs []Document, candidate Document, skip int) (string, bool) {
	for i, doc := range docs {
		if i == skip {
			continue
		}
		if doc.ID() == candidate.ID() {
			return IDKey, true
		}
		for _, field := range uniqueKeys[c.name] {
			want, ok := candidate[field]
			if ok && reflect.DeepEqual(doc[field], want) {
				return field, true
			}
		}
	}
	return "", false
}

func (c *memCollection) DeleteOne(ctx context.Context, filter Filter) error {
	match, err := normalize(Document(filter))
	if err != nil {
		return fmt.Errorf("encode filter: %w", err)
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	docs := c.store.collections[c.name]
	for i, doc := range docs {
		if matches(doc, match) {
			c.store.collections[c.name] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}

	return ErrNoDocument
}

func normalize(doc Document) (Document, error) {
	out := Document{}
	if doc == nil {
		return out, nil
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(doc Document, filter Document) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
