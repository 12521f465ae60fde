package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"storefront/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxIface is the slice of pgxpool the document store needs; pgxmock satisfies it in tests
type PgxIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// DB wrapper struct
type DB struct {
	pool *pgxpool.Pool
}

func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

func (db *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return db.pool.Exec(ctx, sql, args...)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *DB) Close() {
	db.pool.Close()
}

// InitDB opens the pgx connection pool
func InitDB(config utils.DatabaseConfig) (PgxIface, error) {
	connStr := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s",
		config.User, config.Password, config.Name, config.Host)
	if config.Port != "" {
		connStr += " port=" + config.Port
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	return &DB{pool: pool}, nil
}

// PostgresStore keeps every collection in one JSONB table, ordered by seq
type PostgresStore struct {
	db PgxIface
}

func NewPostgresStore(db PgxIface) *PostgresStore {
	return &PostgresStore{db: db}
}

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS documents (
		seq        BIGSERIAL PRIMARY KEY,
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		body       JSONB NOT NULL,
		UNIQUE (collection, id)
	)
`

// uniqueIndexSQL builds one partial expression index per entry in uniqueKeys
func uniqueIndexSQL() []string {
	collections := make([]string, 0, len(uniqueKeys))
	for name := range uniqueKeys {
		collections = append(collections, name)
	}
	sort.Strings(collections)

	var stmts []string
	for _, name := range collections {
		for _, field := range uniqueKeys[name] {
			stmts = append(stmts, fmt.Sprintf(
				`CREATE UNIQUE INDEX IF NOT EXISTS documents_%[1]s_%[2]s_key ON documents ((body->>'%[2]s')) WHERE collection = '%[1]s'`,
				name, field))
		}
	}
	return stmts
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	for _, stmt := range uniqueIndexSQL() {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create unique index: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Collection(name string) Collection {
	return &pgCollection{db: s.db, name: name}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close(ctx context.Context) error {
	s.db.Close()
	return nil
}

type pgCollection struct {
	db   PgxIface
	name string
}

func (c *pgCollection) InsertOne(ctx context.Context, doc Document) error {
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("insert into %s: missing %s", c.name, IDKey)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", c.name, err)
	}

	query := `INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`
	if _, err := c.db.Exec(ctx, query, c.name, id, string(body)); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert into %s: %w: %v", c.name, ErrDuplicate, err)
		}
		return fmt.Errorf("insert into %s: %w", c.name, err)
	}

	return nil
}

func (c *pgCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	match, err := encodeFilter(filter)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT body FROM documents
		WHERE collection = $1 AND body @> $2::jsonb
		ORDER BY seq
		LIMIT 1
	`

	var body []byte
	err = c.db.QueryRow(ctx, query, c.name, match).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", c.name, err)
	}

	return decodeDocument(body)
}

func (c *pgCollection) Find(ctx context.Context, filter Filter) ([]Document, error) {
	match, err := encodeFilter(filter)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT body FROM documents
		WHERE collection = $1 AND body @> $2::jsonb
		ORDER BY seq
	`

	rows, err := c.db.Query(ctx, query, c.name, match)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.name, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", c.name, err)
		}
		doc, err := decodeDocument(body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", c.name, err)
	}

	return docs, nil
}

func (c *pgCollection) UpdateOne(ctx context.Context, filter Filter, set Document) error {
	match, err := encodeFilter(filter)
	if err != nil {
		return err
	}

	patch, err := json.Marshal(set.without(IDKey))
	if err != nil {
		return fmt.Errorf("encode %s update: %w", c.name, err)
	}

	query := `
		UPDATE documents SET body = body || $3::jsonb
		WHERE seq = (
			SELECT seq FROM documents
			WHERE collection = $1 AND body @> $2::jsonb
			ORDER BY seq
			LIMIT 1
		)
	`

	result, err := c.db.Exec(ctx, query, c.name, match, string(patch))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update in %s: %w: %v", c.name, ErrDuplicate, err)
		}
		return fmt.Errorf("update in %s: %w", c.name, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoDocument
	}

	return nil
}

func (c *pgCollection) DeleteOne(ctx context.Context, filter Filter) error {
	match, err := encodeFilter(filter)
	if err != nil {
		return err
	}

	query := `
		DELETE FROM documents
		WHERE seq = (
			SELECT seq FROM documents
			WHERE collection = $1 AND body @> $2::jsonb
			ORDER BY seq
			LIMIT 1
		)
	`

	result, err := c.db.Exec(ctx, query, c.name, match)
	if err != nil {
		return fmt.Errorf("delete in %s: %w", c.name, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoDocument
	}

	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func encodeFilter(filter Filter) (string, error) {
	if filter == nil {
		filter = Filter{}
	}
	match, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("encode filter: %w", err)
	}
	return string(match), nil
}

func decodeDocument(body []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
