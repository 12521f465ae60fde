package database

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockCollection(t *testing.T, name string) (pgxmock.PgxPoolIface, Collection) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewPostgresStore(mock).Collection(name)
}

func TestPostgresInsertOne(t *testing.T) {
	mock, coll := newMockCollection(t, "products")

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("products", "p1", `{"_id":"p1","price":"$10.00"}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := coll.InsertOne(context.Background(), Document{IDKey: "p1", "price": "$10.00"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertDuplicateUsername(t *testing.T) {
	mock, coll := newMockCollection(t, "users")

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("users", "u2", `{"_id":"u2","username":"alice"}`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := coll.InsertOne(context.Background(), Document{IDKey: "u2", "username": "alice"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertOtherErrorIsNotDuplicate(t *testing.T) {
	mock, coll := newMockCollection(t, "users")

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("users", "u2", `{"_id":"u2"}`).
		WillReturnError(&pgconn.PgError{Code: "53300", Message: "too many connections"})

	err := coll.InsertOne(context.Background(), Document{IDKey: "u2"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertRequiresID(t *testing.T) {
	mock, coll := newMockCollection(t, "products")

	err := coll.InsertOne(context.Background(), Document{"price": "$10.00"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindOne(t *testing.T) {
	mock, coll := newMockCollection(t, "users")

	mock.ExpectQuery("SELECT body FROM documents").
		WithArgs("users", `{"username":"alice"}`).
		WillReturnRows(pgxmock.NewRows([]string{"body"}).
			AddRow([]byte(`{"_id":"u1","username":"alice","role":"user"}`)))

	doc, err := coll.FindOne(context.Background(), Filter{"username": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "u1", doc.ID())
	assert.Equal(t, "user", doc.String("role"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindOneMissing(t *testing.T) {
	mock, coll := newMockCollection(t, "users")

	mock.ExpectQuery("SELECT body FROM documents").
		WithArgs("users", `{"_id":"nope"}`).
		WillReturnError(pgx.ErrNoRows)

	_, err := coll.FindOne(context.Background(), ByID("nope"))
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFind(t *testing.T) {
	mock, coll := newMockCollection(t, "products")

	mock.ExpectQuery("SELECT body FROM documents").
		WithArgs("products", `{}`).
		WillReturnRows(pgxmock.NewRows([]string{"body"}).
			AddRow([]byte(`{"_id":"p1"}`)).
			AddRow([]byte(`{"_id":"p2"}`)))

	docs, err := coll.Find(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p1", docs[0].ID())
	assert.Equal(t, "p2", docs[1].ID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateOneDropsID(t *testing.T) {
	mock, coll := newMockCollection(t, "products")

	mock.ExpectExec("UPDATE documents SET body").
		WithArgs("products", `{"_id":"p1"}`, `{"quality":"B"}`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := coll.UpdateOne(context.Background(), ByID("p1"), Document{IDKey: "other", "quality": "B"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateAndDeleteMissing(t *testing.T) {
	mock, coll := newMockCollection(t, "feedbacks")

	mock.ExpectExec("UPDATE documents SET body").
		WithArgs("feedbacks", `{"_id":"f1"}`, `{"rating":5}`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("DELETE FROM documents").
		WithArgs("feedbacks", `{"_id":"f1"}`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	ctx := context.Background()
	assert.ErrorIs(t, coll.UpdateOne(ctx, ByID("f1"), Document{"rating": 5}), ErrNoDocument)
	assert.ErrorIs(t, coll.DeleteOne(ctx, ByID("f1")), ErrNoDocument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`CREATE UNIQUE INDEX IF NOT EXISTS documents_users_username_key ON documents \(\(body->>'username'\)\) WHERE collection = 'users'`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, NewPostgresStore(mock).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
