//go:build !integration

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marcelsud/webhook-dispatch/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersister_Load_Unit(t *testing.T) {
	ctx := context.Background()

	t.Run("success - decodes stored blob", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		blob := `{"webhooks":[{"id":"wh-1","name":"a","url":"https://example.test/a","events":["user.activity"],"status":"inactive","deliveryCount":3,"lastDelivery":null,"createdAt":"2024-01-01T00:00:00Z"}],"eventLog":[]}`
		mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM webhook_state WHERE key = $1")).
			WithArgs("test").
			WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(blob)))

		state, err := NewPersisterWithDB(db, "test").Load(ctx)

		require.NoError(t, err)
		require.Len(t, state.Webhooks, 1)
		assert.Equal(t, "wh-1", state.Webhooks[0].ID)
		assert.Equal(t, webhook.Inactive, state.Webhooks[0].Status)
		assert.Equal(t, int64(3), state.Webhooks[0].DeliveryCount)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - no row is an empty state", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM webhook_state WHERE key = $1")).
			WithArgs(DefaultKey).
			WillReturnError(sql.ErrNoRows)

		state, err := NewPersisterWithDB(db, "").Load(ctx)

		require.NoError(t, err)
		assert.Empty(t, state.Webhooks)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - query failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM webhook_state")).
			WillReturnError(errors.New("connection reset"))

		_, err = NewPersisterWithDB(db, "test").Load(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "selecting state")
	})
}

func TestPersister_Save_Unit(t *testing.T) {
	ctx := context.Background()

	t.Run("success - upserts blob", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO webhook_state (key, data, updated_at)")).
			WithArgs("test", []byte(`{"webhooks":[],"eventLog":[]}`), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = NewPersisterWithDB(db, "test").Save(ctx, webhook.State{})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - exec failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO webhook_state")).
			WillReturnError(errors.New("read-only transaction"))

		err = NewPersisterWithDB(db, "test").Save(ctx, webhook.State{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "upserting state")
	})
}

func TestPersister_EnsureSchema_Unit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS webhook_state")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPersisterWithDB(db, "test").EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
