package payload

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 500, time.UTC)

	t.Run("success - wraps data in envelope", func(t *testing.T) {
		body, err := Encode("report.generated", json.RawMessage(`{"id":1}`), at)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"report.generated","timestamp":"2024-01-01T12:00:00.0000005Z","data":{"id":1}}`, string(body))
	})

	t.Run("success - missing data encodes as null", func(t *testing.T) {
		body, err := Encode("user.activity", nil, at)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"data":null`)
	})

	t.Run("error - empty type", func(t *testing.T) {
		_, err := Encode(" ", json.RawMessage(`{}`), at)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type is required")
	})

	t.Run("error - invalid data", func(t *testing.T) {
		_, err := Encode("user.activity", json.RawMessage(`{not json`), at)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data must be valid JSON")
	})

	t.Run("error - zero timestamp", func(t *testing.T) {
		_, err := Encode("user.activity", json.RawMessage(`{}`), time.Time{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timestamp is required")
	})
}

func TestParse(t *testing.T) {
	t.Run("success - reads what Encode wrote", func(t *testing.T) {
		at := time.Now().UTC()
		body, err := Encode("export.completed", json.RawMessage(`{"file":"a.csv"}`), at)
		require.NoError(t, err)

		env, err := Parse(body)
		require.NoError(t, err)
		assert.Equal(t, "export.completed", env.Type)
		assert.True(t, at.Equal(env.Timestamp))
		assert.JSONEq(t, `{"file":"a.csv"}`, string(env.Data))
	})

	t.Run("error - bad timestamp", func(t *testing.T) {
		_, err := Parse([]byte(`{"type":"a.b","timestamp":"yesterday","data":{}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing timestamp")
	})

	t.Run("error - not json", func(t *testing.T) {
		_, err := Parse([]byte(`nope`))
		require.Error(t, err)
	})
}
