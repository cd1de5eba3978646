package webhook_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/webhook-dispatch/webhook"
	"github.com/marcelsud/webhook-dispatch/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*webhook.Store, *webhook.MemoryPersister) {
	t.Helper()
	p := webhook.NewMemoryPersister()
	s := webhook.NewStore(p, 0)
	require.NoError(t, s.Load(context.Background()))
	return s, p
}

func registerTest(t *testing.T, s *webhook.Store, name string, events ...string) webhook.Subscription {
	t.Helper()
	sub, err := s.Register(context.Background(), webhook.Spec{
		Name:   name,
		URL:    "https://example.test/" + name,
		Events: events,
	})
	require.NoError(t, err)
	return sub
}

func TestStore_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success - defaults and persistence", func(t *testing.T) {
		s, p := newTestStore(t)

		sub, err := s.Register(ctx, webhook.Spec{
			Name:    "reports",
			URL:     "https://example.test/a",
			Events:  []string{webhook.EventReportGenerated},
			Headers: map[string]string{"X-Team": "core"},
			Secret:  "shh",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, webhook.Active, sub.Status)
		assert.Equal(t, int64(0), sub.DeliveryCount)
		assert.Nil(t, sub.LastDelivery)
		assert.False(t, sub.CreatedAt.IsZero())
		assert.Equal(t, 1, p.Saves())

		reloaded := webhook.NewStore(p, 0)
		require.NoError(t, reloaded.Load(ctx))
		got, err := reloaded.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.Name, got.Name)
		assert.Equal(t, sub.Headers, got.Headers)
		assert.Equal(t, webhook.Active, got.Status)
		assert.True(t, sub.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("success - ids are unique", func(t *testing.T) {
		s, _ := newTestStore(t)
		a := registerTest(t, s, "a", "user.activity")
		b := registerTest(t, s, "b", "user.activity")
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("error - empty events", func(t *testing.T) {
		s, p := newTestStore(t)

		_, err := s.Register(ctx, webhook.Spec{Name: "c", URL: "https://example.test/c", Events: []string{}})

		require.Error(t, err)
		var verr *webhook.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Problems, "at least one event is required")
		assert.ErrorIs(t, err, webhook.ErrValidation)
		assert.Equal(t, 0, p.Saves())

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("error - missing name and url", func(t *testing.T) {
		s, _ := newTestStore(t)

		_, err := s.Register(ctx, webhook.Spec{Events: []string{"user.activity"}})

		var verr *webhook.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Problems, "name is required")
		assert.Contains(t, verr.Problems, "url is required")
	})

	t.Run("error - relative url", func(t *testing.T) {
		s, _ := newTestStore(t)

		_, err := s.Register(ctx, webhook.Spec{Name: "x", URL: "/hooks", Events: []string{"user.activity"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "absolute http(s) URL")
	})

	t.Run("error - persistence failure keeps the subscription", func(t *testing.T) {
		p := mocks.NewPersister(t)
		p.On("Save", ctx, mock.Anything).Return(fmt.Errorf("disk full"))
		s := webhook.NewStore(p, 0)

		sub, err := s.Register(ctx, webhook.Spec{Name: "a", URL: "https://example.test/a", Events: []string{"user.activity"}})

		require.Error(t, err)
		var perr *webhook.PersistenceError
		require.True(t, errors.As(err, &perr))
		assert.Contains(t, perr.Error(), "disk full")
		assert.NotEmpty(t, sub.ID)

		got, err := s.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
	})
}

func TestStore_Unregister(t *testing.T) {
	ctx := context.Background()

	t.Run("success - second call reports nothing removed", func(t *testing.T) {
		s, _ := newTestStore(t)
		sub := registerTest(t, s, "a", "user.activity")

		removed, err := s.Unregister(ctx, sub.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.Unregister(ctx, sub.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("success - unknown id", func(t *testing.T) {
		s, p := newTestStore(t)

		removed, err := s.Unregister(ctx, "missing")

		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 0, p.Saves())
	})
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success - inactive subscriptions are not listed by event", func(t *testing.T) {
		s, _ := newTestStore(t)
		sub := registerTest(t, s, "a", "user.activity")
		inactive := webhook.Inactive

		updated, err := s.Update(ctx, sub.ID, webhook.Patch{Status: &inactive})
		require.NoError(t, err)
		assert.Equal(t, webhook.Inactive, updated.Status)

		matches, err := s.ListByEvent(ctx, "user.activity")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("success - merges fields and keeps identity", func(t *testing.T) {
		s, _ := newTestStore(t)
		sub := registerTest(t, s, "a", "user.activity")
		name := "renamed"
		events := []string{"export.completed", "favorite.added"}

		updated, err := s.Update(ctx, sub.ID, webhook.Patch{Name: &name, Events: &events})

		require.NoError(t, err)
		assert.Equal(t, sub.ID, updated.ID)
		assert.True(t, sub.CreatedAt.Equal(updated.CreatedAt))
		assert.Equal(t, "renamed", updated.Name)
		assert.Equal(t, sub.URL, updated.URL)
		assert.Equal(t, events, updated.Events)
	})

	t.Run("error - not found", func(t *testing.T) {
		s, _ := newTestStore(t)
		name := "x"

		_, err := s.Update(ctx, "missing", webhook.Patch{Name: &name})

		var nf *webhook.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "missing", nf.ID)
		assert.ErrorIs(t, err, webhook.ErrNotFound)
	})

	t.Run("error - invalid patch leaves record untouched", func(t *testing.T) {
		s, _ := newTestStore(t)
		sub := registerTest(t, s, "a", "user.activity")
		empty := []string{}

		_, err := s.Update(ctx, sub.ID, webhook.Patch{Events: &empty})
		assert.ErrorIs(t, err, webhook.ErrValidation)

		got, err := s.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"user.activity"}, got.Events)
	})

	t.Run("error - unknown status", func(t *testing.T) {
		s, _ := newTestStore(t)
		sub := registerTest(t, s, "a", "user.activity")
		bogus := webhook.Status(42)

		_, err := s.Update(ctx, sub.ID, webhook.Patch{Status: &bogus})

		assert.ErrorIs(t, err, webhook.ErrValidation)
	})
}

func TestStore_ListByEvent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	a := registerTest(t, s, "a", "report.generated")
	registerTest(t, s, "b", "export.completed")
	c := registerTest(t, s, "c", "export.completed", "report.generated")
	errStatus := webhook.Error
	d := registerTest(t, s, "d", "report.generated")
	_, err := s.Update(ctx, d.ID, webhook.Patch{Status: &errStatus})
	require.NoError(t, err)

	matches, err := s.ListByEvent(ctx, "report.generated")

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, a.ID, matches[0].ID)
	assert.Equal(t, c.ID, matches[1].ID)
}

func TestStore_Snapshots(t *testing.T) {
	ctx := context.Background()

	t.Run("success - listed values are copies", func(t *testing.T) {
		s, _ := newTestStore(t)
		sub := registerTest(t, s, "a", "user.activity")

		all, err := s.List(ctx)
		require.NoError(t, err)
		all[0].Events[0] = "tampered"
		all[0].Name = "tampered"

		got, err := s.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, "user.activity", got.Events[0])
		assert.Equal(t, "a", got.Name)
	})

	t.Run("success - registered value is a copy", func(t *testing.T) {
		s, _ := newTestStore(t)
		sub, err := s.Register(ctx, webhook.Spec{
			Name:    "a",
			URL:     "https://example.test/a",
			Events:  []string{"user.activity"},
			Headers: map[string]string{"X": "1"},
		})
		require.NoError(t, err)

		sub.Events[0] = "tampered"
		sub.Headers["X"] = "tampered"

		got, err := s.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, "user.activity", got.Events[0])
		assert.Equal(t, "1", got.Headers["X"])
	})

	t.Run("success - spec is not aliased", func(t *testing.T) {
		s, _ := newTestStore(t)
		events := []string{"user.activity"}
		headers := map[string]string{"X": "1"}
		sub, err := s.Register(ctx, webhook.Spec{Name: "a", URL: "https://example.test/a", Events: events, Headers: headers})
		require.NoError(t, err)

		events[0] = "tampered"
		headers["X"] = "tampered"

		got, err := s.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, "user.activity", got.Events[0])
		assert.Equal(t, "1", got.Headers["X"])
	})
}

func TestStore_RecordDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("success - concurrent attempts are all counted", func(t *testing.T) {
		s, _ := newTestStore(t)
		sub := registerTest(t, s, "a", "user.activity")
		base := time.Now()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := s.RecordDelivery(ctx, sub.ID, webhook.Delivery{
					Timestamp: base.Add(time.Duration(i) * time.Millisecond),
					Event:     "user.activity",
					Success:   true,
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		got, err := s.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), got.DeliveryCount)
		require.NotNil(t, got.LastDelivery)
		assert.True(t, base.Add(49*time.Millisecond).Equal(got.LastDelivery.Timestamp))
	})

	t.Run("success - older attempt counts but does not replace last delivery", func(t *testing.T) {
		s, _ := newTestStore(t)
		sub := registerTest(t, s, "a", "user.activity")
		now := time.Now()

		require.NoError(t, s.RecordDelivery(ctx, sub.ID, webhook.Delivery{Timestamp: now, Success: true, StatusCode: 200}))
		require.NoError(t, s.RecordDelivery(ctx, sub.ID, webhook.Delivery{Timestamp: now.Add(-time.Second), Success: false}))

		got, err := s.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.DeliveryCount)
		assert.True(t, got.LastDelivery.Success)
		assert.True(t, now.Equal(got.LastDelivery.Timestamp))
	})

	t.Run("error - unknown subscription", func(t *testing.T) {
		s, _ := newTestStore(t)

		err := s.RecordDelivery(ctx, "missing", webhook.Delivery{Timestamp: time.Now()})

		assert.ErrorIs(t, err, webhook.ErrNotFound)
	})
}

func TestStore_AppendLogEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("success - the 101st entry evicts exactly the oldest", func(t *testing.T) {
		s, _ := newTestStore(t)

		for i := 1; i <= webhook.DefaultLogLimit+1; i++ {
			err := s.AppendLogEntry(ctx, webhook.LogEntry{
				ID:        fmt.Sprintf("entry-%d", i),
				Event:     "user.activity",
				Timestamp: time.Now(),
				Results:   []webhook.DeliveryResult{},
			})
			require.NoError(t, err)
		}

		entries, err := s.GetLog(ctx)
		require.NoError(t, err)
		require.Len(t, entries, webhook.DefaultLogLimit)
		assert.Equal(t, "entry-2", entries[0].ID)
		assert.Equal(t, fmt.Sprintf("entry-%d", webhook.DefaultLogLimit+1), entries[len(entries)-1].ID)
	})

	t.Run("success - custom limit", func(t *testing.T) {
		s := webhook.NewStore(webhook.NewMemoryPersister(), 3)

		for i := 1; i <= 5; i++ {
			require.NoError(t, s.AppendLogEntry(ctx, webhook.LogEntry{ID: fmt.Sprintf("entry-%d", i)}))
		}

		entries, err := s.GetLog(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "entry-3", entries[0].ID)
	})
}

func TestStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("success - keeps persisted order and trims the log", func(t *testing.T) {
		p := mocks.NewPersister(t)
		state := webhook.State{
			Webhooks: []webhook.Subscription{
				{ID: "b", Name: "b", URL: "https://example.test/b", Events: []string{"user.activity"}, Status: webhook.Active},
				{ID: "a", Name: "a", URL: "https://example.test/a", Events: []string{"user.activity"}, Status: webhook.Active},
			},
			EventLog: []webhook.LogEntry{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		}
		p.On("Load", ctx).Return(state, nil)
		s := webhook.NewStore(p, 2)

		require.NoError(t, s.Load(ctx))

		subs, err := s.ListByEvent(ctx, "user.activity")
		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, "b", subs[0].ID)
		assert.Equal(t, "a", subs[1].ID)

		entries, err := s.GetLog(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "2", entries[0].ID)
	})

	t.Run("error - persister failure", func(t *testing.T) {
		p := mocks.NewPersister(t)
		p.On("Load", ctx).Return(webhook.State{}, fmt.Errorf("connection refused"))
		s := webhook.NewStore(p, 0)

		err := s.Load(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading state")
	})
}
