package appid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	maxID string
	err   error
	calls int
}

func (f *fakeStore) MaxIDForPrefix(ctx context.Context, prefix string) (string, error) {
	f.calls++
	return f.maxID, f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerator_Next(t *testing.T) {
	day := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

	t.Run("first application of the day", func(t *testing.T) {
		g := NewGenerator(&fakeStore{maxID: ""})
		g.now = fixedClock(day)

		assert.Equal(t, "2608280001", g.Next(context.Background()))
	})

	t.Run("increments the day's max", func(t *testing.T) {
		g := NewGenerator(&fakeStore{maxID: "2608280041"})
		g.now = fixedClock(day)

		assert.Equal(t, "2608280042", g.Next(context.Background()))
	})

	t.Run("zero pads the sequence", func(t *testing.T) {
		g := NewGenerator(&fakeStore{maxID: "2608280009"})
		g.now = fixedClock(day)

		assert.Equal(t, "2608280010", g.Next(context.Background()))
	})

	t.Run("store failure falls back to millis", func(t *testing.T) {
		g := NewGenerator(&fakeStore{err: errors.New("connection reset")})
		g.now = fixedClock(day)

		id := g.Next(context.Background())
		require.Len(t, id, 10)
		assert.Equal(t, "260828", id[:6])
	})

	t.Run("unparseable stored id falls back to millis", func(t *testing.T) {
		g := NewGenerator(&fakeStore{maxID: "260828abcd"})
		g.now = fixedClock(day)

		id := g.Next(context.Background())
		require.Len(t, id, 10)
		assert.Equal(t, "260828", id[:6])
	})

	t.Run("ids increase across sequential creations", func(t *testing.T) {
		store := &fakeStore{}
		g := NewGenerator(store)
		g.now = fixedClock(day)

		first := g.Next(context.Background())
		store.maxID = first
		second := g.Next(context.Background())

		assert.Less(t, first, second)
	})
}
