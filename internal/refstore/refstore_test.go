package refstore_test

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quesans/backend/internal/domain/qa"
	"github.com/quesans/backend/internal/refstore"
)

// letterEmbed is a deterministic, normalized bag-of-letters embedding.
func letterEmbed(calls *atomic.Int32) func(context.Context, string) ([]float32, error) {
	return func(_ context.Context, text string) ([]float32, error) {
		calls.Add(1)
		vec := make([]float32, 27)
		vec[26] = 1
		for _, r := range text {
			if r >= 'a' && r <= 'z' {
				vec[r-'a']++
			}
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
		return vec, nil
	}
}

func openStore(t *testing.T, dir string, calls *atomic.Int32) *refstore.Store {
	t.Helper()
	s, err := refstore.Open(refstore.Config{
		Path:       dir,
		Collection: "answers",
		Embed:      letterEmbed(calls),
	}, nil)
	require.NoError(t, err)
	return s
}

func TestStoreReferenceAnswers_AtMostOncePerID(t *testing.T) {
	var calls atomic.Int32
	s := openStore(t, t.TempDir(), &calls)
	defer s.Close()

	records := []qa.Record{
		qa.New("1. What is a goroutine?", "A lightweight thread managed by the runtime."),
		qa.New("2. What is a channel?", "A typed conduit for values."),
	}

	written, err := s.StoreReferenceAnswers(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	written, err = s.StoreReferenceAnswers(context.Background(), records)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Equal(t, 2, s.Count())
}

func TestStoreReferenceAnswers_Persists(t *testing.T) {
	var calls atomic.Int32
	dir := t.TempDir()

	s := openStore(t, dir, &calls)
	_, err := s.StoreReferenceAnswers(context.Background(), []qa.Record{qa.New("1. Q?", "stored answer")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := openStore(t, dir, &calls)
	defer reopened.Close()
	assert.Equal(t, 1, reopened.Count())
}

func TestNearest(t *testing.T) {
	var calls atomic.Int32
	s := openStore(t, t.TempDir(), &calls)
	defer s.Close()

	_, err := s.StoreReferenceAnswers(context.Background(), []qa.Record{
		qa.New("1. Goroutine?", "goroutine goroutine goroutine"),
		qa.New("2. Channel?", "channel channel channel"),
	})
	require.NoError(t, err)

	matches, err := s.Nearest(context.Background(), "a goroutine", 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "0", matches[0].ID)
	assert.Equal(t, "1. Goroutine?", matches[0].Question)
	assert.GreaterOrEqual(t, matches[0].Similarity, matches[1].Similarity)
}

func TestNearest_EmptyCollection(t *testing.T) {
	var calls atomic.Int32
	s := openStore(t, t.TempDir(), &calls)
	defer s.Close()

	matches, err := s.Nearest(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = s.Nearest(context.Background(), "anything", 0)
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	var calls atomic.Int32
	s := openStore(t, t.TempDir(), &calls)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), refstore.ErrClosed)

	_, err := s.StoreReferenceAnswers(context.Background(), nil)
	assert.ErrorIs(t, err, refstore.ErrClosed)
	_, err = s.Nearest(context.Background(), "x", 1)
	assert.ErrorIs(t, err, refstore.ErrClosed)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := refstore.Open(refstore.Config{}, nil)
	assert.Error(t, err)
}
