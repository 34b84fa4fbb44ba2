// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scoresplit/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleExercises(docID string) []types.Exercise {
	return []types.Exercise{
		{DocumentID: docID, Page: 1, Strategy: types.StrategyLabels, Number: 1,
			File: "exercise_1.png", Top: 0, Bottom: 580, Width: 1640, Height: 660},
		{DocumentID: docID, Page: 1, Strategy: types.StrategyLabels, Number: 2,
			File: "exercise_2.png", Top: 580, Bottom: 2000, Width: 1640, Height: 1500},
		{DocumentID: docID, Page: 2, Strategy: types.StrategyVisual, Number: 1,
			File: "exercise_visual_1_page_2.png", Top: 200, Bottom: 900, Width: 1640, Height: 780},
	}
}

func TestStore_RecordAndQuery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := types.Document{
		ID: "etudes", Path: "/scores/etudes.pdf", Pages: 2, Scale: 2.0,
		ExtractedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Record(ctx, doc, sampleExercises("etudes")))

	got, err := s.Exercises(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by page then vertical position.
	assert.Equal(t, "exercise_1.png", got[0].File)
	assert.Equal(t, "exercise_2.png", got[1].File)
	assert.Equal(t, 2, got[2].Page)
	assert.Equal(t, types.StrategyVisual, got[2].Strategy)
	assert.Equal(t, 580, got[1].Top)

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "etudes", docs[0].ID)
	assert.Equal(t, 2, docs[0].Pages)
	assert.Equal(t, doc.ExtractedAt, docs[0].ExtractedAt)
}

func TestStore_RecordReplacesExercises(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := types.Document{ID: "etudes", Path: "/scores/etudes.pdf", Pages: 2, Scale: 2.0, ExtractedAt: time.Now()}
	require.NoError(t, s.Record(ctx, doc, sampleExercises("etudes")))

	// Re-extraction with different results replaces the old rows.
	doc.Scale = 3.0
	replacement := []types.Exercise{
		{DocumentID: "etudes", Page: 1, Strategy: types.StrategyWholePage, Number: 1,
			File: "page_1.png", Top: 0, Bottom: 3000, Width: 2460, Height: 3040},
	}
	require.NoError(t, s.Record(ctx, doc, replacement))

	got, err := s.Exercises(ctx, QueryOptions{Document: "etudes"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "page_1.png", got[0].File)

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 3.0, docs[0].Scale)
}

func TestStore_RecordDuplicateFilenameKeepsLater(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Numbering restarting on page 2 produces the same filename twice;
	// the later page overwrites the earlier image file, so its row wins.
	doc := types.Document{ID: "restart", Path: "/scores/restart.pdf", Pages: 2, Scale: 2.0, ExtractedAt: time.Now()}
	exercises := []types.Exercise{
		{DocumentID: "restart", Page: 1, Strategy: types.StrategyLabels, Number: 1,
			File: "exercise_1.png", Top: 0, Bottom: 600, Width: 1640, Height: 680},
		{DocumentID: "restart", Page: 2, Strategy: types.StrategyLabels, Number: 1,
			File: "exercise_1.png", Top: 100, Bottom: 800, Width: 1640, Height: 780},
	}
	require.NoError(t, s.Record(ctx, doc, exercises))

	got, err := s.Exercises(ctx, QueryOptions{Document: "restart"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Page)
	assert.Equal(t, 800, got[0].Bottom)
}

func TestStore_QueryFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	docA := types.Document{ID: "book-a", Path: "/scores/a.pdf", Pages: 2, Scale: 2.0, ExtractedAt: time.Now()}
	docB := types.Document{ID: "book-b", Path: "/scores/b.pdf", Pages: 2, Scale: 2.0, ExtractedAt: time.Now()}
	require.NoError(t, s.Record(ctx, docA, sampleExercises("book-a")))
	require.NoError(t, s.Record(ctx, docB, sampleExercises("book-b")))

	byDoc, err := s.Exercises(ctx, QueryOptions{Document: "book-a"})
	require.NoError(t, err)
	assert.Len(t, byDoc, 3)

	byStrategy, err := s.Exercises(ctx, QueryOptions{Strategy: types.StrategyVisual})
	require.NoError(t, err)
	require.Len(t, byStrategy, 2)
	for _, ex := range byStrategy {
		assert.Equal(t, types.StrategyVisual, ex.Strategy)
	}

	limited, err := s.Exercises(ctx, QueryOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	both, err := s.Exercises(ctx, QueryOptions{Document: "book-b", Strategy: types.StrategyLabels})
	require.NoError(t, err)
	assert.Len(t, both, 2)
}

func TestStore_EmptyCatalog(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Exercises(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)

	docs, err := s.Documents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	assert.NoError(t, s2.Close())
}
