package runstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lessonkit/internal/lint"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Append(ctx, Run{
		FilesTotal: 12,
		Errors:     2,
		Warnings:   1,
		Duration:   340 * time.Millisecond,
		Issues: []lint.Issue{
			{FilePath: "dicts.md", Severity: lint.SeverityError, Rule: "toc-sync", Message: "stale", Line: 4},
		},
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, id, run.ID)
	assert.Equal(t, 12, run.FilesTotal)
	assert.Equal(t, 2, run.Errors)
	assert.Equal(t, 340*time.Millisecond, run.Duration)
	require.Len(t, run.Issues, 1)
	assert.Equal(t, "toc-sync", run.Issues[0].Rule)
	assert.Equal(t, lint.SeverityError, run.Issues[0].Severity)
}

func TestRecent_NewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := range 3 {
		_, err := store.Append(ctx, Run{FilesTotal: i})
		require.NoError(t, err)
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 2, runs[0].FilesTotal)
	assert.Equal(t, 1, runs[1].FilesTotal)
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		_, err := store.Append(ctx, Run{FilesTotal: i})
		require.NoError(t, err)
	}

	removed, err := store.Prune(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 4, runs[0].FilesTotal)
}

func TestPrune_Disabled(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, Run{})
	require.NoError(t, err)

	removed, err := store.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRecordResult(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	result := &lint.Result{
		FilesTotal: 3,
		Issues: []lint.Issue{
			{FilePath: "a.md", Severity: lint.SeverityError, Rule: "fence-balance"},
			{FilePath: "b.md", Severity: lint.SeverityWarning, Rule: "code-language"},
		},
	}

	_, err := store.RecordResult(ctx, result, time.Now().Add(-time.Second), 10)
	require.NoError(t, err)

	runs, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Errors)
	assert.Equal(t, 1, runs[0].Warnings)
	assert.GreaterOrEqual(t, runs[0].Duration, time.Second)
}
