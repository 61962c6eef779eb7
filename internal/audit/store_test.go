package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"dex-mcp-server/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(&Config{
		DatabasePath:  filepath.Join(t.TempDir(), "audit.db"),
		BufferSize:    100,
		BatchSize:     10,
		FlushInterval: 20 * time.Millisecond,
		Retention:     time.Hour,
	}, logging.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRecordAndList(t *testing.T) {
	store := newTestStore(t)

	store.Record(&Record{
		Kind:       "tool",
		Name:       "get_token_info",
		Chain:      "sol",
		TokenFP:    "abcd1234",
		Success:    true,
		DurationMs: 12,
		TraceID:    "trace-1",
	})
	store.Record(&Record{
		Kind:       "tool",
		Name:       "get_swap_route",
		Chain:      "ethereum",
		Success:    false,
		ErrorCode:  "UPSTREAM_ERROR",
		DurationMs: 310,
	})
	store.Flush()

	records, err := store.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, "get_swap_route", records[0].Name)
	assert.False(t, records[0].Success)
	assert.Equal(t, "UPSTREAM_ERROR", records[0].ErrorCode)
	assert.Equal(t, "get_token_info", records[1].Name)
	assert.True(t, records[1].Success)
	assert.Equal(t, "abcd1234", records[1].TokenFP)
	assert.NotEmpty(t, records[1].ID)
	assert.False(t, records[1].Timestamp.IsZero())
}

func TestStoreListFilters(t *testing.T) {
	store := newTestStore(t)

	store.Record(&Record{Kind: "tool", Name: "get_token_info", Chain: "sol", Success: true})
	store.Record(&Record{Kind: "tool", Name: "get_token_info", Chain: "bsc", Success: false, ErrorCode: "INVALID_PARAMS"})
	store.Record(&Record{Kind: "resource", Name: "dex://chains", Success: true})
	store.Flush()

	ctx := context.Background()

	byChain, err := store.List(ctx, &Query{Chain: "sol"})
	require.NoError(t, err)
	require.Len(t, byChain, 1)
	assert.Equal(t, "sol", byChain[0].Chain)

	byKind, err := store.List(ctx, &Query{Kind: "resource"})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "dex://chains", byKind[0].Name)

	failed := false
	bySuccess, err := store.List(ctx, &Query{Success: &failed})
	require.NoError(t, err)
	require.Len(t, bySuccess, 1)
	assert.Equal(t, "INVALID_PARAMS", bySuccess[0].ErrorCode)
}

func TestStoreCleanup(t *testing.T) {
	store := newTestStore(t)

	store.Record(&Record{
		Kind:      "tool",
		Name:      "get_trending_tokens",
		Success:   true,
		Timestamp: time.Now().Add(-2 * time.Hour),
	})
	store.Record(&Record{Kind: "tool", Name: "get_trending_tokens", Success: true})
	store.Flush()

	deleted, err := store.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	records, err := store.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestNopRecorder(t *testing.T) {
	var recorder Recorder = NopRecorder{}
	recorder.Record(&Record{Name: "anything"})
	assert.NoError(t, recorder.Close())
}
