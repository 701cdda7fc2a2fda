package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarnet-ai/lattice/internal/graph"
	"github.com/scholarnet-ai/lattice/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func existsResult(exists bool) graph.QueryResult {
	return graph.QueryResult{
		Records: []map[string]any{{"exists": exists}},
		Columns: []string{"exists"},
	}
}

func TestProjectionManager_Ensure(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when absent", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubResult("gds.graph.exists", existsResult(false))

		m := NewProjectionManager(mock, testLogger(), nil)
		require.NoError(t, m.Ensure(ctx, "research_network"))

		assert.Len(t, mock.CallsFor("gds.graph.exists"), 1)
		assert.Len(t, mock.CallsFor("gds.graph.project"), 1)
	})

	t.Run("skips creation when present", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubResult("gds.graph.exists", existsResult(true))

		m := NewProjectionManager(mock, testLogger(), nil)
		require.NoError(t, m.Ensure(ctx, "research_network"))

		assert.Empty(t, mock.CallsFor("gds.graph.project"))
	})

	t.Run("second ensure hits the cache", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubResult("gds.graph.exists", existsResult(false))

		m := NewProjectionManager(mock, testLogger(), nil)
		require.NoError(t, m.Ensure(ctx, "research_network"))
		require.NoError(t, m.Ensure(ctx, "research_network"))

		assert.Len(t, mock.CallsFor("gds.graph.exists"), 1)
		assert.Len(t, mock.CallsFor("gds.graph.project"), 1)
	})

	t.Run("backend failure surfaces as projection error", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubError("gds.graph.exists", errors.New("boom"))

		m := NewProjectionManager(mock, testLogger(), nil)
		err := m.Ensure(ctx, "research_network")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.NewError(types.ANALYTICS_PROJECTION_FAILED, "")))
	})
}

func TestProjectionManager_Drop(t *testing.T) {
	ctx := context.Background()
	mock := graph.NewMockClient()
	mock.StubResult("gds.graph.exists", existsResult(false))

	m := NewProjectionManager(mock, testLogger(), nil)
	require.NoError(t, m.Ensure(ctx, "research_network"))
	require.NoError(t, m.Drop(ctx, "research_network"))

	// The cache was cleared, so the next ensure re-verifies and re-creates.
	require.NoError(t, m.Ensure(ctx, "research_network"))
	assert.Len(t, mock.CallsFor("gds.graph.exists"), 2)
	assert.Len(t, mock.CallsFor("gds.graph.project"), 2)
}

func TestProjectionManager_Drop_ClearsCacheOnFailure(t *testing.T) {
	ctx := context.Background()
	mock := graph.NewMockClient()
	mock.StubResult("gds.graph.exists", existsResult(true))
	mock.StubError("gds.graph.drop", errors.New("not found"))

	m := NewProjectionManager(mock, testLogger(), nil)
	require.NoError(t, m.Ensure(ctx, "research_network"))

	err := m.Drop(ctx, "research_network")
	require.Error(t, err)

	// Even a failed drop clears the flag; ensure re-checks the store.
	require.NoError(t, m.Ensure(ctx, "research_network"))
	assert.Len(t, mock.CallsFor("gds.graph.exists"), 2)
}

func TestProjectionManager_Info(t *testing.T) {
	ctx := context.Background()

	t.Run("parses counts", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubResult("gds.graph.list", graph.QueryResult{
			Records: []map[string]any{{
				"graphName":         "research_network",
				"nodeCount":         int64(1200),
				"relationshipCount": int64(4100),
				"memoryUsage":       "12 MiB",
			}},
		})

		m := NewProjectionManager(mock, testLogger(), nil)
		info, err := m.Info(ctx, "research_network")
		require.NoError(t, err)

		assert.Equal(t, "research_network", info.Name)
		assert.Equal(t, int64(1200), info.NodeCount)
		assert.Equal(t, int64(4100), info.RelationshipCount)
		assert.Equal(t, "12 MiB", info.MemoryUsage)
	})

	t.Run("missing projection errors", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubResult("gds.graph.list", graph.QueryResult{})

		m := NewProjectionManager(mock, testLogger(), nil)
		_, err := m.Info(ctx, "research_network")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.NewError(types.ANALYTICS_PROJECTION_FAILED, "")))
	})
}
