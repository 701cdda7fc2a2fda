package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarnet-ai/lattice/internal/types"
)

func TestMockClient_StubbedResponses(t *testing.T) {
	ctx := context.Background()
	mock := NewMockClient()
	require.NoError(t, mock.Connect(ctx))

	mock.StubResult("gds.graph.exists", QueryResult{
		Records: []map[string]any{{"exists": true}},
		Columns: []string{"exists"},
	})
	mock.StubError("gds.degree", errors.New("projection gone"))

	t.Run("first matching stub wins", func(t *testing.T) {
		result, err := mock.Run(ctx, "CALL gds.graph.exists($graph_name) YIELD exists RETURN exists", nil)
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Equal(t, true, result.Records[0]["exists"])
	})

	t.Run("stubbed error returned", func(t *testing.T) {
		_, err := mock.Run(ctx, "CALL gds.degree.stream($graph_name)", nil)
		assert.EqualError(t, err, "projection gone")
	})

	t.Run("unmatched query returns empty result", func(t *testing.T) {
		result, err := mock.Query(ctx, "MATCH (w:Work) RETURN w.title", nil)
		require.NoError(t, err)
		assert.Empty(t, result.Records)
	})

	t.Run("default error applies to unmatched queries", func(t *testing.T) {
		mock.SetDefaultError(errors.New("boom"))
		_, err := mock.Query(ctx, "MATCH (a:Author) RETURN a", nil)
		assert.EqualError(t, err, "boom")
	})
}

func TestMockClient_RecordsCalls(t *testing.T) {
	ctx := context.Background()
	mock := NewMockClient()
	require.NoError(t, mock.Connect(ctx))

	_, _ = mock.Run(ctx, "CALL gds.pageRank.stream($graph_name)", map[string]any{"limit": 5})
	_, _ = mock.Query(ctx, "MATCH (w:Work) RETURN w.title", nil)

	calls := mock.Calls()
	require.Len(t, calls, 3) // Connect + Run + Query
	assert.Equal(t, "Connect", calls[0].Method)
	assert.Equal(t, "Run", calls[1].Method)
	assert.Equal(t, 5, calls[1].Params["limit"])

	pageRankCalls := mock.CallsFor("pageRank")
	require.Len(t, pageRankCalls, 1)
	assert.Equal(t, "Run", pageRankCalls[0].Method)
}

func TestMockClient_CancelledContext(t *testing.T) {
	mock := NewMockClient()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Query(ctx, "MATCH (w:Work) RETURN w", nil)
	require.Error(t, err)

	var latticeErr *types.LatticeError
	require.ErrorAs(t, err, &latticeErr)
	assert.Equal(t, ErrCodeGraphQueryTimeout, latticeErr.Code)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockClient_Health(t *testing.T) {
	ctx := context.Background()
	mock := NewMockClient()

	assert.False(t, mock.Health(ctx).IsHealthy())

	require.NoError(t, mock.Connect(ctx))
	assert.True(t, mock.Health(ctx).IsHealthy())

	require.NoError(t, mock.Close(ctx))
	assert.False(t, mock.Health(ctx).IsHealthy())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty URI",
			mutate:  func(c *Config) { c.URI = "" },
			wantErr: true,
		},
		{
			name:    "empty username",
			mutate:  func(c *Config) { c.Username = "" },
			wantErr: true,
		},
		{
			name:    "empty password",
			mutate:  func(c *Config) { c.Password = "" },
			wantErr: true,
		},
		{
			name:    "non-positive connection timeout",
			mutate:  func(c *Config) { c.ConnectionTimeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				var latticeErr *types.LatticeError
				require.ErrorAs(t, err, &latticeErr)
				assert.Equal(t, ErrCodeGraphInvalidConfig, latticeErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewNeo4jClient_RejectsInvalidConfig(t *testing.T) {
	_, err := NewNeo4jClient(Config{})
	require.Error(t, err)

	var latticeErr *types.LatticeError
	require.ErrorAs(t, err, &latticeErr)
	assert.Equal(t, ErrCodeGraphInvalidConfig, latticeErr.Code)
}
