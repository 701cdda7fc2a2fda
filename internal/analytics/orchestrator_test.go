package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarnet-ai/lattice/internal/graph"
	"github.com/scholarnet-ai/lattice/internal/types"
)

func newTestOrchestrator(mock *graph.MockClient) *Orchestrator {
	logger := testLogger()
	return NewOrchestrator(mock, NewProjectionManager(mock, logger, nil), logger)
}

func TestSelector_Validate(t *testing.T) {
	assert.NoError(t, Selector{TitleKeyword: "transformer"}.Validate())
	assert.NoError(t, Selector{NodeID: "W1"}.Validate())

	err := Selector{}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.NewError(types.ANALYTICS_SELECTOR_MISSING, "")))
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds([]string{"community", "centrality", "community"})
	require.NoError(t, err)
	assert.Equal(t, []AnalysisKind{KindCommunity, KindCentrality}, kinds)

	_, err = ParseKinds([]string{"community", "sentiment"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.NewError(types.ANALYTICS_UNKNOWN_KIND, "")))
}

func TestOrchestrator_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("missing selector rejected before any query", func(t *testing.T) {
		mock := graph.NewMockClient()
		o := newTestOrchestrator(mock)

		_, err := o.Analyze(ctx, Selector{}, nil, 10)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.NewError(types.ANALYTICS_SELECTOR_MISSING, "")))
		assert.Empty(t, mock.Calls())
	})

	t.Run("per kind failures are isolated", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubResult("gds.graph.exists", existsResult(true))
		mock.StubResult("score AS pagerank_score", graph.QueryResult{
			Records: []map[string]any{
				{"work_id": "W1", "title": "alpha", "pagerank_score": 0.9},
			},
		})
		mock.StubError("gds.nodeSimilarity", errors.New("similarity backend down"))

		o := newTestOrchestrator(mock)
		results, err := o.Analyze(ctx, Selector{TitleKeyword: "alpha"},
			[]AnalysisKind{KindCentrality, KindSimilarity}, 10)
		require.NoError(t, err)
		require.Len(t, results, 2)

		require.NoError(t, results[KindCentrality].Err)
		require.Len(t, results[KindCentrality].Records, 1)
		assert.Equal(t, "W1", results[KindCentrality].Records[0].NodeID)

		require.Error(t, results[KindSimilarity].Err)
		assert.Empty(t, results[KindSimilarity].Records)
	})

	t.Run("parameter superset always bound", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubResult("gds.graph.exists", existsResult(true))

		o := newTestOrchestrator(mock)
		_, err := o.Analyze(ctx, Selector{NodeID: "W9"}, []AnalysisKind{KindCommunity}, 7)
		require.NoError(t, err)

		calls := mock.CallsFor("same_community")
		require.Len(t, calls, 1)
		params := calls[0].Params
		assert.Equal(t, DefaultProjectionName, params["graph_name"])
		assert.Equal(t, 7, params["limit"])
		assert.Equal(t, "W9", params["work_id"])
		assert.Equal(t, "", params["title_keyword"])
		assert.Contains(t, params, "min_similarity")
	})

	t.Run("default kinds and limit applied", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubResult("gds.graph.exists", existsResult(true))

		o := newTestOrchestrator(mock)
		results, err := o.Analyze(ctx, Selector{TitleKeyword: "x"}, nil, 0)
		require.NoError(t, err)
		assert.Len(t, results, len(DefaultKinds()))
	})

	t.Run("projection failure aborts the run", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubError("gds.graph.exists", errors.New("backend down"))

		o := newTestOrchestrator(mock)
		_, err := o.Analyze(ctx, Selector{TitleKeyword: "x"}, nil, 10)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.NewError(types.ANALYTICS_PROJECTION_FAILED, "")))
	})

	t.Run("cancellation discards partial results", func(t *testing.T) {
		mock := graph.NewMockClient()
		mock.StubResult("gds.graph.exists", existsResult(true))

		o := newTestOrchestrator(mock)
		// Warm the projection cache so cancellation hits the fan-out itself.
		require.NoError(t, o.projections.Ensure(ctx, DefaultProjectionName))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		results, err := o.Analyze(cancelled, Selector{TitleKeyword: "x"},
			[]AnalysisKind{KindCentrality, KindCommunity}, 10)
		require.Error(t, err)
		assert.Nil(t, results)
		assert.True(t, errors.Is(err, types.NewError(types.ANALYTICS_QUERY_FAILED, "")))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestOrchestrator_CentralityMetrics(t *testing.T) {
	ctx := context.Background()
	mock := graph.NewMockClient()
	mock.StubResult("gds.graph.exists", existsResult(true))
	mock.StubResult("gds.degree.stream", graph.QueryResult{
		Records: []map[string]any{
			{"work_id": "W1", "title": "alpha", "degree_centrality": 5.0},
		},
	})
	mock.StubError("gds.betweenness.stream", errors.New("timeout"))

	o := newTestOrchestrator(mock)
	report, err := o.CentralityMetrics(ctx, 10)
	require.NoError(t, err)
	require.Len(t, report, 4)

	degree := report[MetricDegreeCentrality]
	require.NoError(t, degree.Err)
	require.Len(t, degree.Records, 1)
	value, ok := degree.Records[0].Metric(MetricDegreeCentrality)
	require.True(t, ok)
	assert.Equal(t, 5.0, value)

	assert.Error(t, report[MetricBetweennessCentrality].Err)
	assert.NoError(t, report[MetricClosenessCentrality].Err)
	assert.NoError(t, report[MetricPageRank].Err)
}

func TestOrchestrator_DetectCommunities(t *testing.T) {
	ctx := context.Background()
	mock := graph.NewMockClient()
	mock.StubResult("gds.graph.exists", existsResult(true))
	mock.StubResult("gds.louvain.stream", graph.QueryResult{
		Records: []map[string]any{
			{"work_id": "W1", "title": "alpha", "community_id": int64(1)},
			{"work_id": "W2", "title": "beta", "community_id": int64(1)},
		},
	})

	o := newTestOrchestrator(mock)
	records, err := o.DetectCommunities(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].CommunityID)
	assert.Equal(t, int64(1), *records[0].CommunityID)
}
