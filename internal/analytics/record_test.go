package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarnet-ai/lattice/internal/graph"
)

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }

func TestDecodeRecord(t *testing.T) {
	t.Run("typed fields decode", func(t *testing.T) {
		record, err := DecodeRecord(map[string]any{
			"work_id":           "W1",
			"title":             "Attention Is All You Need",
			"degree_centrality": 12.0,
			"pagerank_score":    0.85,
			"community_id":      int64(3),
		})
		require.NoError(t, err)

		assert.Equal(t, "W1", record.NodeID)
		assert.Equal(t, "Attention Is All You Need", record.Title)
		require.NotNil(t, record.DegreeCentrality)
		assert.Equal(t, 12.0, *record.DegreeCentrality)
		require.NotNil(t, record.CommunityID)
		assert.Equal(t, int64(3), *record.CommunityID)
		assert.Nil(t, record.BetweennessCentrality)
	})

	t.Run("column aliases canonicalize", func(t *testing.T) {
		record, err := DecodeRecord(map[string]any{
			"related_work_id":    "W2",
			"related_work_title": "BERT",
			"totalCost":          4.0,
			"component_id":       int64(7),
		})
		require.NoError(t, err)

		assert.Equal(t, "W2", record.NodeID)
		assert.Equal(t, "BERT", record.Title)
		require.NotNil(t, record.PathCost)
		assert.Equal(t, 4.0, *record.PathCost)
		require.NotNil(t, record.CommunityID)
		assert.Equal(t, int64(7), *record.CommunityID)
	})

	t.Run("nil values stay absent", func(t *testing.T) {
		record, err := DecodeRecord(map[string]any{
			"work_id":        "W3",
			"title":          "GPT",
			"community_id":   nil,
			"pagerank_score": nil,
		})
		require.NoError(t, err)

		assert.Nil(t, record.CommunityID)
		assert.Nil(t, record.PageRank)
	})

	t.Run("driver int64 metrics coerce to float64", func(t *testing.T) {
		record, err := DecodeRecord(map[string]any{
			"work_id":        "W4",
			"title":          "t",
			"triangle_count": int64(9),
		})
		require.NoError(t, err)
		require.NotNil(t, record.TriangleCount)
		assert.Equal(t, 9.0, *record.TriangleCount)
	})

	t.Run("unknown columns land in Extra", func(t *testing.T) {
		record, err := DecodeRecord(map[string]any{
			"work_id":     "W5",
			"title":       "t",
			"path_titles": []any{"a", "b"},
		})
		require.NoError(t, err)
		assert.Contains(t, record.Extra, "path_titles")
	})
}

func TestDecodeRecords_SkipsBadRecords(t *testing.T) {
	result := graph.QueryResult{
		Records: []map[string]any{
			{"work_id": "W1", "title": "good", "pagerank_score": 0.5},
			{"work_id": "W2", "title": map[string]any{"not": "a string"}},
			{"work_id": "W3", "title": "also good"},
		},
	}

	records, skipped := DecodeRecords(result)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "W1", records[0].NodeID)
	assert.Equal(t, "W3", records[1].NodeID)
}

func TestMetricRecord_Metrics(t *testing.T) {
	record := MetricRecord{
		NodeID:           "W1",
		DegreeCentrality: float64Ptr(3.0),
		PageRank:         float64Ptr(0.4),
	}

	metrics := record.Metrics()
	assert.Equal(t, map[string]float64{
		MetricDegreeCentrality: 3.0,
		MetricPageRank:         0.4,
	}, metrics)

	v, ok := record.Metric(MetricPageRank)
	require.True(t, ok)
	assert.Equal(t, 0.4, v)

	_, ok = record.Metric(MetricClosenessCentrality)
	assert.False(t, ok)
}

func TestMetricRecord_Merge(t *testing.T) {
	base := MetricRecord{
		NodeID:           "W1",
		Title:            "",
		DegreeCentrality: float64Ptr(2.0),
	}
	other := MetricRecord{
		NodeID:           "W1",
		Title:            "filled in",
		DegreeCentrality: float64Ptr(99.0),
		PageRank:         float64Ptr(0.7),
		CommunityID:      int64Ptr(5),
	}

	base.merge(other)

	// Existing values win; absent values fill in.
	assert.Equal(t, "filled in", base.Title)
	assert.Equal(t, 2.0, *base.DegreeCentrality)
	assert.Equal(t, 0.7, *base.PageRank)
	assert.Equal(t, int64(5), *base.CommunityID)
}
