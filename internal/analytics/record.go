package analytics

import (
	"github.com/mitchellh/mapstructure"

	"github.com/scholarnet-ai/lattice/internal/graph"
	"github.com/scholarnet-ai/lattice/internal/types"
)

// Weighted metric names recognized by the confidence score.
const (
	MetricDegreeCentrality      = "degree_centrality"
	MetricBetweennessCentrality = "betweenness_centrality"
	MetricClosenessCentrality   = "closeness_centrality"
	MetricPageRank              = "pagerank_score"
)

// Auxiliary metric names carried through without composite weighting.
const (
	MetricSimilarityScore       = "similarity_score"
	MetricTriangleCount         = "triangle_count"
	MetricClusteringCoefficient = "clustering_coefficient"
	MetricPathCost              = "total_cost"
	MetricSameCommunity         = "same_community"
)

// MetricRecord is a per-node tuple of metric values accumulated across
// algorithm runs for one analysis request. Known metric fields are typed so
// the aggregator's weighted lookup stays exhaustive and typo-proof; any
// unrecognized backend columns land in Extra.
type MetricRecord struct {
	NodeID string `mapstructure:"work_id"`
	Title  string `mapstructure:"title"`

	DegreeCentrality      *float64 `mapstructure:"degree_centrality"`
	BetweennessCentrality *float64 `mapstructure:"betweenness_centrality"`
	ClosenessCentrality   *float64 `mapstructure:"closeness_centrality"`
	PageRank              *float64 `mapstructure:"pagerank_score"`
	CommunityID           *int64   `mapstructure:"community_id"`

	SimilarityScore       *float64 `mapstructure:"similarity_score"`
	TriangleCount         *float64 `mapstructure:"triangle_count"`
	ClusteringCoefficient *float64 `mapstructure:"clustering_coefficient"`
	PathCost              *float64 `mapstructure:"total_cost"`
	SameCommunity         *float64 `mapstructure:"same_community"`

	Extra map[string]any `mapstructure:",remain"`
}

// recordKeyAliases canonicalizes backend column names that differ between
// algorithm templates but mean the same thing.
var recordKeyAliases = map[string]string{
	"related_work_id":    "work_id",
	"related_work_title": "title",
	"work2_id":           "work_id",
	"work2_title":        "title",
	"target_title":       "title",
	"totalCost":          "total_cost",
	"component_id":       "community_id",
}

// DecodeRecord converts a raw backend record into a typed MetricRecord.
// Returns an error for records whose values cannot be coerced; callers are
// expected to skip such records rather than abort aggregation.
func DecodeRecord(raw map[string]any) (MetricRecord, error) {
	canonical := make(map[string]any, len(raw))
	for key, value := range raw {
		if alias, ok := recordKeyAliases[key]; ok {
			key = alias
		}
		if value == nil {
			// Absent metrics stay absent; nil would defeat the
			// pointer-presence convention.
			continue
		}
		canonical[key] = value
	}

	var record MetricRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &record,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return MetricRecord{}, types.WrapError(graph.ErrCodeGraphResultParsing,
			"failed to build record decoder", err)
	}
	if err := decoder.Decode(canonical); err != nil {
		return MetricRecord{}, types.WrapError(graph.ErrCodeGraphResultParsing,
			"failed to decode metric record", err)
	}

	return record, nil
}

// DecodeRecords converts a result set, skipping undecodable records.
// One bad record must not sink an otherwise-useful result set. The skipped
// count is returned so callers can log it.
func DecodeRecords(result graph.QueryResult) ([]MetricRecord, int) {
	records := make([]MetricRecord, 0, len(result.Records))
	skipped := 0
	for _, raw := range result.Records {
		record, err := DecodeRecord(raw)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}

// Metrics returns the present metric values as a name-to-value map.
func (r MetricRecord) Metrics() map[string]float64 {
	out := make(map[string]float64)
	put := func(name string, v *float64) {
		if v != nil {
			out[name] = *v
		}
	}
	put(MetricDegreeCentrality, r.DegreeCentrality)
	put(MetricBetweennessCentrality, r.BetweennessCentrality)
	put(MetricClosenessCentrality, r.ClosenessCentrality)
	put(MetricPageRank, r.PageRank)
	put(MetricSimilarityScore, r.SimilarityScore)
	put(MetricTriangleCount, r.TriangleCount)
	put(MetricClusteringCoefficient, r.ClusteringCoefficient)
	put(MetricPathCost, r.PathCost)
	put(MetricSameCommunity, r.SameCommunity)
	return out
}

// Metric looks up a single metric value by name; the second return reports
// whether the metric is present on this record.
func (r MetricRecord) Metric(name string) (float64, bool) {
	v, ok := r.Metrics()[name]
	return v, ok
}

// merge folds another record for the same node into r, preferring values
// already present. Used when several analysis kinds report the same node.
func (r *MetricRecord) merge(other MetricRecord) {
	if r.Title == "" {
		r.Title = other.Title
	}
	mergeFloat := func(dst **float64, src *float64) {
		if *dst == nil && src != nil {
			*dst = src
		}
	}
	mergeFloat(&r.DegreeCentrality, other.DegreeCentrality)
	mergeFloat(&r.BetweennessCentrality, other.BetweennessCentrality)
	mergeFloat(&r.ClosenessCentrality, other.ClosenessCentrality)
	mergeFloat(&r.PageRank, other.PageRank)
	mergeFloat(&r.SimilarityScore, other.SimilarityScore)
	mergeFloat(&r.TriangleCount, other.TriangleCount)
	mergeFloat(&r.ClusteringCoefficient, other.ClusteringCoefficient)
	mergeFloat(&r.PathCost, other.PathCost)
	mergeFloat(&r.SameCommunity, other.SameCommunity)
	if r.CommunityID == nil && other.CommunityID != nil {
		r.CommunityID = other.CommunityID
	}
}
