package analytics

import (
	"fmt"
	"sort"
)

// confidenceWeights assigns each centrality measure its share of the
// composite score. Weights of present metrics are renormalized so partial
// metric coverage still yields a score in [0, 1].
var confidenceWeights = map[string]float64{
	MetricDegreeCentrality:      0.2,
	MetricBetweennessCentrality: 0.3,
	MetricClosenessCentrality:   0.2,
	MetricPageRank:              0.3,
}

// communityBonus boosts nodes that carry a community assignment.
const communityBonus = 1.2

// communitySampleSize caps the member sample carried in a CommunitySummary.
const communitySampleSize = 5

// RankedResult is one node's merged analysis outcome with its composite
// confidence score.
type RankedResult struct {
	NodeID      string             `json:"node_id"`
	Title       string             `json:"title"`
	Confidence  float64            `json:"confidence"`
	Metrics     map[string]float64 `json:"metrics"`
	CommunityID *int64             `json:"community_id,omitempty"`
}

// CommunitySummary describes one detected community.
type CommunitySummary struct {
	CommunityID  int64    `json:"community_id"`
	Size         int      `json:"size"`
	Members      []string `json:"members"`
	TotalMembers int      `json:"total_members"`
}

// Aggregate merges per-kind metric records by node and ranks the merged
// nodes by composite confidence, highest first. Ties break on title
// ascending so output order is deterministic. Failed kinds contribute
// nothing; their records simply are not there to merge.
func Aggregate(results map[AnalysisKind]KindResult) []RankedResult {
	merged := make(map[string]MetricRecord)
	var order []string

	for _, kind := range AllKinds() {
		result, ok := results[kind]
		if !ok || result.Err != nil {
			continue
		}
		for _, record := range result.Records {
			if record.NodeID == "" {
				continue
			}
			existing, seen := merged[record.NodeID]
			if !seen {
				merged[record.NodeID] = record
				order = append(order, record.NodeID)
				continue
			}
			existing.merge(record)
			merged[record.NodeID] = existing
		}
	}

	ranked := make([]RankedResult, 0, len(merged))
	for _, nodeID := range order {
		record := merged[nodeID]
		ranked = append(ranked, RankedResult{
			NodeID:      record.NodeID,
			Title:       record.Title,
			Confidence:  Confidence(record),
			Metrics:     record.Metrics(),
			CommunityID: record.CommunityID,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Title < ranked[j].Title
	})
	return ranked
}

// Confidence computes the composite confidence score for one merged record.
//
// Each centrality metric that is present and positive contributes its
// weighted value; the sum is divided by the total weight of contributing
// metrics, a node with a community assignment gets a 1.2x boost, and the
// result is clamped to [0, 1]. A record with no positive weighted metric
// scores zero.
func Confidence(record MetricRecord) float64 {
	score := 0.0
	totalWeight := 0.0
	for name, weight := range confidenceWeights {
		value, ok := record.Metric(name)
		if !ok || value <= 0 {
			continue
		}
		score += value * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	score /= totalWeight

	if record.CommunityID != nil {
		score *= communityBonus
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// KindConfidence scores a record produced by a single-algorithm kind, where
// the composite weighting does not apply. Scores derived from an unbounded
// metric are squashed into (0, 1]; path costs invert so shorter paths score
// higher.
func KindConfidence(kind AnalysisKind, record MetricRecord) float64 {
	switch kind {
	case KindComprehensive, KindCentrality:
		return Confidence(record)
	case KindShortestPath:
		if cost, ok := record.Metric(MetricPathCost); ok && cost >= 0 {
			return 1 / (1 + cost)
		}
		return 0
	case KindSimilarity:
		if similarity, ok := record.Metric(MetricSimilarityScore); ok {
			return clamp01(similarity)
		}
		return 0
	case KindCommunity:
		if record.CommunityID != nil {
			return 1
		}
		return 0
	case KindConnectivity:
		if coefficient, ok := record.Metric(MetricClusteringCoefficient); ok {
			return clamp01(coefficient)
		}
		if triangles, ok := record.Metric(MetricTriangleCount); ok && triangles > 0 {
			return triangles / (1 + triangles)
		}
		return 0
	case KindComponents:
		if record.CommunityID != nil {
			return 1
		}
		return 0
	}
	return 0
}

// SummarizeCommunities groups membership records by community and returns
// one summary per community, largest first. Records without a community
// assignment are ignored. Each summary samples up to five member titles in
// encounter order.
func SummarizeCommunities(records []MetricRecord) []CommunitySummary {
	members := make(map[int64][]string)
	var order []int64

	for _, record := range records {
		if record.CommunityID == nil {
			continue
		}
		id := *record.CommunityID
		if _, seen := members[id]; !seen {
			order = append(order, id)
		}
		title := record.Title
		if title == "" {
			title = record.NodeID
		}
		members[id] = append(members[id], title)
	}

	summaries := make([]CommunitySummary, 0, len(members))
	for _, id := range order {
		all := members[id]
		sample := all
		if len(sample) > communitySampleSize {
			sample = sample[:communitySampleSize]
		}
		summaries = append(summaries, CommunitySummary{
			CommunityID:  id,
			Size:         len(all),
			Members:      sample,
			TotalMembers: len(all),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Size != summaries[j].Size {
			return summaries[i].Size > summaries[j].Size
		}
		return summaries[i].CommunityID < summaries[j].CommunityID
	})
	return summaries
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// String renders a ranked result on one line for log and CLI output.
func (r RankedResult) String() string {
	community := "-"
	if r.CommunityID != nil {
		community = fmt.Sprintf("%d", *r.CommunityID)
	}
	return fmt.Sprintf("%s (confidence=%.3f, community=%s)", r.Title, r.Confidence, community)
}
