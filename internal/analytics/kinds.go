package analytics

import (
	"fmt"

	"github.com/scholarnet-ai/lattice/internal/types"
)

// AnalysisKind identifies one of the supported analytics requests.
type AnalysisKind string

const (
	// KindComprehensive combines all centrality measures and community
	// detection into one composite-scored result set.
	KindComprehensive AnalysisKind = "comprehensive"
	// KindCommunity finds related nodes via community membership and PageRank.
	KindCommunity AnalysisKind = "community"
	// KindCentrality ranks nodes by PageRank alone.
	KindCentrality AnalysisKind = "centrality"
	// KindShortestPath finds optimal paths from the selected node.
	KindShortestPath AnalysisKind = "shortest_path"
	// KindSimilarity finds nodes with similar network neighborhoods.
	KindSimilarity AnalysisKind = "similarity"
	// KindConnectivity analyzes triangles and local clustering.
	KindConnectivity AnalysisKind = "connectivity"
	// KindComponents computes weakly connected components.
	KindComponents AnalysisKind = "components"
)

// String returns the string representation of AnalysisKind.
func (k AnalysisKind) String() string {
	return string(k)
}

// IsValid checks if the AnalysisKind is a supported value.
func (k AnalysisKind) IsValid() bool {
	switch k {
	case KindComprehensive, KindCommunity, KindCentrality,
		KindShortestPath, KindSimilarity, KindConnectivity, KindComponents:
		return true
	default:
		return false
	}
}

// ParseKinds converts raw kind names into AnalysisKinds, rejecting unknown
// names. Duplicates are collapsed, preserving first-occurrence order.
func ParseKinds(names []string) ([]AnalysisKind, error) {
	seen := make(map[AnalysisKind]struct{}, len(names))
	kinds := make([]AnalysisKind, 0, len(names))
	for _, name := range names {
		kind := AnalysisKind(name)
		if !kind.IsValid() {
			return nil, types.NewError(types.ANALYTICS_UNKNOWN_KIND,
				fmt.Sprintf("unknown analysis kind: %s", name))
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// AllKinds returns every supported analysis kind in a stable order.
func AllKinds() []AnalysisKind {
	return []AnalysisKind{
		KindComprehensive, KindCommunity, KindCentrality,
		KindShortestPath, KindSimilarity, KindConnectivity, KindComponents,
	}
}

// DefaultKinds is the analysis set used when the caller does not request
// specific kinds.
func DefaultKinds() []AnalysisKind {
	return []AnalysisKind{KindComprehensive, KindCommunity, KindCentrality}
}
