// Package analytics coordinates named-graph algorithm runs against the
// graph engine and merges their heterogeneous per-node outputs into one
// confidence-ranked, community-annotated result set.
//
// The orchestrator fans out one task per requested analysis kind. Kinds are
// read-only and independent, so they execute concurrently; a failure in one
// kind never aborts the others (fail-soft), while cancellation of the parent
// context propagates to every in-flight sub-request and discards partial
// results.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/scholarnet-ai/lattice/internal/graph"
	"github.com/scholarnet-ai/lattice/internal/metric"
	"github.com/scholarnet-ai/lattice/internal/types"
)

// DefaultLimit bounds result sets when the caller does not specify one.
const DefaultLimit = 20

// defaultMinSimilarity filters near-zero similarity pairs out of
// node-similarity results.
const defaultMinSimilarity = 0.1

// Selector identifies the target node for an analysis request.
// At least one of TitleKeyword or NodeID must be set.
type Selector struct {
	TitleKeyword string
	NodeID       string
}

// Validate checks that the selector identifies a target.
func (s Selector) Validate() error {
	if s.TitleKeyword == "" && s.NodeID == "" {
		return types.NewError(types.ANALYTICS_SELECTOR_MISSING,
			"either a title keyword or a node id must be provided")
	}
	return nil
}

// KindResult holds one analysis kind's outcome: either decoded records or
// the error that kind ran into. Skipped counts records dropped during
// decoding.
type KindResult struct {
	Records []MetricRecord
	Skipped int
	Err     error
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithProjectionName overrides the projection the orchestrator runs against.
func WithProjectionName(name string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.projectionName = name
	}
}

// WithMinSimilarity overrides the similarity cutoff for node-similarity runs.
func WithMinSimilarity(min float64) OrchestratorOption {
	return func(o *Orchestrator) {
		o.minSimilarity = min
	}
}

// WithOrchestratorMetrics attaches analytics metrics. May be nil.
func WithOrchestratorMetrics(m *metric.Metrics) OrchestratorOption {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// Orchestrator runs the algorithm queries for requested analysis kinds and
// collects their raw per-node metric records.
type Orchestrator struct {
	client      graph.Client
	projections *ProjectionManager
	logger      *slog.Logger
	metrics     *metric.Metrics

	projectionName string
	minSimilarity  float64
}

// NewOrchestrator creates an Orchestrator over the given client and
// projection manager.
func NewOrchestrator(client graph.Client, projections *ProjectionManager, logger *slog.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		client:         client,
		projections:    projections,
		logger:         logger,
		projectionName: DefaultProjectionName,
		minSimilarity:  defaultMinSimilarity,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze runs the requested analysis kinds against the current projection
// and returns the per-kind results. The projection is ensured first; each
// kind then executes concurrently with its failures isolated into its own
// KindResult. Only selector validation, projection failure, or context
// cancellation fail the call as a whole.
func (o *Orchestrator) Analyze(ctx context.Context, sel Selector, kinds []AnalysisKind, limit int) (map[AnalysisKind]KindResult, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		kinds = DefaultKinds()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if err := o.projections.Ensure(ctx, o.projectionName); err != nil {
		return nil, err
	}

	session := uuid.NewString()
	o.logger.Info("starting analysis fan-out",
		"session", session,
		"kinds", len(kinds),
		"projection", o.projectionName)

	params := o.queryParams(sel, limit)

	results := make([]KindResult, len(kinds))
	g, gctx := errgroup.WithContext(ctx)

	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			results[i] = o.runKind(gctx, kind, params)
			// Per-kind failures are recorded, not returned: returning an
			// error here would cancel sibling kinds and break the
			// fail-soft contract. Cancellation is the one exception.
			if results[i].Err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Cancelled mid-flight: partial results are discarded rather than
		// returned, keeping "partial" meaning partial-by-kind only.
		return nil, types.WrapError(types.ANALYTICS_QUERY_FAILED,
			"analysis cancelled", err)
	}

	out := make(map[AnalysisKind]KindResult, len(kinds))
	for i, kind := range kinds {
		out[kind] = results[i]
		if results[i].Err != nil {
			o.logger.Warn("analysis kind failed",
				"session", session,
				"kind", kind,
				"error", results[i].Err)
		}
	}
	return out, nil
}

// runKind executes every template for one analysis kind and concatenates
// the decoded records.
func (o *Orchestrator) runKind(ctx context.Context, kind AnalysisKind, params map[string]any) KindResult {
	start := time.Now()
	var result KindResult

	for _, query := range kindQueries[kind] {
		queryResult, err := o.client.Run(ctx, query, params)
		if err != nil {
			result.Err = err
			break
		}
		records, skipped := DecodeRecords(queryResult)
		result.Records = append(result.Records, records...)
		result.Skipped += skipped
	}

	if o.metrics != nil {
		status := "ok"
		if result.Err != nil {
			status = "error"
		}
		o.metrics.AnalysisRuns.WithLabelValues(kind.String(), status).Inc()
		o.metrics.AnalysisDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
	}
	return result
}

// queryParams binds the parameter superset shared by all kind templates.
// Absent selector fields bind as empty strings so every template's
// parameters are always declared.
func (o *Orchestrator) queryParams(sel Selector, limit int) map[string]any {
	return map[string]any{
		"graph_name":     o.projectionName,
		"limit":          limit,
		"title_keyword":  sel.TitleKeyword,
		"source_keyword": sel.TitleKeyword,
		"work_id":        sel.NodeID,
		"min_similarity": o.minSimilarity,
	}
}

// CentralityMetrics runs the four centrality measures over the whole graph
// and returns the records per metric name. Each measure's failure is
// isolated, mirroring the per-kind contract of Analyze.
func (o *Orchestrator) CentralityMetrics(ctx context.Context, limit int) (map[string]KindResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if err := o.projections.Ensure(ctx, o.projectionName); err != nil {
		return nil, err
	}

	params := map[string]any{
		"graph_name": o.projectionName,
		"limit":      limit,
	}

	out := make(map[string]KindResult, len(centralityQueries))
	for name, query := range centralityQueries {
		if err := ctx.Err(); err != nil {
			return nil, types.WrapError(types.ANALYTICS_QUERY_FAILED,
				"centrality report cancelled", err)
		}
		var result KindResult
		queryResult, err := o.client.Run(ctx, query, params)
		if err != nil {
			result.Err = err
		} else {
			result.Records, result.Skipped = DecodeRecords(queryResult)
		}
		out[name] = result
	}
	return out, nil
}

// DetectCommunities runs community detection over the whole graph and
// returns the raw membership records, suitable for SummarizeCommunities.
func (o *Orchestrator) DetectCommunities(ctx context.Context) ([]MetricRecord, error) {
	if err := o.projections.Ensure(ctx, o.projectionName); err != nil {
		return nil, err
	}

	result, err := o.client.Run(ctx, queryCommunityDetection, map[string]any{
		"graph_name": o.projectionName,
	})
	if err != nil {
		return nil, types.WrapError(types.ANALYTICS_QUERY_FAILED,
			"community detection failed", err)
	}

	records, skipped := DecodeRecords(result)
	if skipped > 0 {
		o.logger.Warn("skipped undecodable community records", "skipped", skipped)
	}
	return records, nil
}
