package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/scholarnet-ai/lattice/internal/graph"
	"github.com/scholarnet-ai/lattice/internal/metric"
	"github.com/scholarnet-ai/lattice/internal/types"
)

// DefaultProjectionName is the named in-memory projection used when the
// caller does not override it.
const DefaultProjectionName = "research_network"

// ProjectionInfo describes a named projection on the backing store.
type ProjectionInfo struct {
	Name              string
	NodeCount         int64
	RelationshipCount int64
	MemoryUsage       string
}

// ProjectionManager tracks whether a named analytics projection exists on
// the backing store, creating it on demand and dropping it on request.
//
// The in-memory exists flag is only a cache and may be stale relative to the
// store: a false flag triggers re-verification, every failure path clears
// the flag, and races at worst cause a redundant create call. Projections
// have no automatic expiry; they persist until dropped explicitly or the
// backing process restarts.
type ProjectionManager struct {
	client  graph.Client
	logger  *slog.Logger
	metrics *metric.Metrics

	mu     sync.Mutex
	exists map[string]bool
}

// NewProjectionManager creates a manager over the given graph client.
// The metrics argument may be nil.
func NewProjectionManager(client graph.Client, logger *slog.Logger, metrics *metric.Metrics) *ProjectionManager {
	return &ProjectionManager{
		client:  client,
		logger:  logger,
		metrics: metrics,
		exists:  make(map[string]bool),
	}
}

// Ensure makes sure the named projection exists, creating it when absent.
// Idempotent: a second Ensure on an existing projection is a no-op success.
func (m *ProjectionManager) Ensure(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.exists[name] {
		return nil
	}

	params := map[string]any{"graph_name": name}

	result, err := m.client.Run(ctx, queryGraphExists, params)
	if err != nil {
		m.recordOp("ensure", "error")
		return types.WrapError(types.ANALYTICS_PROJECTION_FAILED,
			fmt.Sprintf("failed to check projection %s", name), err)
	}

	if len(result.Records) > 0 {
		if exists, ok := result.Records[0]["exists"].(bool); ok && exists {
			m.exists[name] = true
			m.recordOp("ensure", "cached")
			return nil
		}
	}

	m.logger.Info("creating analytics projection", "projection", name)
	if _, err := m.client.Run(ctx, queryCreateProjection, params); err != nil {
		m.recordOp("ensure", "error")
		return types.WrapError(types.ANALYTICS_PROJECTION_FAILED,
			fmt.Sprintf("failed to create projection %s", name), err)
	}

	m.exists[name] = true
	m.recordOp("ensure", "created")
	return nil
}

// Drop removes the named projection from the backing store. Best-effort: a
// failure is reported but the cached flag is cleared either way, so the next
// Ensure re-verifies against the store.
func (m *ProjectionManager) Drop(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.exists, name)

	if _, err := m.client.Run(ctx, queryDropProjection, map[string]any{"graph_name": name}); err != nil {
		m.recordOp("drop", "error")
		m.logger.Warn("failed to drop analytics projection", "projection", name, "error", err)
		return types.WrapError(types.ANALYTICS_PROJECTION_FAILED,
			fmt.Sprintf("failed to drop projection %s", name), err)
	}

	m.recordOp("drop", "ok")
	return nil
}

// Info returns node/relationship counts and memory usage for the named
// projection.
func (m *ProjectionManager) Info(ctx context.Context, name string) (ProjectionInfo, error) {
	result, err := m.client.Run(ctx, queryProjectionInfo, map[string]any{"graph_name": name})
	if err != nil {
		return ProjectionInfo{}, types.WrapError(types.ANALYTICS_PROJECTION_FAILED,
			fmt.Sprintf("failed to inspect projection %s", name), err)
	}
	if len(result.Records) == 0 {
		return ProjectionInfo{}, types.NewError(types.ANALYTICS_PROJECTION_FAILED,
			fmt.Sprintf("projection %s not found", name))
	}

	record := result.Records[0]
	info := ProjectionInfo{Name: name}
	if v, ok := toInt64(record["nodeCount"]); ok {
		info.NodeCount = v
	}
	if v, ok := toInt64(record["relationshipCount"]); ok {
		info.RelationshipCount = v
	}
	if v, ok := record["memoryUsage"].(string); ok {
		info.MemoryUsage = v
	}
	return info, nil
}

func (m *ProjectionManager) recordOp(operation, status string) {
	if m.metrics != nil {
		m.metrics.ProjectionOps.WithLabelValues(operation, status).Inc()
	}
}

// toInt64 safely converts various numeric types to int64. The Neo4j driver
// returns int64, but decoded JSON or test fixtures may carry float64 or int.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}
