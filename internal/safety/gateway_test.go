package safety

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarnet-ai/lattice/internal/metric"
	"github.com/scholarnet-ai/lattice/internal/schema"
)

func newTestGateway(t *testing.T, opts ...Option) *Gateway {
	t.Helper()
	catalog, err := schema.Default()
	require.NoError(t, err)
	return NewGateway(catalog, opts...)
}

func TestGateway_Prepare(t *testing.T) {
	g := newTestGateway(t)

	t.Run("valid query normalizes and passes", func(t *testing.T) {
		safe, err := g.Prepare("MATCH (a:Author)-[:AUTHORED]->(w:Work)\n  WHERE w.year > 2020\n  RETURN w.title")
		require.NoError(t, err)
		assert.Equal(t,
			"MATCH (a:Author)-[:WORK_AUTHORED_BY]->(w:Work) WHERE w.publication_date > 2020 RETURN w.title",
			safe.String())
	})

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := g.Prepare("   \n\t ")
		r, ok := AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, RejectionEmptyQuery, r.Kind)
	})

	t.Run("write query rejected after normalization", func(t *testing.T) {
		_, err := g.Prepare("/* sneaky */ CREATE (n:Author) RETURN n")
		r, ok := AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, RejectionForbiddenKeyword, r.Kind)
		assert.Equal(t, "CREATE", r.Token)
	})

	t.Run("alias normalization happens before schema checks", func(t *testing.T) {
		// WROTE is not a schema relationship but normalizes to one, so it
		// must not be rejected.
		safe, err := g.Prepare("MATCH (a:Author)-[:WROTE]->(w:Work) RETURN w.title")
		require.NoError(t, err)
		assert.Contains(t, safe.String(), "WORK_AUTHORED_BY")
	})

	t.Run("unknown relationship still rejected", func(t *testing.T) {
		_, err := g.Prepare("MATCH (a:Author)-[:CITES]->(w:Work) RETURN w.title")
		r, ok := AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, RejectionUnknownRelationship, r.Kind)
		assert.Equal(t, "CITES", r.Token)
	})

	t.Run("url literal survives comment stripping", func(t *testing.T) {
		safe, err := g.Prepare("MATCH (w:Work) WHERE w.title = 'https://doi.org/10.1000/x' RETURN w.title")
		require.NoError(t, err)
		assert.Equal(t,
			"MATCH (w:Work) WHERE w.title = 'https://doi.org/10.1000/x' RETURN w.title",
			safe.String())
	})

	t.Run("prepare is idempotent on its own output", func(t *testing.T) {
		safe, err := g.Prepare("MATCH (a:Author)-[:WROTE]->(w:Work) WHERE w.year > 2019 RETURN w.title")
		require.NoError(t, err)

		again, err := g.Prepare(safe.String())
		require.NoError(t, err)
		assert.Equal(t, safe.String(), again.String())
	})
}

func TestGateway_RelationshipInference(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		g := newTestGateway(t)
		// COLLABORATED_WITH is a declared schema relationship, so without
		// inference the pattern passes through unchanged.
		safe, err := g.Prepare("MATCH (a:Author)-[:COLLABORATED_WITH]->(b:Author) RETURN b.display_name")
		require.NoError(t, err)
		assert.Contains(t, safe.String(), "COLLABORATED_WITH")
	})

	t.Run("expands collaboration into authorship path", func(t *testing.T) {
		g := newTestGateway(t, WithRelationshipInference())
		safe, err := g.Prepare("MATCH (a:Author)-[:COLLABORATED_WITH]->(b:Author) RETURN b.display_name")
		require.NoError(t, err)
		assert.Equal(t,
			"MATCH (a:Author)-[:WORK_AUTHORED_BY]->(:Work)<-[:WORK_AUTHORED_BY]-(b:Author) RETURN b.display_name",
			safe.String())
	})

	t.Run("expands shared topic into topic path", func(t *testing.T) {
		g := newTestGateway(t, WithRelationshipInference())
		safe, err := g.Prepare("MATCH (a:Author)-[:SHARES_TOPIC_WITH]->(b:Author) RETURN b.display_name")
		require.NoError(t, err)
		assert.Contains(t, safe.String(), "WORK_HAS_TOPIC")
		assert.NotContains(t, safe.String(), "SHARES_TOPIC_WITH")
	})
}

func TestGateway_Metrics(t *testing.T) {
	m := metric.NewMetrics()
	registry := prometheus.NewRegistry()
	require.NoError(t, m.Register(registry))

	g := newTestGateway(t, WithMetrics(m))

	_, err := g.Prepare("MATCH (w:Work) RETURN w.title")
	require.NoError(t, err)
	_, err = g.Prepare("CREATE (n:Author) RETURN n")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesPrepared))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.QueriesRejected.WithLabelValues(string(RejectionForbiddenKeyword))))
}
