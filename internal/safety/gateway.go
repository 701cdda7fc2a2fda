// Package safety implements the query safety gateway: validation, alias
// normalization, and procedure allow-listing applied to untrusted candidate
// queries before execution.
//
// Candidate queries come from a language model and must be treated as
// adversarial. The gateway certifies that whatever query is finally executed
// cannot mutate data, escape the declared schema, or invoke disallowed
// procedures. It performs no network or database access: the whole pipeline
// is pure string processing over the immutable schema catalog, which is what
// makes it unit-testable without a live graph backend and safe to call
// concurrently without locking.
package safety

import (
	"regexp"
	"strings"

	"github.com/scholarnet-ai/lattice/internal/metric"
	"github.com/scholarnet-ai/lattice/internal/schema"
)

// SafeQuery is a candidate query that has passed normalization and
// validation. It is created only by Gateway.Prepare and never mutated.
type SafeQuery struct {
	text string
}

// String returns the normalized query text, suitable for the query executor.
func (q SafeQuery) String() string {
	return q.text
}

// inferenceExpansions maps virtual relationship types to the materialized
// path patterns that express them over the real schema. Expansion happens
// after normalization and before validation, so a query using a virtual
// relationship validates against the canonical schema it expands into.
var inferenceExpansions = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{
		regexp.MustCompile(`-\[:COLLABORATED_WITH\]->`),
		"-[:WORK_AUTHORED_BY]->(:Work)<-[:WORK_AUTHORED_BY]-",
	},
	{
		regexp.MustCompile(`-\[:CO_AUTHORED\]->`),
		"-[:WORK_AUTHORED_BY]->(:Work)<-[:WORK_AUTHORED_BY]-",
	},
	{
		regexp.MustCompile(`-\[:SHARES_TOPIC_WITH\]->`),
		"-[:WORK_AUTHORED_BY]->(:Work)-[:WORK_HAS_TOPIC]->(:Topic)<-[:WORK_HAS_TOPIC]-(:Work)<-[:WORK_AUTHORED_BY]-",
	},
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRelationshipInference enables rewriting of virtual relationship types
// (COLLABORATED_WITH, CO_AUTHORED, SHARES_TOPIC_WITH) into their
// materialized path patterns before validation.
func WithRelationshipInference() Option {
	return func(g *Gateway) {
		g.inferRelationships = true
	}
}

// WithMetrics attaches gateway metrics. When nil or omitted, no metrics are
// recorded.
func WithMetrics(m *metric.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// Gateway composes normalization, optional relationship-inference rewriting,
// and the ordered validator chain into a single entry point for callers.
//
// Prepare is idempotent and side-effect free; a Gateway may be shared across
// any number of goroutines.
type Gateway struct {
	normalizer         *Normalizer
	validator          *Validator
	inferRelationships bool
	metrics            *metric.Metrics
}

// NewGateway creates a Gateway over the given schema catalog.
func NewGateway(catalog *schema.Catalog, opts ...Option) *Gateway {
	g := &Gateway{
		normalizer: NewNormalizer(catalog),
		validator:  NewValidator(catalog),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Prepare normalizes and validates a raw candidate query. On success it
// returns the certified SafeQuery; on failure it returns a *Rejection
// describing exactly what was rejected so the caller can retry with
// actionable feedback.
func (g *Gateway) Prepare(raw string) (SafeQuery, error) {
	if strings.TrimSpace(raw) == "" {
		return SafeQuery{}, g.reject(emptyQuery())
	}

	normalized := g.normalizer.Normalize(raw)

	if g.inferRelationships {
		for _, exp := range inferenceExpansions {
			normalized = exp.pattern.ReplaceAllString(normalized, exp.replacement)
		}
	}

	if err := g.validator.Validate(normalized); err != nil {
		if r, ok := AsRejection(err); ok {
			return SafeQuery{}, g.reject(r)
		}
		return SafeQuery{}, err
	}

	if g.metrics != nil {
		g.metrics.QueriesPrepared.Inc()
	}
	return SafeQuery{text: normalized}, nil
}

func (g *Gateway) reject(r *Rejection) error {
	if g.metrics != nil {
		g.metrics.QueriesRejected.WithLabelValues(string(r.Kind)).Inc()
	}
	return r
}
