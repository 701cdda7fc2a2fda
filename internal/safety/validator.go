package safety

import (
	"regexp"
	"strings"

	"github.com/scholarnet-ai/lattice/internal/schema"
)

// forbiddenKeyword lists the write/mutation vocabulary. Scan order matters:
// multi-word keywords come before their single-word suffixes so the reported
// token is the most specific match.
var forbiddenKeywords = []struct {
	token   string
	pattern *regexp.Regexp
}{
	{"CREATE", regexp.MustCompile(`(?i)\bCREATE\b`)},
	{"MERGE", regexp.MustCompile(`(?i)\bMERGE\b`)},
	{"DETACH DELETE", regexp.MustCompile(`(?i)\bDETACH\s+DELETE\b`)},
	{"DELETE", regexp.MustCompile(`(?i)\bDELETE\b`)},
	{"REMOVE", regexp.MustCompile(`(?i)\bREMOVE\b`)},
	{"SET", regexp.MustCompile(`(?i)\bSET\b`)},
	{"DROP", regexp.MustCompile(`(?i)\bDROP\b`)},
	{"FOREACH", regexp.MustCompile(`(?i)\bFOREACH\b`)},
	{"LOAD CSV", regexp.MustCompile(`(?i)\bLOAD\s+CSV\b`)},
}

// allowedProcedurePrefixes is the procedure allow-list: the graph analytics
// namespace plus read-only schema introspection procedures. Compared
// case-insensitively against the invoked procedure name.
var allowedProcedurePrefixes = []string{
	"gds.",
	"db.labels",
	"db.relationshiptypes",
	"db.propertykeys",
	"db.schema",
	"dbms.components",
}

var (
	callRE = regexp.MustCompile(`(?i)\bCALL\s+([A-Za-z0-9_.]+)`)

	// relTokenRE extracts relationship-type tokens from bracket patterns
	// such as [:WORK_AUTHORED_BY] or [r:RELATED_TO*1..3].
	relTokenRE = regexp.MustCompile(`\[\s*[A-Za-z0-9_]*\s*:([A-Za-z_][A-Za-z0-9_]*)`)

	// bracketSegmentRE matches whole bracket segments so label extraction
	// can ignore relationship patterns.
	bracketSegmentRE = regexp.MustCompile(`\[[^\]]*\]`)

	// labelTokenRE extracts label tokens (:Label) outside brackets.
	labelTokenRE = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

	// propAccessRE extracts variable.property accesses. Procedure namespaces
	// and dotted call chains are filtered out by context checks.
	propAccessRE = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\.([A-Za-z_][A-Za-z0-9_]*)`)

	returnOrYieldRE = regexp.MustCompile(`(?i)\b(RETURN|YIELD)\b`)
	hasCallRE       = regexp.MustCompile(`(?i)\bCALL\b`)
	analyticsCallRE = regexp.MustCompile(`(?i)\bCALL\s+gds\.`)
	analyticsLeadRE = regexp.MustCompile(`(?i)^\s*CALL\s+gds\.`)
	matchClauseRE   = regexp.MustCompile(`(?i)\bMATCH\b`)

	// suspiciousLiteralREs flag injection-style constructs inside string
	// literals: concatenation, parameter splicing, and template braces.
	suspiciousLiteralREs = []*regexp.Regexp{
		regexp.MustCompile(`["'][^"']*["']\s*\+\s*["']`),
		regexp.MustCompile(`["'][^"']*\$[^"']*["']`),
		regexp.MustCompile(`["'][^"']*\{[^"']*\}[^"']*["']`),
	}

	// procedureNamespaces are dotted prefixes that look like property
	// accesses to the pattern scan but are procedure or function calls.
	procedureNamespaces = map[string]struct{}{
		"gds":  {},
		"db":   {},
		"dbms": {},
		"apoc": {},
	}
)

// Validator runs stateless safety checks over a query string, driven by the
// schema catalog. Checks are independently callable so callers may run a
// subset; Validate runs the full ordered chain.
//
// Validation is pattern-based, not AST-based. That is adequate for the safety
// properties needed here (read-only enforcement, allow-listing, schema
// conformance) and is isolated behind this type so it could be swapped for a
// real tokenizer without changing callers.
type Validator struct {
	catalog *schema.Catalog
}

// NewValidator creates a Validator backed by the given catalog.
func NewValidator(catalog *schema.Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate runs the full check chain in rejection-value order: read-only
// first (cheapest, highest-value), then procedures, then structure, then
// schema conformance. The first failing check wins.
//
// Schema conformance checks are skipped for analytics procedure queries,
// which operate over opaque projection node handles rather than schema
// labels.
func (v *Validator) Validate(query string) error {
	if err := v.AssertReadOnly(query); err != nil {
		return err
	}
	if err := v.ValidateProcedureCalls(query); err != nil {
		return err
	}
	if err := v.ValidateStructure(query); err != nil {
		return err
	}
	if IsAnalyticsQuery(query) {
		return nil
	}
	if err := v.ValidateLabels(query); err != nil {
		return err
	}
	if err := v.ValidateRelationships(query); err != nil {
		return err
	}
	return v.ValidateProperties(query)
}

// AssertReadOnly scans for any forbidden write keyword, case-insensitive.
// The first match short-circuits.
func (v *Validator) AssertReadOnly(query string) error {
	for _, kw := range forbiddenKeywords {
		if kw.pattern.MatchString(query) {
			return forbiddenKeyword(kw.token)
		}
	}
	return nil
}

// ValidateProcedureCalls checks every procedure invocation against the
// allow-list. Any call outside it is rejected.
func (v *Validator) ValidateProcedureCalls(query string) error {
	for _, m := range callRE.FindAllStringSubmatch(query, -1) {
		name := m[1]
		lower := strings.ToLower(name)
		allowed := false
		for _, prefix := range allowedProcedurePrefixes {
			if strings.HasPrefix(lower, prefix) {
				allowed = true
				break
			}
		}
		if !allowed {
			return disallowedProcedure(name)
		}
	}
	return nil
}

// ValidateStructure checks bracket balance, requires a result-producing
// clause, and rejects injection-style string literal constructs.
func (v *Validator) ValidateStructure(query string) error {
	if strings.Count(query, "(") != strings.Count(query, ")") {
		return malformedStructure("unbalanced parentheses")
	}
	if strings.Count(query, "[") != strings.Count(query, "]") {
		return malformedStructure("unbalanced brackets")
	}
	if strings.Count(query, "{") != strings.Count(query, "}") {
		return malformedStructure("unbalanced braces")
	}

	// A bare procedure call is allowed to omit RETURN/YIELD; everything
	// else must produce a result.
	if !returnOrYieldRE.MatchString(query) && !hasCallRE.MatchString(query) {
		return malformedStructure("query must have a RETURN or YIELD clause")
	}

	for _, re := range suspiciousLiteralREs {
		if re.MatchString(query) {
			return malformedStructure("suspicious string literal pattern")
		}
	}

	return nil
}

// ValidateLabels extracts every label token outside relationship brackets
// and checks it against the catalog's node kinds.
func (v *Validator) ValidateLabels(query string) error {
	stripped := bracketSegmentRE.ReplaceAllString(query, " ")
	for _, m := range labelTokenRE.FindAllStringSubmatch(stripped, -1) {
		label := m[1]
		if !v.catalog.HasNodeKind(label) {
			return unknownLabel(label)
		}
	}
	return nil
}

// ValidateRelationships extracts every relationship-type token from bracket
// patterns and checks it against the catalog's relationship kinds.
func (v *Validator) ValidateRelationships(query string) error {
	for _, m := range relTokenRE.FindAllStringSubmatch(query, -1) {
		rel := m[1]
		if !v.catalog.HasRelationshipKind(rel) {
			return unknownRelationship(rel)
		}
	}
	return nil
}

// ValidateProperties extracts every variable.property access and checks the
// property name against the union of all node kinds' allowed properties.
//
// Without full binding analysis the validator cannot tie a variable to a
// specific kind, so this is a global membership check: sound for catching
// typos, not precise enough to catch a valid property used on the wrong
// kind. That imprecision is accepted scope.
func (v *Validator) ValidateProperties(query string) error {
	for _, idx := range propAccessRE.FindAllStringSubmatchIndex(query, -1) {
		variable := query[idx[2]:idx[3]]
		property := query[idx[4]:idx[5]]

		// Skip procedure/function namespaces (gds.util, db.labels, ...).
		if _, ok := procedureNamespaces[strings.ToLower(variable)]; ok {
			continue
		}
		// Skip dotted chains and call expressions: a.b.c or a.b(...).
		if idx[0] > 0 && query[idx[0]-1] == '.' {
			continue
		}
		if idx[1] < len(query) && (query[idx[1]] == '.' || query[idx[1]] == '(') {
			continue
		}

		if !v.catalog.HasProperty(property) {
			return unknownProperty(property)
		}
	}
	return nil
}

// IsAnalyticsQuery reports whether the query is a graph-analytics procedure
// call. Such queries are exempt from label/relationship/property checks,
// which operate on schema vocabulary the analytics procedures never use.
//
// The exemption requires the query to actually be driven by the procedure:
// it must lead with the CALL, or contain no MATCH clause at all. A MATCH
// query with an analytics call appended still gets full schema validation.
func IsAnalyticsQuery(query string) bool {
	if !analyticsCallRE.MatchString(query) {
		return false
	}
	if analyticsLeadRE.MatchString(query) {
		return true
	}
	return !matchClauseRE.MatchString(query)
}
