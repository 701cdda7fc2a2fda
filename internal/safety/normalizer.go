package safety

import (
	"regexp"
	"strings"

	"github.com/scholarnet-ai/lattice/internal/schema"
)

// aliasRule is a precompiled substitution for one alias.
type aliasRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Normalizer rewrites candidate queries into canonical form: comments are
// stripped, whitespace runs collapse to single spaces, and known property and
// relationship aliases are replaced with their canonical schema names.
//
// Normalization never rejects anything; rejection is the Validator's job.
// A Normalizer is pure and safe for concurrent use.
type Normalizer struct {
	propRules []aliasRule
	relRules  []aliasRule
}

// NewNormalizer builds a Normalizer from the catalog's alias tables.
// Substitution rules are applied in the catalog's deterministic
// longest-alias-first order so shorter aliases never partially match inside
// longer ones.
func NewNormalizer(catalog *schema.Catalog) *Normalizer {
	n := &Normalizer{}

	for _, alias := range catalog.PropertyAliases() {
		canonical, _ := catalog.CanonicalProperty(alias)
		// Match the alias only when used as a property accessor: `.alias`
		// followed by a non-identifier character or end of string.
		n.propRules = append(n.propRules, aliasRule{
			pattern:     regexp.MustCompile(`\.` + regexp.QuoteMeta(alias) + `\b`),
			replacement: "." + canonical,
		})
	}

	for _, alias := range catalog.RelationshipAliases() {
		canonical, _ := catalog.CanonicalRelationship(alias)
		// Match the alias only when used as a relationship-type or label
		// token: `:ALIAS` at a word boundary.
		n.relRules = append(n.relRules, aliasRule{
			pattern:     regexp.MustCompile(`:` + regexp.QuoteMeta(alias) + `\b`),
			replacement: ":" + canonical,
		})
	}

	return n
}

// Normalize strips comments, collapses whitespace, and substitutes aliases.
// It is idempotent: Normalize(Normalize(q)) == Normalize(q), which holds
// because alias targets are canonical names and can never themselves be
// alias keys (a catalog invariant).
func (n *Normalizer) Normalize(raw string) string {
	cleaned := stripComments(raw)

	for _, rule := range n.relRules {
		cleaned = rule.pattern.ReplaceAllString(cleaned, rule.replacement)
	}
	for _, rule := range n.propRules {
		cleaned = rule.pattern.ReplaceAllString(cleaned, rule.replacement)
	}

	return cleaned
}

// stripComments removes // and /* */ comments and collapses whitespace runs
// to a single space. Quoted string literals are copied through verbatim, so
// a literal containing "//" (a DOI, a URL) is never treated as a comment.
func stripComments(raw string) string {
	out := make([]byte, 0, len(raw))

	space := func() {
		if len(out) > 0 && out[len(out)-1] != ' ' {
			out = append(out, ' ')
		}
	}

	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '\'' || c == '"':
			quote := c
			out = append(out, c)
			i++
			for i < len(raw) {
				if raw[i] == '\\' && i+1 < len(raw) {
					out = append(out, raw[i], raw[i+1])
					i += 2
					continue
				}
				out = append(out, raw[i])
				if raw[i] == quote {
					i++
					break
				}
				i++
			}
		case c == '/' && i+1 < len(raw) && raw[i+1] == '/':
			for i < len(raw) && raw[i] != '\n' {
				i++
			}
			space()
		case c == '/' && i+1 < len(raw) && raw[i+1] == '*':
			i += 2
			for i < len(raw) {
				if raw[i] == '*' && i+1 < len(raw) && raw[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
			space()
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
			space()
		default:
			out = append(out, c)
			i++
		}
	}

	return strings.TrimSpace(string(out))
}
