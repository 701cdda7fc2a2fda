// Package schema provides the immutable schema catalog for the research
// knowledge graph. The catalog describes the node kinds, relationship kinds,
// and per-kind properties that queries are allowed to reference, plus
// alias-to-canonical mappings for property and relationship names.
//
// The catalog is built once at process start (typically from the embedded
// default definition) and is read-only afterwards, so it is safe to share
// across goroutines without locking.
package schema

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/scholarnet-ai/lattice/internal/types"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Direction indicates the orientation of a relationship kind.
type Direction string

const (
	DirectionOut  Direction = "OUT"
	DirectionIn   Direction = "IN"
	DirectionBoth Direction = "BOTH"
)

// IsValid checks if the Direction is a valid value.
func (d Direction) IsValid() bool {
	switch d {
	case DirectionOut, DirectionIn, DirectionBoth:
		return true
	default:
		return false
	}
}

// NodeKind describes an allowed node label and the properties queries may
// reference on nodes of that kind.
type NodeKind struct {
	Name       string   `yaml:"name"`
	Properties []string `yaml:"properties"`
}

// RelationshipKind describes an allowed relationship type between two node kinds.
type RelationshipKind struct {
	Name      string    `yaml:"name"`
	From      string    `yaml:"from"`
	To        string    `yaml:"to"`
	Direction Direction `yaml:"direction"`
}

// catalogSpec is the YAML shape of a catalog definition.
type catalogSpec struct {
	Nodes               []NodeKind         `yaml:"nodes"`
	Relationships       []RelationshipKind `yaml:"relationships"`
	PropertyAliases     map[string]string  `yaml:"property_aliases"`
	RelationshipAliases map[string]string  `yaml:"relationship_aliases"`
}

// Catalog is the immutable, process-wide schema table. All lookups are
// read-only; a Catalog is never mutated after construction.
type Catalog struct {
	nodes     map[string]NodeKind
	rels      map[string]RelationshipKind
	propAlias map[string]string
	relAlias  map[string]string

	// propUnion is the union of all node kinds' allowed properties.
	// Property validation cannot bind a variable to a specific kind without
	// full query analysis, so membership is checked against this set.
	propUnion map[string]struct{}

	// Alias keys sorted longest-first for deterministic substitution order.
	propAliasOrder []string
	relAliasOrder  []string
}

// Parse builds a Catalog from a YAML definition.
// It enforces the catalog invariants: kind names are unique, every alias
// target is itself a defined relationship kind or property, and no alias key
// shadows a canonical name (which also rules out alias cycles).
func Parse(data []byte) (*Catalog, error) {
	var spec catalogSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, types.WrapError(types.SCHEMA_PARSE_FAILED, "failed to parse catalog definition", err)
	}

	c := &Catalog{
		nodes:     make(map[string]NodeKind, len(spec.Nodes)),
		rels:      make(map[string]RelationshipKind, len(spec.Relationships)),
		propAlias: make(map[string]string, len(spec.PropertyAliases)),
		relAlias:  make(map[string]string, len(spec.RelationshipAliases)),
		propUnion: make(map[string]struct{}),
	}

	for _, n := range spec.Nodes {
		if n.Name == "" {
			return nil, types.NewError(types.SCHEMA_PARSE_FAILED, "node kind with empty name")
		}
		if _, exists := c.nodes[n.Name]; exists {
			return nil, types.NewError(types.SCHEMA_DUPLICATE_KIND,
				fmt.Sprintf("duplicate node kind: %s", n.Name))
		}
		c.nodes[n.Name] = n
		for _, p := range n.Properties {
			c.propUnion[p] = struct{}{}
		}
	}

	for _, r := range spec.Relationships {
		if r.Name == "" {
			return nil, types.NewError(types.SCHEMA_PARSE_FAILED, "relationship kind with empty name")
		}
		if _, exists := c.rels[r.Name]; exists {
			return nil, types.NewError(types.SCHEMA_DUPLICATE_KIND,
				fmt.Sprintf("duplicate relationship kind: %s", r.Name))
		}
		if !r.Direction.IsValid() {
			return nil, types.NewError(types.SCHEMA_PARSE_FAILED,
				fmt.Sprintf("relationship %s has invalid direction %q", r.Name, r.Direction))
		}
		if _, ok := c.nodes[r.From]; !ok {
			return nil, types.NewError(types.SCHEMA_UNKNOWN_REFERENCE,
				fmt.Sprintf("relationship %s references unknown node kind %q", r.Name, r.From))
		}
		if _, ok := c.nodes[r.To]; !ok {
			return nil, types.NewError(types.SCHEMA_UNKNOWN_REFERENCE,
				fmt.Sprintf("relationship %s references unknown node kind %q", r.Name, r.To))
		}
		c.rels[r.Name] = r
	}

	for alias, canonical := range spec.PropertyAliases {
		if _, ok := c.propUnion[canonical]; !ok {
			return nil, types.NewError(types.SCHEMA_ALIAS_UNRESOLVED,
				fmt.Sprintf("property alias %s targets unknown property %q", alias, canonical))
		}
		if _, ok := spec.PropertyAliases[canonical]; ok {
			return nil, types.NewError(types.SCHEMA_ALIAS_UNRESOLVED,
				fmt.Sprintf("property alias target %q is itself an alias", canonical))
		}
		if _, ok := c.propUnion[alias]; ok {
			return nil, types.NewError(types.SCHEMA_ALIAS_UNRESOLVED,
				fmt.Sprintf("property alias %s shadows a canonical property", alias))
		}
		c.propAlias[alias] = canonical
	}

	for alias, canonical := range spec.RelationshipAliases {
		if _, ok := c.rels[canonical]; !ok {
			return nil, types.NewError(types.SCHEMA_ALIAS_UNRESOLVED,
				fmt.Sprintf("relationship alias %s targets unknown relationship %q", alias, canonical))
		}
		if _, ok := spec.RelationshipAliases[canonical]; ok {
			return nil, types.NewError(types.SCHEMA_ALIAS_UNRESOLVED,
				fmt.Sprintf("relationship alias target %q is itself an alias", canonical))
		}
		if _, ok := c.rels[alias]; ok {
			return nil, types.NewError(types.SCHEMA_ALIAS_UNRESOLVED,
				fmt.Sprintf("relationship alias %s shadows a canonical relationship", alias))
		}
		c.relAlias[alias] = canonical
	}

	c.propAliasOrder = sortedAliasKeys(c.propAlias)
	c.relAliasOrder = sortedAliasKeys(c.relAlias)

	return c, nil
}

// sortedAliasKeys returns alias keys ordered longest-first, then
// lexicographically, so substitution order is deterministic and longer
// aliases are never partially matched by shorter ones.
func sortedAliasKeys(aliases map[string]string) []string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog parsed from the embedded definition.
// The definition is parsed exactly once; subsequent calls return the same
// Catalog instance.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(defaultCatalogYAML)
	})
	return defaultCatalog, defaultErr
}

// MustDefault returns the default catalog or panics. The embedded definition
// is compiled in, so a parse failure is a build defect, not a runtime state.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// HasNodeKind reports whether name is a defined node kind.
func (c *Catalog) HasNodeKind(name string) bool {
	_, ok := c.nodes[name]
	return ok
}

// HasRelationshipKind reports whether name is a defined relationship kind.
func (c *Catalog) HasRelationshipKind(name string) bool {
	_, ok := c.rels[name]
	return ok
}

// HasProperty reports whether name appears in the union of all node kinds'
// allowed properties.
func (c *Catalog) HasProperty(name string) bool {
	_, ok := c.propUnion[name]
	return ok
}

// NodeKind returns the node kind definition for name.
func (c *Catalog) NodeKind(name string) (NodeKind, bool) {
	n, ok := c.nodes[name]
	return n, ok
}

// RelationshipKind returns the relationship kind definition for name.
func (c *Catalog) RelationshipKind(name string) (RelationshipKind, bool) {
	r, ok := c.rels[name]
	return r, ok
}

// CanonicalProperty resolves a property alias to its canonical name.
func (c *Catalog) CanonicalProperty(alias string) (string, bool) {
	canonical, ok := c.propAlias[alias]
	return canonical, ok
}

// CanonicalRelationship resolves a relationship alias to its canonical name.
func (c *Catalog) CanonicalRelationship(alias string) (string, bool) {
	canonical, ok := c.relAlias[alias]
	return canonical, ok
}

// PropertyAliases returns the property alias keys in substitution order
// (longest first). The returned slice must not be modified.
func (c *Catalog) PropertyAliases() []string {
	return c.propAliasOrder
}

// RelationshipAliases returns the relationship alias keys in substitution
// order (longest first). The returned slice must not be modified.
func (c *Catalog) RelationshipAliases() []string {
	return c.relAliasOrder
}

// NodeKinds returns all node kind names in sorted order.
func (c *Catalog) NodeKinds() []string {
	names := make([]string, 0, len(c.nodes))
	for name := range c.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RelationshipKinds returns all relationship kind names in sorted order.
func (c *Catalog) RelationshipKinds() []string {
	names := make([]string, 0, len(c.rels))
	for name := range c.rels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
