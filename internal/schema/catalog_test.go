package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarnet-ai/lattice/internal/types"
)

const validCatalogYAML = `
nodes:
  - name: Author
    properties: [id, name]
  - name: Work
    properties: [id, title, publication_date]
relationships:
  - name: WORK_AUTHORED_BY
    from: Author
    to: Work
    direction: OUT
property_aliases:
  year: publication_date
  pub_year: publication_date
relationship_aliases:
  WROTE: WORK_AUTHORED_BY
  AUTHORED: WORK_AUTHORED_BY
`

func TestParse_ValidCatalog(t *testing.T) {
	catalog, err := Parse([]byte(validCatalogYAML))
	require.NoError(t, err)

	assert.True(t, catalog.HasNodeKind("Author"))
	assert.True(t, catalog.HasNodeKind("Work"))
	assert.False(t, catalog.HasNodeKind("Paper"))

	assert.True(t, catalog.HasRelationshipKind("WORK_AUTHORED_BY"))
	assert.False(t, catalog.HasRelationshipKind("WROTE"))

	assert.True(t, catalog.HasProperty("title"))
	assert.True(t, catalog.HasProperty("publication_date"))
	assert.False(t, catalog.HasProperty("year"))

	canonical, ok := catalog.CanonicalProperty("year")
	require.True(t, ok)
	assert.Equal(t, "publication_date", canonical)

	canonical, ok = catalog.CanonicalRelationship("WROTE")
	require.True(t, ok)
	assert.Equal(t, "WORK_AUTHORED_BY", canonical)
}

func TestParse_Invariants(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code types.ErrorCode
	}{
		{
			name: "malformed yaml",
			yaml: "nodes: [}",
			code: types.SCHEMA_PARSE_FAILED,
		},
		{
			name: "duplicate node kind",
			yaml: `
nodes:
  - name: Author
  - name: Author
`,
			code: types.SCHEMA_DUPLICATE_KIND,
		},
		{
			name: "invalid direction",
			yaml: `
nodes:
  - name: Author
relationships:
  - name: KNOWS
    from: Author
    to: Author
    direction: SIDEWAYS
`,
			code: types.SCHEMA_PARSE_FAILED,
		},
		{
			name: "relationship references unknown kind",
			yaml: `
nodes:
  - name: Author
relationships:
  - name: WORK_AUTHORED_BY
    from: Author
    to: Work
    direction: OUT
`,
			code: types.SCHEMA_UNKNOWN_REFERENCE,
		},
		{
			name: "property alias targets unknown property",
			yaml: `
nodes:
  - name: Work
    properties: [title]
property_aliases:
  year: publication_date
`,
			code: types.SCHEMA_ALIAS_UNRESOLVED,
		},
		{
			name: "property alias shadows canonical property",
			yaml: `
nodes:
  - name: Work
    properties: [title, publication_date]
property_aliases:
  title: publication_date
`,
			code: types.SCHEMA_ALIAS_UNRESOLVED,
		},
		{
			name: "relationship alias targets another alias",
			yaml: `
nodes:
  - name: Author
  - name: Work
relationships:
  - name: WORK_AUTHORED_BY
    from: Author
    to: Work
    direction: OUT
relationship_aliases:
  WROTE: AUTHORED
  AUTHORED: WORK_AUTHORED_BY
`,
			code: types.SCHEMA_ALIAS_UNRESOLVED,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.NewError(tt.code, "")),
				"expected code %s, got %v", tt.code, err)
		})
	}
}

func TestAliasOrder_LongestFirst(t *testing.T) {
	catalog, err := Parse([]byte(validCatalogYAML))
	require.NoError(t, err)

	order := catalog.PropertyAliases()
	require.Len(t, order, 2)
	assert.Equal(t, "pub_year", order[0])
	assert.Equal(t, "year", order[1])
}

func TestDefault_Parses(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	assert.True(t, catalog.HasNodeKind("Author"))
	assert.True(t, catalog.HasNodeKind("Work"))
	assert.True(t, catalog.HasNodeKind("Topic"))
	assert.True(t, catalog.HasRelationshipKind("WORK_AUTHORED_BY"))
	assert.True(t, catalog.HasRelationshipKind("WORK_HAS_TOPIC"))

	// Aliases resolve to canonical names, never to other aliases.
	for _, alias := range catalog.PropertyAliases() {
		canonical, ok := catalog.CanonicalProperty(alias)
		require.True(t, ok)
		_, isAlias := catalog.CanonicalProperty(canonical)
		assert.False(t, isAlias, "alias %s chains to alias %s", alias, canonical)
		assert.True(t, catalog.HasProperty(canonical))
	}
	for _, alias := range catalog.RelationshipAliases() {
		canonical, ok := catalog.CanonicalRelationship(alias)
		require.True(t, ok)
		assert.True(t, catalog.HasRelationshipKind(canonical))
	}

	// Same instance on repeat calls.
	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, catalog, again)
}

func TestMustDefault_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		MustDefault()
	})
}
