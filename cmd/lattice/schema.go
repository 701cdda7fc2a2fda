package main

import (
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the schema catalog queries are validated against",
	RunE:  runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer app.close(cmd.Context())

	catalog := app.catalog
	out := formatter(cmd)

	if outputFormat == "json" {
		return out.PrintJSON(map[string]any{
			"node_kinds":           catalog.NodeKinds(),
			"relationship_kinds":   catalog.RelationshipKinds(),
			"property_aliases":     aliasTable(catalog.PropertyAliases(), catalog.CanonicalProperty),
			"relationship_aliases": aliasTable(catalog.RelationshipAliases(), catalog.CanonicalRelationship),
		})
	}

	cmd.Println("Node kinds:")
	for _, name := range catalog.NodeKinds() {
		kind, _ := catalog.NodeKind(name)
		cmd.Printf("  %s %v\n", kind.Name, kind.Properties)
	}

	cmd.Println("\nRelationship kinds:")
	for _, name := range catalog.RelationshipKinds() {
		kind, _ := catalog.RelationshipKind(name)
		cmd.Printf("  (%s)-[:%s]->(%s) %s\n", kind.From, kind.Name, kind.To, kind.Direction)
	}

	cmd.Println("\nProperty aliases:")
	for _, alias := range catalog.PropertyAliases() {
		if canonical, ok := catalog.CanonicalProperty(alias); ok {
			cmd.Printf("  %s -> %s\n", alias, canonical)
		}
	}

	cmd.Println("\nRelationship aliases:")
	for _, alias := range catalog.RelationshipAliases() {
		if canonical, ok := catalog.CanonicalRelationship(alias); ok {
			cmd.Printf("  %s -> %s\n", alias, canonical)
		}
	}
	return nil
}

func aliasTable(aliases []string, canonical func(string) (string, bool)) map[string]string {
	table := make(map[string]string, len(aliases))
	for _, alias := range aliases {
		if target, ok := canonical(alias); ok {
			table[alias] = target
		}
	}
	return table
}
