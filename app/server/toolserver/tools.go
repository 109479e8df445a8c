package toolserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names and argument shapes mirror the MCP memory tool family.

func newCreateEntitiesTool() mcp.Tool {
	return mcp.NewTool("create_entities",
		mcp.WithDescription("Create multiple new entities in the knowledge graph. An existing entity with the same name is overwritten."),
		mcp.WithArray("entities",
			mcp.Required(),
			mcp.Description("Entities to create"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":       map[string]any{"type": "string", "description": "Unique name of the entity"},
					"entityType": map[string]any{"type": "string", "description": "Free-form classification tag"},
					"observations": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Observation strings attached to the entity",
					},
				},
				"required": []string{"name", "entityType"},
			}),
		),
	)
}

func newCreateRelationsTool() mcp.Tool {
	return mcp.NewTool("create_relations",
		mcp.WithDescription("Create multiple new relations between existing entities. Relations should be in active voice. Fails if either endpoint does not exist."),
		mcp.WithArray("relations",
			mcp.Required(),
			mcp.Description("Relations to create"),
			mcp.Items(relationItemSchema()),
		),
	)
}

func newAddObservationsTool() mcp.Tool {
	return mcp.NewTool("add_observations",
		mcp.WithDescription("Add new observations to existing entities. Fails if an entity does not exist."),
		mcp.WithArray("observations",
			mcp.Required(),
			mcp.Description("Observations to add, grouped by entity"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"entityName": map[string]any{"type": "string", "description": "Name of the entity to add observations to"},
					"contents": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Observation strings to append",
					},
				},
				"required": []string{"entityName", "contents"},
			}),
		),
	)
}

func newDeleteEntitiesTool() mcp.Tool {
	return mcp.NewTool("delete_entities",
		mcp.WithDescription("Delete multiple entities and all relations referencing them. Missing entities are skipped."),
		mcp.WithArray("entityNames",
			mcp.Required(),
			mcp.Description("Names of entities to delete"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

func newDeleteObservationsTool() mcp.Tool {
	return mcp.NewTool("delete_observations",
		mcp.WithDescription("Delete specific observations from entities, removing every exact-match occurrence. Fails if an entity does not exist."),
		mcp.WithArray("deletions",
			mcp.Required(),
			mcp.Description("Observations to delete, grouped by entity"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"entityName": map[string]any{"type": "string", "description": "Name of the entity to delete observations from"},
					"observations": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Observation strings to remove",
					},
				},
				"required": []string{"entityName", "observations"},
			}),
		),
	)
}

func newDeleteRelationsTool() mcp.Tool {
	return mcp.NewTool("delete_relations",
		mcp.WithDescription("Delete multiple relations by exact triple match. Missing relations are skipped."),
		mcp.WithArray("relations",
			mcp.Required(),
			mcp.Description("Relations to delete"),
			mcp.Items(relationItemSchema()),
		),
	)
}

func newReadGraphTool() mcp.Tool {
	return mcp.NewTool("read_graph",
		mcp.WithDescription("Read the entire knowledge graph."),
	)
}

func newSearchNodesTool() mcp.Tool {
	return mcp.NewTool("search_nodes",
		mcp.WithDescription("Search for entities by case-insensitive substring match against names, types and observations. Relations are included when both endpoints matched."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Substring to match; an empty query matches everything"),
		),
	)
}

func newOpenNodesTool() mcp.Tool {
	return mcp.NewTool("open_nodes",
		mcp.WithDescription("Open specific entities by name. Unknown names are skipped; relations are included when both endpoints were requested."),
		mcp.WithArray("names",
			mcp.Required(),
			mcp.Description("Names of entities to open"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

func relationItemSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"from":         map[string]any{"type": "string", "description": "Name of the entity the relation starts from"},
			"to":           map[string]any{"type": "string", "description": "Name of the entity the relation points to"},
			"relationType": map[string]any{"type": "string", "description": "Relation label in active voice"},
		},
		"required": []string{"from", "to", "relationType"},
	}
}
