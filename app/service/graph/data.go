package graph

// Field names follow the MCP memory tool family, so existing clients keep
// working against this server unchanged.

type Entity struct {
	Name         string   `json:"name"`
	EntityType   string   `json:"entityType"`
	Observations []string `json:"observations"`
}

type Relation struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relationType"`
}

// KnowledgeGraph is the snapshot shape returned by read, search and open.
// Entities marshal as a name-keyed object (encoding/json emits map keys
// sorted, so output is deterministic); relations keep creation order.
type KnowledgeGraph struct {
	Entities  map[string]Entity `json:"entities"`
	Relations []Relation        `json:"relations"`
}

type ObservationAddition struct {
	EntityName string   `json:"entityName"`
	Contents   []string `json:"contents"`
}

type ObservationDeletion struct {
	EntityName   string   `json:"entityName"`
	Observations []string `json:"observations"`
}
