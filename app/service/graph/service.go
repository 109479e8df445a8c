package graph

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

// Service holds the whole knowledge graph in memory for the process
// lifetime. Batch operations are NOT transactional: when an item fails, the
// items before it in the same call stay applied. Clients of the upstream
// memory tools rely on that, so it is pinned down in tests rather than
// fixed.
//
// The mutex is the single serialization point required by the MCP layer,
// which may dispatch tool calls concurrently.
type Service struct {
	mu sync.Mutex

	entities  map[string]*Entity
	order     []string
	relations []Relation
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		entities: make(map[string]*Entity),
	}, nil
}

// CreateEntities inserts or overwrites each entity at its name. An
// overwrite keeps the name's original position in the graph; a repeated
// name within one batch means last write wins.
func (s *Service) CreateEntities(entities []Entity) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entities {
		stored := Entity{
			Name:         e.Name,
			EntityType:   e.EntityType,
			Observations: append([]string{}, e.Observations...),
		}

		if _, exists := s.entities[e.Name]; !exists {
			s.order = append(s.order, e.Name)
		}
		s.entities[e.Name] = &stored
	}

	slog.Info("Created entities", "count", len(entities))

	return len(entities)
}

// CreateRelations appends each relation after checking both endpoints
// exist. Duplicates of an existing triple are appended, not deduplicated.
func (s *Service) CreateRelations(relations []Relation) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range relations {
		if _, ok := s.entities[r.From]; !ok {
			return i, errEntityNotFound(r.From)
		}
		if _, ok := s.entities[r.To]; !ok {
			return i, errEntityNotFound(r.To)
		}

		s.relations = append(s.relations, r)
	}

	slog.Info("Created relations", "count", len(relations))

	return len(relations), nil
}

// AddObservations appends each item's contents, in order and duplicates
// allowed, to the named entity.
func (s *Service) AddObservations(additions []ObservationAddition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range additions {
		entity, ok := s.entities[a.EntityName]
		if !ok {
			return errEntityNotFound(a.EntityName)
		}

		entity.Observations = append(entity.Observations, a.Contents...)
	}

	slog.Info("Added observations", "entities", len(additions))

	return nil
}

// DeleteEntities removes each named entity and every relation touching it.
// Missing names are skipped, so the call is idempotent.
func (s *Service) DeleteEntities(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		if _, ok := s.entities[name]; !ok {
			continue
		}

		delete(s.entities, name)

		s.order = pie.Filter(s.order, func(n string) bool {
			return n != name
		})
		s.relations = pie.Filter(s.relations, func(r Relation) bool {
			return r.From != name && r.To != name
		})
	}

	slog.Info("Deleted entities", "count", len(names))
}

// DeleteObservations removes every occurrence of each listed observation
// string from the named entity, by exact match.
func (s *Service) DeleteObservations(deletions []ObservationDeletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range deletions {
		entity, ok := s.entities[d.EntityName]
		if !ok {
			return errEntityNotFound(d.EntityName)
		}

		toDelete := make(map[string]bool, len(d.Observations))
		for _, obs := range d.Observations {
			toDelete[obs] = true
		}

		kept := pie.Filter(entity.Observations, func(obs string) bool {
			return !toDelete[obs]
		})
		entity.Observations = kept
	}

	slog.Info("Deleted observations", "entities", len(deletions))

	return nil
}

// DeleteRelations removes every relation whose triple exactly matches an
// item. Absent triples are no-ops.
func (s *Service) DeleteRelations(relations []Relation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, target := range relations {
		s.relations = pie.Filter(s.relations, func(r Relation) bool {
			return r != target
		})
	}

	slog.Info("Deleted relations", "count", len(relations))
}

// ReadGraph returns a snapshot of the full graph.
func (s *Service) ReadGraph() KnowledgeGraph {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := emptyGraph()

	for _, name := range s.order {
		result.Entities[name] = s.cloneEntity(name)
	}
	result.Relations = append(result.Relations, s.relations...)

	return result
}

// SearchNodes returns entities whose name, type or any observation
// contains the query, case-insensitively. An empty query matches
// everything. Relations are included only when both endpoints matched.
func (s *Service) SearchNodes(query string) KnowledgeGraph {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	result := emptyGraph()

	for _, name := range s.order {
		if s.entityMatches(s.entities[name], needle) {
			result.Entities[name] = s.cloneEntity(name)
		}
	}

	result.Relations = append(result.Relations, pie.Filter(s.relations, func(r Relation) bool {
		_, fromMatched := result.Entities[r.From]
		_, toMatched := result.Entities[r.To]
		return fromMatched && toMatched
	})...)

	slog.Info("Search completed",
		"query", query,
		"entities", len(result.Entities),
		"relations", len(result.Relations),
	)

	return result
}

// OpenNodes returns the entities whose names were requested, silently
// skipping names that do not resolve. Relation filtering uses the
// requested name list, not the resolved entity set: a relation between two
// requested names survives even when other requested names resolved to
// nothing.
func (s *Service) OpenNodes(names []string) KnowledgeGraph {
	s.mu.Lock()
	defer s.mu.Unlock()

	requested := make(map[string]bool, len(names))
	for _, name := range names {
		requested[name] = true
	}

	result := emptyGraph()

	for _, name := range s.order {
		if requested[name] {
			result.Entities[name] = s.cloneEntity(name)
		}
	}

	result.Relations = append(result.Relations, pie.Filter(s.relations, func(r Relation) bool {
		return requested[r.From] && requested[r.To]
	})...)

	return result
}

// Counts reports entity and relation totals for the health endpoint.
func (s *Service) Counts() (entities, relations int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entities), len(s.relations)
}

func (s *Service) entityMatches(e *Entity, needle string) bool {
	if strings.Contains(strings.ToLower(e.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(e.EntityType), needle) {
		return true
	}

	return pie.Any(e.Observations, func(obs string) bool {
		return strings.Contains(strings.ToLower(obs), needle)
	})
}

func (s *Service) cloneEntity(name string) Entity {
	e := s.entities[name]

	return Entity{
		Name:         e.Name,
		EntityType:   e.EntityType,
		Observations: append([]string{}, e.Observations...),
	}
}

func emptyGraph() KnowledgeGraph {
	return KnowledgeGraph{
		Entities:  make(map[string]Entity),
		Relations: []Relation{},
	}
}
