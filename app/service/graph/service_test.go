package graph_test

import (
	"testing"

	"graphmem/app/service/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *graph.Service {
	t.Helper()

	svc, err := graph.New(nil)
	require.NoError(t, err)

	return svc
}

func seedPeople(t *testing.T, svc *graph.Service) {
	t.Helper()

	svc.CreateEntities([]graph.Entity{
		{Name: "Alice", EntityType: "person", Observations: []string{"likes tea"}},
		{Name: "Bob", EntityType: "person", Observations: []string{}},
	})

	_, err := svc.CreateRelations([]graph.Relation{
		{From: "Alice", To: "Bob", RelationType: "knows"},
	})
	require.NoError(t, err)
}

func TestCreateEntities_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	count := svc.CreateEntities([]graph.Entity{
		{Name: "Alice", EntityType: "person"},
	})
	assert.Equal(t, 1, count)

	result := svc.ReadGraph()

	require.Contains(t, result.Entities, "Alice")
	assert.Equal(t, graph.Entity{
		Name:         "Alice",
		EntityType:   "person",
		Observations: []string{},
	}, result.Entities["Alice"])
	assert.Empty(t, result.Relations)
}

func TestCreateEntities_OverwriteLastWins(t *testing.T) {
	svc := newTestService(t)

	svc.CreateEntities([]graph.Entity{
		{Name: "Alice", EntityType: "person", Observations: []string{"likes tea"}},
		{Name: "Alice", EntityType: "robot", Observations: []string{"beeps"}},
	})

	result := svc.ReadGraph()

	require.Len(t, result.Entities, 1)
	assert.Equal(t, "robot", result.Entities["Alice"].EntityType)
	assert.Equal(t, []string{"beeps"}, result.Entities["Alice"].Observations)
}

func TestCreateRelations_DuplicateTriplesAllowed(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	_, err := svc.CreateRelations([]graph.Relation{
		{From: "Alice", To: "Bob", RelationType: "knows"},
	})
	require.NoError(t, err)

	result := svc.ReadGraph()

	assert.Equal(t, []graph.Relation{
		{From: "Alice", To: "Bob", RelationType: "knows"},
		{From: "Alice", To: "Bob", RelationType: "knows"},
	}, result.Relations)
}

func TestCreateRelations_MissingEndpointStopsBatch(t *testing.T) {
	svc := newTestService(t)

	svc.CreateEntities([]graph.Entity{
		{Name: "Alice", EntityType: "person"},
		{Name: "Bob", EntityType: "person"},
	})

	_, err := svc.CreateRelations([]graph.Relation{
		{From: "Alice", To: "Bob", RelationType: "knows"},
		{From: "Alice", To: "ghost", RelationType: "haunts"},
		{From: "Bob", To: "Alice", RelationType: "knows"},
	})

	require.Error(t, err)
	assert.True(t, graph.IsEntityNotFound(err))
	assert.Equal(t, "ghost", graph.MissingEntity(err))

	// Non-atomic batch: the item before the failure stays applied, the one
	// after it was never reached.
	result := svc.ReadGraph()
	assert.Equal(t, []graph.Relation{
		{From: "Alice", To: "Bob", RelationType: "knows"},
	}, result.Relations)
}

func TestAddObservations_AppendsInOrder(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	err := svc.AddObservations([]graph.ObservationAddition{
		{EntityName: "Alice", Contents: []string{"drinks coffee", "likes tea"}},
	})
	require.NoError(t, err)

	result := svc.ReadGraph()

	// Duplicates are allowed and order is preserved.
	assert.Equal(t,
		[]string{"likes tea", "drinks coffee", "likes tea"},
		result.Entities["Alice"].Observations)
}

func TestAddObservations_MissingEntityStopsBatch(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	err := svc.AddObservations([]graph.ObservationAddition{
		{EntityName: "Alice", Contents: []string{"first"}},
		{EntityName: "ghost", Contents: []string{"never lands"}},
		{EntityName: "Bob", Contents: []string{"never lands either"}},
	})

	require.Error(t, err)
	assert.True(t, graph.IsEntityNotFound(err))
	assert.Equal(t, "ghost", graph.MissingEntity(err))

	result := svc.ReadGraph()
	assert.Equal(t, []string{"likes tea", "first"}, result.Entities["Alice"].Observations)
	assert.Empty(t, result.Entities["Bob"].Observations)
}

func TestDeleteEntities_CascadesRelations(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	_, err := svc.CreateRelations([]graph.Relation{
		{From: "Bob", To: "Alice", RelationType: "admires"},
	})
	require.NoError(t, err)

	svc.DeleteEntities([]string{"Alice"})

	result := svc.ReadGraph()

	assert.NotContains(t, result.Entities, "Alice")
	assert.Contains(t, result.Entities, "Bob")
	assert.Empty(t, result.Relations)
}

func TestDeleteEntities_Idempotent(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	svc.DeleteEntities([]string{"Alice"})
	after := svc.ReadGraph()

	svc.DeleteEntities([]string{"Alice"})

	assert.Equal(t, after, svc.ReadGraph())
}

func TestDeleteObservations_RemovesAllOccurrences(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	err := svc.AddObservations([]graph.ObservationAddition{
		{EntityName: "Alice", Contents: []string{"likes tea", "drinks coffee"}},
	})
	require.NoError(t, err)

	err = svc.DeleteObservations([]graph.ObservationDeletion{
		{EntityName: "Alice", Observations: []string{"likes tea"}},
	})
	require.NoError(t, err)

	result := svc.ReadGraph()
	assert.Equal(t, []string{"drinks coffee"}, result.Entities["Alice"].Observations)
}

func TestDeleteObservations_ToEmpty(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	err := svc.DeleteObservations([]graph.ObservationDeletion{
		{EntityName: "Alice", Observations: []string{"likes tea"}},
	})
	require.NoError(t, err)

	result := svc.ReadGraph()
	assert.Equal(t, []string{}, result.Entities["Alice"].Observations)
}

func TestDeleteObservations_MissingEntity(t *testing.T) {
	svc := newTestService(t)

	err := svc.DeleteObservations([]graph.ObservationDeletion{
		{EntityName: "ghost", Observations: []string{"anything"}},
	})

	require.Error(t, err)
	assert.True(t, graph.IsEntityNotFound(err))
}

func TestDeleteRelations_RemovesAllMatchingTriples(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	_, err := svc.CreateRelations([]graph.Relation{
		{From: "Alice", To: "Bob", RelationType: "knows"},
		{From: "Bob", To: "Alice", RelationType: "admires"},
	})
	require.NoError(t, err)

	// Deleting an absent triple is a no-op, not an error.
	svc.DeleteRelations([]graph.Relation{
		{From: "Alice", To: "Bob", RelationType: "knows"},
		{From: "Alice", To: "Bob", RelationType: "ignores"},
	})

	result := svc.ReadGraph()
	assert.Equal(t, []graph.Relation{
		{From: "Bob", To: "Alice", RelationType: "admires"},
	}, result.Relations)
}

func TestSearchNodes_EmptyQueryMatchesEverything(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	result := svc.SearchNodes("")

	assert.Len(t, result.Entities, 2)
	assert.Len(t, result.Relations, 1)
}

func TestSearchNodes_RelationNeedsBothEndpointsMatched(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	result := svc.SearchNodes("tea")

	require.Len(t, result.Entities, 1)
	assert.Contains(t, result.Entities, "Alice")
	// Bob does not match "tea", so the Alice->Bob relation is excluded.
	assert.Empty(t, result.Relations)
}

func TestSearchNodes_CaseInsensitiveAcrossFields(t *testing.T) {
	svc := newTestService(t)

	svc.CreateEntities([]graph.Entity{
		{Name: "Teapot", EntityType: "object"},
		{Name: "HQ", EntityType: "Building"},
		{Name: "Carol", EntityType: "person", Observations: []string{"Works at the BUILDING site"}},
	})

	byName := svc.SearchNodes("TEAPOT")
	assert.Contains(t, byName.Entities, "Teapot")

	byTypeAndObservation := svc.SearchNodes("building")
	assert.Contains(t, byTypeAndObservation.Entities, "HQ")
	assert.Contains(t, byTypeAndObservation.Entities, "Carol")
	assert.NotContains(t, byTypeAndObservation.Entities, "Teapot")
}

func TestOpenNodes_FiltersByRequestedNames(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	result := svc.OpenNodes([]string{"Alice", "Bob", "ghost"})

	assert.Len(t, result.Entities, 2)
	assert.NotContains(t, result.Entities, "ghost")
	// Relation filtering uses the requested name list, so Alice->Bob is
	// included even though "ghost" never resolved.
	assert.Equal(t, []graph.Relation{
		{From: "Alice", To: "Bob", RelationType: "knows"},
	}, result.Relations)
}

func TestOpenNodes_ExcludesRelationsToUnrequestedEntities(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	result := svc.OpenNodes([]string{"Alice"})

	assert.Len(t, result.Entities, 1)
	assert.Empty(t, result.Relations)
}

func TestReadGraph_SnapshotIsDetached(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	snapshot := svc.ReadGraph()
	obs := snapshot.Entities["Alice"].Observations
	obs[0] = "mutated"

	assert.Equal(t, []string{"likes tea"}, svc.ReadGraph().Entities["Alice"].Observations)
}

func TestCounts(t *testing.T) {
	svc := newTestService(t)
	seedPeople(t, svc)

	entities, relations := svc.Counts()

	assert.Equal(t, 2, entities)
	assert.Equal(t, 1, relations)
}
