package toolserver

import (
	"context"
	"encoding/json"

	"graphmem/app/service/graph"

	"github.com/mark3labs/mcp-go/mcp"
)

type createEntitiesArgs struct {
	Entities []graph.Entity `json:"entities"`
}

type createRelationsArgs struct {
	Relations []graph.Relation `json:"relations"`
}

type addObservationsArgs struct {
	Observations []graph.ObservationAddition `json:"observations"`
}

type deleteEntitiesArgs struct {
	EntityNames []string `json:"entityNames"`
}

type deleteObservationsArgs struct {
	Deletions []graph.ObservationDeletion `json:"deletions"`
}

type deleteRelationsArgs struct {
	Relations []graph.Relation `json:"relations"`
}

type searchNodesArgs struct {
	Query string `json:"query"`
}

type openNodesArgs struct {
	Names []string `json:"names"`
}

type createEntitiesResult struct {
	Success         bool `json:"success"`
	EntitiesCreated int  `json:"entitiesCreated"`
}

type createRelationsResult struct {
	Success          bool `json:"success"`
	RelationsCreated int  `json:"relationsCreated"`
}

type statusResult struct {
	Success bool `json:"success"`
}

func (s *Service) handleCreateEntities(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createEntitiesArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	count := s.graphSvc.CreateEntities(args.Entities)

	return jsonResult(createEntitiesResult{
		Success:         true,
		EntitiesCreated: count,
	})
}

func (s *Service) handleCreateRelations(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createRelationsArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	count, err := s.graphSvc.CreateRelations(args.Relations)
	if err != nil {
		return storeError(err), nil
	}

	return jsonResult(createRelationsResult{
		Success:          true,
		RelationsCreated: count,
	})
}

func (s *Service) handleAddObservations(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addObservationsArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	if err := s.graphSvc.AddObservations(args.Observations); err != nil {
		return storeError(err), nil
	}

	return jsonResult(statusResult{Success: true})
}

func (s *Service) handleDeleteEntities(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args deleteEntitiesArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	s.graphSvc.DeleteEntities(args.EntityNames)

	return jsonResult(statusResult{Success: true})
}

func (s *Service) handleDeleteObservations(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args deleteObservationsArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	if err := s.graphSvc.DeleteObservations(args.Deletions); err != nil {
		return storeError(err), nil
	}

	return jsonResult(statusResult{Success: true})
}

func (s *Service) handleDeleteRelations(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args deleteRelationsArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	s.graphSvc.DeleteRelations(args.Relations)

	return jsonResult(statusResult{Success: true})
}

func (s *Service) handleReadGraph(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.graphSvc.ReadGraph())
}

func (s *Service) handleSearchNodes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchNodesArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	return jsonResult(s.graphSvc.SearchNodes(args.Query))
}

func (s *Service) handleOpenNodes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args openNodesArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	return jsonResult(s.graphSvc.OpenNodes(args.Names))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to marshal result", err), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

// storeError surfaces a graph failure as a tool error. Earlier items of the
// same batch stay applied; only the failing item and everything after it
// were skipped.
func storeError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
