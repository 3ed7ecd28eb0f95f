package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"rdfportal/internal/authz"
	"rdfportal/internal/cache"
	"rdfportal/internal/models"
	"rdfportal/internal/repository"
)

// QueryService is the mocked SPARQL execution surface. There is no real
// triple store behind it; executions return canonical bindings, and what an
// actor sees depends on their role.
type QueryService struct {
	queries repository.QueryRepository
}

type SaveQueryInput struct {
	UserID      string
	Title       string
	Description *string
	SPARQL      string
	IsPublic    bool
}

// ExecuteResult is one execution outcome handed back to the HTTP layer.
type ExecuteResult struct {
	Message string         `json:"message"`
	Query   string         `json:"query,omitempty"`
	Results models.JSONMap `json:"results,omitempty"`
	Data    models.JSONMap `json:"data,omitempty"`
}

func NewQueryService(queries repository.QueryRepository) *QueryService {
	return &QueryService{queries: queries}
}

// demoResults is what unauthenticated visitors see: a fixed sample with none
// of their input echoed back.
func demoResults() models.JSONMap {
	return models.JSONMap{
		"query": "SELECT ?person WHERE { ?person a <http://example.org/Person> } LIMIT 5",
		"results": map[string]any{
			"head": map[string]any{"vars": []any{"person"}},
			"results": map[string]any{
				"bindings": []any{
					map[string]any{"person": map[string]any{"type": "uri", "value": "http://example.org/person1"}},
					map[string]any{"person": map[string]any{"type": "uri", "value": "http://example.org/person2"}},
					map[string]any{"person": map[string]any{"type": "uri", "value": "http://example.org/person3"}},
				},
			},
		},
	}
}

// mockResults is the canonical subject/predicate/object binding set returned
// for every authenticated execution.
func mockResults() models.JSONMap {
	return models.JSONMap{
		"head": map[string]any{"vars": []any{"subject", "predicate", "object"}},
		"results": map[string]any{
			"bindings": []any{
				map[string]any{
					"subject":   map[string]any{"type": "uri", "value": "http://example.org/resource1"},
					"predicate": map[string]any{"type": "uri", "value": "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
					"object":    map[string]any{"type": "uri", "value": "http://example.org/Type"},
				},
				map[string]any{
					"subject":   map[string]any{"type": "uri", "value": "http://example.org/resource1"},
					"predicate": map[string]any{"type": "uri", "value": "http://example.org/property"},
					"object":    map[string]any{"type": "literal", "value": "Property Value"},
				},
				map[string]any{
					"subject":   map[string]any{"type": "uri", "value": "http://example.org/resource2"},
					"predicate": map[string]any{"type": "uri", "value": "http://example.org/relatedTo"},
					"object":    map[string]any{"type": "uri", "value": "http://example.org/resource1"},
				},
			},
		},
	}
}

func queryHash(sparql string) string {
	sum := sha256.Sum256([]byte(sparql))
	return hex.EncodeToString(sum[:])
}

// Execute runs a query for the given actor. A nil actor is a guest and gets
// the demo payload with nothing recorded. User and admin executions return
// the canonical bindings, cached per query text, and land in query_history.
func (s *QueryService) Execute(ctx context.Context, actor *models.Profile, sparql string) (*ExecuteResult, error) {
	if actor == nil || !authz.Can(actor.Role, authz.ActionExecuteQuery) {
		return &ExecuteResult{
			Message: "Demo data for guest users",
			Data:    demoResults(),
		}, nil
	}

	var results models.JSONMap
	err := cache.Aside(ctx, cache.QueryResultKey(queryHash(sparql)), &results, cache.QueryResultTTL, func() error {
		results = mockResults()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Simulated execution time; the mock engine answers instantly.
	const elapsed = 123

	history := &models.QueryHistory{
		UserID:          actor.ID,
		QueryContent:    models.JSONMap{"sparql": sparql},
		Results:         results,
		ExecutionTimeMS: elapsed,
		Status:          models.QueryCompleted,
	}
	if err := s.queries.RecordHistory(ctx, history); err != nil {
		return nil, err
	}

	return &ExecuteResult{
		Message: "Query executed successfully",
		Query:   sparql,
		Results: results,
	}, nil
}

// SaveQuery stores a query for later reuse by its owner.
func (s *QueryService) SaveQuery(ctx context.Context, actor *models.Profile, in SaveQueryInput) (*models.SavedQuery, error) {
	if actor == nil || !authz.Can(actor.Role, authz.ActionSaveQuery) {
		return nil, models.NewForbiddenError("Your account is not approved to save queries")
	}
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required to save a query")
	}
	if len(in.Title) > 200 {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}

	saved := &models.SavedQuery{
		UserID:       actor.ID,
		Title:        in.Title,
		Description:  in.Description,
		QueryContent: models.JSONMap{"sparql": in.SPARQL},
		IsPublic:     in.IsPublic,
	}
	if err := s.queries.SaveQuery(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// ListSaved returns the actor's saved queries, newest first.
func (s *QueryService) ListSaved(ctx context.Context, actor *models.Profile, page, limit int) ([]models.SavedQuery, repository.Page, error) {
	if actor == nil || !authz.Can(actor.Role, authz.ActionSaveQuery) {
		return nil, repository.Page{}, models.NewForbiddenError("Your account is not approved to view saved queries")
	}
	return s.queries.ListSaved(ctx, actor.ID, page, limit)
}

// DeleteSaved removes one of the actor's saved queries. Only the owner's
// rows are reachable; a foreign id reads as not found.
func (s *QueryService) DeleteSaved(ctx context.Context, actor *models.Profile, id uint) error {
	if actor == nil || !authz.Can(actor.Role, authz.ActionSaveQuery) {
		return models.NewForbiddenError("Your account is not approved to delete saved queries")
	}
	return s.queries.DeleteSaved(ctx, actor.ID, id)
}

// History returns the actor's execution history, newest first.
func (s *QueryService) History(ctx context.Context, actor *models.Profile, page, limit int) ([]models.QueryHistory, repository.Page, error) {
	if actor == nil || !authz.Can(actor.Role, authz.ActionViewHistory) {
		return nil, repository.Page{}, models.NewForbiddenError("Your account is not approved to view query history")
	}
	return s.queries.ListHistory(ctx, actor.ID, page, limit)
}
