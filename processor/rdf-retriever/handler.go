package rdfretriever

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semrdf/rdf"
	"github.com/c360studio/semrdf/retriever"
	"github.com/c360studio/semrdf/vocabulary/resource"
	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/google/uuid"
)

// ErrInvalidEvent is returned by Handle for events that can never succeed.
var ErrInvalidEvent = errors.New("invalid resource event")

// Handler turns resource events into graph entities.
type Handler struct {
	doer     retriever.Doer
	platform component.PlatformMeta
	source   string
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandler creates a handler that retrieves descriptions through doer.
func NewHandler(doer retriever.Doer, platform component.PlatformMeta, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		doer:     doer,
		platform: platform,
		source:   componentName,
		logger:   logger,
		now:      time.Now,
	}
}

// Result is the outcome of handling one event.
type Result struct {
	FetchID     string
	URI         string
	Status      resource.FetchStatusType
	HTTPStatus  int
	TripleCount int

	// Entities holds the subject entities followed by the resource status
	// entity, which is always last.
	Entities []*ResourceEntityPayload
}

// StatusEntity returns the resource status entity.
func (r *Result) StatusEntity() *ResourceEntityPayload {
	if len(r.Entities) == 0 {
		return nil
	}
	return r.Entities[len(r.Entities)-1]
}

// Handle processes one resource event. Create and update events retrieve the
// resource; delete events only record the deletion. A 404 or 403 answer is
// recorded on the status entity and is not an error. Every other retrieval
// failure is returned unchanged so callers can classify it.
func (h *Handler) Handle(ctx context.Context, event ResourceEvent) (*Result, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	now := h.now()
	result := &Result{
		FetchID: uuid.NewString(),
		URI:     event.URI,
	}

	if event.Type == resource.EventDelete {
		result.Status = resource.FetchStatusDeleted
		result.Entities = []*ResourceEntityPayload{h.buildStatusEntity(event, result, now)}
		return result, nil
	}

	description, err := retriever.New(event.URI, h.doer).Fetch(ctx)
	switch {
	case err == nil:
		result.Status = resource.FetchStatusIndexed
		result.HTTPStatus = http.StatusOK
		result.TripleCount = description.Len()
	case retriever.IsNotFound(err):
		result.Status = resource.FetchStatusAbsent
		result.HTTPStatus = http.StatusNotFound
	case retriever.IsForbidden(err):
		result.Status = resource.FetchStatusForbidden
		result.HTTPStatus = http.StatusForbidden
	default:
		return nil, err
	}

	if description != nil {
		result.Entities = h.buildSubjectEntities(event.URI, description, result.FetchID, now)
	}
	result.Entities = append(result.Entities, h.buildStatusEntity(event, result, now))

	h.logger.Debug("Resource handled",
		"uri", event.URI,
		"fetch_id", result.FetchID,
		"status", result.Status,
		"triples", result.TripleCount)

	return result, nil
}

// buildStatusEntity creates the entity describing the retrieval itself.
func (h *Handler) buildStatusEntity(event ResourceEvent, result *Result, now time.Time) *ResourceEntityPayload {
	entityID := h.ResourceEntityID(event.URI)
	triple := func(predicate string, object any) message.Triple {
		return message.Triple{
			Subject:    entityID,
			Predicate:  predicate,
			Object:     object,
			Source:     h.source,
			Timestamp:  now,
			Confidence: 1.0,
			Context:    result.FetchID,
		}
	}

	triples := []message.Triple{
		triple(resource.FetchURI, event.URI),
		triple(resource.FetchStatus, string(result.Status)),
		triple(resource.FetchEvent, string(event.Type)),
		triple(resource.FetchID, result.FetchID),
		triple(resource.FetchRetrievedAt, now.Format(time.RFC3339)),
	}
	if result.HTTPStatus != 0 {
		triples = append(triples, triple(resource.FetchHTTPStatus, result.HTTPStatus))
	}
	if result.Status == resource.FetchStatusIndexed {
		triples = append(triples, triple(resource.FetchTripleCount, result.TripleCount))
	}

	return &ResourceEntityPayload{
		EntityID_:  entityID,
		TripleData: triples,
		UpdatedAt:  now,
	}
}

// buildSubjectEntities groups the graph's statements by subject.
func (h *Handler) buildSubjectEntities(uri string, description *rdf.Graph, fetchID string, now time.Time) []*ResourceEntityPayload {
	statusID := h.ResourceEntityID(uri)
	subjects := description.Subjects()
	entities := make([]*ResourceEntityPayload, 0, len(subjects))

	for _, subject := range subjects {
		entityID := h.SubjectEntityID(uri, subject)
		base := message.Triple{
			Subject:    entityID,
			Source:     h.source,
			Timestamp:  now,
			Confidence: 1.0,
			Context:    fetchID,
		}

		statements := description.WithSubject(subject)
		triples := make([]message.Triple, 0, len(statements)+2)

		t := base
		t.Predicate, t.Object = resource.SubjectIRI, subjectValue(subject)
		triples = append(triples, t)

		t = base
		t.Predicate, t.Object = resource.StatementOf, statusID
		triples = append(triples, t)

		for _, st := range statements {
			t = base
			t.Predicate = st.P.Value
			t.Object, t.Datatype = h.objectValue(uri, st.O)
			triples = append(triples, t)
		}

		entities = append(entities, &ResourceEntityPayload{
			EntityID_:  entityID,
			TripleData: triples,
			UpdatedAt:  now,
		})
	}
	return entities
}

// objectValue converts an RDF object into a triple object and datatype hint.
// Blank nodes become references to their scoped subject entity.
func (h *Handler) objectValue(uri string, term rdf.Term) (any, string) {
	switch o := term.(type) {
	case rdf.IRI:
		return o.Value, ""
	case rdf.BlankNode:
		return h.SubjectEntityID(uri, o), ""
	case rdf.Literal:
		if o.Lang != "" {
			return o.Lexical, rdf.RDFLangString
		}
		return o.Lexical, o.Datatype.Value
	default:
		return term.String(), ""
	}
}

func subjectValue(t rdf.Term) string {
	if iri, ok := t.(rdf.IRI); ok {
		return iri.Value
	}
	return t.String()
}

// ResourceEntityID returns the status entity ID for a resource URI.
func (h *Handler) ResourceEntityID(uri string) string {
	return h.entityID("resource", computeHash(uri))
}

// SubjectEntityID returns the entity ID for a subject found in the
// description of uri. IRIs are global; blank nodes are scoped to uri.
func (h *Handler) SubjectEntityID(uri string, subject rdf.Term) string {
	if b, ok := subject.(rdf.BlankNode); ok {
		return h.entityID("subject", computeHash(uri+" "+b.String()))
	}
	return h.entityID("subject", computeHash(subjectValue(subject)))
}

func (h *Handler) entityID(kind, hash string) string {
	org, platform := h.platform.Org, h.platform.Platform
	if org == "" {
		org = "c360"
	}
	if platform == "" {
		platform = "semrdf"
	}
	return graph.EntityID(org, platform, "resource", "rdf", kind, hash)
}

// computeHash returns the first 16 hex characters of the SHA256 of s.
func computeHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
