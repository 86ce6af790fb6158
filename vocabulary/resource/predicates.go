package resource

import "github.com/c360studio/semstreams/vocabulary"

// Retrieval metadata predicates, set on the status entity of a resource.
const (
	// FetchURI is the URI the description was requested from.
	FetchURI = "resource.fetch.uri"

	// FetchStatus is the retrieval outcome.
	// Values: indexed, absent, forbidden, deleted
	FetchStatus = "resource.fetch.status"

	// FetchHTTPStatus is the HTTP status code returned by the repository.
	FetchHTTPStatus = "resource.fetch.http_status"

	// FetchTripleCount is the number of triples in the fetched graph.
	FetchTripleCount = "resource.fetch.triple_count"

	// FetchRetrievedAt is when the retrieval completed (RFC3339).
	FetchRetrievedAt = "resource.fetch.retrieved_at"

	// FetchEvent is the event type that triggered the retrieval.
	FetchEvent = "resource.fetch.event"

	// FetchID correlates log lines and entities from one retrieval.
	FetchID = "resource.fetch.id"
)

// Statement predicates, set on subject entities.
const (
	// StatementOf links a subject entity to the status entity of the
	// resource whose description mentioned it.
	StatementOf = "resource.rdf.statement_of"

	// SubjectIRI is the original RDF subject (IRI or blank node label).
	SubjectIRI = "resource.rdf.subject"
)

func init() {
	vocabulary.Register(FetchURI,
		vocabulary.WithDescription("URI the resource description was fetched from"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(DcIdentifier))

	vocabulary.Register(FetchStatus,
		vocabulary.WithDescription("Retrieval outcome: indexed, absent, forbidden, deleted"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"fetchStatus"))

	vocabulary.Register(FetchHTTPStatus,
		vocabulary.WithDescription("HTTP status code returned by the repository"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(Namespace+"httpStatus"))

	vocabulary.Register(FetchTripleCount,
		vocabulary.WithDescription("Number of triples in the fetched description"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(Namespace+"tripleCount"))

	vocabulary.Register(FetchRetrievedAt,
		vocabulary.WithDescription("Timestamp of the retrieval (RFC3339)"),
		vocabulary.WithDataType("datetime"),
		vocabulary.WithIRI(ProvGeneratedAtTime))

	vocabulary.Register(FetchEvent,
		vocabulary.WithDescription("Event type that triggered the retrieval: create, update, delete"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"event"))

	vocabulary.Register(FetchID,
		vocabulary.WithDescription("Correlation ID of a single retrieval"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"fetchId"))

	vocabulary.Register(StatementOf,
		vocabulary.WithDescription("Links a described subject to the resource it was fetched with"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(ProvWasDerivedFrom))

	vocabulary.Register(SubjectIRI,
		vocabulary.WithDescription("Original RDF subject term"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"subject"))
}
