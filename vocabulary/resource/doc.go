// Package resource provides vocabulary predicates for resources retrieved from
// a linked-data repository and indexed into the graph.
//
// # Semstreams Integration
//
// This package follows semstreams vocabulary patterns:
//   - Predicates use three-level dotted notation (domain.category.property)
//   - Predicates are registered in init() using vocabulary.Register()
//   - IRI mappings use vocabulary.WithIRI() for RDF export compatibility
//
// # Entity Model
//
// Every retrieval produces one status entity for the requested URI carrying
// the fetch.* predicates, plus one entity per subject found in the fetched
// graph. Subject entities keep the original RDF predicate IRIs and are linked
// back to the status entity with StatementOf.
//
// # Fetch Status
//
//   - indexed: the description was fetched and parsed
//   - absent: the repository answered 404
//   - forbidden: the repository answered 403
//   - deleted: a delete event was received; nothing was fetched
package resource
