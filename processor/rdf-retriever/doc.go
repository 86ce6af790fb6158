// Package rdfretriever provides a NATS consumer component that retrieves RDF
// descriptions of repository resources and publishes them to the knowledge
// graph.
//
// # Overview
//
// The rdf-retriever consumes resource change events, fetches the current
// description of each created or updated resource as N-Triples, and
// publishes one entity per described subject plus a status entity for the
// resource itself. Delete events only publish a status entity.
//
// # Architecture
//
//   - Component: NATS consumer lifecycle management and message disposition
//   - Handler: runs a retriever.Client per event and builds entities
//   - transport.NewHTTPClient: timeouts, pooling and credentials
//
// # Failure Handling
//
// Retrieval failures are classified by the retriever error types:
//
//   - 404 and 403: recorded as absent / forbidden, message acked
//   - 5xx, 408, 429 and connectivity failures: message nak'd for redelivery
//   - other statuses, parse failures and invalid events: message terminated
//
// # Entity Model
//
// For each indexed resource the retriever creates:
//
//   - One entity per RDF subject, keyed by a hash of the subject IRI
//     (blank nodes are scoped to the resource URI)
//   - One status entity carrying resource.fetch.* predicates
//
// Subject entities are published before the status entity to the
// "graph.ingest.entity" subject.
//
// # Configuration
//
//   - FetchTimeout: HTTP request timeout (default 30s)
//   - UserAgent: HTTP User-Agent header value
//   - Username/Password or BearerToken: repository credentials
//   - MaxDeliver, AckWait: JetStream redelivery settings
//
// # Usage
//
//	import rdfretriever "github.com/c360studio/semrdf/processor/rdf-retriever"
//
//	func main() {
//	    rdfretriever.Register(registry)
//	    // Component started automatically when configured
//	}
package rdfretriever
