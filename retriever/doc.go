// Package retriever fetches the RDF description of a single resource over
// HTTP and returns it as an rdf.Graph or a classified error.
//
// # Overview
//
// A Client is bound to one resource URI and one transport (any Doer, such as
// *http.Client). Each Fetch performs a GET with an N-Triples Accept header,
// checks the status code, reads the whole body and parses it. Nothing is
// cached between calls.
//
// # Errors
//
// Every failure is one of three types, matched with errors.As:
//
//   - *ConnectivityError: the request could not be sent or no response arrived
//   - *StatusError: the server answered outside 200-299; the body is not read
//   - *ParseError: the body could not be read or is not valid N-Triples
//
// IsNotFound and IsForbidden distinguish absence from authorization failure.
// Retrying, skipping or aborting is left to the caller.
//
// # Transport
//
// Timeouts, TLS, pooling and credentials belong to the Doer. The transport
// package builds a suitable *http.Client.
//
// # Usage
//
//	client := retriever.New("https://repo.example.org/rest/item/1", httpClient)
//	graph, err := client.Fetch(ctx)
//	switch {
//	case retriever.IsNotFound(err):
//	    // resource is gone
//	case err != nil:
//	    return err
//	}
package retriever
