// Package rdf provides the in-memory RDF graph model and the N-Triples codec
// used when retrieving resource descriptions.
//
// # Overview
//
// A Graph is a set of Triples. Each Triple has a subject (IRI or blank node),
// a predicate (IRI) and an object (IRI, blank node or literal). Adding the
// same triple twice leaves the graph unchanged; insertion order is not kept.
//
// # Literals
//
// Literals are normalized on construction and on insertion so that RDF 1.1
// term equality holds for Go equality:
//
//   - a literal typed xsd:string is stored as a plain literal
//   - a language-tagged literal never carries a datatype
//
// # Serialization
//
// N-Triples (media type "application/n-triples") is the only wire format.
// Parsing and serialization delegate to the json-gold N-Quads codec;
// documents that name a graph are rejected.
//
// # Usage
//
//	g, err := rdf.ParseNTriples(body)
//	if err != nil {
//	    return err
//	}
//	for _, t := range g.Triples() {
//	    fmt.Println(t)
//	}
package rdf
