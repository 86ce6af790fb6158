package rdf

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/piprate/json-gold/ld"
)

// MediaTypeNTriples is the media type of the wire serialization.
const MediaTypeNTriples = "application/n-triples"

// defaultGraph is the json-gold dataset key for the unnamed graph.
const defaultGraph = "@default"

// SyntaxError reports content that is not well-formed N-Triples.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return "ntriples: " + e.Err.Error()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ParseNTriples parses a complete N-Triples document into a new graph.
// Every line must be blank, a comment, or exactly one statement.
func ParseNTriples(data []byte) (*Graph, error) {
	g := NewGraph()
	for i, line := range strings.Split(string(data), "\n") {
		t, err := parseLine(line)
		if errors.Is(err, errNoStatement) {
			continue
		}
		if err != nil {
			return nil, &SyntaxError{Err: fmt.Errorf("line %d: %w", i+1, err)}
		}
		if _, err := g.Add(t); err != nil {
			return nil, &SyntaxError{Err: fmt.Errorf("line %d: %w", i+1, err)}
		}
	}
	return g, nil
}

// DecodeNTriples reads r to EOF and parses it. Read failures are returned
// unwrapped so callers can tell them apart from a *SyntaxError.
func DecodeNTriples(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseNTriples(data)
}

// EncodeNTriples writes the graph as N-Triples, one statement per line,
// in sorted order.
func EncodeNTriples(w io.Writer, g *Graph) error {
	quads := make([]*ld.Quad, 0, g.Len())
	for _, t := range g.Triples() {
		quads = append(quads, ld.NewQuad(toNode(t.S), toNode(t.P), toNode(t.O), defaultGraph))
	}

	dataset := ld.NewRDFDataset()
	dataset.Graphs[defaultGraph] = quads

	out, err := (&ld.NQuadRDFSerializer{}).Serialize(dataset)
	if err != nil {
		return fmt.Errorf("serialize n-triples: %w", err)
	}
	text, ok := out.(string)
	if !ok {
		return fmt.Errorf("serialize n-triples: unexpected output type %T", out)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("write n-triples: %w", err)
	}
	return nil
}

func toNode(t Term) ld.Node {
	switch v := t.(type) {
	case IRI:
		return ld.NewIRI(v.Value)
	case BlankNode:
		return ld.NewBlankNode("_:" + v.ID)
	case Literal:
		switch {
		case v.Lang != "":
			return ld.NewLiteral(v.Lexical, RDFLangString, v.Lang)
		case v.Datatype.Value != "":
			return ld.NewLiteral(v.Lexical, v.Datatype.Value, "")
		default:
			return ld.NewLiteral(v.Lexical, XSDString, "")
		}
	default:
		return nil
	}
}
