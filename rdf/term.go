package rdf

import (
	"fmt"
	"strconv"
)

// Well-known datatype IRIs.
const (
	XSDString     = "http://www.w3.org/2001/XMLSchema#string"
	RDFLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// String returns the kind name.
func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "iri"
	case TermBlankNode:
		return "blank"
	case TermLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is a value that can appear in an RDF statement.
// String renders the term in N-Triples syntax.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI is an absolute IRI reference.
type IRI struct {
	Value string
}

// NewIRI returns an IRI term.
func NewIRI(value string) IRI { return IRI{Value: value} }

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI enclosed in angle brackets.
func (i IRI) String() string { return "<" + i.Value + ">" }

// BlankNode is a document-scoped anonymous node.
type BlankNode struct {
	ID string
}

// NewBlankNode returns a blank node term with the given label (without "_:").
func NewBlankNode(id string) BlankNode { return BlankNode{ID: id} }

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the label prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal is a lexical value with an optional datatype or language tag.
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

// NewLiteral returns a plain literal.
func NewLiteral(lexical string) Literal { return Literal{Lexical: lexical} }

// NewTypedLiteral returns a literal with the given datatype IRI.
func NewTypedLiteral(lexical, datatype string) Literal {
	return Literal{Lexical: lexical, Datatype: IRI{Value: datatype}}.normalize()
}

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Lang: lang}.normalize()
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns the quoted literal with its language tag or datatype.
func (l Literal) String() string {
	quoted := strconv.Quote(l.Lexical)
	if l.Lang != "" {
		return quoted + "@" + l.Lang
	}
	if l.Datatype.Value != "" {
		return quoted + "^^" + l.Datatype.String()
	}
	return quoted
}

func (l Literal) normalize() Literal {
	if l.Lang != "" || l.Datatype.Value == XSDString || l.Datatype.Value == RDFLangString {
		l.Datatype = IRI{}
	}
	return l
}

func normalizeTerm(t Term) Term {
	if lit, ok := t.(Literal); ok {
		return lit.normalize()
	}
	return t
}

// Triple is a single subject-predicate-object statement.
type Triple struct {
	S Term
	P IRI
	O Term
}

// NewTriple returns a triple with normalized terms.
func NewTriple(s Term, p IRI, o Term) Triple {
	return Triple{S: normalizeTerm(s), P: p, O: normalizeTerm(o)}
}

// Validate reports whether the triple is a well-formed RDF statement.
func (t Triple) Validate() error {
	switch t.S.(type) {
	case IRI, BlankNode:
	case nil:
		return fmt.Errorf("rdf: missing subject")
	default:
		return fmt.Errorf("rdf: subject must be an IRI or blank node, got %s", t.S.Kind())
	}
	if t.P.Value == "" {
		return fmt.Errorf("rdf: missing predicate")
	}
	switch t.O.(type) {
	case IRI, BlankNode, Literal:
	default:
		return fmt.Errorf("rdf: missing object")
	}
	return nil
}

// String renders the triple as one N-Triples statement without a line break.
func (t Triple) String() string {
	return t.S.String() + " " + t.P.String() + " " + t.O.String() + " ."
}
