package rdf

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var errNoStatement = errors.New("no statement")

// lineCursor scans a single N-Triples line. Comments are treated as
// whitespace that runs to the end of the line.
type lineCursor struct {
	input string
	pos   int
}

// parseLine returns errNoStatement for blank and comment-only lines.
func parseLine(line string) (Triple, error) {
	if !utf8.ValidString(line) {
		return Triple{}, errors.New("invalid UTF-8")
	}
	c := &lineCursor{input: line}
	c.skipWS()
	if c.eof() {
		return Triple{}, errNoStatement
	}

	s, err := c.parseSubject()
	if err != nil {
		return Triple{}, fmt.Errorf("subject: %w", err)
	}
	c.skipWS()
	if c.eof() || c.peek() != '<' {
		return Triple{}, errors.New("predicate must be an IRI")
	}
	p, err := c.parseIRI()
	if err != nil {
		return Triple{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := c.parseObject()
	if err != nil {
		return Triple{}, fmt.Errorf("object: %w", err)
	}

	c.skipWS()
	if c.eof() || c.peek() != '.' {
		if !c.eof() && (c.peek() == '<' || c.peek() == '_') {
			return Triple{}, errors.New("graph term not allowed")
		}
		return Triple{}, errors.New("expected '.' at end of statement")
	}
	c.pos++
	c.skipWS()
	if !c.eof() {
		return Triple{}, fmt.Errorf("unexpected content after '.' at column %d", c.pos+1)
	}
	return NewTriple(s, p, o), nil
}

func (c *lineCursor) eof() bool { return c.pos >= len(c.input) }

func (c *lineCursor) peek() byte { return c.input[c.pos] }

func (c *lineCursor) skipWS() {
	for !c.eof() {
		switch c.peek() {
		case ' ', '\t', '\r':
			c.pos++
		case '#':
			c.pos = len(c.input)
		default:
			return
		}
	}
}

func (c *lineCursor) parseSubject() (Term, error) {
	c.skipWS()
	switch {
	case c.eof():
		return nil, errors.New("unexpected end of line")
	case c.peek() == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.peek() == '"':
		return nil, errors.New("literal not allowed as subject")
	default:
		return nil, fmt.Errorf("unexpected token at column %d", c.pos+1)
	}
}

func (c *lineCursor) parseObject() (Term, error) {
	c.skipWS()
	if !c.eof() && c.peek() == '"' {
		return c.parseLiteral()
	}
	return c.parseSubject()
}

// parseIRI reads an IRIREF: no whitespace, no <>"{}|^` and backslash only
// as a \u or \U escape. The decoded value must carry a scheme.
func (c *lineCursor) parseIRI() (IRI, error) {
	c.skipWS()
	if c.eof() || c.peek() != '<' {
		return IRI{}, errors.New("expected IRI")
	}
	c.pos++

	var b strings.Builder
	for {
		if c.eof() {
			return IRI{}, errors.New("unterminated IRI")
		}
		ch := c.peek()
		switch {
		case ch == '>':
			c.pos++
			value := b.String()
			if !hasScheme(value) {
				return IRI{}, fmt.Errorf("IRI %q is not absolute", value)
			}
			return IRI{Value: value}, nil
		case ch == '\\':
			r, n, err := decodeUCHAR(c.input[c.pos:])
			if err != nil {
				return IRI{}, fmt.Errorf("IRI: %w", err)
			}
			if !iriRuneAllowed(r) {
				return IRI{}, fmt.Errorf("IRI: character %U not allowed", r)
			}
			b.WriteRune(r)
			c.pos += n
		default:
			r, size := utf8.DecodeRuneInString(c.input[c.pos:])
			if !iriRuneAllowed(r) {
				return IRI{}, fmt.Errorf("IRI: character %q not allowed", r)
			}
			b.WriteRune(r)
			c.pos += size
		}
	}
}

func (c *lineCursor) parseBlankNode() (BlankNode, error) {
	c.pos += len("_:")
	start := c.pos
	for !c.eof() {
		r, size := utf8.DecodeRuneInString(c.input[c.pos:])
		first := c.pos == start
		if !blankLabelRune(r, first) {
			break
		}
		c.pos += size
	}
	// A label may contain '.' but never end with one.
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if c.pos == start {
		return BlankNode{}, errors.New("blank node label missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *lineCursor) parseLiteral() (Literal, error) {
	c.pos++ // opening quote

	var b strings.Builder
	for {
		if c.eof() {
			return Literal{}, errors.New("unterminated literal")
		}
		ch := c.peek()
		if ch == '"' {
			c.pos++
			break
		}
		if ch == '\r' {
			return Literal{}, errors.New("raw carriage return in literal")
		}
		if ch != '\\' {
			b.WriteByte(ch)
			c.pos++
			continue
		}
		if c.pos+1 >= len(c.input) {
			return Literal{}, errors.New("unterminated escape")
		}
		switch esc := c.input[c.pos+1]; esc {
		case 'u', 'U':
			r, n, err := decodeUCHAR(c.input[c.pos:])
			if err != nil {
				return Literal{}, err
			}
			b.WriteRune(r)
			c.pos += n
		default:
			r, ok := echar(esc)
			if !ok {
				return Literal{}, fmt.Errorf("invalid escape \\%c", esc)
			}
			b.WriteByte(r)
			c.pos += 2
		}
	}
	lexical := b.String()

	if c.eof() {
		return NewLiteral(lexical), nil
	}
	switch {
	case c.peek() == '@':
		c.pos++
		start := c.pos
		for !c.eof() && langTagByte(c.peek()) {
			c.pos++
		}
		tag := c.input[start:c.pos]
		if !validLangTag(tag) {
			return Literal{}, fmt.Errorf("invalid language tag %q", tag)
		}
		return NewLangLiteral(lexical, tag), nil
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		if c.eof() || c.peek() != '<' {
			return Literal{}, errors.New("datatype must be an IRI")
		}
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, fmt.Errorf("datatype: %w", err)
		}
		return NewTypedLiteral(lexical, dt.Value), nil
	default:
		return NewLiteral(lexical), nil
	}
}

func echar(esc byte) (byte, bool) {
	switch esc {
	case 't':
		return '\t', true
	case 'b':
		return '\b', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 'f':
		return '\f', true
	case '"', '\'', '\\':
		return esc, true
	default:
		return 0, false
	}
}

// decodeUCHAR decodes a \uXXXX or \UXXXXXXXX sequence at the start of s and
// returns the rune and the number of bytes consumed.
func decodeUCHAR(s string) (rune, int, error) {
	if len(s) < 2 || s[0] != '\\' {
		return 0, 0, errors.New("expected escape")
	}
	var digits int
	switch s[1] {
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		return 0, 0, fmt.Errorf("invalid escape \\%c", s[1])
	}
	if len(s) < 2+digits {
		return 0, 0, errors.New("truncated unicode escape")
	}
	var r rune
	for i := 2; i < 2+digits; i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return 0, 0, fmt.Errorf("invalid unicode escape %q", s[:2+digits])
		}
		r = r<<4 | rune(d)
	}
	if r > unicode.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		return 0, 0, fmt.Errorf("invalid code point %q", s[:2+digits])
	}
	return r, 2 + digits, nil
}

func hexDigit(ch byte) (byte, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	default:
		return 0, false
	}
}

func iriRuneAllowed(r rune) bool {
	if r <= 0x20 || r == utf8.RuneError {
		return false
	}
	switch r {
	case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
		return false
	}
	return true
}

func hasScheme(iri string) bool {
	i := strings.IndexByte(iri, ':')
	if i < 1 {
		return false
	}
	for j := 0; j < i; j++ {
		ch := iri[j]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case j > 0 && (ch >= '0' && ch <= '9' || ch == '+' || ch == '-' || ch == '.'):
		default:
			return false
		}
	}
	return true
}

func blankLabelRune(r rune, first bool) bool {
	switch {
	case r == '_' || r == ':' || (r >= '0' && r <= '9'):
		return true
	case r == '-' || r == '.' || r == 0xB7:
		return !first
	case r < utf8.RuneSelf:
		return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
	default:
		return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r))
	}
}

func langTagByte(ch byte) bool {
	return ch == '-' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}

// validLangTag checks [a-zA-Z]+ ('-' [a-zA-Z0-9]+)*.
func validLangTag(tag string) bool {
	parts := strings.Split(tag, "-")
	for i, part := range parts {
		if part == "" {
			return false
		}
		for j := 0; j < len(part); j++ {
			ch := part[j]
			alpha := ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
			if !alpha && (i == 0 || ch < '0' || ch > '9') {
				return false
			}
		}
	}
	return true
}
