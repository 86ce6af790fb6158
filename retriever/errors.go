package retriever

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the category of a Fetch failure.
type ErrorKind string

const (
	KindConnectivity ErrorKind = "connectivity"
	KindStatus       ErrorKind = "status"
	KindParse        ErrorKind = "parse"
	KindUnknown      ErrorKind = "unknown"
)

// ConnectivityError means the exchange did not produce a response.
type ConnectivityError struct {
	URI string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("retrieve %s: connectivity: %v", e.URI, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// StatusError means the server responded with a non-2xx status code.
type StatusError struct {
	URI  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("retrieve %s: HTTP %d %s", e.URI, e.Code, http.StatusText(e.Code))
}

// ParseError means the body was unreadable or not valid N-Triples.
type ParseError struct {
	URI string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("retrieve %s: parse: %v", e.URI, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Kind classifies err. A nil error has an empty kind.
func Kind(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var connErr *ConnectivityError
	var statusErr *StatusError
	var parseErr *ParseError
	switch {
	case errors.As(err, &connErr):
		return KindConnectivity
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &parseErr):
		return KindParse
	default:
		return KindUnknown
	}
}

// StatusCode returns the HTTP status carried by a *StatusError in err's chain.
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code, true
	}
	return 0, false
}

// IsNotFound reports whether the resource does not exist at its URI (404).
func IsNotFound(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == http.StatusNotFound
}

// IsForbidden reports whether the request was rejected for authorization (403).
func IsForbidden(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == http.StatusForbidden
}
