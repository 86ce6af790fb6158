package rdfretriever

import (
	"errors"
	"net/http"

	"github.com/c360studio/semrdf/retriever"
)

// disposition is what happens to a JetStream message after handling.
type disposition int

const (
	// dispositionAck completes the message.
	dispositionAck disposition = iota
	// dispositionNak requests redelivery.
	dispositionNak
	// dispositionTerm drops the message without redelivery.
	dispositionTerm
)

func (d disposition) String() string {
	switch d {
	case dispositionAck:
		return "ack"
	case dispositionNak:
		return "nak"
	case dispositionTerm:
		return "term"
	default:
		return "unknown"
	}
}

// classify decides the disposition of a message whose handling returned err.
// Failures that a later attempt may resolve are redelivered; the rest are
// terminated so they stop consuming deliveries.
func classify(err error) disposition {
	if err == nil {
		return dispositionAck
	}
	if errors.Is(err, ErrInvalidEvent) {
		return dispositionTerm
	}

	switch retriever.Kind(err) {
	case retriever.KindConnectivity:
		return dispositionNak
	case retriever.KindParse:
		return dispositionTerm
	case retriever.KindStatus:
		code, _ := retriever.StatusCode(err)
		if code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout {
			return dispositionNak
		}
		return dispositionTerm
	default:
		return dispositionNak
	}
}
