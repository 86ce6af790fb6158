package retriever

import (
	"context"
	"io"
	"net/http"

	"github.com/c360studio/semrdf/rdf"
)

// Doer sends an HTTP request and returns its response. *http.Client
// satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client retrieves the RDF description of one resource.
// It holds no mutable state; concurrent Fetch calls are safe when the Doer is.
type Client struct {
	uri  string
	doer Doer
}

// New returns a Client for uri. It performs no I/O.
func New(uri string, doer Doer) *Client {
	return &Client{uri: uri, doer: doer}
}

// URI returns the resource identifier the client is bound to.
func (c *Client) URI() string {
	return c.uri
}

// Fetch performs the full request, status check and parse. On success the
// returned graph is owned by the caller.
func (c *Client) Fetch(ctx context.Context) (*rdf.Graph, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uri, nil)
	if err != nil {
		return nil, &ConnectivityError{URI: c.uri, Err: err}
	}
	req.Header.Set("Accept", rdf.MediaTypeNTriples)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &ConnectivityError{URI: c.uri, Err: err}
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return nil, &StatusError{URI: c.uri, Code: resp.StatusCode}
	}

	if resp.Body == nil {
		return nil, &ParseError{URI: c.uri, Err: io.ErrUnexpectedEOF}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ParseError{URI: c.uri, Err: err}
	}

	graph, err := rdf.ParseNTriples(data)
	if err != nil {
		return nil, &ParseError{URI: c.uri, Err: err}
	}
	return graph, nil
}
