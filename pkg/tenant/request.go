package tenant

import (
	"net/http"
	"net/url"
)

// Request is the view of an inbound request that identification
// strategies operate on. Strategies never see the raw transport
// object, which keeps them usable from jobs and CLI invocations.
type Request struct {
	Host   string
	Path   string
	Header http.Header
	Query  url.Values
}

// FromHTTP builds a Request view from an *http.Request.
func FromHTTP(r *http.Request) Request {
	return Request{
		Host:   r.Host,
		Path:   r.URL.Path,
		Header: r.Header,
		Query:  r.URL.Query(),
	}
}
