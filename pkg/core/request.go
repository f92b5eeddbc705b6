package core

import (
	"net/url"
	"strings"
)

type Params map[string]any

// QueryParam is a single key/value query parameter. Parameters are kept as
// an ordered slice rather than a map: the rendered endpoint is part of the
// signature input, so the byte order must be deterministic and must match
// what goes on the wire.
type QueryParam struct {
	Key   string
	Value string
}

type Request struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Query   []QueryParam      `json:"query,omitempty"`
	Body    []byte            `json:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Headers: make(map[string]string),
	}
}

// AddQuery appends a query parameter, preserving insertion order. The same
// key may be added multiple times and is rendered once per addition.
func (r *Request) AddQuery(key, value string) *Request {
	r.Query = append(r.Query, QueryParam{Key: key, Value: value})
	return r
}

func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

// Endpoint renders the path plus query string: the first parameter is
// prefixed with '?', every subsequent one with '&'. This exact string is
// both signed and transmitted.
func (r *Request) Endpoint() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	var sb strings.Builder
	sb.WriteString(r.Path)
	for i, p := range r.Query {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(p.Key)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
