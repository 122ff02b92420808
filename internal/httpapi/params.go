package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// maxBodyBytes caps request bodies (base64 video payloads are large).
const maxBodyBytes = 200 << 20

// Params is the normalized view of a request: query parameters merged with
// the body, body winning on conflicts. Handlers never look at the raw
// request shape.
type Params map[string]any

// parseParams merges query string, JSON body, and form body into one map.
// Malformed bodies are ignored rather than rejected: a handler's own
// required-field checks produce the client-facing message.
func parseParams(r *http.Request) Params {
	p := Params{}

	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			p[key] = values[0]
		}
	}

	if r.Body == nil {
		return p
	}

	ctype := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(ctype, "application/json"):
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			for key, value := range body {
				p[key] = value
			}
		}
	case strings.Contains(ctype, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err == nil {
			for key, values := range r.PostForm {
				if len(values) > 0 {
					p[key] = values[0]
				}
			}
		}
	}

	return p
}

// String returns the parameter as a string, or "" when absent or not
// string-shaped.
func (p Params) String(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}

// Bool applies the loose boolean rule used across the delivery contract:
// boolean true and the literal string "true" are truthy, anything else is
// falsy.
func (p Params) Bool(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// List returns the parameter as a string slice: an array keeps its
// string-shaped entries, a lone string becomes a one-element slice.
// nil means the parameter is absent.
func (p Params) List(key string) []string {
	switch v := p[key].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}

// Map returns a copy of all parameters, for passthrough to collaborator
// services.
func (p Params) Map() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// decodeBase64 validates and decodes a standard-encoding payload.
func decodeBase64(s string) ([]byte, bool) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return data, true
}
