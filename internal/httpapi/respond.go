package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// successEnvelope is the JSON delivery shape.
type successEnvelope struct {
	Success bool `json:"success"`
	Result  any  `json:"result"`
}

// failEnvelope reports request-level failures (400, 405).
type failEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorEnvelope reports internal failures (500).
type errorEnvelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func (a *App) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	_ = enc.Encode(v)
}

// ok writes the success envelope around an arbitrary result.
func (a *App) ok(w http.ResponseWriter, result any) {
	a.writeJSON(w, http.StatusOK, successEnvelope{Success: true, Result: result})
}

// fail writes a client-fault envelope with the given status.
func (a *App) fail(w http.ResponseWriter, code int, msg string) {
	a.writeJSON(w, code, failEnvelope{Success: false, Message: msg})
}

// failInternal logs the error and writes the sanitized 500 envelope.
func (a *App) failInternal(w http.ResponseWriter, r *http.Request, err error) {
	a.Log.Error().Err(err).Str("path", r.URL.Path).Msg("pipeline failed")
	a.writeJSON(w, http.StatusInternalServerError, errorEnvelope{Error: true, Message: sanitizeError(err)})
}

// sanitizeError keeps raw value dumps out of client responses: error text
// that is empty or looks like a bare Go value stringification is replaced
// wholesale.
func sanitizeError(err error) string {
	if err == nil {
		return "Internal Server Error"
	}
	msg := err.Error()
	if msg == "" || strings.HasPrefix(msg, "{") || strings.HasPrefix(msg, "&{") || strings.HasPrefix(msg, "[object ") {
		return "Internal Server Error"
	}
	return msg
}

// deliver finishes an artifact-producing request according to the delivery
// contract: json beats raw beats redirect.
func (a *App) deliver(w http.ResponseWriter, r *http.Request, p Params, name string) {
	resultURL := a.fileURL(r, name)

	switch {
	case p.Bool("json"):
		a.ok(w, resultURL)
	case p.Bool("raw"):
		path, err := a.Store.Path(name)
		if err != nil {
			a.failInternal(w, r, err)
			return
		}
		http.ServeFile(w, r, path)
	default:
		http.Redirect(w, r, resultURL, http.StatusFound)
	}
}

// fileURL builds the public URL of an artifact.
func (a *App) fileURL(r *http.Request, name string) string {
	return a.baseURL(r) + "/file/" + name
}

// baseURL returns the service's public root. With no configured base URL
// the request's host is used, https assumed (the service sits behind a
// TLS-terminating proxy in every deployment shape it was built for).
func (a *App) baseURL(r *http.Request) string {
	base := a.Cfg.BaseURL
	if base == "" {
		base = "https://" + r.Host
	}
	return strings.TrimSuffix(base, "/")
}
