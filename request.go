package weblog

import (
	"encoding/json"
	"net/http"
	"strings"
)

// jsonifyFailed is the fallback line written when a form body cannot be
// parsed or encoded.
const jsonifyFailed = "Failed to jsonify post data."

// FormatRequest renders request details as newline-joined lines: the full
// URL, the authenticated user when the registry's UserFunc reports one, the
// HTTP method, and for form-carrying methods the form payload as JSON.
//
// The request is otherwise treated as read-only, but rendering a form body
// populates r.Form and r.PostForm through ParseForm, consuming the body the
// way any form-reading handler would.
func (l *Logger) FormatRequest(r *http.Request) string {
	return strings.Join(l.requestLines(r), "\n")
}

func (l *Logger) requestLines(r *http.Request) []string {
	if r == nil {
		return nil
	}

	msgs := make([]string, 0, 4)
	if r.URL != nil {
		msgs = append(msgs, "URL: "+r.URL.RequestURI())
	}
	if userFunc := l.view().userFunc; userFunc != nil {
		if user, ok := userFunc(r); ok {
			msgs = append(msgs, "User: "+user)
		}
	}
	if r.Method != "" {
		msgs = append(msgs, "Method: "+r.Method)
		if carriesForm(r.Method) {
			msgs = append(msgs, formLine(r))
		}
	}
	return msgs
}

func carriesForm(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// formLine renders the form payload as a JSON object with one value per key,
// the last when a key repeats. Parse or encode failures degrade to the
// fallback line rather than propagating.
func formLine(r *http.Request) string {
	if err := r.ParseForm(); err != nil {
		return jsonifyFailed
	}

	payload := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) == 0 {
			continue
		}
		payload[key] = values[len(values)-1]
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return jsonifyFailed
	}
	return "Data: " + string(data)
}
