package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"bankreco/internal/core/apperror"
	"bankreco/internal/core/i18n"
)

// ErrSessionExpired is returned when the backend still answers 401 after
// a token refresh, or when the refresh itself fails. The user must log in
// again.
var ErrSessionExpired = errors.New("backend: session expired")

// NoResponseError is a transport failure: the backend never answered.
type NoResponseError struct {
	Method string
	URL    string
	Err    error
}

func (e *NoResponseError) Error() string {
	return fmt.Sprintf("backend: no response to %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NoResponseError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx answer. The body is decoded the way the backend
// writes errors: a "detail" or "message" string, and otherwise a map of
// field name to messages.
type HTTPError struct {
	Status  int                 `json:"status"`
	Detail  string              `json:"detail,omitempty"`
	Message string              `json:"message,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Body    []byte              `json:"-"`
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend: %d: %s", e.Status, e.Summary())
}

// Summary returns the most specific message of the error.
func (e *HTTPError) Summary() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Message != "":
		return e.Message
	case len(e.Fields) > 0:
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		slices.Sort(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, name+": "+strings.Join(e.Fields[name], " "))
		}
		return strings.Join(parts, "; ")
	default:
		return http.StatusText(e.Status)
	}
}

// Translate returns a copy with every message looked up in the French
// dictionary. Other languages get the backend text verbatim.
func (e *HTTPError) Translate(lang i18n.Lang) *HTTPError {
	out := *e
	if lang != i18n.FR {
		return &out
	}
	out.Detail = translate(lang, e.Detail)
	out.Message = translate(lang, e.Message)
	if e.Fields != nil {
		out.Fields = make(map[string][]string, len(e.Fields))
		for name, msgs := range e.Fields {
			translated := make([]string, len(msgs))
			for i, m := range msgs {
				translated[i] = i18n.Translate(lang, m)
			}
			out.Fields[name] = translated
		}
	}
	return &out
}

func translate(lang i18n.Lang, s string) string {
	if s == "" {
		return s
	}
	return i18n.Translate(lang, s)
}

// IsStatus reports whether err is an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == status
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{Status: status, Body: body}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		// HTML error pages and the like
		return e
	}

	for key, value := range raw {
		switch key {
		case "detail":
			e.Detail = decodeMessages(value)[0]
		case "message":
			e.Message = decodeMessages(value)[0]
		default:
			if e.Fields == nil {
				e.Fields = make(map[string][]string)
			}
			e.Fields[key] = decodeMessages(value)
		}
	}
	return e
}

// decodeMessages accepts a string, a list of strings or any other JSON
// value, which is kept as raw text. The result is never empty.
func decodeMessages(value json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return []string{s}
	}
	var list []string
	if err := json.Unmarshal(value, &list); err == nil && len(list) > 0 {
		return list
	}
	return []string{string(value)}
}

// ToAppError converts a client error into the service error returned to
// dashboard users, translating messages for lang.
func ToAppError(err error, lang i18n.Lang) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrSessionExpired) {
		appErr := apperror.NewSessionExpired()
		appErr.Message = i18n.Translate(lang, i18n.KeySessionExpired)
		return appErr.WithCause(err)
	}

	var noResp *NoResponseError
	if errors.As(err, &noResp) {
		return apperror.NewUpstreamNoResponse(i18n.Translate(lang, i18n.KeyNoResponse), err)
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		t := httpErr.Translate(lang)
		appErr := apperror.NewUpstream(t.Status, t.Summary())
		if len(t.Fields) > 0 {
			appErr = appErr.WithDetail("fields", t.Fields)
		}
		return appErr.WithCause(err)
	}

	return err
}
