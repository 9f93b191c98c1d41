package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Response is a successful (2xx) reply from the gift-list service.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
}

// IsJSON reports whether the server declared a JSON body.
func (r *Response) IsJSON() bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// Text returns the raw body.
func (r *Response) Text() string {
	return string(r.Body)
}

// Data returns the decoded JSON value for JSON replies and the raw text otherwise.
func (r *Response) Data() interface{} {
	if !r.IsJSON() {
		return r.Text()
	}
	return r.Result().Value()
}

// Result returns the body as a gjson value. Non-JSON bodies yield an empty result.
func (r *Response) Result() gjson.Result {
	if !r.IsJSON() || len(r.Body) == 0 {
		return gjson.Result{}
	}
	return gjson.ParseBytes(r.Body)
}

// Decode unmarshals a JSON body into v.
func (r *Response) Decode(v interface{}) error {
	if !r.IsJSON() {
		return fmt.Errorf("response is not json: %q", r.Header.Get("Content-Type"))
	}
	return json.Unmarshal(r.Body, v)
}

// errorBody pulls a human-readable message and an optional code out of a
// failed reply. A JSON object body is read whatever the Content-Type says,
// using message, error or detail; anything else falls back to the status
// text.
func errorBody(status int, body []byte) (message, code string) {
	if res := gjson.ParseBytes(body); gjson.ValidBytes(body) && res.IsObject() {
		for _, key := range []string{"message", "error", "detail"} {
			if v := res.Get(key); v.Type == gjson.String && v.Str != "" {
				message = v.Str
				break
			}
		}
		if c := res.Get("code"); c.Type == gjson.String {
			code = c.Str
		}
		if message == "" {
			message = "Неизвестная ошибка"
		}
		return message, code
	}
	return http.StatusText(status), ""
}
