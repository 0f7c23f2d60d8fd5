// Package request holds the small parsing steps every handler repeats:
// reading numeric path parameters and decoding JSON bodies.
package request

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
)

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// PathID parses the {name} path segment as a positive int64.
//
// r.PathValue works because Go 1.22+ ServeMux patterns name their
// wildcards: "GET /api/alunos/{id}".
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid %s: must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	if err != nil {
		return errors.Wrap(err, "malformed JSON body")
	}
	return nil
}
