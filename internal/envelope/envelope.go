// Package envelope unwraps API response bodies.
//
// The server returns a payload in one of three shapes:
//
//	{"data": T}
//	{"data": T, "meta": {...}}
//	T
//
// Decode checks them in that priority order: a JSON object with a "data"
// key is an envelope, anything else is a bare payload. A payload that
// itself has a top-level "data" field therefore cannot be sent bare.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/carbonadmin/internal/apiclient"
)

var errEmptyBody = errors.New("empty body")
var errNullData = errors.New("data is null")

// Meta is the optional pagination block of an envelope.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	TotalPages int `json:"total_pages"`
}

// Page is a decoded list plus its meta block.
type Page[T any] struct {
	Items []T
	Meta  Meta
}

// Total returns meta.total when the server sent it, else the item count.
func (p Page[T]) Total() int {
	if p.Meta.Total > 0 {
		return p.Meta.Total
	}
	return len(p.Items)
}

// Decode extracts the payload of body into T. On any unrecognized shape
// it returns the zero T and an *apiclient.Error of KindDecode.
func Decode[T any](body []byte) (T, Meta, error) {
	var zero T
	payload, meta, err := split(body)
	if err != nil {
		return zero, Meta{}, apiclient.DecodeError(err)
	}
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, Meta{}, apiclient.DecodeError(fmt.Errorf("decoding payload: %w", err))
	}
	return out, meta, nil
}

// DecodePage decodes a list payload. A null list decodes to an empty one.
func DecodePage[T any](body []byte) (Page[T], error) {
	items, meta, err := Decode[[]T](body)
	if err != nil {
		return Page[T]{Items: []T{}}, err
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: meta}, nil
}

// OrDefault returns v unless err is non-nil, in which case it returns def.
// Views use it to degrade to an empty value instead of failing.
func OrDefault[T any](v T, err error, def T) T {
	if err != nil {
		return def
	}
	return v
}

func split(body []byte) (json.RawMessage, Meta, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, Meta{}, errEmptyBody
	}
	if !json.Valid(trimmed) {
		return nil, Meta{}, errors.New("invalid JSON")
	}
	if trimmed[0] != '{' {
		return trimmed, Meta{}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, Meta{}, err
	}
	data, ok := obj["data"]
	if !ok {
		return trimmed, Meta{}, nil
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, Meta{}, errNullData
	}

	var meta Meta
	if raw, ok := obj["meta"]; ok {
		// A malformed meta block does not invalidate the payload.
		_ = json.Unmarshal(raw, &meta)
	}
	return data, meta, nil
}
