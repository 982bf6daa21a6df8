package query

import (
	"net/url"
	"strconv"
)

// Keys sent to report endpoints.
const (
	KeyWindow = "window"
	KeyFrom   = "from"
	KeyTo     = "to"
	KeyLimit  = "limit"
	KeyOffset = "offset"
)

// Params is the derived query-string mapping for a GET request. Values are
// already formatted; empty values are never stored.
type Params map[string]string

// Resolve translates a window into query parameters. A custom range emits
// only its non-empty bounds, so an unbounded custom range emits nothing.
// Any other window emits a single window key carrying its name verbatim.
// No clock is consulted: the server resolves relative windows.
func Resolve(w Window) Params {
	p := Params{}
	if w.Kind == WindowCustom {
		if w.From != "" {
			p[KeyFrom] = w.From
		}
		if w.To != "" {
			p[KeyTo] = w.To
		}
		return p
	}
	p[KeyWindow] = string(w.kind())
	return p
}

// With returns a copy of p with key set, or an unchanged copy when value
// is empty.
func (p Params) With(key, value string) Params {
	out := p.clone()
	if value != "" {
		out[key] = value
	}
	return out
}

// WithInt returns a copy of p with key set when v is positive.
func (p Params) WithInt(key string, v int) Params {
	if v <= 0 {
		return p.clone()
	}
	return p.With(key, strconv.Itoa(v))
}

// WithBool returns a copy of p with key set to "true" or "false".
func (p Params) WithBool(key string, v bool) Params {
	return p.With(key, strconv.FormatBool(v))
}

// Merge returns a new Params holding p overlaid with other. Keys in other win.
func (p Params) Merge(other Params) Params {
	out := p.clone()
	for k, v := range other {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Values converts p to url.Values for encoding.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for k, val := range p {
		v.Set(k, val)
	}
	return v
}

// Encode returns the sorted, escaped query string without a leading "?".
func (p Params) Encode() string {
	return p.Values().Encode()
}

func (p Params) clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Pagination selects a slice of a list endpoint. Zero values leave the
// server defaults in place.
type Pagination struct {
	Limit  int
	Offset int
}

// Params returns limit/offset keys for the non-zero fields.
func (pg Pagination) Params() Params {
	return Params{}.WithInt(KeyLimit, pg.Limit).WithInt(KeyOffset, pg.Offset)
}
