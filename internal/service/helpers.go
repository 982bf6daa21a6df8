package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/envelope"
)

// ErrInvalidInput is wrapped by validation failures raised before any
// request is sent.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// itemPath joins a collection path and an escaped id.
func itemPath(collection, id string) string {
	return strings.TrimRight(collection, "/") + "/" + url.PathEscape(id)
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("%s id is required", kind)
	}
	return nil
}

// decodeOne decodes a single-entity response.
func decodeOne[T any](body []byte) (*T, error) {
	v, _, err := envelope.Decode[T](body)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
