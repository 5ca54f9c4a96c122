package params

import (
	"context"
	"errors"
)

// ErrParameterNotFound is returned by a Source when the named parameter does not exist
var ErrParameterNotFound = errors.New("parameter not found")

// Source reads named string parameters from an external store
type Source interface {
	GetParameter(ctx context.Context, name string) (string, error)
}
