package params

import (
	"context"
	"fmt"
)

// StaticSource serves parameters from an in-memory map, typically built from
// environment variables
type StaticSource struct {
	values map[string]string
}

// NewStaticSource creates a source over a copy of values
func NewStaticSource(values map[string]string) *StaticSource {
	copied := make(map[string]string, len(values))
	for name, value := range values {
		copied[name] = value
	}
	return &StaticSource{values: copied}
}

func (s *StaticSource) GetParameter(_ context.Context, name string) (string, error) {
	value, ok := s.values[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrParameterNotFound)
	}
	return value, nil
}
