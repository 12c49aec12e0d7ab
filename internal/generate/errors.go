package generate

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientCandidates is returned when fewer unchosen embedded
	// ingredients remain than are needed to reach the target size.
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// ErrNoEmbeddings is returned when a required embedding space or
	// network has not been loaded.
	ErrNoEmbeddings = errors.New("embeddings not loaded")
)

// ConfigError reports an invalid combination of generation options. It is
// raised before any computation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
