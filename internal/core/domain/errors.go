package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidFilter        = errors.New("invalid filter")
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	ErrVectorStore          = errors.New("vector store failure")
	ErrSessionNotFound      = errors.New("session not found")
	ErrRecipeNotFound       = errors.New("recipe not found")
	ErrTemporary            = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
