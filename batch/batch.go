package batch

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned when a chunk size is zero or negative.
var ErrInvalidSize = errors.New("chunk size must be positive")

// Chunks splits items into consecutive sub-slices of size elements each; the
// last chunk holds whatever remains. Order and total length are preserved.
// The sub-slices share the input's backing array rather than copying it.
// An empty input yields zero chunks.
func Chunks[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}

	return chunks, nil
}
