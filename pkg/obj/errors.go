package obj

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound is returned when the input path is not a readable file
	ErrInputNotFound = errors.New("input file not found")
	// ErrMalformedVertex is returned for v, vt or vn lines that do not hold enough valid floats
	ErrMalformedVertex = errors.New("malformed vertex")
	// ErrMalformedFace is returned for f lines with a missing or invalid index
	ErrMalformedFace = errors.New("malformed face")
	// ErrUnsupportedIndexForm is returned for zero, negative or dangling face indices
	ErrUnsupportedIndexForm = errors.New("unsupported index form")
	// ErrOutputWrite is returned when the optimized file cannot be written
	ErrOutputWrite = errors.New("failed to write output")
)

// ParseError describes a failure on a specific input line
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RemapError describes a face vertex whose index cannot be resolved
type RemapError struct {
	Material string
	Face     int
	Vertex   int
	Err      error
}

func (e *RemapError) Error() string {
	return fmt.Sprintf("material %q face %d vertex %d: %v", e.Material, e.Face, e.Vertex, e.Err)
}

func (e *RemapError) Unwrap() error {
	return e.Err
}
