package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryNetwork  Category = "network"
	CategoryDecode   Category = "decode"
	CategoryPipeline Category = "pipeline"
	CategoryConfig   Category = "config"
	CategoryInput    Category = "input"
)

// LoadError is the structured error type used throughout the module.
type LoadError struct {
	Category Category
	Op       string // operation name
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// New creates a LoadError.
func New(category Category, op string, err error) *LoadError {
	return &LoadError{Category: category, Op: op, Err: err}
}

// Wrap wraps an existing error with context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Category == cat
	}
	return false
}

// Sentinel errors for common failure modes.
var (
	ErrEmptyURI          = errors.New("empty request URI")
	ErrUnsupportedScheme = errors.New("unsupported URI scheme")
	ErrBadStatus         = errors.New("unexpected HTTP status")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrEmptyInput        = errors.New("empty input")
	ErrNilTarget         = errors.New("nil target")
	ErrQueueFull         = errors.New("request queue full")
	ErrEngineStopped     = errors.New("engine stopped")
)
