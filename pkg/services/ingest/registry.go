package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
)

var ErrUnknownFormat = errors.New("unknown statement format")

const (
	FormatAdesk   = "adesk"
	FormatGeneric = "generic"
)

// Parser turns one statement export into transactions. Parsers report
// per-line failures wrapped in domain.ErrInvalidTransaction and never
// return partially parsed sets.
type Parser interface {
	Parse(ctx context.Context, r io.Reader) ([]domain.Transaction, error)
}

// ParserFactory is a function type that creates a Parser for one vendor format
type ParserFactory func() (Parser, error)

// Registry manages vendor statement parser factories
type Registry interface {
	// Register adds a new statement format factory
	Register(format string, factory ParserFactory) error
	// Create instantiates a parser for the specified format
	Create(ctx context.Context, format string) (Parser, error)
	// SupportedFormats returns the registered format names, sorted
	SupportedFormats() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]ParserFactory
}

// NewRegistry creates a new parser registry
func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]ParserFactory),
	}
}

// DefaultRegistry returns a registry with every built-in format registered.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register(FormatAdesk, func() (Parser, error) { return NewAdeskParser(), nil })
	_ = r.Register(FormatGeneric, func() (Parser, error) { return NewGenericParser(), nil })
	return r
}

func (r *registry) Register(format string, factory ParserFactory) error {
	if format == "" {
		return fmt.Errorf("format name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[format]; exists {
		return fmt.Errorf("format %q is already registered", format)
	}

	r.factories[format] = factory
	return nil
}

func (r *registry) Create(_ context.Context, format string) (Parser, error) {
	r.mu.RLock()
	factory, exists := r.factories[format]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return factory()
}

func (r *registry) SupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.factories))
	for format := range r.factories {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}
