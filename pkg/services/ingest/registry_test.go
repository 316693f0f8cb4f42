package ingest

import (
	"context"
	"io"
	"testing"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct{}

func (stubParser) Parse(_ context.Context, _ io.Reader) ([]domain.Transaction, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("success - default registry knows the built-in formats", func(t *testing.T) {
		r := DefaultRegistry()

		assert.Equal(t, []string{FormatAdesk, FormatGeneric}, r.SupportedFormats())

		for _, format := range r.SupportedFormats() {
			parser, err := r.Create(ctx, format)
			require.NoError(t, err)
			assert.NotNil(t, parser)
		}
	})

	t.Run("success - custom format registration", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register("1c", func() (Parser, error) { return stubParser{}, nil }))

		parser, err := r.Create(ctx, "1c")
		require.NoError(t, err)
		assert.NotNil(t, parser)
	})

	t.Run("failure - unknown format", func(t *testing.T) {
		r := DefaultRegistry()

		_, err := r.Create(ctx, "1c")

		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("failure - duplicate registration", func(t *testing.T) {
		r := DefaultRegistry()

		err := r.Register(FormatAdesk, func() (Parser, error) { return stubParser{}, nil })

		assert.Error(t, err)
	})

	t.Run("failure - empty format name", func(t *testing.T) {
		r := NewRegistry()

		assert.Error(t, r.Register("", func() (Parser, error) { return stubParser{}, nil }))
	})

	t.Run("failure - nil factory", func(t *testing.T) {
		r := NewRegistry()

		assert.Error(t, r.Register("1c", nil))
	})
}
