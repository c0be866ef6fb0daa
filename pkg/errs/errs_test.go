package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	base := errors.New("dial tcp: timeout")
	wrapped := fmt.Errorf("quote AAPL: %w", Wrap(Upstream, "Error fetching stock data", base))

	assert.Equal(t, Upstream, KindOf(wrapped))
	assert.Equal(t, Internal, KindOf(base))
	assert.True(t, errors.Is(wrapped, base))
	assert.True(t, Is(wrapped, Upstream))
	assert.False(t, Is(wrapped, NotFound))
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ticker is required", Validationf("%s is required", "Ticker").Error())
	assert.Equal(t, "Prediction failed: boom", Wrap(Upstream, "Prediction failed", errors.New("boom")).Error())
}

func TestEnsure(t *testing.T) {
	t.Parallel()

	require.NoError(t, Ensure(nil, Upstream, "x"))

	nf := NotFoundf("missing")
	assert.Same(t, nf, Ensure(nf, Upstream, "x"))

	got := Ensure(errors.New("db down"), Upstream, "Error fetching watchlist")
	e, ok := As(got)
	require.True(t, ok)
	assert.Equal(t, Upstream, e.Kind)
	assert.Equal(t, "Error fetching watchlist", e.Message)
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "conflict", Conflict.String())
	assert.Equal(t, "internal", Kind(200).String())
}
