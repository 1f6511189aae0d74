package keying

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOfFoldsNegativeZero(t *testing.T) {
	assert.Equal(t, KeyOf(0), KeyOf(math.Copysign(0, -1)))
	assert.False(t, math.Signbit(KeyOf(math.Copysign(0, -1)).Seconds()))
}

func TestKeyRoundTrip(t *testing.T) {
	k := KeyOf(1.25)
	assert.Equal(t, 1.25, k.Seconds())
	assert.Equal(t, "1.25", k.String())
}

// Exact keying keeps the fragile float-equality behavior: values equal in
// decimal but not in binary are separate keys.
func TestExactKeepsRepresentationDifferences(t *testing.T) {
	q, err := NewQuantizer(Exact, 0, 0)
	require.NoError(t, err)

	a, b := 0.1, 0.2
	k1, _ := q.Quantize(a + b)
	k2, _ := q.Quantize(0.3)
	assert.NotEqual(t, k1, k2)
}

func TestDecimalMergesRepresentationDifferences(t *testing.T) {
	q, err := NewQuantizer(Decimal, DefaultPlaces, 0)
	require.NoError(t, err)

	a, b := 0.1, 0.2
	k1, c1 := q.Quantize(a + b)
	k2, c2 := q.Quantize(0.3)
	assert.Equal(t, k1, k2)
	assert.Equal(t, 0.3, c1)
	assert.Equal(t, c1, c2)
}

func TestDecimalRounding(t *testing.T) {
	q := DecimalQuantizer{Places: 2}

	_, c := q.Quantize(1.234)
	assert.Equal(t, 1.23, c)

	_, c = q.Quantize(1.235001)
	assert.Equal(t, 1.24, c)

	k1, _ := q.Quantize(-0.001)
	assert.Equal(t, KeyOf(0), k1)
}

func TestDecimalPassesThroughNonFinite(t *testing.T) {
	q := DecimalQuantizer{Places: 6}

	k, c := q.Quantize(math.Inf(1))
	assert.True(t, math.IsInf(c, 1))
	assert.Equal(t, KeyOf(math.Inf(1)), k)

	_, c = q.Quantize(math.MaxFloat64)
	assert.Equal(t, math.MaxFloat64, c)

	k1, _ := q.Quantize(math.NaN())
	k2, _ := q.Quantize(math.NaN())
	assert.Equal(t, k1, k2)
}

func TestTicks(t *testing.T) {
	q, err := NewQuantizer(Ticks, 0, time.Millisecond)
	require.NoError(t, err)

	a, b := 0.1, 0.2
	k1, c1 := q.Quantize(a + b)
	k2, _ := q.Quantize(0.3)
	assert.Equal(t, k1, k2)
	assert.Equal(t, 0.3, c1)

	_, c := q.Quantize(0.0004)
	assert.Equal(t, 0.0, c)

	_, c = q.Quantize(0.0016)
	assert.Equal(t, 0.002, c)
}

func TestTicksCoarseResolution(t *testing.T) {
	q := TickQuantizer{Resolution: 250 * time.Millisecond}

	_, c := q.Quantize(1.1)
	assert.Equal(t, 1.0, c)

	_, c = q.Quantize(1.2)
	assert.Equal(t, 1.25, c)
}

func TestNewQuantizerErrors(t *testing.T) {
	_, err := NewQuantizer("rounded", 0, 0)
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = NewQuantizer(Decimal, -1, 0)
	assert.Error(t, err)

	_, err = NewQuantizer(Decimal, MaxPlaces+1, 0)
	assert.Error(t, err)

	_, err = NewQuantizer(Ticks, 0, 0)
	assert.Error(t, err)
}

func TestModes(t *testing.T) {
	assert.Equal(t, Exact, ExactQuantizer{}.Mode())
	assert.Equal(t, Decimal, DecimalQuantizer{}.Mode())
	assert.Equal(t, Ticks, TickQuantizer{}.Mode())
}
