// This file defines how a duration becomes a cache key.

package keying

import (
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

/*
Key is the canonical map key for a duration.

It holds the IEEE-754 bits of the canonical seconds value. Using the
bits instead of a float64 map key keeps NaN usable as a key and lets
shard selection hash a plain integer.
*/
type Key uint64

// KeyOf returns the key for an already canonical seconds value.
// Negative zero is folded into positive zero so both name the same handle.
func KeyOf(seconds float64) Key {
	if seconds == 0 {
		seconds = 0
	}
	return Key(math.Float64bits(seconds))
}

// Seconds returns the canonical duration this key stands for.
func (k Key) Seconds() float64 {
	return math.Float64frombits(uint64(k))
}

func (k Key) String() string {
	return strconv.FormatFloat(k.Seconds(), 'g', -1, 64)
}

/*
Quantizer turns a raw duration into its key and canonical value.

Two raw values that quantize to the same key share one handle, and the
handle is built from the canonical value, not the raw one, so every
caller sharing it waits the same amount of time.
*/
type Quantizer interface {
	Quantize(seconds float64) (Key, float64)
	Mode() Mode
}

// Mode is a simple identifier for supported quantization strategies.
type Mode string

const (
	// Exact keys on the raw float. 0.1+0.2 and 0.3 are different keys.
	Exact Mode = "exact"

	// Decimal rounds to a fixed number of decimal places first.
	Decimal Mode = "decimal"

	// Ticks rounds to a whole number of ticks of a fixed resolution.
	Ticks Mode = "ticks"
)

const (
	DefaultPlaces = 6
	MaxPlaces     = 15
	DefaultTick   = time.Millisecond
)

// ErrUnknownMode is returned by NewQuantizer for a mode it does not know.
var ErrUnknownMode = errors.New("unknown keying mode")

// NewQuantizer is a small factory function.
// Given a Mode, it creates the matching quantizer.
// places is used by Decimal and tick by Ticks; the other argument is ignored.
func NewQuantizer(mode Mode, places int, tick time.Duration) (Quantizer, error) {
	switch mode {
	case Exact:
		return ExactQuantizer{}, nil
	case Decimal:
		if places < 0 || places > MaxPlaces {
			return nil, errors.Errorf("decimal places must be within [0, %d], got %d", MaxPlaces, places)
		}
		return DecimalQuantizer{Places: places}, nil
	case Ticks:
		if tick <= 0 {
			return nil, errors.Errorf("tick resolution must be positive, got %s", tick)
		}
		return TickQuantizer{Resolution: tick}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownMode, "%q", string(mode))
	}
}

// ExactQuantizer keeps the raw value as the key.
type ExactQuantizer struct{}

func (ExactQuantizer) Mode() Mode { return Exact }

func (ExactQuantizer) Quantize(seconds float64) (Key, float64) {
	k := KeyOf(seconds)
	return k, k.Seconds()
}

// DecimalQuantizer rounds to Places digits after the decimal point.
// Durations smaller than half a unit in the last place round to 0 and
// share its key.
type DecimalQuantizer struct {
	Places int
}

func (DecimalQuantizer) Mode() Mode { return Decimal }

func (q DecimalQuantizer) Quantize(seconds float64) (Key, float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ExactQuantizer{}.Quantize(seconds)
	}

	scale := math.Pow10(q.Places)
	scaled := seconds * scale
	if math.IsInf(scaled, 0) {
		// Too large to scale; the raw value is already coarser than the precision.
		return ExactQuantizer{}.Quantize(seconds)
	}

	// Dividing two exact integers gives the correctly rounded decimal,
	// so 0.30000000000000004 and 0.3 both land on the literal 0.3.
	canonical := math.Round(scaled) / scale
	return ExactQuantizer{}.Quantize(canonical)
}

// TickQuantizer rounds to a whole number of Resolution ticks.
type TickQuantizer struct {
	Resolution time.Duration
}

func (TickQuantizer) Mode() Mode { return Ticks }

func (q TickQuantizer) Quantize(seconds float64) (Key, float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ExactQuantizer{}.Quantize(seconds)
	}

	res := float64(q.Resolution)
	ticks := math.Round(seconds * float64(time.Second) / res)
	canonical := ticks * res / float64(time.Second)
	return ExactQuantizer{}.Quantize(canonical)
}
