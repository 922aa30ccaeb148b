package types

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNegativeWad is returned by arithmetic that would produce a negative amount.
var ErrNegativeWad = errors.New("wad arithmetic result cannot be negative")

// Wad is a non-negative fixed-point amount with 18 decimal places, backed by
// an integer. It maps one-to-one onto the raw uint256 amounts the exchange
// contract works with.
//
// The zero value is a valid Wad equal to zero. Wads are immutable; arithmetic
// returns new values.
type Wad struct {
	value *big.Int
}

// NewWad creates a Wad from a raw integer value.
func NewWad(value *big.Int) (Wad, error) {
	if value == nil {
		return Wad{}, errors.New("value cannot be nil")
	}

	if value.Sign() < 0 {
		return Wad{}, fmt.Errorf("value cannot be negative, got %s", value)
	}

	return Wad{value: new(big.Int).Set(value)}, nil
}

// MustWad creates a Wad from a raw integer value and panics if it is invalid.
// Intended for constants and tests.
func MustWad(value *big.Int) Wad {
	w, err := NewWad(value)
	if err != nil {
		panic(err)
	}
	return w
}

// WadFromInt64 creates a Wad from a raw non-negative int64 value.
func WadFromInt64(value int64) (Wad, error) {
	return NewWad(big.NewInt(value))
}

// Int returns a copy of the raw integer value.
func (w Wad) Int() *big.Int {
	if w.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(w.value)
}

// Add returns w + o.
func (w Wad) Add(o Wad) Wad {
	return Wad{value: new(big.Int).Add(w.Int(), o.Int())}
}

// Sub returns w - o, or ErrNegativeWad if the result would be negative.
func (w Wad) Sub(o Wad) (Wad, error) {
	result := new(big.Int).Sub(w.Int(), o.Int())
	if result.Sign() < 0 {
		return Wad{}, ErrNegativeWad
	}
	return Wad{value: result}, nil
}

// Cmp compares w and o, returning -1, 0 or 1.
func (w Wad) Cmp(o Wad) int {
	return w.Int().Cmp(o.Int())
}

// Equal reports whether w and o hold the same value.
func (w Wad) Equal(o Wad) bool {
	return w.Cmp(o) == 0
}

// IsZero reports whether w is zero.
func (w Wad) IsZero() bool {
	return w.value == nil || w.value.Sign() == 0
}

// String renders the amount as a decimal number with 18 fractional digits.
func (w Wad) String() string {
	value := w.Int()
	whole, frac := new(big.Int).DivMod(value, wadScale, new(big.Int))
	return fmt.Sprintf("%s.%018s", whole, frac)
}

// MarshalJSON encodes the raw integer value as a JSON number, which is what
// the relay schema expects for amount fields.
func (w Wad) MarshalJSON() ([]byte, error) {
	return []byte(w.Int().String()), nil
}

// UnmarshalJSON decodes a JSON number into a Wad.
func (w *Wad) UnmarshalJSON(data []byte) error {
	value, ok := new(big.Int).SetString(string(data), 10)
	if !ok {
		return fmt.Errorf("invalid wad value %q", string(data))
	}

	parsed, err := NewWad(value)
	if err != nil {
		return err
	}

	*w = parsed
	return nil
}

// key returns a canonical representation usable inside comparable map keys.
func (w Wad) key() string {
	return w.Int().String()
}

var wadScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
