package bignum

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a BigNum cannot be safely cast to a fixed
// width integer type.
var ErrOverflow = errors.New("casting overflow")

// ToUint64 safely casts b to an uint64, returning an error if the value is
// negative or does not fit.
func (b BigNum) ToUint64() (uint64, error) {
	v := b.int()
	if !v.IsUint64() {
		return 0, fmt.Errorf("could not cast %v to uint64: %w", v,
			ErrOverflow)
	}

	return v.Uint64(), nil
}

// ToInt64 safely casts b to an int64, returning an error if the value is out
// of range.
func (b BigNum) ToInt64() (int64, error) {
	v := b.int()
	if !v.IsInt64() {
		return 0, fmt.Errorf("could not cast %v to int64: %w", v,
			ErrOverflow)
	}

	return v.Int64(), nil
}

// ToUint32 safely casts b to an uint32, returning an error if the value is
// negative or does not fit.
func (b BigNum) ToUint32() (uint32, error) {
	v, err := b.ToUint64()
	if err != nil {
		return 0, err
	}

	if v > math.MaxUint32 {
		return 0, fmt.Errorf("could not cast %d to uint32: %w", v,
			ErrOverflow)
	}

	return uint32(v), nil
}
