// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bignum provides an immutable arbitrary-precision integer used for
// every lovelace and asset quantity so that no amount is ever silently
// truncated or routed through floating point.
package bignum

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrNegative is returned when a checked operation would produce a
	// negative result.
	ErrNegative = errors.New("negative result")

	// ErrDivisionByZero is returned when dividing by a zero BigNum.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidNumber is returned when a string is not a base 10
	// integer.
	ErrInvalidNumber = errors.New("invalid number")
)

var (
	// Zero is the BigNum with value 0.
	Zero = New(0)

	// One is the BigNum with value 1.
	One = New(1)
)

// BigNum is a signed arbitrary-precision integer. The zero value is a valid
// BigNum with value 0. Every operation returns a fresh BigNum and leaves its
// operands untouched, so values can be shared between goroutines freely.
type BigNum struct {
	// v is never mutated after construction. A nil pointer means zero.
	v *big.Int
}

// New creates a BigNum from an int64.
func New(v int64) BigNum {
	return BigNum{v: big.NewInt(v)}
}

// NewFromUint64 creates a BigNum from an uint64.
func NewFromUint64(v uint64) BigNum {
	return BigNum{v: new(big.Int).SetUint64(v)}
}

// NewFromBig creates a BigNum holding a copy of the given big.Int. A nil
// pointer yields zero.
func NewFromBig(v *big.Int) BigNum {
	if v == nil {
		return BigNum{}
	}

	return BigNum{v: new(big.Int).Set(v)}
}

// Parse parses a base 10 signed integer. Leading and trailing whitespace,
// hex prefixes and underscores are rejected.
func Parse(s string) (BigNum, error) {
	if s == "" {
		return BigNum{}, fmt.Errorf("%w: empty string", ErrInvalidNumber)
	}

	for i, c := range s {
		if i == 0 && (c == '-' || c == '+') && len(s) > 1 {
			continue
		}
		if c < '0' || c > '9' {
			return BigNum{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
		}
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return BigNum{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}

	return BigNum{v: v}, nil
}

// int returns the underlying integer, substituting zero for the zero value.
func (b BigNum) int() *big.Int {
	if b.v == nil {
		return new(big.Int)
	}

	return b.v
}

// Big returns a copy of the underlying big.Int.
func (b BigNum) Big() *big.Int {
	return new(big.Int).Set(b.int())
}

// Sign returns -1, 0 or +1 depending on the sign of b.
func (b BigNum) Sign() int {
	return b.int().Sign()
}

// IsZero reports whether b is zero.
func (b BigNum) IsZero() bool {
	return b.Sign() == 0
}

// Add returns b + other. Addition never fails.
func (b BigNum) Add(other BigNum) BigNum {
	return BigNum{v: new(big.Int).Add(b.int(), other.int())}
}

// Sub returns b - other, which may be negative.
func (b BigNum) Sub(other BigNum) BigNum {
	return BigNum{v: new(big.Int).Sub(b.int(), other.int())}
}

// Mul returns b * other.
func (b BigNum) Mul(other BigNum) BigNum {
	return BigNum{v: new(big.Int).Mul(b.int(), other.int())}
}

// CheckedAdd returns b + other, failing with ErrNegative if the sum is
// negative.
func (b BigNum) CheckedAdd(other BigNum) (BigNum, error) {
	return checkSign("add", b.Add(other))
}

// CheckedSub returns b - other, failing with ErrNegative if the difference is
// negative.
func (b BigNum) CheckedSub(other BigNum) (BigNum, error) {
	return checkSign("sub", b.Sub(other))
}

// CheckedMul returns b * other, failing with ErrNegative if the product is
// negative.
func (b BigNum) CheckedMul(other BigNum) (BigNum, error) {
	return checkSign("mul", b.Mul(other))
}

// checkSign rejects negative results of the checked operations.
func checkSign(op string, result BigNum) (BigNum, error) {
	if result.Sign() < 0 {
		return BigNum{}, fmt.Errorf("checked %s results in %v: %w", op,
			result, ErrNegative)
	}

	return result, nil
}

// ClampedSub returns b - other, or zero if the difference would be negative.
func (b BigNum) ClampedSub(other BigNum) BigNum {
	diff := b.Sub(other)
	if diff.Sign() < 0 {
		return Zero
	}

	return diff
}

// DivFloor returns b / other rounded toward negative infinity.
func (b BigNum) DivFloor(other BigNum) (BigNum, error) {
	if other.IsZero() {
		return BigNum{}, ErrDivisionByZero
	}

	// QuoRem truncates toward zero. When the remainder is non-zero and its
	// sign differs from the divisor's, the truncated quotient is one above
	// the floor.
	q, r := new(big.Int).QuoRem(b.int(), other.int(), new(big.Int))
	if r.Sign() != 0 && r.Sign() != other.Sign() {
		q.Sub(q, big.NewInt(1))
	}

	return BigNum{v: q}, nil
}

// Compare returns -1 if b < other, 0 if b == other and +1 if b > other.
func (b BigNum) Compare(other BigNum) int {
	return b.int().Cmp(other.int())
}

// LessThan returns true if b < other.
func (b BigNum) LessThan(other BigNum) bool {
	return b.Compare(other) < 0
}

// GreaterThan returns true if b > other.
func (b BigNum) GreaterThan(other BigNum) bool {
	return b.Compare(other) > 0
}

// Equal returns true if b == other.
func (b BigNum) Equal(other BigNum) bool {
	return b.Compare(other) == 0
}

// Min returns the smaller of b and other.
func (b BigNum) Min(other BigNum) BigNum {
	if other.LessThan(b) {
		return other
	}

	return b
}

// String renders the exact decimal value.
func (b BigNum) String() string {
	return b.int().String()
}

// MarshalJSON encodes the number as a decimal string so that no JSON decoder
// can lose precision on it.
func (b BigNum) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// UnmarshalJSON accepts either a decimal string or a bare JSON integer.
func (b *BigNum) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}

	*b = parsed

	return nil
}
