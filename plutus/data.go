// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package plutus provides a closed representation of on-chain Plutus data.
// A Data value is exactly one of Int, Bytes, List, Map or Constr; there is
// no open "any" shape, so every conversion into or out of Data is a total
// function that fails with ErrUnmappedShape on anything it cannot map.
package plutus

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
)

var (
	// ErrUnmappedShape is returned when a value does not match any of the
	// Plutus data shapes, or not the shape a conversion expects.
	ErrUnmappedShape = errors.New("unmapped plutus data shape")

	// ErrInvalidBytes is returned when a byte string is not valid hex.
	ErrInvalidBytes = errors.New("invalid plutus byte string")
)

// Data is a Plutus data value. The interface is sealed: only the types of
// this package implement it.
type Data interface {
	isData()
}

// Int is an arbitrary-precision Plutus integer.
type Int struct {
	Value bignum.BigNum
}

// Bytes is a Plutus byte string.
type Bytes struct {
	raw []byte
}

// List is an ordered Plutus list.
type List struct {
	Items []Data
}

// Pair is a single key/value entry of a Map.
type Pair struct {
	Key   Data
	Value Data
}

// Map is a Plutus association map. Entry order is significant and kept.
type Map struct {
	Pairs []Pair
}

// Constr is a constructor application with its alternative index.
type Constr struct {
	Alternative uint64
	Fields      []Data
}

func (Int) isData()    {}
func (Bytes) isData()  {}
func (List) isData()   {}
func (Map) isData()    {}
func (Constr) isData() {}

// NewInt wraps a BigNum.
func NewInt(v bignum.BigNum) Int {
	return Int{Value: v}
}

// NewIntFromInt64 wraps an int64.
func NewIntFromInt64(v int64) Int {
	return Int{Value: bignum.New(v)}
}

// NewBytes decodes a hex string into a byte string.
func NewBytes(hexStr string) (Bytes, error) {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return Bytes{}, fmt.Errorf("%w: %q: %v", ErrInvalidBytes,
			hexStr, err)
	}

	return Bytes{raw: raw}, nil
}

// NewBytesFromRaw wraps a copy of raw.
func NewBytesFromRaw(raw []byte) Bytes {
	return Bytes{raw: append([]byte(nil), raw...)}
}

// Hex returns the hex encoding of the byte string.
func (b Bytes) Hex() string {
	return hex.EncodeToString(b.raw)
}

// Raw returns a copy of the bytes.
func (b Bytes) Raw() []byte {
	return append([]byte(nil), b.raw...)
}

// NewList creates a List.
func NewList(items ...Data) List {
	return List{Items: items}
}

// NewMap creates a Map from pairs.
func NewMap(pairs ...Pair) Map {
	return Map{Pairs: pairs}
}

// ConStr creates a constructor with the given alternative.
func ConStr(alternative uint64, fields ...Data) Constr {
	return Constr{Alternative: alternative, Fields: fields}
}

// ConStr0 creates a constructor with alternative 0.
func ConStr0(fields ...Data) Constr {
	return ConStr(0, fields...)
}

// ConStr1 creates a constructor with alternative 1.
func ConStr1(fields ...Data) Constr {
	return ConStr(1, fields...)
}

// AssetClass builds the asset class constructor for a policy id and an asset
// name, both hex encoded.
func AssetClass(policyIDHex, assetNameHex string) (Constr, error) {
	policy, err := NewBytes(policyIDHex)
	if err != nil {
		return Constr{}, err
	}

	name, err := NewBytes(assetNameHex)
	if err != nil {
		return Constr{}, err
	}

	return ConStr0(policy, name), nil
}

// OutputReference builds the output reference constructor of a transaction
// hash and output index.
func OutputReference(txHashHex string, index uint32) (Constr, error) {
	txHash, err := NewBytes(txHashHex)
	if err != nil {
		return Constr{}, err
	}

	return ConStr0(
		ConStr0(txHash), NewInt(bignum.NewFromUint64(uint64(index))),
	), nil
}

// Equal reports whether two Data values are structurally identical.
func Equal(a, b Data) bool {
	switch x := a.(type) {
	case Int:
		y, ok := b.(Int)
		return ok && x.Value.Equal(y.Value)

	case Bytes:
		y, ok := b.(Bytes)
		return ok && x.Hex() == y.Hex()

	case List:
		y, ok := b.(List)
		return ok && equalSlices(x.Items, y.Items)

	case Map:
		y, ok := b.(Map)
		if !ok || len(x.Pairs) != len(y.Pairs) {
			return false
		}
		for i := range x.Pairs {
			if !Equal(x.Pairs[i].Key, y.Pairs[i].Key) ||
				!Equal(x.Pairs[i].Value, y.Pairs[i].Value) {

				return false
			}
		}

		return true

	case Constr:
		y, ok := b.(Constr)
		return ok && x.Alternative == y.Alternative &&
			equalSlices(x.Fields, y.Fields)

	default:
		return false
	}
}

// equalSlices compares two Data slices element-wise.
func equalSlices(a, b []Data) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}
