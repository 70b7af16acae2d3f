// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package meshvalue implements the canonical multi-asset value carried by
// transaction outputs and consumed by coin selection.
//
// A Value maps an asset unit to a strictly positive quantity. Every
// operation keeps three invariants: a unit appears at most once, no entry is
// ever zero or negative (an operation that would produce one removes the
// entry instead), and the native currency is always stored under a single
// canonical key whichever spelling the caller used.
//
// Mutating methods change the receiver in place and return it so calls can
// be chained. A Value is not safe for concurrent mutation; callers that need
// to share one across goroutines must Clone it first.
package meshvalue

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/rawvie-ngit/mesh-common/asset"
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
)

// ErrOverdraft is returned by SubChecked when the subtrahend holds more of a
// unit than the value does.
var ErrOverdraft = errors.New("value overdraft")

// Value is a canonical multi-asset value. The zero value is not usable; use
// New or one of the From constructors.
type Value struct {
	// amounts is keyed by canonical unit, the native currency being "".
	amounts map[string]bignum.BigNum
}

// New returns an empty value.
func New() *Value {
	return &Value{amounts: make(map[string]bignum.BigNum)}
}

// FromMap builds a value from a unit to quantity map. Units are
// canonicalised, both native currency spellings are summed together and
// non-positive quantities are dropped.
func FromMap(m map[string]bignum.BigNum) *Value {
	v := New()
	for unit, quantity := range m {
		v.Add(unit, quantity)
	}

	return v
}

// FromAssets builds a value from a list of assets, summing duplicate units.
// Every quantity is validated before anything is added.
func FromAssets(assets []asset.Asset) (*Value, error) {
	return New().AddAssets(assets)
}

// Clone returns an independent copy of the value.
func (v *Value) Clone() *Value {
	c := &Value{amounts: make(map[string]bignum.BigNum, len(v.amounts))}
	for unit, quantity := range v.amounts {
		c.amounts[unit] = quantity
	}

	return c
}

// set stores quantity under the canonical unit, removing the entry when the
// quantity is not strictly positive.
func (v *Value) set(unit string, quantity bignum.BigNum) {
	if quantity.Sign() <= 0 {
		delete(v.amounts, unit)
		return
	}

	v.amounts[unit] = quantity
}

// Add increases the quantity of unit by quantity.
func (v *Value) Add(unit string, quantity bignum.BigNum) *Value {
	unit = asset.CanonicalUnit(unit)
	v.set(unit, v.amounts[unit].Add(quantity))

	return v
}

// Sub decreases the quantity of unit by quantity. A result that is zero or
// negative removes the unit; the deficit is not recorded anywhere.
func (v *Value) Sub(unit string, quantity bignum.BigNum) *Value {
	unit = asset.CanonicalUnit(unit)
	v.set(unit, v.amounts[unit].Sub(quantity))

	return v
}

// parseAssets validates the quantities of a list of assets.
func parseAssets(assets []asset.Asset) ([]bignum.BigNum, error) {
	quantities := make([]bignum.BigNum, 0, len(assets))
	for _, a := range assets {
		q, err := a.Amount()
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", asset.ExternalUnit(
				a.Unit), err)
		}
		quantities = append(quantities, q)
	}

	return quantities, nil
}

// AddAsset adds a single asset to the value.
func (v *Value) AddAsset(a asset.Asset) (*Value, error) {
	return v.AddAssets([]asset.Asset{a})
}

// AddAssets adds every asset to the value. If any quantity is invalid the
// value is left untouched.
func (v *Value) AddAssets(assets []asset.Asset) (*Value, error) {
	quantities, err := parseAssets(assets)
	if err != nil {
		return v, err
	}

	for i, a := range assets {
		v.Add(a.Unit, quantities[i])
	}

	return v, nil
}

// NegateAsset subtracts a single asset from the value. Subtracting more than
// is held removes the unit without signalling the overdraft; use SubChecked
// or Geq beforehand to detect it.
func (v *Value) NegateAsset(a asset.Asset) (*Value, error) {
	return v.NegateAssets([]asset.Asset{a})
}

// NegateAssets subtracts every asset from the value with the same overdraft
// behaviour as NegateAsset. If any quantity is invalid the value is left
// untouched.
func (v *Value) NegateAssets(assets []asset.Asset) (*Value, error) {
	quantities, err := parseAssets(assets)
	if err != nil {
		return v, err
	}

	for i, a := range assets {
		v.Sub(a.Unit, quantities[i])
	}

	return v, nil
}

// SubChecked subtracts other from the value, failing with ErrOverdraft and
// leaving the value untouched if any unit of other exceeds what is held.
func (v *Value) SubChecked(other *Value) error {
	for _, unit := range other.sortedKeys() {
		held, need := v.amounts[unit], other.amounts[unit]
		if held.LessThan(need) {
			return fmt.Errorf("%w: %s holds %s, need %s", ErrOverdraft,
				asset.ExternalUnit(unit), held, need)
		}
	}

	for unit, quantity := range other.amounts {
		v.Sub(unit, quantity)
	}

	return nil
}

// Merge adds every other value into this one.
func (v *Value) Merge(others ...*Value) *Value {
	for _, other := range others {
		if other == nil {
			continue
		}

		for unit, quantity := range other.amounts {
			v.Add(unit, quantity)
		}
	}

	return v
}

// Get returns the quantity held for unit, or zero.
func (v *Value) Get(unit string) bignum.BigNum {
	return v.amounts[asset.CanonicalUnit(unit)]
}

// sortedKeys returns the canonical units in lexicographic order, which puts
// the native currency first.
func (v *Value) sortedKeys() []string {
	keys := make([]string, 0, len(v.amounts))
	for unit := range v.amounts {
		keys = append(keys, unit)
	}
	sort.Strings(keys)

	return keys
}

// Units returns the tracked units under their external spelling. The order
// is lexicographic on the canonical key but callers must not depend on it.
func (v *Value) Units() []string {
	return fn.Map(v.sortedKeys(), asset.ExternalUnit)
}

// Len returns the number of tracked units.
func (v *Value) Len() int {
	return len(v.amounts)
}

// IsEmpty reports whether no unit is tracked.
func (v *Value) IsEmpty() bool {
	return len(v.amounts) == 0
}

// GeqUnit reports whether the value holds at least as much of unit as other.
func (v *Value) GeqUnit(unit string, other *Value) bool {
	return v.Get(unit).Compare(other.Get(unit)) >= 0
}

// LeqUnit reports whether the value holds at most as much of unit as other.
func (v *Value) LeqUnit(unit string, other *Value) bool {
	return v.Get(unit).Compare(other.Get(unit)) <= 0
}

// Geq reports whether, for every unit present in other, the value holds at
// least as much. Units absent from other are ignored.
func (v *Value) Geq(other *Value) bool {
	for unit := range other.amounts {
		if !v.GeqUnit(unit, other) {
			return false
		}
	}

	return true
}

// Leq reports whether, for every unit present in other, the value holds at
// most as much. Units absent from other are ignored.
func (v *Value) Leq(other *Value) bool {
	for unit := range other.amounts {
		if !v.LeqUnit(unit, other) {
			return false
		}
	}

	return true
}

// ToAssets materialises the value as a list of assets, the native currency
// first under its external spelling and the rest in unit order.
func (v *Value) ToAssets() []asset.Asset {
	return fn.Map(v.sortedKeys(), func(unit string) asset.Asset {
		return asset.New(asset.ExternalUnit(unit), v.amounts[unit])
	})
}

// String renders the value as "{unit: quantity, ...}".
func (v *Value) String() string {
	parts := fn.Map(v.ToAssets(), func(a asset.Asset) string {
		return a.Unit + ": " + a.Quantity
	})

	return "{" + strings.Join(parts, ", ") + "}"
}

// MergeAssets sums the quantities of duplicate units in a list of assets.
// Units keep the position of their first appearance, the native currency is
// reported as "lovelace" and units whose total is zero are dropped.
func MergeAssets(assets []asset.Asset) ([]asset.Asset, error) {
	quantities, err := parseAssets(assets)
	if err != nil {
		return nil, err
	}

	var order []string
	totals := make(map[string]bignum.BigNum, len(assets))
	for i, a := range assets {
		unit := asset.CanonicalUnit(a.Unit)
		if _, ok := totals[unit]; !ok {
			order = append(order, unit)
		}
		totals[unit] = totals[unit].Add(quantities[i])
	}

	merged := make([]asset.Asset, 0, len(order))
	for _, unit := range order {
		if totals[unit].IsZero() {
			continue
		}

		merged = append(
			merged, asset.New(asset.ExternalUnit(unit), totals[unit]),
		)
	}

	return merged, nil
}
