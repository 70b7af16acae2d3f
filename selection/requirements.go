package selection

import (
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/rawvie-ngit/mesh-common/asset"
	"github.com/rawvie-ngit/mesh-common/meshvalue"
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
)

// Requirements maps a unit to the minimum quantity a selection must gather.
// Units keep the order in which they were first added, which decides the
// order of the per-unit passes of LargestFirstMultiAsset. Units with a zero
// requirement are not stored.
type Requirements struct {
	// order holds canonical units in insertion order.
	order []string

	quantities map[string]bignum.BigNum
}

// NewRequirements returns an empty requirement set.
func NewRequirements() *Requirements {
	return &Requirements{quantities: make(map[string]bignum.BigNum)}
}

// RequirementsFromAssets builds requirements from a list of assets. Duplicate
// units are summed and keep the position of their first appearance.
func RequirementsFromAssets(assets []asset.Asset) (*Requirements, error) {
	r := NewRequirements()
	for _, a := range assets {
		q, err := a.Amount()
		if err != nil {
			return nil, fmt.Errorf("required %s: %w",
				asset.ExternalUnit(a.Unit), err)
		}

		r.Add(a.Unit, q)
	}

	return r, nil
}

// Add increases the requirement of unit by quantity. Non-positive quantities
// are ignored.
func (r *Requirements) Add(unit string, quantity bignum.BigNum) *Requirements {
	if quantity.Sign() <= 0 {
		return r
	}

	unit = asset.CanonicalUnit(unit)
	current, ok := r.quantities[unit]
	if !ok {
		r.order = append(r.order, unit)
	}
	r.quantities[unit] = current.Add(quantity)

	return r
}

// Get returns the requirement of unit, or zero.
func (r *Requirements) Get(unit string) bignum.BigNum {
	return r.quantities[asset.CanonicalUnit(unit)]
}

// Lovelace returns the native currency requirement.
func (r *Requirements) Lovelace() bignum.BigNum {
	return r.Get(asset.Lovelace)
}

// Len returns the number of required units.
func (r *Requirements) Len() int {
	return len(r.order)
}

// Units returns the required units in insertion order under their external
// spelling.
func (r *Requirements) Units() []string {
	return fn.Map(r.order, asset.ExternalUnit)
}

// Tokens returns the required units other than the native currency, in
// insertion order.
func (r *Requirements) Tokens() []string {
	return fn.Filter(r.order, func(unit string) bool {
		return !asset.IsLovelace(unit)
	})
}

// ToAssets returns the requirements as assets in insertion order.
func (r *Requirements) ToAssets() []asset.Asset {
	return fn.Map(r.order, func(unit string) asset.Asset {
		return asset.New(asset.ExternalUnit(unit), r.quantities[unit])
	})
}

// Value returns the requirements as a value.
func (r *Requirements) Value() *meshvalue.Value {
	return meshvalue.FromMap(r.quantities)
}
