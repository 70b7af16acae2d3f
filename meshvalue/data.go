package meshvalue

import (
	"encoding/hex"
	"fmt"

	"github.com/rawvie-ngit/mesh-common/asset"
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
	"github.com/rawvie-ngit/mesh-common/plutus"
)

// policyBytes is the size of a policy id once hex decoded.
const policyBytes = asset.PolicyIDLength / 2

// policyEntry groups the asset names of one policy for the nested encoding.
type policyEntry struct {
	policyID string
	names    []string
}

// byPolicy groups the canonical units by policy id. Policies and names come
// out sorted, the native currency (empty policy, empty name) first, since
// every policy id has the same length.
func (v *Value) byPolicy() ([]policyEntry, error) {
	var (
		entries []policyEntry
		index   = make(map[string]int)
	)
	for _, unit := range v.sortedKeys() {
		policyID, name, err := asset.ParseUnit(unit)
		if err != nil {
			return nil, err
		}

		i, ok := index[policyID]
		if !ok {
			i = len(entries)
			index[policyID] = i
			entries = append(entries, policyEntry{policyID: policyID})
		}
		entries[i].names = append(entries[i].names, name)
	}

	return entries, nil
}

// ToData converts the value to its on-chain nested map form: a map from
// policy id bytes to a map from asset name bytes to quantity. The native
// currency sits under the empty policy id and the empty asset name.
//
// Units that are not a hex policy id and asset name cannot be represented
// and fail with asset.ErrInvalidUnit.
func (v *Value) ToData() (plutus.Data, error) {
	entries, err := v.byPolicy()
	if err != nil {
		return nil, err
	}

	outer := make([]plutus.Pair, 0, len(entries))
	for _, e := range entries {
		policy, err := plutus.NewBytes(e.policyID)
		if err != nil {
			return nil, err
		}

		inner := make([]plutus.Pair, 0, len(e.names))
		for _, name := range e.names {
			nameBytes, err := plutus.NewBytes(name)
			if err != nil {
				return nil, err
			}

			inner = append(inner, plutus.Pair{
				Key:   nameBytes,
				Value: plutus.NewInt(v.amounts[e.policyID+name]),
			})
		}

		outer = append(outer, plutus.Pair{
			Key:   policy,
			Value: plutus.NewMap(inner...),
		})
	}

	return plutus.NewMap(outer...), nil
}

// ToJSON encodes the value in the detailed JSON schema of its nested map
// form, as an association list keyed by policy id then asset name.
func (v *Value) ToJSON() ([]byte, error) {
	d, err := v.ToData()
	if err != nil {
		return nil, err
	}

	return plutus.MarshalJSON(d)
}

// FromData decodes the nested map form produced by ToData. Repeated entries
// are summed, zero quantities dropped and negative quantities rejected.
func FromData(d plutus.Data) (*Value, error) {
	outer, ok := d.(plutus.Map)
	if !ok {
		return nil, fmt.Errorf("%w: value is %T, want map",
			plutus.ErrUnmappedShape, d)
	}

	v := New()
	for _, p := range outer.Pairs {
		policy, ok := p.Key.(plutus.Bytes)
		if !ok {
			return nil, fmt.Errorf("%w: policy id is %T, want bytes",
				plutus.ErrUnmappedShape, p.Key)
		}

		raw := policy.Raw()
		if len(raw) != 0 && len(raw) != policyBytes {
			return nil, fmt.Errorf("%w: policy id %s is %d bytes",
				asset.ErrInvalidUnit, policy.Hex(), len(raw))
		}

		inner, ok := p.Value.(plutus.Map)
		if !ok {
			return nil, fmt.Errorf("%w: assets of policy %q are %T, "+
				"want map", plutus.ErrUnmappedShape, policy.Hex(),
				p.Value)
		}

		for _, entry := range inner.Pairs {
			unit, quantity, err := decodeEntry(policy, entry)
			if err != nil {
				return nil, err
			}

			v.Add(unit, quantity)
		}
	}

	return v, nil
}

// decodeEntry decodes one asset name to quantity entry of a policy.
func decodeEntry(policy plutus.Bytes,
	entry plutus.Pair) (string, bignum.BigNum, error) {

	name, ok := entry.Key.(plutus.Bytes)
	if !ok {
		return "", bignum.BigNum{}, fmt.Errorf("%w: asset name is %T, "+
			"want bytes", plutus.ErrUnmappedShape, entry.Key)
	}

	amount, ok := entry.Value.(plutus.Int)
	if !ok {
		return "", bignum.BigNum{}, fmt.Errorf("%w: quantity is %T, "+
			"want int", plutus.ErrUnmappedShape, entry.Value)
	}

	policyID := hex.EncodeToString(policy.Raw())
	if policyID == "" && name.Hex() != "" {
		return "", bignum.BigNum{}, fmt.Errorf("%w: asset name %s "+
			"without policy id", asset.ErrInvalidUnit, name.Hex())
	}

	unit := policyID + name.Hex()
	if _, _, err := asset.ParseUnit(unit); err != nil {
		return "", bignum.BigNum{}, err
	}

	if amount.Value.Sign() < 0 {
		return "", bignum.BigNum{}, fmt.Errorf("%w: %s of %s",
			asset.ErrInvalidQuantity, amount.Value,
			asset.ExternalUnit(unit))
	}

	return unit, amount.Value, nil
}

// FromValueJSON decodes a value from the detailed JSON schema produced by
// ToJSON.
func FromValueJSON(raw []byte) (*Value, error) {
	d, err := plutus.UnmarshalJSON(raw)
	if err != nil {
		return nil, err
	}

	return FromData(d)
}
