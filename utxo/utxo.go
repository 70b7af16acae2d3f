// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package utxo defines the unspent transaction output record consumed by
// coin selection. Records are sourced from an external fetcher and are only
// ever read here; Validate must be called on anything that crossed a trust
// boundary before it is used.
package utxo

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/rawvie-ngit/mesh-common/asset"
	"github.com/rawvie-ngit/mesh-common/meshvalue"
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
	"github.com/rawvie-ngit/mesh-common/plutus"
)

// TxHashLength is the length in hex characters of a transaction hash.
const TxHashLength = 64

// ErrMalformedUTxO is returned when a UTxO record misses a required field or
// carries an invalid one.
var ErrMalformedUTxO = errors.New("malformed utxo")

// Input identifies the output being spent.
type Input struct {
	TxHash      string
	OutputIndex uint32
}

// String returns the input as "txhash#index".
func (i Input) String() string {
	return fmt.Sprintf("%s#%d", i.TxHash, i.OutputIndex)
}

// ToData returns the on-chain output reference of the input.
func (i Input) ToData() (plutus.Data, error) {
	return plutus.OutputReference(i.TxHash, i.OutputIndex)
}

// Output is the content of the spent output. The datum and script fields
// are opaque to selection and carried through untouched.
type Output struct {
	Address    string
	Amount     []asset.Asset
	DataHash   fn.Option[string]
	PlutusData fn.Option[string]
	ScriptRef  fn.Option[string]
	ScriptHash fn.Option[string]
}

// UTxO is an unspent transaction output.
type UTxO struct {
	Input  Input
	Output Output
}

// Validate checks that every required field is present and well formed.
func (u UTxO) Validate() error {
	if len(u.Input.TxHash) != TxHashLength {
		return fmt.Errorf("%w: tx hash %q is %d chars, want %d",
			ErrMalformedUTxO, u.Input.TxHash, len(u.Input.TxHash),
			TxHashLength)
	}
	if _, err := hex.DecodeString(u.Input.TxHash); err != nil {
		return fmt.Errorf("%w: tx hash %q: %v", ErrMalformedUTxO,
			u.Input.TxHash, err)
	}

	if u.Output.Address == "" {
		return fmt.Errorf("%w: %v has no address", ErrMalformedUTxO,
			u.Input)
	}

	for _, a := range u.Output.Amount {
		if _, err := a.Amount(); err != nil {
			return fmt.Errorf("%w: %v: %w", ErrMalformedUTxO, u.Input,
				err)
		}
	}

	return nil
}

// Value returns the combined value of the output. Invalid quantities are
// reported rather than skipped.
func (u UTxO) Value() (*meshvalue.Value, error) {
	v, err := meshvalue.FromAssets(u.Output.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrMalformedUTxO, u.Input,
			err)
	}

	return v, nil
}

// Lovelace returns the native currency held by the output. It assumes the
// record was validated and treats an unparsable quantity as zero.
func (u UTxO) Lovelace() bignum.BigNum {
	return u.Quantity(asset.Lovelace)
}

// Quantity returns how much of unit the output holds, summing duplicate
// entries. It assumes the record was validated.
func (u UTxO) Quantity(unit string) bignum.BigNum {
	unit = asset.CanonicalUnit(unit)

	var total bignum.BigNum
	for _, a := range u.Output.Amount {
		if asset.CanonicalUnit(a.Unit) != unit {
			continue
		}

		q, err := a.Amount()
		if err != nil {
			continue
		}
		total = total.Add(q)
	}

	return total
}

// HoldsAny reports whether the output carries a positive quantity of at
// least one of units.
func (u UTxO) HoldsAny(units []string) bool {
	for _, unit := range units {
		if u.Quantity(unit).Sign() > 0 {
			return true
		}
	}

	return false
}

// ValidateAll validates a list of records, failing on the first bad one and
// on duplicate inputs. Tx hashes differing only in case are duplicates.
func ValidateAll(utxos []UTxO) error {
	seen := fn.NewSet[Input]()
	for _, u := range utxos {
		if err := u.Validate(); err != nil {
			return err
		}

		// Hex digits are case-insensitive.
		key := Input{
			TxHash:      strings.ToLower(u.Input.TxHash),
			OutputIndex: u.Input.OutputIndex,
		}
		if seen.Contains(key) {
			return fmt.Errorf("%w: duplicate input %v", ErrMalformedUTxO,
				u.Input)
		}
		seen.Add(key)
	}

	return nil
}
