// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package asset describes the assets carried by transaction outputs: the
// native currency (lovelace) and every (policy id, asset name) pair minted on
// top of it, together with their quantities and CIP-14 fingerprints.
package asset

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
)

const (
	// Lovelace is the external spelling of the native currency unit.
	Lovelace = "lovelace"

	// PolicyIDLength is the length in hex characters of a policy id.
	PolicyIDLength = 56

	// maxAssetNameLength is the maximum length in hex characters of an
	// asset name (32 bytes).
	maxAssetNameLength = 64
)

var (
	// ErrInvalidQuantity is returned when a quantity string is not a
	// valid non-negative integer.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidUnit is returned when a unit is neither the native
	// currency nor a hex policy id followed by a hex asset name.
	ErrInvalidUnit = errors.New("invalid unit")
)

// Asset is a unit and a quantity as exchanged at the boundary of the
// library. Quantity is a decimal string so no JSON decoder can lose precision
// on it.
type Asset struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// New creates an asset from a unit and a BigNum quantity.
func New(unit string, quantity bignum.BigNum) Asset {
	return Asset{Unit: unit, Quantity: quantity.String()}
}

// NewLovelace creates a native currency asset.
func NewLovelace(quantity bignum.BigNum) Asset {
	return New(Lovelace, quantity)
}

// Amount parses the quantity of the asset.
func (a Asset) Amount() (bignum.BigNum, error) {
	return ParseQuantity(a.Quantity)
}

// IsLovelace reports whether the asset is the native currency under either
// spelling.
func (a Asset) IsLovelace() bool {
	return IsLovelace(a.Unit)
}

// String returns "quantity unit".
func (a Asset) String() string {
	return a.Quantity + " " + ExternalUnit(a.Unit)
}

// ParseQuantity parses a decimal quantity string. Only unsigned base 10
// digits are accepted.
func ParseQuantity(quantity string) (bignum.BigNum, error) {
	if quantity == "" {
		return bignum.BigNum{}, fmt.Errorf("%w: empty string",
			ErrInvalidQuantity)
	}

	for _, c := range quantity {
		if c < '0' || c > '9' {
			return bignum.BigNum{}, fmt.Errorf("%w: %q",
				ErrInvalidQuantity, quantity)
		}
	}

	q, err := bignum.Parse(quantity)
	if err != nil {
		return bignum.BigNum{}, fmt.Errorf("%w: %v", ErrInvalidQuantity,
			err)
	}

	return q, nil
}

// IsLovelace reports whether unit names the native currency, either as the
// empty string or as "lovelace".
func IsLovelace(unit string) bool {
	return unit == "" || unit == Lovelace
}

// CanonicalUnit maps both spellings of the native currency to the empty
// string and leaves every other unit untouched.
func CanonicalUnit(unit string) string {
	if IsLovelace(unit) {
		return ""
	}

	return unit
}

// ExternalUnit maps both spellings of the native currency to "lovelace" and
// leaves every other unit untouched.
func ExternalUnit(unit string) string {
	if IsLovelace(unit) {
		return Lovelace
	}

	return unit
}

// ParseUnit splits a unit into its hex policy id and hex asset name. The
// native currency has an empty policy id and an empty asset name.
func ParseUnit(unit string) (policyID, assetName string, err error) {
	if IsLovelace(unit) {
		return "", "", nil
	}

	if len(unit) < PolicyIDLength {
		return "", "", fmt.Errorf("%w: %q is shorter than a policy id",
			ErrInvalidUnit, unit)
	}
	if len(unit)-PolicyIDLength > maxAssetNameLength {
		return "", "", fmt.Errorf("%w: asset name of %q exceeds 32 "+
			"bytes", ErrInvalidUnit, unit)
	}
	if _, err := hex.DecodeString(unit); err != nil {
		return "", "", fmt.Errorf("%w: %q is not hex: %v",
			ErrInvalidUnit, unit, err)
	}

	return unit[:PolicyIDLength], unit[PolicyIDLength:], nil
}

// Extended is an asset together with its decomposed unit and fingerprint.
type Extended struct {
	Unit        string `json:"unit"`
	PolicyID    string `json:"policyId"`
	AssetName   string `json:"assetName"`
	Fingerprint string `json:"fingerprint"`
	Quantity    string `json:"quantity"`
}

// Extend decomposes the unit of a non-native asset and resolves its
// fingerprint.
func Extend(a Asset) (Extended, error) {
	if a.IsLovelace() {
		return Extended{}, fmt.Errorf("%w: the native currency has no "+
			"fingerprint", ErrInvalidUnit)
	}

	if _, err := ParseQuantity(a.Quantity); err != nil {
		return Extended{}, err
	}

	policyID, assetName, err := ParseUnit(a.Unit)
	if err != nil {
		return Extended{}, err
	}

	fingerprint, err := ResolveFingerprint(policyID, assetName)
	if err != nil {
		return Extended{}, err
	}

	return Extended{
		Unit:        a.Unit,
		PolicyID:    policyID,
		AssetName:   assetName,
		Fingerprint: fingerprint,
		Quantity:    a.Quantity,
	}, nil
}
