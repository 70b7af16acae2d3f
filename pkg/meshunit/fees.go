// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package meshunit provides the units the selection engine uses to reason
// about transaction fees: serialized sizes, the linear fee parameters of the
// protocol, and lovelace formatting.
package meshunit

import (
	"math/big"

	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
)

const (
	// lovelacePerAda is the number of lovelace in one ada.
	lovelacePerAda = 1_000_000

	// adaStringPrecision is the number of decimal places used when
	// rendering lovelace as ada, which is exactly one lovelace.
	adaStringPrecision = 6
)

// DefaultFeeParams are the mainnet linear fee parameters.
var DefaultFeeParams = FeeParams{
	MinFeeA:   44,
	MinFeeB:   155_381,
	MaxTxSize: NewByteSize(16_384),
}

// FeeParams is the subset of the protocol parameters needed to approximate
// the fee of a transaction: fee = MinFeeA * size + MinFeeB.
type FeeParams struct {
	// MinFeeA is the fee coefficient in lovelace per serialized byte.
	MinFeeA uint64

	// MinFeeB is the constant fee in lovelace.
	MinFeeB uint64

	// MaxTxSize is the maximum serialized transaction size.
	MaxTxSize ByteSize
}

// FeeForSize calculates the fee in lovelace for a transaction of the given
// serialized size.
func (p FeeParams) FeeForSize(size ByteSize) bignum.BigNum {
	fee := new(big.Int).SetUint64(p.MinFeeA)
	fee.Mul(fee, new(big.Int).SetUint64(size.bytes))
	fee.Add(fee, new(big.Int).SetUint64(p.MinFeeB))

	return bignum.NewFromBig(fee)
}

// FeeForInputs calculates the estimated fee in lovelace for a transaction
// spending numInputs inputs.
func (p FeeParams) FeeForInputs(numInputs int) bignum.BigNum {
	return p.FeeForSize(EstimateTxSize(numInputs, p.MaxTxSize))
}

// MaxTxFee is the fee of the largest transaction the protocol accepts. It is
// an upper bound for the fee of any transaction.
func (p FeeParams) MaxTxFee() bignum.BigNum {
	return p.FeeForSize(p.MaxTxSize)
}

// ResolveTxFees returns the fee in lovelace for a transaction of txSize
// bytes, rendered as a decimal string.
func ResolveTxFees(txSize uint64, params FeeParams) string {
	return params.FeeForSize(NewByteSize(txSize)).String()
}

// FormatAda renders a lovelace amount as ada with six decimals, e.g.
// "1.500000 ADA".
func FormatAda(lovelace bignum.BigNum) string {
	ada := new(big.Rat).SetFrac(lovelace.Big(), big.NewInt(lovelacePerAda))

	return ada.FloatString(adaStringPrecision) + " ADA"
}
