package asset

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

const (
	// FingerprintHRP is the human-readable part of every fingerprint.
	FingerprintHRP = "asset"

	// FingerprintHashSize is the size in bytes of the fingerprint digest.
	FingerprintHashSize = 20

	// checksumLength is the number of characters of the bech32 checksum.
	checksumLength = 6
)

// ErrMalformedFingerprint is returned when a fingerprint cannot be decoded:
// bad bech32 encoding, wrong checksum, wrong human-readable part, or a
// payload that is not a 20 byte digest.
var ErrMalformedFingerprint = errors.New("malformed asset fingerprint")

// Fingerprint is the CIP-14 identifier of an asset: the bech32 encoding,
// under the "asset" prefix, of the 160-bit BLAKE2b digest of the policy id
// followed by the asset name. It is immutable once constructed and cannot be
// inverted back into the policy id or asset name.
type Fingerprint struct {
	hash    [FingerprintHashSize]byte
	encoded string
}

// newFingerprint encodes a digest.
func newFingerprint(hash [FingerprintHashSize]byte) Fingerprint {
	// Encoding cannot fail for a fixed lowercase prefix and a 20 byte
	// payload.
	encoded, _ := bech32.EncodeFromBase256(FingerprintHRP, hash[:])

	return Fingerprint{hash: hash, encoded: encoded}
}

// FingerprintFromParts hashes the raw policy id and asset name and encodes
// the digest.
func FingerprintFromParts(policyID, assetName []byte) Fingerprint {
	// The error is only returned for an invalid size or key.
	h, _ := blake2b.New(FingerprintHashSize, nil)
	h.Write(policyID)
	h.Write(assetName)

	var digest [FingerprintHashSize]byte
	copy(digest[:], h.Sum(nil))

	return newFingerprint(digest)
}

// FingerprintFromHash encodes an already computed 20 byte digest.
func FingerprintFromHash(hash []byte) (Fingerprint, error) {
	if len(hash) != FingerprintHashSize {
		return Fingerprint{}, fmt.Errorf("%w: digest is %d bytes, want %d",
			ErrMalformedFingerprint, len(hash), FingerprintHashSize)
	}

	var digest [FingerprintHashSize]byte
	copy(digest[:], hash)

	return newFingerprint(digest), nil
}

// FingerprintFromBech32 decodes a fingerprint string, validating its
// checksum, its prefix and the size of its payload. Only the original bech32
// checksum is accepted, a bech32m one is rejected.
func FingerprintFromBech32(fingerprint string) (Fingerprint, error) {
	hrp, data, version, err := bech32.DecodeGeneric(fingerprint)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("%w: %v", ErrMalformedFingerprint,
			err)
	}

	if version != bech32.Version0 {
		return Fingerprint{}, fmt.Errorf("%w: bech32m checksum",
			ErrMalformedFingerprint)
	}

	if hrp != FingerprintHRP {
		return Fingerprint{}, fmt.Errorf("%w: prefix %q, want %q",
			ErrMalformedFingerprint, hrp, FingerprintHRP)
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("%w: %v", ErrMalformedFingerprint,
			err)
	}

	return FingerprintFromHash(payload)
}

// ResolveFingerprint computes the fingerprint string of a hex policy id and
// a hex asset name.
func ResolveFingerprint(policyIDHex, assetNameHex string) (string, error) {
	policyID, err := hex.DecodeString(policyIDHex)
	if err != nil {
		return "", fmt.Errorf("%w: policy id %q: %v", ErrInvalidUnit,
			policyIDHex, err)
	}

	assetName, err := hex.DecodeString(assetNameHex)
	if err != nil {
		return "", fmt.Errorf("%w: asset name %q: %v", ErrInvalidUnit,
			assetNameHex, err)
	}

	return FingerprintFromParts(policyID, assetName).String(), nil
}

// String returns the bech32 fingerprint, e.g. "asset1...".
func (f Fingerprint) String() string {
	return f.encoded
}

// Hash returns the digest as hex.
func (f Fingerprint) Hash() string {
	return hex.EncodeToString(f.hash[:])
}

// Prefix returns the human-readable part of the fingerprint.
func (f Fingerprint) Prefix() string {
	return FingerprintHRP
}

// Checksum returns the trailing bech32 checksum characters.
func (f Fingerprint) Checksum() string {
	if len(f.encoded) < checksumLength {
		return ""
	}

	return f.encoded[len(f.encoded)-checksumLength:]
}
