package meshunit

import (
	"fmt"
)

const (
	// BaseTxSize is the worst case serialized size in bytes of a
	// transaction without any inputs: the body with one recipient and one
	// change output, the fee and validity fields, and the witness set
	// framing.
	BaseTxSize = 300

	// InputSize is the serialized size in bytes one additional key-locked
	// input adds to a transaction: the 32 byte transaction hash and index
	// in the body plus one vkey witness (32 byte key, 64 byte signature)
	// with their CBOR framing.
	InputSize = 140
)

// ByteSize expresses a serialized transaction size in bytes.
type ByteSize struct {
	bytes uint64
}

// NewByteSize creates a new ByteSize from a uint64 value.
func NewByteSize(val uint64) ByteSize {
	return ByteSize{bytes: val}
}

// Bytes returns the raw number of bytes.
func (b ByteSize) Bytes() uint64 {
	return b.bytes
}

// String returns the string representation of the size.
func (b ByteSize) String() string {
	return fmt.Sprintf("%d bytes", b.bytes)
}

// EstimateTxSize returns a conservative estimate of the size of a
// transaction spending numInputs key-locked inputs. The estimate grows
// monotonically with numInputs until it reaches maxTxSize, at which point it
// is capped. Past MaxInputs inputs the estimate, and the fee derived from
// it, no longer grows, so callers must bound the input count themselves.
func EstimateTxSize(numInputs int, maxTxSize ByteSize) ByteSize {
	if numInputs < 0 {
		numInputs = 0
	}

	size := uint64(BaseTxSize) + uint64(numInputs)*InputSize
	if maxTxSize.bytes != 0 && size > maxTxSize.bytes {
		size = maxTxSize.bytes
	}

	return NewByteSize(size)
}

// MaxInputs returns how many key-locked inputs fit in a transaction of at
// most maxTxSize bytes. A zero maxTxSize means no limit and yields -1.
func MaxInputs(maxTxSize ByteSize) int {
	switch {
	case maxTxSize.bytes == 0:
		return -1

	case maxTxSize.bytes < BaseTxSize:
		return 0
	}

	return int((maxTxSize.bytes - BaseTxSize) / InputSize)
}
