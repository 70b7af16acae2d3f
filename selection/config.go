package selection

import (
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
	"github.com/rawvie-ngit/mesh-common/pkg/meshunit"
	"github.com/rawvie-ngit/mesh-common/utxo"
)

// DefaultThreshold is the default minimum lovelace margin kept on top of the
// required lovelace.
var DefaultThreshold = bignum.New(5_000_000)

// Config holds the knobs shared by every strategy.
type Config struct {
	// Threshold is a lovelace margin KeepRelevant and Experimental keep
	// on top of the lovelace requirement. It is independent of the fee
	// buffer. The largest first strategies ignore it.
	Threshold bignum.BigNum

	// IncludeTxFees reserves an estimated transaction fee, growing with
	// the number of selected inputs, on top of the lovelace requirement.
	IncludeTxFees bool

	// FeeParams are the protocol fee parameters used for the estimate.
	FeeParams meshunit.FeeParams
}

// DefaultConfig returns the configuration used when none is given: a 5 ADA
// threshold, fees included and mainnet fee parameters.
func DefaultConfig() Config {
	return Config{
		Threshold:     DefaultThreshold,
		IncludeTxFees: true,
		FeeParams:     meshunit.DefaultFeeParams,
	}
}

// feeBuffer returns the fee reserved for a transaction spending numInputs
// inputs.
func (c Config) feeBuffer(numInputs int) bignum.BigNum {
	if !c.IncludeTxFees {
		return bignum.Zero
	}

	return c.FeeParams.FeeForInputs(numInputs)
}

// Request is a single selection problem. Strategies only read it.
type Request struct {
	// Required maps each unit to its minimum quantity.
	Required *Requirements

	// Candidates are the UTxOs to choose from. Their order breaks ties.
	Candidates []utxo.UTxO

	// Config holds the threshold and fee settings.
	Config Config
}
