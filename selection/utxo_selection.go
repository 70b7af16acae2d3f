package selection

import (
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
	"github.com/rawvie-ngit/mesh-common/utxo"
)

// UtxoSelection runs the built-in strategies with a fixed configuration.
type UtxoSelection struct {
	cfg Config
}

// NewUtxoSelection creates a selector with the given lovelace threshold,
// used by KeepRelevant and Experimental only, and
// fee setting and the default fee parameters.
func NewUtxoSelection(threshold bignum.BigNum,
	includeTxFees bool) *UtxoSelection {

	cfg := DefaultConfig()
	cfg.Threshold = threshold
	cfg.IncludeTxFees = includeTxFees

	return &UtxoSelection{cfg: cfg}
}

// NewUtxoSelectionWithConfig creates a selector from a full configuration.
func NewUtxoSelectionWithConfig(cfg Config) *UtxoSelection {
	return &UtxoSelection{cfg: cfg}
}

// Config returns the configuration of the selector.
func (u *UtxoSelection) Config() Config {
	return u.cfg
}

// request builds a request with the selector's configuration.
func (u *UtxoSelection) request(required *Requirements,
	inputs []utxo.UTxO) *Request {

	return &Request{
		Required:   required,
		Candidates: inputs,
		Config:     u.cfg,
	}
}

// LargestFirst runs the LargestFirst strategy.
func (u *UtxoSelection) LargestFirst(required *Requirements,
	inputs []utxo.UTxO) ([]utxo.UTxO, error) {

	return LargestFirst.Select(u.request(required, inputs))
}

// LargestFirstMultiAsset runs the LargestFirstMultiAsset strategy.
func (u *UtxoSelection) LargestFirstMultiAsset(required *Requirements,
	inputs []utxo.UTxO) ([]utxo.UTxO, error) {

	return LargestFirstMultiAsset.Select(u.request(required, inputs))
}

// KeepRelevant runs the KeepRelevant strategy.
func (u *UtxoSelection) KeepRelevant(required *Requirements,
	inputs []utxo.UTxO) ([]utxo.UTxO, error) {

	return KeepRelevant.Select(u.request(required, inputs))
}

// Experimental runs the Experimental strategy.
func (u *UtxoSelection) Experimental(required *Requirements,
	inputs []utxo.UTxO) ([]utxo.UTxO, error) {

	return Experimental.Select(u.request(required, inputs))
}

// Select runs the built-in strategy with the given name.
func (u *UtxoSelection) Select(name StrategyName, required *Requirements,
	inputs []utxo.UTxO) ([]utxo.UTxO, error) {

	strategy, err := ParseStrategy(string(name))
	if err != nil {
		return nil, err
	}

	return strategy.Select(u.request(required, inputs))
}
