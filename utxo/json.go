package utxo

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/rawvie-ngit/mesh-common/asset"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// wireInput is the JSON shape of Input.
type wireInput struct {
	TxHash      string  `json:"txHash"`
	OutputIndex *uint32 `json:"outputIndex"`
}

// wireOutput is the JSON shape of Output. Absent optional fields are
// omitted.
type wireOutput struct {
	Address    string        `json:"address"`
	Amount     []asset.Asset `json:"amount"`
	DataHash   *string       `json:"dataHash,omitempty"`
	PlutusData *string       `json:"plutusData,omitempty"`
	ScriptRef  *string       `json:"scriptRef,omitempty"`
	ScriptHash *string       `json:"scriptHash,omitempty"`
}

// wireUTxO is the JSON shape of UTxO.
type wireUTxO struct {
	Input  *wireInput  `json:"input"`
	Output *wireOutput `json:"output"`
}

// optionPtr converts an optional string into a nil-able pointer.
func optionPtr(o fn.Option[string]) *string {
	var p *string
	o.WhenSome(func(s string) {
		p = &s
	})

	return p
}

// ptrOption converts a nil-able pointer into an optional string.
func ptrOption(p *string) fn.Option[string] {
	if p == nil {
		return fn.None[string]()
	}

	return fn.Some(*p)
}

// MarshalJSON encodes the UTxO in its wire shape.
func (u UTxO) MarshalJSON() ([]byte, error) {
	index := u.Input.OutputIndex
	amount := u.Output.Amount
	if amount == nil {
		amount = []asset.Asset{}
	}

	return json.Marshal(wireUTxO{
		Input: &wireInput{
			TxHash:      u.Input.TxHash,
			OutputIndex: &index,
		},
		Output: &wireOutput{
			Address:    u.Output.Address,
			Amount:     amount,
			DataHash:   optionPtr(u.Output.DataHash),
			PlutusData: optionPtr(u.Output.PlutusData),
			ScriptRef:  optionPtr(u.Output.ScriptRef),
			ScriptHash: optionPtr(u.Output.ScriptHash),
		},
	})
}

// UnmarshalJSON decodes the wire shape and validates the result. A record
// missing its input, output or output index is rejected rather than filled
// with zero values.
func (u *UTxO) UnmarshalJSON(data []byte) error {
	var w wireUTxO
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedUTxO, err)
	}

	switch {
	case w.Input == nil:
		return fmt.Errorf("%w: missing input", ErrMalformedUTxO)

	case w.Input.OutputIndex == nil:
		return fmt.Errorf("%w: missing output index", ErrMalformedUTxO)

	case w.Output == nil:
		return fmt.Errorf("%w: missing output", ErrMalformedUTxO)
	}

	decoded := UTxO{
		Input: Input{
			TxHash:      w.Input.TxHash,
			OutputIndex: *w.Input.OutputIndex,
		},
		Output: Output{
			Address:    w.Output.Address,
			Amount:     w.Output.Amount,
			DataHash:   ptrOption(w.Output.DataHash),
			PlutusData: ptrOption(w.Output.PlutusData),
			ScriptRef:  ptrOption(w.Output.ScriptRef),
			ScriptHash: ptrOption(w.Output.ScriptHash),
		},
	}
	if err := decoded.Validate(); err != nil {
		return err
	}

	*u = decoded

	return nil
}

// ParseList decodes a JSON array of UTxOs and validates the whole set.
func ParseList(data []byte) ([]UTxO, error) {
	var utxos []UTxO

	// The decoder flattens errors returned by UnmarshalJSON into text, so
	// the sentinel is attached again here.
	if err := json.Unmarshal(data, &utxos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedUTxO, err)
	}

	if err := ValidateAll(utxos); err != nil {
		return nil, err
	}

	return utxos, nil
}
