package main

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/rawvie-ngit/mesh-common/asset"
	"github.com/rawvie-ngit/mesh-common/meshvalue"
	"github.com/rawvie-ngit/mesh-common/pkg/meshunit"
	"github.com/rawvie-ngit/mesh-common/selection"
	"github.com/rawvie-ngit/mesh-common/utxo"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// selectionReport is the JSON printed for a successful selection.
type selectionReport struct {
	Strategy     selection.StrategyName `json:"strategy"`
	Inputs       []utxo.UTxO            `json:"inputs"`
	Total        []asset.Asset          `json:"total"`
	EstimatedFee string                 `json:"estimatedFee,omitempty"`
	Error        string                 `json:"error,omitempty"`
}

// requestOptions are the options shared by select and compare.
//
//nolint:lll
type requestOptions struct {
	UTxOFile string   `short:"u" long:"utxos" description:"JSON file with the candidate UTxOs" required:"true"`
	Require  []string `short:"r" long:"require" description:"Required amount as unit:quantity, may be repeated"`
}

// build reads the candidates and requirements and assembles a request.
func (o *requestOptions) build(cfg *config) (*selection.Request, error) {
	selCfg, err := loadConfig(cfg)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(o.UTxOFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read utxos: %w", err)
	}

	candidates, err := utxo.ParseList(raw)
	if err != nil {
		return nil, err
	}

	required, err := parseRequirements(o.Require)
	if err != nil {
		return nil, err
	}

	log.Debugf("Loaded %d candidates from %v, requiring %v",
		len(candidates), o.UTxOFile, required.Value())

	return &selection.Request{
		Required:   required,
		Candidates: candidates,
		Config:     selCfg,
	}, nil
}

// report summarizes the outcome of one strategy.
func report(name selection.StrategyName, cfg selection.Config,
	selected []utxo.UTxO, selErr error) (selectionReport, error) {

	r := selectionReport{Strategy: name, Inputs: []utxo.UTxO{}}
	if selErr != nil {
		r.Error = selErr.Error()
		return r, nil
	}

	total := meshvalue.New()
	for _, u := range selected {
		v, err := u.Value()
		if err != nil {
			return r, err
		}
		total.Merge(v)
	}

	r.Inputs = selected
	r.Total = total.ToAssets()
	if cfg.IncludeTxFees {
		fee := cfg.FeeParams.FeeForInputs(len(selected))
		r.EstimatedFee = meshunit.FormatAda(fee)
	}

	return r, nil
}

// writeJSON prints v as indented JSON followed by a newline.
func writeJSON(out io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s\n", b)

	return err
}

// selectCommand runs a single strategy.
type selectCommand struct {
	requestOptions

	Strategy string `short:"s" long:"strategy" description:"Strategy name" default:"largestFirst"`

	cfg *config
	out io.Writer
}

// Execute runs the select command.
func (c *selectCommand) Execute(_ []string) error {
	strategy, err := selection.ParseStrategy(c.Strategy)
	if err != nil {
		return err
	}

	req, err := c.build(c.cfg)
	if err != nil {
		return err
	}

	selected, err := strategy.Select(req)
	if err != nil {
		return err
	}

	log.Infof("Strategy %v selected %d of %d candidates",
		strategy.Name(), len(selected), len(req.Candidates))

	r, err := report(strategy.Name(), req.Config, selected, nil)
	if err != nil {
		return err
	}

	return writeJSON(c.out, r)
}

// compareCommand runs every built-in strategy on the same request.
type compareCommand struct {
	requestOptions

	cfg *config
	out io.Writer
}

// Execute runs the compare command.
func (c *compareCommand) Execute(_ []string) error {
	req, err := c.build(c.cfg)
	if err != nil {
		return err
	}

	outcomes, err := selection.Compare(
		context.Background(), req, selection.Strategies(),
	)
	if err != nil {
		return err
	}

	reports := make([]selectionReport, 0, len(outcomes))
	for _, o := range outcomes {
		r, err := report(o.Strategy, req.Config, o.Selected, o.Err)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}

	return writeJSON(c.out, reports)
}

// fingerprintCommand prints the fingerprint of an asset.
type fingerprintCommand struct {
	Args struct {
		PolicyID  string `positional-arg-name:"policyid" description:"Hex policy id"`
		AssetName string `positional-arg-name:"assetname" description:"Hex asset name"`
	} `positional-args:"yes" required:"1"`

	Extended bool `short:"e" long:"extended" description:"Print the decomposed unit as JSON"`

	out io.Writer
}

// Execute runs the fingerprint command.
func (c *fingerprintCommand) Execute(_ []string) error {
	if !c.Extended {
		fingerprint, err := asset.ResolveFingerprint(
			c.Args.PolicyID, c.Args.AssetName,
		)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(c.out, fingerprint)

		return err
	}

	extended, err := asset.Extend(asset.Asset{
		Unit:     c.Args.PolicyID + c.Args.AssetName,
		Quantity: "1",
	})
	if err != nil {
		return err
	}

	return writeJSON(c.out, extended)
}
