// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btclog"
	"github.com/jessevdk/go-flags"
	"github.com/rawvie-ngit/mesh-common/asset"
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
	"github.com/rawvie-ngit/mesh-common/pkg/meshunit"
	"github.com/rawvie-ngit/mesh-common/selection"
)

const (
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "meshselect.log"
	defaultMaxLogFiles = 3

	// defaultMaxLogFileSize is the log file size in KB that triggers a
	// rotation.
	defaultMaxLogFileSize = 10 * 1024
)

var (
	defaultHomeDir = btcutil.AppDataDir("meshselect", false)
	defaultLogDir  = filepath.Join(defaultHomeDir, defaultLogDirname)

	// errInvalidRequirement is returned when a --require value is not of
	// the form unit:quantity.
	errInvalidRequirement = errors.New("requirement must be unit:quantity")
)

// config holds the options shared by every command.
//
//nolint:lll
type config struct {
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	LogDir        string `long:"logdir" description:"Directory to log output"`
	NoFileLogging bool   `long:"nofilelogging" description:"Disable logging to a rotated file"`

	Threshold string `long:"threshold" description:"Lovelace kept on top of the required lovelace by keepRelevant and experimental"`
	NoTxFees  bool   `long:"notxfees" description:"Do not reserve an estimated transaction fee"`
	MinFeeA   uint64 `long:"minfeea" description:"Fee coefficient in lovelace per byte"`
	MinFeeB   uint64 `long:"minfeeb" description:"Constant fee in lovelace"`
	MaxTxSize uint64 `long:"maxtxsize" description:"Maximum transaction size in bytes"`
}

// defaultConfig returns the configuration used when no flag is given.
func defaultConfig() *config {
	return &config{
		DebugLevel: defaultLogLevel,
		LogDir:     defaultLogDir,
		Threshold:  selection.DefaultThreshold.String(),
		MinFeeA:    meshunit.DefaultFeeParams.MinFeeA,
		MinFeeB:    meshunit.DefaultFeeParams.MinFeeB,
		MaxTxSize:  meshunit.DefaultFeeParams.MaxTxSize.Bytes(),
	}
}

// loadConfig validates the parsed options and maps them onto the selection
// configuration.
func loadConfig(cfg *config) (selection.Config, error) {
	if _, ok := btclog.LevelFromString(cfg.DebugLevel); !ok {
		return selection.Config{}, fmt.Errorf("invalid debug level %q",
			cfg.DebugLevel)
	}

	threshold, err := bignum.Parse(cfg.Threshold)
	if err != nil {
		return selection.Config{}, fmt.Errorf("threshold: %w", err)
	}
	if threshold.Sign() < 0 {
		return selection.Config{}, fmt.Errorf("threshold: %w",
			bignum.ErrNegative)
	}

	if cfg.MaxTxSize == 0 {
		return selection.Config{}, errors.New("maxtxsize must be " +
			"positive")
	}

	return selection.Config{
		Threshold:     threshold,
		IncludeTxFees: !cfg.NoTxFees,
		FeeParams: meshunit.FeeParams{
			MinFeeA:   cfg.MinFeeA,
			MinFeeB:   cfg.MinFeeB,
			MaxTxSize: meshunit.NewByteSize(cfg.MaxTxSize),
		},
	}, nil
}

// parseRequirements turns unit:quantity pairs into requirements, keeping
// their order.
func parseRequirements(pairs []string) (*selection.Requirements, error) {
	assets := make([]asset.Asset, 0, len(pairs))
	for _, pair := range pairs {
		unit, quantity, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", errInvalidRequirement,
				pair)
		}

		if !asset.IsLovelace(unit) {
			if _, _, err := asset.ParseUnit(unit); err != nil {
				return nil, err
			}
		}

		assets = append(assets, asset.Asset{
			Unit: unit, Quantity: quantity,
		})
	}

	return selection.RequirementsFromAssets(assets)
}

// newParser builds the command line parser with every command registered.
func newParser(cfg *config, out io.Writer) (*flags.Parser, error) {
	parser := flags.NewParser(cfg, flags.Default)

	commands := []struct {
		name  string
		short string
		long  string
		data  interface{}
	}{
		{
			name:  "select",
			short: "Select UTxOs with one strategy",
			long: "Reads a JSON array of UTxOs and prints the inputs " +
				"chosen by the strategy.",
			data: &selectCommand{cfg: cfg, out: out},
		},
		{
			name:  "compare",
			short: "Run every strategy on the same request",
			long: "Reads a JSON array of UTxOs and prints the outcome " +
				"of every built-in strategy.",
			data: &compareCommand{cfg: cfg, out: out},
		},
		{
			name:  "fingerprint",
			short: "Print the CIP-14 fingerprint of an asset",
			long: "Computes the fingerprint of a hex policy id and a " +
				"hex asset name.",
			data: &fingerprintCommand{out: out},
		},
	}

	for _, c := range commands {
		_, err := parser.AddCommand(c.name, c.short, c.long, c.data)
		if err != nil {
			return nil, err
		}
	}

	return parser, nil
}
