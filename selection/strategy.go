// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package selection picks which UTxOs a transaction spends. Every strategy
// takes a requirement (unit to minimum quantity) and a candidate list and
// returns a subset whose combined value covers the requirement plus,
// optionally, an estimated fee buffer. KeepRelevant and Experimental also
// keep a lovelace threshold on top.
//
// Strategies are deterministic for a given candidate order, never modify the
// request and keep no state between calls, so a single strategy value may be
// shared by any number of goroutines.
package selection

import (
	"fmt"
	"strings"

	"github.com/rawvie-ngit/mesh-common/utxo"
)

// StrategyName names a selection strategy.
type StrategyName string

const (
	// StrategyLargestFirst is the lovelace-only largest first strategy.
	StrategyLargestFirst StrategyName = "largestFirst"

	// StrategyLargestFirstMultiAsset covers each unit largest first.
	StrategyLargestFirstMultiAsset StrategyName = "largestFirstMultiAsset"

	// StrategyKeepRelevant prefers candidates holding required units.
	StrategyKeepRelevant StrategyName = "keepRelevant"

	// StrategyExperimental greedily picks the best scoring candidate.
	StrategyExperimental StrategyName = "experimental"
)

// Strategy is a coin selection algorithm.
type Strategy interface {
	// Name returns the name of the strategy.
	Name() StrategyName

	// Select returns the candidates to spend, in the order they were
	// accepted, or an *InsufficientFundsError when the candidates fall
	// short.
	Select(req *Request) ([]utxo.UTxO, error)
}

var (
	// LargestFirst spends the candidates with the most lovelace first. It
	// only accepts lovelace requirements.
	LargestFirst Strategy = &LargestFirstSelector{}

	// LargestFirstMultiAsset covers every required unit in turn from the
	// candidates holding the most of it, then tops up lovelace.
	LargestFirstMultiAsset Strategy = &LargestFirstMultiAssetSelector{}

	// KeepRelevant spends candidates holding required units before
	// falling back to pure lovelace candidates.
	KeepRelevant Strategy = &KeepRelevantSelector{}

	// Experimental repeatedly picks the candidate covering the largest
	// share of what is still missing.
	Experimental Strategy = &ExperimentalSelector{Scorer: CoverageScorer{}}
)

// Strategies returns every built-in strategy.
func Strategies() []Strategy {
	return []Strategy{
		LargestFirst, LargestFirstMultiAsset, KeepRelevant, Experimental,
	}
}

// ParseStrategy returns the built-in strategy with the given name. Matching
// ignores case.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies() {
		if strings.EqualFold(string(s.Name()), name) {
			return s, nil
		}
	}

	return nil, newError(ErrCodeUnknownStrategy,
		fmt.Sprintf("strategy %q", name), ErrUnknownStrategy)
}
