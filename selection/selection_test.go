package selection

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/rawvie-ngit/mesh-common/asset"
	"github.com/rawvie-ngit/mesh-common/meshvalue"
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
	"github.com/rawvie-ngit/mesh-common/pkg/meshunit"
	"github.com/rawvie-ngit/mesh-common/utxo"
	"github.com/stretchr/testify/require"
)

const (
	testPolicy = "7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373"

	tokenA = testPolicy + "41"
	tokenB = testPolicy + "42"
	tokenX = testPolicy + "746f6b656e58"
)

// noFees is a configuration without threshold nor fee buffer.
var noFees = Config{
	Threshold:     bignum.Zero,
	IncludeTxFees: false,
	FeeParams:     meshunit.DefaultFeeParams,
}

// withFees is noFees with the fee buffer enabled.
var withFees = Config{
	Threshold:     bignum.Zero,
	IncludeTxFees: true,
	FeeParams:     meshunit.DefaultFeeParams,
}

// newUTxO builds a candidate with the given lovelace and extra assets. The
// index makes the input unique.
func newUTxO(index uint32, lovelace int64, extra ...asset.Asset) utxo.UTxO {
	amount := []asset.Asset{asset.NewLovelace(bignum.New(lovelace))}

	return utxo.UTxO{
		Input: utxo.Input{
			TxHash:      fmt.Sprintf("%064x", index),
			OutputIndex: index,
		},
		Output: utxo.Output{
			Address: "addr_test1",
			Amount:  append(amount, extra...),
		},
	}
}

// tok is a shorthand for a token asset.
func tok(unit string, quantity int64) asset.Asset {
	return asset.New(unit, bignum.New(quantity))
}

// requirements builds requirements from asset literals.
func requirements(t *testing.T, assets ...asset.Asset) *Requirements {
	t.Helper()

	r, err := RequirementsFromAssets(assets)
	require.NoError(t, err)

	return r
}

// indices maps a selection back to candidate output indices.
func indices(selected []utxo.UTxO) []uint32 {
	out := make([]uint32, 0, len(selected))
	for _, u := range selected {
		out = append(out, u.Input.OutputIndex)
	}

	return out
}

// TestLargestFirstScenario requires 5 ADA from 2, 4 and 10 ADA candidates
// and expects only the 10 ADA one.
func TestLargestFirstScenario(t *testing.T) {
	t.Parallel()

	candidates := []utxo.UTxO{
		newUTxO(0, 2_000_000),
		newUTxO(1, 4_000_000),
		newUTxO(2, 10_000_000),
	}

	selected, err := LargestFirst.Select(&Request{
		Required: requirements(t, asset.NewLovelace(
			bignum.New(5_000_000),
		)),
		Candidates: candidates,
		Config:     noFees,
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{2}, indices(selected))

	// The threshold only applies to keepRelevant and experimental, so the
	// default 5 ADA margin changes nothing here.
	facade := NewUtxoSelection(DefaultThreshold, false)
	selected, err = facade.LargestFirst(requirements(t,
		asset.NewLovelace(bignum.New(5_000_000))), candidates)
	require.NoError(t, err)
	require.Equal(t, []uint32{2}, indices(selected))
}

// TestLargestFirstIgnoresThreshold checks that both largest first strategies
// cover the required lovelace and fee buffer only, whatever the threshold.
func TestLargestFirstIgnoresThreshold(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		candidates []utxo.UTxO
		want       []uint32
	}{
		{
			name: "first input is enough",
			candidates: []utxo.UTxO{
				newUTxO(0, 6_000_000),
				newUTxO(1, 4_000_000),
			},
			want: []uint32{0},
		},
		{
			name:       "single input above requirement",
			candidates: []utxo.UTxO{newUTxO(0, 7_000_000)},
			want:       []uint32{0},
		},
		{
			name:       "exact requirement",
			candidates: []utxo.UTxO{newUTxO(0, 5_000_000)},
			want:       []uint32{0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			facade := NewUtxoSelection(DefaultThreshold, false)
			required := requirements(t, asset.NewLovelace(
				bignum.New(5_000_000),
			))

			selected, err := facade.LargestFirst(
				required, tc.candidates,
			)
			require.NoError(t, err)
			require.Equal(t, tc.want, indices(selected))

			selected, err = facade.LargestFirstMultiAsset(
				required, tc.candidates,
			)
			require.NoError(t, err)
			require.Equal(t, tc.want, indices(selected))
		})
	}

	// keepRelevant keeps the threshold, so 7 ADA falls 3 ADA short.
	_, err := NewUtxoSelection(DefaultThreshold, false).KeepRelevant(
		requirements(t, asset.NewLovelace(bignum.New(5_000_000))),
		[]utxo.UTxO{newUTxO(0, 7_000_000)},
	)

	var insufficient *InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	require.Equal(t, "3000000",
		insufficient.Unmet.Get(asset.Lovelace).String())
}

// TestLargestFirstTies checks that equal candidates keep their order.
func TestLargestFirstTies(t *testing.T) {
	t.Parallel()

	selected, err := LargestFirst.Select(&Request{
		Required: requirements(t, asset.NewLovelace(
			bignum.New(3_000_000),
		)),
		Candidates: []utxo.UTxO{
			newUTxO(0, 1_000_000),
			newUTxO(1, 2_000_000),
			newUTxO(2, 1_000_000),
			newUTxO(3, 2_000_000),
		},
		Config: noFees,
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 3}, indices(selected))
}

// TestLargestFirstFeeBuffer checks that the fee buffer grows with every
// accepted input and that inputs smaller than their own fee are not used.
func TestLargestFirstFeeBuffer(t *testing.T) {
	t.Parallel()

	required := requirements(t, asset.NewLovelace(bignum.New(1_000_000)))

	// One input needs 1_000_000 + 44 * 440 + 155_381 = 1_174_741, two
	// inputs need 1_000_000 + 44 * 580 + 155_381 = 1_180_901.
	selected, err := LargestFirst.Select(&Request{
		Required: required,
		Candidates: []utxo.UTxO{
			newUTxO(0, 400_000),
			newUTxO(1, 1_000_000),
			newUTxO(2, 500_000),
		},
		Config: withFees,
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2}, indices(selected))

	// An input of 5_000 lovelace costs 44 * 140 = 6_160 to spend.
	_, err = LargestFirst.Select(&Request{
		Required: required,
		Candidates: []utxo.UTxO{
			newUTxO(0, 1_000_000),
			newUTxO(1, 5_000),
			newUTxO(2, 5_000),
		},
		Config: withFees,
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	var insufficient *InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	require.Equal(t, StrategyLargestFirst, insufficient.Strategy)
	require.Equal(t, 1, insufficient.Selected)
	require.Equal(t, 3, insufficient.Candidates)
	require.Equal(t, "174741",
		insufficient.Unmet.Get(asset.Lovelace).String())

	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, ErrCodeInsufficientFunds, code)
}

// TestLargestFirstRejectsTokens checks the lovelace-only restriction.
func TestLargestFirstRejectsTokens(t *testing.T) {
	t.Parallel()

	_, err := LargestFirst.Select(&Request{
		Required:   requirements(t, tok(tokenA, 1)),
		Candidates: []utxo.UTxO{newUTxO(0, 1, tok(tokenA, 1))},
		Config:     noFees,
	})
	require.ErrorIs(t, err, ErrUnsupportedRequirement)

	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, ErrCodeUnsupportedRequirement, code)
}

// TestKeepRelevantScenario checks that the only candidate carrying the
// required token is chosen over larger pure lovelace ones.
func TestKeepRelevantScenario(t *testing.T) {
	t.Parallel()

	candidates := []utxo.UTxO{
		newUTxO(0, 50_000_000),
		newUTxO(1, 30_000_000),
		newUTxO(2, 20_000_000),
		newUTxO(3, 3_000_000, tok(tokenX, 1)),
	}

	cfg := noFees
	cfg.Threshold = bignum.New(2_000_000)

	selected, err := KeepRelevant.Select(&Request{
		Required:   requirements(t, tok(tokenX, 1)),
		Candidates: candidates,
		Config:     cfg,
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{3}, indices(selected))

	// A threshold the relevant candidate cannot meet pulls in the largest
	// pure lovelace candidate.
	cfg.Threshold = bignum.New(5_000_000)
	selected, err = KeepRelevant.Select(&Request{
		Required:   requirements(t, tok(tokenX, 1)),
		Candidates: candidates,
		Config:     cfg,
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{3, 0}, indices(selected))

	// Missing token quantity cannot be made up with lovelace.
	_, err = KeepRelevant.Select(&Request{
		Required:   requirements(t, tok(tokenX, 2)),
		Candidates: candidates,
		Config:     cfg,
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

// TestKeepRelevantSkipsUselessRelevant checks that a relevant candidate is
// only accepted for tokens while it adds to a unit still short.
func TestKeepRelevantSkipsUselessRelevant(t *testing.T) {
	t.Parallel()

	selected, err := KeepRelevant.Select(&Request{
		Required: requirements(t, tok(tokenA, 5), tok(tokenB, 1)),
		Candidates: []utxo.UTxO{
			newUTxO(0, 1_000_000, tok(tokenA, 5)),
			newUTxO(1, 9_000_000, tok(tokenA, 1)),
			newUTxO(2, 1_000_000, tok(tokenB, 1)),
		},
		Config: noFees,
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 2}, indices(selected))
}

// TestLargestFirstMultiAsset checks the per-unit passes, their order and the
// final lovelace pass.
func TestLargestFirstMultiAsset(t *testing.T) {
	t.Parallel()

	candidates := []utxo.UTxO{
		newUTxO(0, 10_000_000),
		newUTxO(1, 2_000_000, tok(tokenA, 5)),
		newUTxO(2, 1_000_000, tok(tokenA, 10), tok(tokenB, 1)),
		newUTxO(3, 1_000_000, tok(tokenB, 3)),
	}

	tests := []struct {
		name     string
		required []asset.Asset
		want     []uint32
	}{
		{
			name: "units in requirement order",
			required: []asset.Asset{
				tok(tokenB, 2), tok(tokenA, 12),
				asset.NewLovelace(bignum.New(3_000_000)),
			},
			want: []uint32{3, 2, 1},
		},
		{
			name: "lovelace top up",
			required: []asset.Asset{
				tok(tokenB, 2), tok(tokenA, 12),
				asset.NewLovelace(bignum.New(5_000_000)),
			},
			want: []uint32{3, 2, 1, 0},
		},
		{
			name: "earlier pass covers later unit",
			required: []asset.Asset{
				tok(tokenA, 10), tok(tokenB, 1),
			},
			want: []uint32{2},
		},
		{
			name: "lovelace only",
			required: []asset.Asset{
				asset.NewLovelace(bignum.New(1)),
			},
			want: []uint32{0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			selected, err := LargestFirstMultiAsset.Select(&Request{
				Required:   requirements(t, tc.required...),
				Candidates: candidates,
				Config:     noFees,
			})
			require.NoError(t, err)
			require.Equal(t, tc.want, indices(selected))
		})
	}

	_, err := LargestFirstMultiAsset.Select(&Request{
		Required:   requirements(t, tok(tokenA, 100)),
		Candidates: candidates,
		Config:     noFees,
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	var insufficient *InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	require.Equal(t, "85", insufficient.Unmet.Get(tokenA).String())
	require.Equal(t, []string{tokenA}, insufficient.Unmet.Units())
}

// TestExperimental checks the greedy coverage heuristic.
func TestExperimental(t *testing.T) {
	t.Parallel()

	selected, err := Experimental.Select(&Request{
		Required: requirements(t,
			tok(tokenA, 5), tok(tokenB, 5),
			asset.NewLovelace(bignum.New(2_000_000)),
		),
		Candidates: []utxo.UTxO{
			newUTxO(0, 10_000_000),
			newUTxO(1, 1_000_000, tok(tokenA, 5)),
			newUTxO(2, 2_000_000, tok(tokenA, 5), tok(tokenB, 5)),
		},
		Config: noFees,
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{2}, indices(selected))

	// A pure lovelace candidate adds nothing to a token-only requirement.
	selected, err = Experimental.Select(&Request{
		Required: requirements(t, tok(tokenA, 5)),
		Candidates: []utxo.UTxO{
			newUTxO(0, 10_000_000),
			newUTxO(1, 1_000_000, tok(tokenA, 5)),
		},
		Config: noFees,
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{1}, indices(selected))

	// Ties go to the earlier candidate.
	selected, err = Experimental.Select(&Request{
		Required: requirements(t, asset.NewLovelace(bignum.New(1))),
		Candidates: []utxo.UTxO{
			newUTxO(0, 5),
			newUTxO(1, 5),
		},
		Config: noFees,
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, indices(selected))

	// Nothing helps with an unknown token.
	_, err = Experimental.Select(&Request{
		Required:   requirements(t, tok(tokenB, 1)),
		Candidates: []utxo.UTxO{newUTxO(0, 10_000_000)},
		Config:     noFees,
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

// largestLovelaceScorer scores candidates by their lovelace alone.
type largestLovelaceScorer struct{}

func (largestLovelaceScorer) Score(candidate,
	_ *meshvalue.Value) *big.Rat {

	return new(big.Rat).SetInt(candidate.Get(asset.Lovelace).Big())
}

// TestExperimentalPluggableScorer checks that the scorer can be swapped.
func TestExperimentalPluggableScorer(t *testing.T) {
	t.Parallel()

	candidates := []utxo.UTxO{
		newUTxO(0, 3_000_000),
		newUTxO(1, 10_000_000),
	}
	req := &Request{
		Required: requirements(t, asset.NewLovelace(
			bignum.New(2_000_000),
		)),
		Candidates: candidates,
		Config:     noFees,
	}

	// Coverage caps at the requirement so both candidates tie.
	selected, err := Experimental.Select(req)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, indices(selected))

	custom := &ExperimentalSelector{Scorer: largestLovelaceScorer{}}
	selected, err = custom.Select(req)
	require.NoError(t, err)
	require.Equal(t, []uint32{1}, indices(selected))

	// A nil scorer falls back to coverage.
	selected, err = (&ExperimentalSelector{}).Select(req)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, indices(selected))
}

// TestEmptyCandidates checks that every strategy fails on an empty candidate
// list for a non-empty requirement.
func TestEmptyCandidates(t *testing.T) {
	t.Parallel()

	for _, strategy := range Strategies() {
		t.Run(string(strategy.Name()), func(t *testing.T) {
			t.Parallel()

			_, err := strategy.Select(&Request{
				Required: requirements(t, asset.NewLovelace(
					bignum.New(1),
				)),
				Config: noFees,
			})
			require.ErrorIs(t, err, ErrInsufficientFunds)

			var insufficient *InsufficientFundsError
			require.True(t, errors.As(err, &insufficient))
			require.Equal(t, strategy.Name(), insufficient.Strategy)
			require.Equal(t, "1",
				insufficient.Unmet.Get(asset.Lovelace).String())

			_, err = strategy.Select(&Request{
				Required: requirements(t, tok(tokenA, 1)),
				Config:   noFees,
			})
			require.ErrorIs(t, err, ErrInsufficientFunds)
			require.True(t, errors.As(err, &insufficient))
			require.Equal(t, "1",
				insufficient.Unmet.Get(tokenA).String())
		})
	}
}

// TestEmptyRequirement checks that nothing is selected when nothing is
// needed, and that the fee buffer alone is a requirement.
func TestEmptyRequirement(t *testing.T) {
	t.Parallel()

	candidates := []utxo.UTxO{newUTxO(0, 10_000_000)}
	for _, strategy := range Strategies() {
		t.Run(string(strategy.Name()), func(t *testing.T) {
			t.Parallel()

			selected, err := strategy.Select(&Request{
				Required:   NewRequirements(),
				Candidates: candidates,
				Config:     noFees,
			})
			require.NoError(t, err)
			require.Empty(t, selected)

			selected, err = strategy.Select(&Request{
				Required:   NewRequirements(),
				Candidates: candidates,
				Config:     withFees,
			})
			require.NoError(t, err)
			require.Equal(t, []uint32{0}, indices(selected))
		})
	}
}

// TestInvalidRequest checks that malformed requests fail fast.
func TestInvalidRequest(t *testing.T) {
	t.Parallel()

	bad := newUTxO(1, 1)
	bad.Output.Address = ""

	negative := noFees
	negative.Threshold = bignum.New(-1)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "nil request"},
		{name: "nil requirement", req: &Request{Config: noFees}},
		{
			name: "malformed candidate",
			req: &Request{
				Required:   NewRequirements(),
				Candidates: []utxo.UTxO{newUTxO(0, 1), bad},
				Config:     noFees,
			},
		},
		{
			name: "duplicate candidate",
			req: &Request{
				Required: NewRequirements(),
				Candidates: []utxo.UTxO{
					newUTxO(0, 1), newUTxO(0, 1),
				},
				Config: noFees,
			},
		},
		{
			name: "negative threshold",
			req: &Request{
				Required: NewRequirements(),
				Config:   negative,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			for _, strategy := range Strategies() {
				_, err := strategy.Select(tc.req)
				require.ErrorIs(t, err, ErrInvalidRequest)

				code, ok := CodeOf(err)
				require.True(t, ok)
				require.Equal(t, ErrCodeInvalidRequest, code)
			}
		})
	}
}

// TestParseStrategy checks name lookup.
func TestParseStrategy(t *testing.T) {
	t.Parallel()

	for _, strategy := range Strategies() {
		parsed, err := ParseStrategy(string(strategy.Name()))
		require.NoError(t, err)
		require.Equal(t, strategy, parsed)
	}

	parsed, err := ParseStrategy("KEEPRELEVANT")
	require.NoError(t, err)
	require.Equal(t, KeepRelevant, parsed)

	_, err = ParseStrategy("random")
	require.ErrorIs(t, err, ErrUnknownStrategy)

	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, ErrCodeUnknownStrategy, code)
	require.Equal(t, "ErrCodeUnknownStrategy", code.String())

	_, ok = CodeOf(errors.New("other"))
	require.False(t, ok)
}

// TestUtxoSelectionFacade checks that the facade dispatches to every
// strategy with its configuration.
func TestUtxoSelectionFacade(t *testing.T) {
	t.Parallel()

	candidates := []utxo.UTxO{
		newUTxO(0, 8_000_000),
		newUTxO(1, 2_000_000, tok(tokenA, 1)),
	}
	required := requirements(t, tok(tokenA, 1))

	u := NewUtxoSelectionWithConfig(Config{
		Threshold: bignum.New(5_000_000),
		FeeParams: meshunit.DefaultFeeParams,
	})
	require.Equal(t, "5000000", u.Config().Threshold.String())

	// Only the strategies keeping the threshold need the 8 ADA input.
	runs := []func(*Requirements, []utxo.UTxO) ([]utxo.UTxO, error){
		u.KeepRelevant, u.Experimental,
	}
	for _, run := range runs {
		selected, err := run(required, candidates)
		require.NoError(t, err)
		require.ElementsMatch(t, []uint32{0, 1}, indices(selected))
	}

	selected, err := u.LargestFirstMultiAsset(required, candidates)
	require.NoError(t, err)
	require.Equal(t, []uint32{1}, indices(selected))

	selected, err = u.Select(StrategyKeepRelevant, required, candidates)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 0}, indices(selected))

	_, err = u.Select("unknown", required, candidates)
	require.ErrorIs(t, err, ErrUnknownStrategy)

	def := NewUtxoSelection(DefaultThreshold, true)
	require.Equal(t, DefaultConfig(), def.Config())
}

// TestRequirements checks ordering, summing and spelling of requirements.
func TestRequirements(t *testing.T) {
	t.Parallel()

	r := requirements(t,
		tok(tokenB, 1),
		asset.NewLovelace(bignum.New(5)),
		tok(tokenA, 2),
		asset.New("", bignum.New(5)),
		tok(tokenB, 3),
		tok(tokenX, 0),
	)

	require.Equal(t, 3, r.Len())
	require.Equal(t, []string{tokenB, asset.Lovelace, tokenA}, r.Units())
	require.Equal(t, []string{tokenB, tokenA}, r.Tokens())
	require.Equal(t, "10", r.Lovelace().String())
	require.Equal(t, "4", r.Get(tokenB).String())
	require.True(t, r.Get(tokenX).IsZero())
	require.Equal(t, []asset.Asset{
		tok(tokenB, 4),
		asset.NewLovelace(bignum.New(10)),
		tok(tokenA, 2),
	}, r.ToAssets())
	require.Equal(t, "10", r.Value().Get("").String())

	_, err := RequirementsFromAssets([]asset.Asset{
		{Unit: tokenA, Quantity: "-1"},
	})
	require.ErrorIs(t, err, asset.ErrInvalidQuantity)
}

// TestMaxTxSizeBound checks that no strategy selects more inputs than fit in
// a transaction of the maximum size.
func TestMaxTxSizeBound(t *testing.T) {
	t.Parallel()

	candidates := []utxo.UTxO{
		newUTxO(0, 1_000_000),
		newUTxO(1, 1_000_000),
		newUTxO(2, 1_000_000),
	}
	required := requirements(t, asset.NewLovelace(bignum.New(2_500_000)))

	twoInputs := noFees
	twoInputs.FeeParams.MaxTxSize = meshunit.NewByteSize(
		meshunit.BaseTxSize + 2*meshunit.InputSize,
	)
	threeInputs := noFees
	threeInputs.FeeParams.MaxTxSize = meshunit.NewByteSize(
		meshunit.BaseTxSize + 3*meshunit.InputSize,
	)

	for _, strategy := range Strategies() {
		t.Run(string(strategy.Name()), func(t *testing.T) {
			t.Parallel()

			_, err := strategy.Select(&Request{
				Required:   required,
				Candidates: candidates,
				Config:     twoInputs,
			})

			var insufficient *InsufficientFundsError
			require.True(t, errors.As(err, &insufficient))
			require.Equal(t, 2, insufficient.Selected)
			require.Equal(t, "500000",
				insufficient.Unmet.Get(asset.Lovelace).String())

			selected, err := strategy.Select(&Request{
				Required:   required,
				Candidates: candidates,
				Config:     threeInputs,
			})
			require.NoError(t, err)
			require.Len(t, selected, 3)
		})
	}
}
