package selection

import (
	"math/big"

	"github.com/rawvie-ngit/mesh-common/asset"
	"github.com/rawvie-ngit/mesh-common/meshvalue"
	"github.com/rawvie-ngit/mesh-common/utxo"
)

// Scorer rates how useful a candidate is towards what is still missing. A
// score of zero or less means the candidate does not help at all.
type Scorer interface {
	Score(candidate, outstanding *meshvalue.Value) *big.Rat
}

// CoverageScorer scores a candidate by the share of every outstanding unit
// it would cover, capped at the whole unit: the sum over outstanding units
// of min(candidate, outstanding) / outstanding. A candidate covering two
// units completely scores 2.
type CoverageScorer struct{}

// Score implements Scorer.
func (CoverageScorer) Score(candidate, outstanding *meshvalue.Value) *big.Rat {
	score := new(big.Rat)
	for _, unit := range outstanding.Units() {
		need := outstanding.Get(unit)
		have := candidate.Get(unit).Min(need)
		if have.Sign() <= 0 {
			continue
		}

		score.Add(score, new(big.Rat).SetFrac(have.Big(), need.Big()))
	}

	return score
}

// ExperimentalSelector is an implementation of Strategy that greedily
// accepts the best scoring candidate until nothing is missing. The scoring
// function is pluggable and not part of its contract.
type ExperimentalSelector struct {
	// Scorer rates candidates. CoverageScorer is used when nil.
	Scorer Scorer
}

// Name returns StrategyExperimental.
func (*ExperimentalSelector) Name() StrategyName {
	return StrategyExperimental
}

// Select repeatedly scores every unselected candidate against the
// outstanding requirement, lovelace target and threshold included, and
// accepts the best one, the earliest on ties. Candidates scoring zero are
// never accepted, nor are candidates that only add lovelace without covering
// the fee increment they cause.
func (e *ExperimentalSelector) Select(req *Request) ([]utxo.UTxO, error) {
	s, err := newSelectionState(req, true)
	if err != nil {
		return nil, err
	}

	scorer := e.Scorer
	if scorer == nil {
		scorer = CoverageScorer{}
	}

	for !s.satisfied() && !s.full() {
		outstanding := s.outstanding()

		best, bestScore := -1, new(big.Rat)
		for _, i := range s.unpicked(nil) {
			if !s.contributes(i, outstanding) {
				continue
			}

			score := scorer.Score(s.values[i], outstanding)
			if score.Cmp(bestScore) > 0 {
				best, bestScore = i, score
			}
		}

		if best < 0 {
			break
		}

		log.Tracef("%v: accepting %v with score %v", e.Name(),
			req.Candidates[best].Input, bestScore.FloatString(4))
		s.accept(best)
	}

	return s.finish(e.Name())
}

// contributes reports whether candidate i adds to an outstanding non-native
// unit, or to outstanding lovelace by more than the fee it costs.
func (s *selectionState) contributes(i int,
	outstanding *meshvalue.Value) bool {

	for _, unit := range outstanding.Units() {
		if asset.IsLovelace(unit) {
			continue
		}
		if s.values[i].Get(unit).Sign() > 0 {
			return true
		}
	}

	return outstanding.Get(asset.Lovelace).Sign() > 0 &&
		s.yieldsPositively(i)
}
