package selection

import (
	"github.com/rawvie-ngit/mesh-common/utxo"
)

// KeepRelevantSelector is an implementation of Strategy that only spends
// candidates without any required unit when the relevant ones cannot cover
// the lovelace target on their own.
type KeepRelevantSelector struct{}

// Name returns StrategyKeepRelevant.
func (*KeepRelevantSelector) Name() StrategyName {
	return StrategyKeepRelevant
}

// Select splits the candidates into relevant ones, holding at least one
// required non-native unit, and the rest. Relevant candidates are accepted
// in candidate order while they add to a unit still short. The lovelace
// target is then topped up from the remaining relevant candidates and only
// after that from the others, largest first in both cases. The lovelace
// target includes the configured threshold.
func (k *KeepRelevantSelector) Select(req *Request) ([]utxo.UTxO, error) {
	s, err := newSelectionState(req, true)
	if err != nil {
		return nil, err
	}

	tokens := req.Required.Tokens()
	relevant := make([]bool, len(req.Candidates))
	for i, u := range req.Candidates {
		relevant[i] = u.HoldsAny(tokens)
	}

	for _, i := range s.unpicked(func(i int) bool { return relevant[i] }) {
		if s.tokensMet() || s.full() {
			break
		}

		for _, unit := range tokens {
			if !s.unitMet(unit) && s.values[i].Get(unit).Sign() > 0 {
				s.accept(i)
				break
			}
		}
	}

	if !s.tokensMet() {
		return nil, s.insufficient(k.Name())
	}

	s.coverLovelace(s.unpicked(func(i int) bool { return relevant[i] }))
	if !s.lovelaceMet() {
		log.Tracef("%v: relevant candidates fall short of the lovelace "+
			"target, drawing from %d others", k.Name(),
			len(s.unpicked(func(i int) bool { return !relevant[i] })))

		s.coverLovelace(s.unpicked(func(i int) bool {
			return !relevant[i]
		}))
	}

	return s.finish(k.Name())
}
