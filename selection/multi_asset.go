package selection

import (
	"github.com/rawvie-ngit/mesh-common/utxo"
)

// LargestFirstMultiAssetSelector is an implementation of Strategy that runs
// a largest first pass per required unit, followed by a lovelace pass.
type LargestFirstMultiAssetSelector struct{}

// Name returns StrategyLargestFirstMultiAsset.
func (*LargestFirstMultiAssetSelector) Name() StrategyName {
	return StrategyLargestFirstMultiAsset
}

// Select covers the non-native units in requirement order. For each unit
// still short it accepts the unselected candidates holding the most of it
// until it is covered; whatever earlier passes accepted counts towards later
// units. A final pass tops up lovelace, largest first, from the rest. The
// configured threshold is not kept.
func (m *LargestFirstMultiAssetSelector) Select(
	req *Request) ([]utxo.UTxO, error) {

	s, err := newSelectionState(req, false)
	if err != nil {
		return nil, err
	}

	for _, unit := range req.Required.Tokens() {
		if s.unitMet(unit) {
			continue
		}

		holders := s.unpicked(func(i int) bool {
			return s.values[i].Get(unit).Sign() > 0
		})
		s.sortByUnit(holders, unit)

		for _, i := range holders {
			if s.unitMet(unit) || s.full() {
				break
			}
			s.accept(i)
		}

		if !s.unitMet(unit) {
			log.Debugf("%v: %d holders cannot cover %s", m.Name(),
				len(holders), unit)

			return nil, s.insufficient(m.Name())
		}
	}

	s.coverLovelace(s.unpicked(nil))

	return s.finish(m.Name())
}
