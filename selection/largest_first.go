package selection

import (
	"fmt"
	"strings"

	"github.com/rawvie-ngit/mesh-common/utxo"
)

// LargestFirstSelector is an implementation of Strategy that accepts the
// candidates holding the most lovelace first until the required lovelace plus
// the fee buffer is met. It does not keep the configured threshold.
type LargestFirstSelector struct{}

// Name returns StrategyLargestFirst.
func (*LargestFirstSelector) Name() StrategyName {
	return StrategyLargestFirst
}

// Select accepts candidates by lovelace, largest first with ties in
// candidate order, stopping as soon as the lovelace target for the inputs
// accepted so far is met. Requirements on any other unit are rejected with
// ErrUnsupportedRequirement, except against an empty candidate list, which
// is reported as insufficient funds like for every other strategy.
func (l *LargestFirstSelector) Select(req *Request) ([]utxo.UTxO, error) {
	s, err := newSelectionState(req, false)
	if err != nil {
		return nil, err
	}

	if len(req.Candidates) == 0 {
		return s.finish(l.Name())
	}

	if tokens := req.Required.Tokens(); len(tokens) > 0 {
		return nil, newError(ErrCodeUnsupportedRequirement,
			fmt.Sprintf("%v only covers lovelace, got %s", l.Name(),
				strings.Join(tokens, ", ")),
			ErrUnsupportedRequirement)
	}

	s.coverLovelace(s.unpicked(nil))

	return s.finish(l.Name())
}
