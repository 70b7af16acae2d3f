package selection

import (
	"fmt"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/rawvie-ngit/mesh-common/asset"
	"github.com/rawvie-ngit/mesh-common/meshvalue"
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
	"github.com/rawvie-ngit/mesh-common/pkg/meshunit"
	"github.com/rawvie-ngit/mesh-common/utxo"
)

// selectionState holds the inputs accepted so far by a strategy together
// with the running total they add up to.
type selectionState struct {
	// cfg carries the threshold and fee settings.
	cfg Config

	// threshold is the lovelace margin kept on top of the requirement.
	// It is zero for the strategies that do not keep one.
	threshold bignum.BigNum

	// maxInputs is the number of inputs that fit in a transaction of the
	// maximum size, -1 when there is no limit.
	maxInputs int

	// required is the requirement being covered.
	required *Requirements

	// candidates is the candidate list as given by the caller.
	candidates []utxo.UTxO

	// values caches the value of every candidate by index.
	values []*meshvalue.Value

	// picked marks the candidates already accepted.
	picked []bool

	// order lists accepted candidate indices in acceptance order.
	order []int

	// total is the combined value of the accepted candidates.
	total *meshvalue.Value
}

// newSelectionState validates a request and prepares an empty selection
// over it. The configured threshold only counts towards the lovelace target
// when applyThreshold is set.
func newSelectionState(req *Request,
	applyThreshold bool) (*selectionState, error) {

	if req == nil || req.Required == nil {
		return nil, newError(ErrCodeInvalidRequest,
			"missing requirement", ErrInvalidRequest)
	}

	if req.Config.Threshold.Sign() < 0 {
		return nil, newError(ErrCodeInvalidRequest,
			"negative threshold "+req.Config.Threshold.String(),
			ErrInvalidRequest)
	}

	if err := utxo.ValidateAll(req.Candidates); err != nil {
		return nil, newError(ErrCodeInvalidRequest,
			"invalid candidate", fmt.Errorf("%w: %w",
				ErrInvalidRequest, err))
	}

	values := make([]*meshvalue.Value, len(req.Candidates))
	for i, u := range req.Candidates {
		v, err := u.Value()
		if err != nil {
			return nil, newError(ErrCodeInvalidRequest,
				"invalid candidate", fmt.Errorf("%w: %w",
					ErrInvalidRequest, err))
		}
		values[i] = v
	}

	log.Tracef("Selecting from %d candidates for %v", len(req.Candidates),
		newLogClosure(func() string {
			return spew.Sdump(req.Required.ToAssets())
		}))

	threshold := bignum.Zero
	if applyThreshold {
		threshold = req.Config.Threshold
	}

	return &selectionState{
		cfg:        req.Config,
		threshold:  threshold,
		maxInputs:  meshunit.MaxInputs(req.Config.FeeParams.MaxTxSize),
		required:   req.Required,
		candidates: req.Candidates,
		values:     values,
		picked:     make([]bool, len(req.Candidates)),
		total:      meshvalue.New(),
	}, nil
}

// lovelaceTarget is the lovelace a selection of numInputs inputs must
// gather: the requirement, the threshold if any and the fee buffer.
func (s *selectionState) lovelaceTarget(numInputs int) bignum.BigNum {
	return s.required.Lovelace().Add(s.threshold).Add(
		s.cfg.feeBuffer(numInputs),
	)
}

// target returns the full requirement of a selection of numInputs inputs as
// a value.
func (s *selectionState) target(numInputs int) *meshvalue.Value {
	v := s.required.Value()
	v.Sub(asset.Lovelace, v.Get(asset.Lovelace))

	return v.Add(asset.Lovelace, s.lovelaceTarget(numInputs))
}

// outstanding returns what is still missing, per unit, if one more input
// were to be accepted.
func (s *selectionState) outstanding() *meshvalue.Value {
	missing := s.target(len(s.order) + 1)
	for _, unit := range missing.Units() {
		missing.Sub(unit, s.total.Get(unit))
	}

	return missing
}

// unitMet reports whether the accepted inputs cover the requirement of a
// non-native unit.
func (s *selectionState) unitMet(unit string) bool {
	return s.total.Get(unit).Compare(s.required.Get(unit)) >= 0
}

// tokensMet reports whether every non-native requirement is covered.
func (s *selectionState) tokensMet() bool {
	for _, unit := range s.required.Tokens() {
		if !s.unitMet(unit) {
			return false
		}
	}

	return true
}

// lovelaceMet reports whether the accepted inputs cover the lovelace target
// for their own count.
func (s *selectionState) lovelaceMet() bool {
	return s.total.Get(asset.Lovelace).Compare(
		s.lovelaceTarget(len(s.order)),
	) >= 0
}

// satisfied reports whether the selection is complete.
func (s *selectionState) satisfied() bool {
	return s.tokensMet() && s.lovelaceMet()
}

// full reports whether the selection already holds as many inputs as fit
// in a transaction of the maximum size.
func (s *selectionState) full() bool {
	return s.maxInputs >= 0 && len(s.order) >= s.maxInputs
}

// accept adds candidate i to the selection.
func (s *selectionState) accept(i int) {
	s.picked[i] = true
	s.order = append(s.order, i)
	s.total.Merge(s.values[i])
}

// yieldsPositively reports whether accepting candidate i raises the
// lovelace total by more than the fee increment it causes.
func (s *selectionState) yieldsPositively(i int) bool {
	n := len(s.order)
	increment := s.cfg.feeBuffer(n + 1).Sub(s.cfg.feeBuffer(n))

	return s.values[i].Get(asset.Lovelace).GreaterThan(increment)
}

// unpicked returns the indices of the candidates not accepted yet that
// satisfy keep, in candidate order. A nil keep matches everything.
func (s *selectionState) unpicked(keep func(i int) bool) []int {
	var indices []int
	for i := range s.candidates {
		if s.picked[i] || (keep != nil && !keep(i)) {
			continue
		}
		indices = append(indices, i)
	}

	return indices
}

// sortByUnit stable sorts candidate indices by their quantity of unit,
// largest first, so ties keep candidate order.
func (s *selectionState) sortByUnit(indices []int, unit string) {
	sort.SliceStable(indices, func(a, b int) bool {
		qa := s.values[indices[a]].Get(unit)
		qb := s.values[indices[b]].Get(unit)

		return qa.GreaterThan(qb)
	})
}

// coverLovelace accepts candidates from indices, largest lovelace first,
// until the lovelace target is met. It stops early at the first candidate
// that does not yield positively since every later one holds less.
func (s *selectionState) coverLovelace(indices []int) {
	s.sortByUnit(indices, asset.Lovelace)
	for _, i := range indices {
		if s.lovelaceMet() {
			return
		}
		if s.picked[i] {
			continue
		}
		if s.full() {
			log.Debugf("Stopping lovelace pass: %d inputs reach the "+
				"maximum transaction size", len(s.order))
			return
		}
		if !s.yieldsPositively(i) {
			log.Tracef("Stopping lovelace pass at %v: does not yield "+
				"positively", s.candidates[i].Input)
			return
		}

		s.accept(i)
	}
}

// result returns the accepted candidates in acceptance order.
func (s *selectionState) result() []utxo.UTxO {
	selected := make([]utxo.UTxO, 0, len(s.order))
	for _, i := range s.order {
		selected = append(selected, s.candidates[i])
	}

	return selected
}

// insufficient builds the error reported when a strategy runs out of
// candidates.
func (s *selectionState) insufficient(name StrategyName) error {
	unmet := s.target(len(s.order))
	for _, unit := range unmet.Units() {
		unmet.Sub(unit, s.total.Get(unit))
	}

	return &InsufficientFundsError{
		Strategy:   name,
		Unmet:      unmet,
		Selected:   len(s.order),
		Candidates: len(s.candidates),
	}
}

// finish returns the selection if it is complete, and the shortfall
// otherwise.
func (s *selectionState) finish(name StrategyName) ([]utxo.UTxO, error) {
	if !s.satisfied() {
		err := s.insufficient(name)
		log.Debugf("%v", err)

		return nil, err
	}

	selected := s.result()
	log.Debugf("%v selected %d of %d candidates", name, len(selected),
		len(s.candidates))
	log.Tracef("%v selection total: %v", name, newLogClosure(
		func() string {
			return s.total.String()
		},
	))

	return selected, nil
}
