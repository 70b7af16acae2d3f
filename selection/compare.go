package selection

import (
	"context"

	"github.com/rawvie-ngit/mesh-common/utxo"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one strategy in Compare.
type Outcome struct {
	// Strategy is the name of the strategy that ran.
	Strategy StrategyName

	// Selected is the selection, nil when Err is set.
	Selected []utxo.UTxO

	// Err is the error returned by the strategy.
	Err error
}

// Compare runs several strategies on the same request concurrently and
// returns their outcomes in the order of strategies. A strategy failing is
// reported in its outcome; the returned error is only set when ctx is done
// before every strategy has run.
func Compare(ctx context.Context, req *Request,
	strategies []Strategy) ([]Outcome, error) {

	outcomes := make([]Outcome, len(strategies))

	g, ctx := errgroup.WithContext(ctx)
	for i, strategy := range strategies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			selected, err := strategy.Select(req)
			outcomes[i] = Outcome{
				Strategy: strategy.Name(),
				Selected: selected,
				Err:      err,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outcomes, nil
}
