package dataset

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Loader fetches batches of samples with bounded parallelism. Queries
// are independent, so reads fan out across workers without
// synchronization beyond the read-count bookkeeping in RandomSafe.
type Loader struct {
	Source  *RandomSafe
	Workers int
}

func NewLoader(source *RandomSafe, workers int) *Loader {
	if workers < 1 {
		workers = 1
	}
	return &Loader{Source: source, Workers: workers}
}

// GetBatch reads the given indices concurrently and collates the
// results into one stacked sample.
func (l *Loader) GetBatch(ctx context.Context, indices []int) (map[string]interface{}, error) {
	var (
		batch = make([]Sample, len(indices))
	)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(l.Workers)
	for i, index := range indices {
		i, index := i, index
		g.Go(func() error {
			s, err := l.Source.Get(index)
			if err != nil {
				return err
			}
			batch[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return CollateSamples(batch)
}
