package operations

import (
	"context"

	"golang.org/x/sync/errgroup"

	"todosync/internal/store"
)

// LoadAll fetches the todolists and then the tasks of every list in
// parallel. A failed list does not cancel the others. The state is marked
// initialized once it returns, whether or not a fetch failed; the first
// failure is returned.
func (r *Runner) LoadAll(ctx context.Context) error {
	defer r.store.Dispatch(store.AppInitialized{Value: true})

	todolists, err := r.FetchTodolists(ctx)
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, tl := range todolists {
		g.Go(func() error {
			_, err := r.FetchTasks(ctx, tl.ID)
			return err
		})
	}
	return g.Wait()
}
