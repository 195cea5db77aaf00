package remote

import (
	"context"
	"errors"
	"sync"
)

// Fanout pushes every change to all of its mirrors concurrently and joins
// their errors.
type Fanout []Mirror

func (f Fanout) Push(ctx context.Context, change Change) error {
	errs := make([]error, len(f))
	var wg sync.WaitGroup
	for i, m := range f {
		wg.Add(1)
		go func(i int, m Mirror) {
			defer wg.Done()
			errs[i] = m.Push(ctx, change)
		}(i, m)
	}
	wg.Wait()
	return errors.Join(errs...)
}

var _ Mirror = Fanout(nil)
