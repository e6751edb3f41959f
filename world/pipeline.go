package world

import "golang.org/x/sync/errgroup"

// task runs fn over data split into one contiguous chunk per worker. A chunk
// stops at its first error; the first error of any chunk is returned.
func task[T any](workersCount int, data []T, fn func(data T) error) error {
	var g errgroup.Group
	chunkSize := (len(data) + workersCount - 1) / workersCount

	for start := 0; start < len(data); start += chunkSize {
		start := start
		end := min(start+chunkSize, len(data))
		g.Go(func() error {
			for _, d := range data[start:end] {
				if err := fn(d); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
