package dataset

import (
	"runtime"
	"sync"
)

// RegionQuery is one region to filter by, tagged with a sequence number so
// results can be re-ordered after parallel execution.
type RegionQuery struct {
	Seq    int
	Region Region
}

// RegionResult holds the filtered table for a single region query.
type RegionResult struct {
	Seq    int
	Region Region
	Table  *Table
	Err    error
}

// FilterRegions filters the table by each query using a pool of workers.
// Results are sent to the returned channel in completion order; use
// CollectOrdered to consume them in sequence-number order. The table is never
// modified, so workers share it freely. If workers is 0, runtime.NumCPU() is
// used.
func (t *Table) FilterRegions(queries <-chan RegionQuery, workers int) <-chan RegionResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan RegionResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for q := range queries {
				sub, err := t.FilterRowsByRegion(q.Region)
				results <- RegionResult{
					Seq:    q.Seq,
					Region: q.Region,
					Table:  sub,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// CollectOrdered calls fn for each result in sequence-number order, buffering
// out-of-order results until the next expected sequence number arrives.
// Blocks until the results channel is closed. Sequence numbers must start at
// zero and be contiguous.
func CollectOrdered(results <-chan RegionResult, fn func(RegionResult) error) error {
	pending := make(map[int]RegionResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++

			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
