// Package interval provides an immutable overlap index over genomic intervals.
package interval

import (
	"fmt"
	"sort"
)

// Record is a half-open genomic interval [Start, End) on a chromosome.
// Strand is informational only and never affects overlap.
type Record struct {
	Chrom  string
	Start  int64
	End    int64
	Strand string // "+", "-", or "." when unknown
}

// ConfigurationError reports a malformed interval or a missing coordinate
// configuration.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// Index answers overlap queries against a fixed set of records.
// Records are grouped by chromosome and never modified after Build.
type Index struct {
	chroms map[string]*chromIndex
}

type chromIndex struct {
	entries []entry
	maxEnd  []int64 // maxEnd[i] = max(End) for entries[:i+1]
}

type entry struct {
	start int64
	end   int64
	pos   int // position in the original input slice
}

// Build creates an index over records. Each chromosome's entries are sorted by
// Start; the sort is stable so records sharing a start keep input order.
// Returns ConfigurationError if any record has Start > End.
func Build(records []Record) (*Index, error) {
	ix := &Index{chroms: make(map[string]*chromIndex)}

	for i, r := range records {
		if r.Start > r.End {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("interval %d (%s:%d-%d): start > end", i, r.Chrom, r.Start, r.End),
			}
		}
		ci := ix.chroms[r.Chrom]
		if ci == nil {
			ci = &chromIndex{}
			ix.chroms[r.Chrom] = ci
		}
		ci.entries = append(ci.entries, entry{start: r.Start, end: r.End, pos: i})
	}

	for _, ci := range ix.chroms {
		sort.SliceStable(ci.entries, func(i, j int) bool {
			return ci.entries[i].start < ci.entries[j].start
		})

		// Build prefix-max array: maxEnd[i] = max(end) for entries[:i+1].
		// During a backward scan, maxEnd[i] <= queryStart means no entry at
		// or before i can reach past the query start, so the scan can stop.
		ci.maxEnd = make([]int64, len(ci.entries))
		for i, e := range ci.entries {
			ci.maxEnd[i] = e.end
			if i > 0 && ci.maxEnd[i-1] > ci.maxEnd[i] {
				ci.maxEnd[i] = ci.maxEnd[i-1]
			}
		}
	}

	return ix, nil
}

// Overlaps returns the positions (into the slice passed to Build) of every
// record overlapping the half-open query [start, end) on chrom, in input
// order. The result is nil when the chromosome is unknown or nothing overlaps.
func (ix *Index) Overlaps(chrom string, start, end int64) []int {
	ci := ix.chroms[chrom]
	if ci == nil {
		return nil
	}

	// Binary search: candidates must satisfy entry.start < end.
	hi := sort.Search(len(ci.entries), func(i int) bool {
		return ci.entries[i].start >= end
	})

	var result []int
	for i := hi - 1; i >= 0; i-- {
		if ci.maxEnd[i] <= start {
			break
		}
		if ci.entries[i].end > start {
			result = append(result, ci.entries[i].pos)
		}
	}

	sort.Ints(result)
	return result
}

// Chromosomes returns the sorted chromosome names present in the index.
func (ix *Index) Chromosomes() []string {
	chroms := make([]string, 0, len(ix.chroms))
	for chrom := range ix.chroms {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	n := 0
	for _, ci := range ix.chroms {
		n += len(ci.entries)
	}
	return n
}
