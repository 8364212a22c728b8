package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is a half-open genomic query interval [Start, End).
type Region struct {
	Chrom string
	Start int64
	End   int64
}

// String formats the region as chrom:start-end.
func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// ParseRegion parses "chrom:start-end" (e.g. "chr12:25205246-25250929").
// Chromosome names may themselves contain colons (e.g. HLA contigs), so the
// split happens at the last colon.
func ParseRegion(s string) (Region, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return Region{}, fmt.Errorf("invalid region %q: want chrom:start-end", s)
	}
	chrom := s[:i]

	bounds := strings.SplitN(s[i+1:], "-", 2)
	if len(bounds) != 2 {
		return Region{}, fmt.Errorf("invalid region %q: want chrom:start-end", s)
	}

	start, err := strconv.ParseInt(bounds[0], 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("invalid region %q: bad start: %w", s, err)
	}
	end, err := strconv.ParseInt(bounds[1], 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("invalid region %q: bad end: %w", s, err)
	}
	if start > end {
		return Region{}, fmt.Errorf("invalid region %q: start > end", s)
	}

	return Region{Chrom: chrom, Start: start, End: end}, nil
}
