package dataset

import (
	"fmt"

	"github.com/omixkit/assayset/internal/interval"
)

// intervalIndex builds the overlap index over rowMeta on first use. The index
// is cached on the table; sync.Once keeps the lazy build safe under
// concurrent queries.
func (t *Table) intervalIndex() (*interval.Index, error) {
	t.idxOnce.Do(func() {
		records := make([]interval.Record, len(t.rows))
		for i, f := range t.rows {
			if !f.HasCoordinates() {
				t.idxErr = &interval.ConfigurationError{
					Reason: fmt.Sprintf("feature %q has no genomic coordinates", f.ID),
				}
				return
			}
			records[i] = interval.Record{
				Chrom:  f.Chrom,
				Start:  f.Start,
				End:    f.End,
				Strand: f.Strand,
			}
		}
		t.idx, t.idxErr = interval.Build(records)
	})
	return t.idx, t.idxErr
}

// FilterRowsByOverlap returns a new Table keeping only the features whose
// half-open interval overlaps [start, end) on chrom, in their original row
// order. All columns are kept. An empty selection yields a zero-row table.
// Fails with interval.ConfigurationError when rowMeta lacks coordinates.
func (t *Table) FilterRowsByOverlap(chrom string, start, end int64) (*Table, error) {
	ix, err := t.intervalIndex()
	if err != nil {
		return nil, err
	}
	return t.Subset(Positions(ix.Overlaps(chrom, start, end)...), All())
}

// FilterRowsByRegion is FilterRowsByOverlap with a Region argument.
func (t *Table) FilterRowsByRegion(r Region) (*Table, error) {
	return t.FilterRowsByOverlap(r.Chrom, r.Start, r.End)
}
