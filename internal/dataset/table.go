package dataset

import (
	"fmt"
	"sync"

	"github.com/omixkit/assayset/internal/interval"
)

// Table binds an assay matrix (features x samples) to feature metadata and
// sample metadata. Row i of the matrix belongs to rows[i], column j to
// cols[j]. A Table is immutable after construction: every transformation
// returns a new Table, so concurrent reads need no locking.
type Table struct {
	assay [][]float64
	rows  []Feature
	cols  []Sample

	// position of the first occurrence of each id
	rowPos map[string]int
	colPos map[string]int

	idxOnce sync.Once
	idx     *interval.Index
	idxErr  error
}

// New constructs a Table after validating the alignment invariant: the matrix
// shape must match the metadata lengths and identifiers must be unique and
// non-empty. The caller hands over ownership of assay, rows, and cols and
// must not modify them afterwards.
func New(assay [][]float64, rows []Feature, cols []Sample) (*Table, error) {
	if len(assay) != len(rows) {
		return nil, &AlignmentError{
			Reason: fmt.Sprintf("assay has %d rows but rowMeta has %d records", len(assay), len(rows)),
		}
	}
	for i, row := range assay {
		if len(row) != len(cols) {
			return nil, &AlignmentError{
				Reason: fmt.Sprintf("assay row %d has %d values but colMeta has %d records", i, len(row), len(cols)),
			}
		}
	}

	rowPos, err := indexIDs("feature", len(rows), func(i int) string { return rows[i].ID })
	if err != nil {
		return nil, err
	}
	colPos, err := indexIDs("sample", len(cols), func(i int) string { return cols[i].ID })
	if err != nil {
		return nil, err
	}

	return &Table{
		assay:  assay,
		rows:   rows,
		cols:   cols,
		rowPos: rowPos,
		colPos: colPos,
	}, nil
}

func indexIDs(kind string, n int, id func(int) string) (map[string]int, error) {
	byID := make(map[string]int, n)
	for i := 0; i < n; i++ {
		s := id(i)
		if s == "" {
			return nil, &AlignmentError{Reason: fmt.Sprintf("%s %d has an empty id", kind, i)}
		}
		if prev, ok := byID[s]; ok {
			return nil, &AlignmentError{
				Reason: fmt.Sprintf("duplicate %s id %q at positions %d and %d", kind, s, prev, i),
			}
		}
		byID[s] = i
	}
	return byID, nil
}

// NumRows returns the number of features.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the number of samples.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// At returns the assay value for feature row i and sample column j.
func (t *Table) At(i, j int) float64 {
	return t.assay[i][j]
}

// Assay returns the assay matrix. The matrix is shared with the table and
// must be treated as read-only.
func (t *Table) Assay() [][]float64 {
	return t.assay
}

// RowMeta returns the feature metadata, aligned with assay rows. Shared with
// the table; treat as read-only.
func (t *Table) RowMeta() []Feature {
	return t.rows
}

// ColMeta returns the sample metadata, aligned with assay columns. Shared
// with the table; treat as read-only.
func (t *Table) ColMeta() []Sample {
	return t.cols
}

// FeatureIDs returns the feature ids in row order.
func (t *Table) FeatureIDs() []string {
	ids := make([]string, len(t.rows))
	for i, f := range t.rows {
		ids[i] = f.ID
	}
	return ids
}

// SampleIDs returns the sample ids in column order.
func (t *Table) SampleIDs() []string {
	ids := make([]string, len(t.cols))
	for i, s := range t.cols {
		ids[i] = s.ID
	}
	return ids
}

// Feature returns the feature with the given id, if present. When subsetting
// has duplicated an id, the first occurrence wins.
func (t *Table) Feature(id string) (Feature, bool) {
	i, ok := t.rowPos[id]
	if !ok {
		return Feature{}, false
	}
	return t.rows[i], true
}

// Sample returns the sample with the given id, if present.
func (t *Table) Sample(id string) (Sample, bool) {
	j, ok := t.colPos[id]
	if !ok {
		return Sample{}, false
	}
	return t.cols[j], true
}

// Subset returns a new Table containing the selected rows and columns in
// selector order. The source table is never modified, and the result supports
// every Table operation, so subsets compose:
// t.Subset(a, All()).Subset(b, All()) selects the same rows as a single
// combined selector. Selector entries may repeat or reorder.
func (t *Table) Subset(rowSel, colSel Selector) (*Table, error) {
	rowIdx, err := rowSel.resolve("row", len(t.rows), t.rowPos)
	if err != nil {
		return nil, err
	}
	colIdx, err := colSel.resolve("column", len(t.cols), t.colPos)
	if err != nil {
		return nil, err
	}

	assay := make([][]float64, len(rowIdx))
	rows := make([]Feature, len(rowIdx))
	for i, ri := range rowIdx {
		rows[i] = t.rows[ri]
		src := t.assay[ri]
		dst := make([]float64, len(colIdx))
		for j, cj := range colIdx {
			dst[j] = src[cj]
		}
		assay[i] = dst
	}

	cols := make([]Sample, len(colIdx))
	for j, cj := range colIdx {
		cols[j] = t.cols[cj]
	}

	// Construct directly: dimensions are correct by construction, and a
	// selector that repeats an id legitimately repeats the record, which
	// the uniqueness check in New would reject.
	return &Table{
		assay:  assay,
		rows:   rows,
		cols:   cols,
		rowPos: firstOccurrence(len(rows), func(i int) string { return rows[i].ID }),
		colPos: firstOccurrence(len(cols), func(i int) string { return cols[i].ID }),
	}, nil
}

func firstOccurrence(n int, id func(int) string) map[string]int {
	byID := make(map[string]int, n)
	for i := 0; i < n; i++ {
		if _, ok := byID[id(i)]; !ok {
			byID[id(i)] = i
		}
	}
	return byID
}
