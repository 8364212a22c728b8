package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTable builds a 4x3 table with coordinates on chr1 and chr2.
func testTable(t *testing.T) *Table {
	t.Helper()

	assay := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
		{10, 11, 12},
	}
	rows := []Feature{
		{ID: "TP53", Chrom: "chr1", Start: 50, End: 150, Strand: "+"},
		{ID: "KRAS", Chrom: "chr1", Start: 150, End: 250, Strand: "-"},
		{ID: "EGFR", Chrom: "chr1", Start: 300, End: 400, Strand: "+"},
		{ID: "BRAF", Chrom: "chr2", Start: 100, End: 200, Strand: "-"},
	}
	cols := []Sample{
		{ID: "s1", Attrs: map[string]string{"tissue": "lung"}},
		{ID: "s2", Attrs: map[string]string{"tissue": "colon"}},
		{ID: "s3", Attrs: map[string]string{"tissue": "breast"}},
	}

	tbl, err := New(assay, rows, cols)
	require.NoError(t, err)
	return tbl
}

func TestNew_Valid(t *testing.T) {
	tbl := testTable(t)

	assert.Equal(t, 4, tbl.NumRows())
	assert.Equal(t, 3, tbl.NumCols())
	assert.Equal(t, []string{"TP53", "KRAS", "EGFR", "BRAF"}, tbl.FeatureIDs())
	assert.Equal(t, []string{"s1", "s2", "s3"}, tbl.SampleIDs())
	assert.Equal(t, 6.0, tbl.At(1, 2))

	f, ok := tbl.Feature("KRAS")
	require.True(t, ok)
	assert.Equal(t, "chr1", f.Chrom)

	s, ok := tbl.Sample("s2")
	require.True(t, ok)
	assert.Equal(t, "colon", s.Attrs["tissue"])

	_, ok = tbl.Feature("MYC")
	assert.False(t, ok)
}

func TestNew_RowCountMismatch(t *testing.T) {
	assay := [][]float64{{1}, {2}, {3}, {4}, {5}}
	rows := []Feature{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	cols := []Sample{{ID: "s1"}}

	_, err := New(assay, rows, cols)
	var alignErr *AlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Contains(t, alignErr.Reason, "5 rows")
	assert.Contains(t, alignErr.Reason, "4 records")
}

func TestNew_RaggedAssay(t *testing.T) {
	assay := [][]float64{{1, 2}, {3}}
	rows := []Feature{{ID: "a"}, {ID: "b"}}
	cols := []Sample{{ID: "s1"}, {ID: "s2"}}

	_, err := New(assay, rows, cols)
	var alignErr *AlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Contains(t, alignErr.Reason, "assay row 1")
}

func TestNew_DuplicateFeatureID(t *testing.T) {
	assay := [][]float64{{1}, {2}}
	rows := []Feature{{ID: "a"}, {ID: "a"}}
	cols := []Sample{{ID: "s1"}}

	_, err := New(assay, rows, cols)
	var alignErr *AlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Contains(t, alignErr.Reason, `duplicate feature id "a"`)
}

func TestNew_DuplicateSampleID(t *testing.T) {
	assay := [][]float64{{1, 2}}
	rows := []Feature{{ID: "a"}}
	cols := []Sample{{ID: "s1"}, {ID: "s1"}}

	_, err := New(assay, rows, cols)
	var alignErr *AlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Contains(t, alignErr.Reason, `duplicate sample id "s1"`)
}

func TestNew_EmptyID(t *testing.T) {
	assay := [][]float64{{1}}
	rows := []Feature{{ID: ""}}
	cols := []Sample{{ID: "s1"}}

	_, err := New(assay, rows, cols)
	var alignErr *AlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Contains(t, alignErr.Reason, "empty id")
}

func TestNew_ZeroRows(t *testing.T) {
	tbl, err := New(nil, nil, []Sample{{ID: "s1"}, {ID: "s2"}})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
}
