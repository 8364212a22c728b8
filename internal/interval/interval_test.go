package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Empty(t *testing.T) {
	ix, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, ix.Overlaps("chr1", 0, 1000))
	assert.Empty(t, ix.Chromosomes())
	assert.Equal(t, 0, ix.Len())
}

func TestBuild_StartAfterEnd(t *testing.T) {
	_, err := Build([]Record{{Chrom: "chr1", Start: 200, End: 100}})
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "start > end")
}

func TestOverlaps_HalfOpen(t *testing.T) {
	ix, err := Build([]Record{
		{Chrom: "chr1", Start: 50, End: 150},
		{Chrom: "chr1", Start: 150, End: 250},
		{Chrom: "chr1", Start: 300, End: 400},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, ix.Overlaps("chr1", 100, 200))

	// Half-open: a query ending exactly at a start does not overlap it,
	// and a query starting exactly at an end does not overlap it.
	assert.Equal(t, []int{0}, ix.Overlaps("chr1", 0, 150))
	assert.Equal(t, []int{1}, ix.Overlaps("chr1", 150, 300))
	assert.Equal(t, []int{2}, ix.Overlaps("chr1", 300, 301))
	assert.Empty(t, ix.Overlaps("chr1", 250, 300))
}

func TestOverlaps_UnknownChromosome(t *testing.T) {
	ix, err := Build([]Record{{Chrom: "chr1", Start: 0, End: 100}})
	require.NoError(t, err)
	assert.Empty(t, ix.Overlaps("chrX", 0, 100))
}

func TestOverlaps_ChromosomesIndependent(t *testing.T) {
	ix, err := Build([]Record{
		{Chrom: "chr1", Start: 100, End: 200},
		{Chrom: "chr2", Start: 100, End: 200},
		{Chrom: "chr1", Start: 300, End: 400},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0}, ix.Overlaps("chr1", 150, 160))
	assert.Equal(t, []int{1}, ix.Overlaps("chr2", 150, 160))
	assert.Equal(t, []string{"chr1", "chr2"}, ix.Chromosomes())
	assert.Equal(t, 3, ix.Len())
}

func TestOverlaps_InputOrder(t *testing.T) {
	// Records deliberately out of coordinate order; results must come back
	// in input order, not sorted-by-start order.
	ix, err := Build([]Record{
		{Chrom: "chr1", Start: 500, End: 600},
		{Chrom: "chr1", Start: 100, End: 700},
		{Chrom: "chr1", Start: 550, End: 560},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, ix.Overlaps("chr1", 540, 580))
}

func TestOverlaps_TiedStarts(t *testing.T) {
	ix, err := Build([]Record{
		{Chrom: "chr1", Start: 100, End: 300},
		{Chrom: "chr1", Start: 100, End: 200},
		{Chrom: "chr1", Start: 100, End: 400},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, ix.Overlaps("chr1", 150, 160))
	assert.Equal(t, []int{0, 2}, ix.Overlaps("chr1", 250, 260))
}

func TestOverlaps_LongIntervalBeforeShort(t *testing.T) {
	// A long interval starting early must still be found when the query sits
	// far past the starts of later, shorter intervals.
	ix, err := Build([]Record{
		{Chrom: "chr1", Start: 0, End: 1000},
		{Chrom: "chr1", Start: 500, End: 600},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0}, ix.Overlaps("chr1", 700, 800))
}

func TestOverlaps_EmptyInterval(t *testing.T) {
	// Zero-length intervals are valid but overlap nothing.
	ix, err := Build([]Record{{Chrom: "chr1", Start: 100, End: 100}})
	require.NoError(t, err)
	assert.Empty(t, ix.Overlaps("chr1", 0, 1000))
}

func TestOverlaps_MatchesLinearScan(t *testing.T) {
	records := []Record{
		{Chrom: "chr1", Start: 1000, End: 5000},
		{Chrom: "chr1", Start: 2000, End: 3000},
		{Chrom: "chr1", Start: 4000, End: 8000},
		{Chrom: "chr1", Start: 6000, End: 7000},
		{Chrom: "chr1", Start: 9000, End: 10000},
		{Chrom: "chr2", Start: 1500, End: 2500},
	}
	ix, err := Build(records)
	require.NoError(t, err)

	for qs := int64(0); qs <= 11000; qs += 500 {
		qe := qs + 750

		var linear []int
		for i, r := range records {
			if r.Chrom == "chr1" && r.Start < qe && qs < r.End {
				linear = append(linear, i)
			}
		}

		assert.Equal(t, linear, ix.Overlaps("chr1", qs, qe), "query [%d, %d)", qs, qe)
	}
}

func TestOverlaps_Repeatable(t *testing.T) {
	ix, err := Build([]Record{{Chrom: "chr1", Start: 100, End: 200}})
	require.NoError(t, err)

	first := ix.Overlaps("chr1", 150, 160)
	second := ix.Overlaps("chr1", 150, 160)
	assert.Equal(t, first, second)
}
