package source

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omixkit/assayset/internal/dataset"
)

const (
	testMatrix = "feature_id\ts1\ts2\ts3\n" +
		"TP53\t1\t2\t3\n" +
		"KRAS\t4.5\t5\t6\n"
	testFeatures = "feature_id\tchrom\tstart\tend\tstrand\tgene_name\n" +
		"TP53\tchr17\t7668402\t7687550\t-\ttumor protein p53\n" +
		"KRAS\tchr12\t25205246\t25250929\t-\tKRAS proto-oncogene\n"
	testSamples = "sample_id\ttissue\n" +
		"s1\tlung\n" +
		"s2\tcolon\n" +
		"s3\tbreast\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeGzip(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func TestTSVLoader(t *testing.T) {
	dir := t.TempDir()
	loader := NewTSVLoader(
		writeFile(t, dir, "matrix.tsv", testMatrix),
		writeFile(t, dir, "features.tsv", testFeatures),
		writeFile(t, dir, "samples.tsv", testSamples),
	)

	tbl, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"TP53", "KRAS"}, tbl.FeatureIDs())
	assert.Equal(t, []string{"s1", "s2", "s3"}, tbl.SampleIDs())
	assert.Equal(t, 4.5, tbl.At(1, 0))

	f, ok := tbl.Feature("KRAS")
	require.True(t, ok)
	assert.Equal(t, "chr12", f.Chrom)
	assert.Equal(t, int64(25205246), f.Start)
	assert.Equal(t, "-", f.Strand)
	assert.Equal(t, "KRAS proto-oncogene", f.Attrs["gene_name"])

	s, ok := tbl.Sample("s2")
	require.True(t, ok)
	assert.Equal(t, "colon", s.Attrs["tissue"])

	// The loaded table is a full table: overlap filtering works.
	sub, err := tbl.FilterRowsByOverlap("chr12", 25205246, 25205247)
	require.NoError(t, err)
	assert.Equal(t, []string{"KRAS"}, sub.FeatureIDs())
}

func TestTSVLoader_Gzip(t *testing.T) {
	dir := t.TempDir()
	loader := NewTSVLoader(
		writeGzip(t, dir, "matrix.tsv.gz", testMatrix),
		writeGzip(t, dir, "features.tsv.gz", testFeatures),
		writeGzip(t, dir, "samples.tsv.gz", testSamples),
	)

	tbl, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 3, tbl.NumCols())
}

func TestTSVLoader_NoCoordinateColumns(t *testing.T) {
	dir := t.TempDir()
	loader := NewTSVLoader(
		writeFile(t, dir, "matrix.tsv", "feature_id\ts1\nprobe1\t0.5\n"),
		writeFile(t, dir, "features.tsv", "feature_id\nprobe1\n"),
		writeFile(t, dir, "samples.tsv", "sample_id\ns1\n"),
	)

	tbl, err := loader.Load()
	require.NoError(t, err)

	f, ok := tbl.Feature("probe1")
	require.True(t, ok)
	assert.False(t, f.HasCoordinates())
}

func TestTSVLoader_MissingFeatureRecord(t *testing.T) {
	dir := t.TempDir()
	loader := NewTSVLoader(
		writeFile(t, dir, "matrix.tsv", testMatrix),
		writeFile(t, dir, "features.tsv", "feature_id\tchrom\tstart\tend\tstrand\tgene_name\nTP53\tchr17\t1\t2\t-\tx\n"),
		writeFile(t, dir, "samples.tsv", testSamples),
	)

	_, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"KRAS"`)
}

func TestTSVLoader_BadValue(t *testing.T) {
	dir := t.TempDir()
	loader := NewTSVLoader(
		writeFile(t, dir, "matrix.tsv", "feature_id\ts1\nTP53\tNaN-ish\n"),
		writeFile(t, dir, "features.tsv", testFeatures),
		writeFile(t, dir, "samples.tsv", testSamples),
	)

	_, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestTSVLoader_FieldCountMismatch(t *testing.T) {
	dir := t.TempDir()
	loader := NewTSVLoader(
		writeFile(t, dir, "matrix.tsv", "feature_id\ts1\ts2\nTP53\t1\n"),
		writeFile(t, dir, "features.tsv", testFeatures),
		writeFile(t, dir, "samples.tsv", testSamples),
	)

	_, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 3 fields")
}

func TestTSVLoader_DuplicateFeature(t *testing.T) {
	dir := t.TempDir()
	loader := NewTSVLoader(
		writeFile(t, dir, "matrix.tsv", "feature_id\ts1\nTP53\t1\nTP53\t2\n"),
		writeFile(t, dir, "features.tsv", testFeatures),
		writeFile(t, dir, "samples.tsv", testSamples),
	)

	_, err := loader.Load()
	var alignErr *dataset.AlignmentError
	require.ErrorAs(t, err, &alignErr)
}
