// Package dataset provides the coordinated assay table: a numeric matrix bound
// to feature and sample metadata with consistent subsetting.
package dataset

// Feature describes one assay row. Coordinate fields are optional; a feature
// without a chromosome cannot take part in overlap filtering. Start and End
// follow half-open [Start, End) convention.
type Feature struct {
	ID     string
	Chrom  string
	Start  int64
	End    int64
	Strand string // "+", "-", or "." when unknown
	Attrs  map[string]string
}

// HasCoordinates returns true if the feature carries genomic coordinates.
func (f Feature) HasCoordinates() bool {
	return f.Chrom != ""
}

// Sample describes one assay column.
type Sample struct {
	ID    string
	Attrs map[string]string
}
