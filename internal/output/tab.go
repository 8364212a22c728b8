// Package output provides tab-delimited writers for tables and presence
// matrices.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/omixkit/assayset/internal/collection"
	"github.com/omixkit/assayset/internal/dataset"
)

// MatrixWriter writes an assay matrix as tab-delimited text: a header of
// feature_id plus sample ids, then one line per feature.
type MatrixWriter struct {
	w *bufio.Writer
}

// NewMatrixWriter creates a matrix writer.
func NewMatrixWriter(w io.Writer) *MatrixWriter {
	return &MatrixWriter{w: bufio.NewWriter(w)}
}

// WriteTable writes the full table and flushes.
func (mw *MatrixWriter) WriteTable(t *dataset.Table) error {
	header := append([]string{"feature_id"}, t.SampleIDs()...)
	if _, err := mw.w.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return err
	}

	for i, f := range t.RowMeta() {
		fields := make([]string, 0, t.NumCols()+1)
		fields = append(fields, f.ID)
		for j := 0; j < t.NumCols(); j++ {
			fields = append(fields, strconv.FormatFloat(t.At(i, j), 'g', -1, 64))
		}
		if _, err := mw.w.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}

	return mw.w.Flush()
}

// FeatureWriter writes feature metadata as tab-delimited text.
type FeatureWriter struct {
	w *bufio.Writer
}

// NewFeatureWriter creates a feature metadata writer.
func NewFeatureWriter(w io.Writer) *FeatureWriter {
	return &FeatureWriter{w: bufio.NewWriter(w)}
}

// WriteFeatures writes one line per feature and flushes. Coordinates of
// features without a chromosome are written as "-".
func (fw *FeatureWriter) WriteFeatures(features []dataset.Feature) error {
	if _, err := fw.w.WriteString("feature_id\tchrom\tstart\tend\tstrand\n"); err != nil {
		return err
	}

	for _, f := range features {
		var line string
		if f.HasCoordinates() {
			line = fmt.Sprintf("%s\t%s\t%d\t%d\t%s\n", f.ID, f.Chrom, f.Start, f.End, f.Strand)
		} else {
			line = fmt.Sprintf("%s\t-\t-\t-\t-\n", f.ID)
		}
		if _, err := fw.w.WriteString(line); err != nil {
			return err
		}
	}

	return fw.w.Flush()
}

// PresenceWriter writes a presence matrix as tab-delimited text with one row
// per sample and one column per experiment.
type PresenceWriter struct {
	w *bufio.Writer
}

// NewPresenceWriter creates a presence writer.
func NewPresenceWriter(w io.Writer) *PresenceWriter {
	return &PresenceWriter{w: bufio.NewWriter(w)}
}

// WritePresence writes the matrix and flushes. Cells are 1 and 0 so the
// output loads directly into set-overlap plotting tools.
func (pw *PresenceWriter) WritePresence(p *collection.Presence) error {
	header := append([]string{"sample_id"}, p.Experiments...)
	if _, err := pw.w.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return err
	}

	for i, id := range p.SampleIDs {
		fields := make([]string, 0, len(p.Experiments)+1)
		fields = append(fields, id)
		for j := range p.Experiments {
			if p.Cells[i][j] {
				fields = append(fields, "1")
			} else {
				fields = append(fields, "0")
			}
		}
		if _, err := pw.w.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}

	return pw.w.Flush()
}
