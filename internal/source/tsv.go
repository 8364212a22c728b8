// Package source materializes coordinated tables from external storage:
// tab-delimited text files or DuckDB databases. The dataset core itself never
// performs I/O.
package source

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/omixkit/assayset/internal/dataset"
)

// TSVLoader loads a dataset from three tab-delimited files: an assay matrix
// (feature_id column followed by one column per sample), a feature metadata
// table, and a sample metadata table. Files ending in .gz are decompressed
// transparently.
//
// The matrix defines row and column order; metadata records are joined by id
// and every id in the matrix must have a metadata record.
type TSVLoader struct {
	matrixPath   string
	featuresPath string
	samplesPath  string
}

// NewTSVLoader creates a loader for the three files.
func NewTSVLoader(matrixPath, featuresPath, samplesPath string) *TSVLoader {
	return &TSVLoader{
		matrixPath:   matrixPath,
		featuresPath: featuresPath,
		samplesPath:  samplesPath,
	}
}

// Load reads all three files and constructs the table.
func (l *TSVLoader) Load() (*dataset.Table, error) {
	features, err := l.loadFeatures()
	if err != nil {
		return nil, err
	}
	samples, err := l.loadSamples()
	if err != nil {
		return nil, err
	}

	assay, featureIDs, sampleIDs, err := l.loadMatrix()
	if err != nil {
		return nil, err
	}

	rows := make([]dataset.Feature, len(featureIDs))
	for i, id := range featureIDs {
		f, ok := features[id]
		if !ok {
			return nil, fmt.Errorf("%s: feature %q has no record in %s", l.matrixPath, id, l.featuresPath)
		}
		rows[i] = f
	}

	cols := make([]dataset.Sample, len(sampleIDs))
	for j, id := range sampleIDs {
		s, ok := samples[id]
		if !ok {
			return nil, fmt.Errorf("%s: sample %q has no record in %s", l.matrixPath, id, l.samplesPath)
		}
		cols[j] = s
	}

	return dataset.New(assay, rows, cols)
}

// openMaybeGzip opens a file, wrapping it in a gzip reader when the path ends
// in .gz. The returned closer closes both readers.
func openMaybeGzip(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("open gzip reader for %s: %w", path, err)
		}
		closer := func() error {
			gz.Close()
			return f.Close()
		}
		return gz, closer, nil
	}

	return f, f.Close, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	// Long lines: a matrix row over thousands of samples
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)
	return scanner
}

func (l *TSVLoader) loadMatrix() (assay [][]float64, featureIDs, sampleIDs []string, err error) {
	r, closer, err := openMaybeGzip(l.matrixPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer closer()

	scanner := newScanner(r)

	if !scanner.Scan() {
		return nil, nil, nil, fmt.Errorf("%s: empty matrix file", l.matrixPath)
	}
	header := strings.Split(scanner.Text(), "\t")
	if len(header) < 1 || header[0] != "feature_id" {
		return nil, nil, nil, fmt.Errorf("%s: first matrix column must be feature_id, got %q", l.matrixPath, header[0])
	}
	sampleIDs = header[1:]

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != len(sampleIDs)+1 {
			return nil, nil, nil, fmt.Errorf("%s line %d: expected %d fields, got %d",
				l.matrixPath, lineNum, len(sampleIDs)+1, len(fields))
		}

		values := make([]float64, len(sampleIDs))
		for j, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%s line %d: bad value %q: %w", l.matrixPath, lineNum, field, err)
			}
			values[j] = v
		}

		featureIDs = append(featureIDs, fields[0])
		assay = append(assay, values)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("read %s: %w", l.matrixPath, err)
	}

	return assay, featureIDs, sampleIDs, nil
}

// Reserved feature metadata columns. Anything else lands in Attrs.
var featureColumns = map[string]bool{
	"feature_id": true,
	"chrom":      true,
	"start":      true,
	"end":        true,
	"strand":     true,
}

func (l *TSVLoader) loadFeatures() (map[string]dataset.Feature, error) {
	r, closer, err := openMaybeGzip(l.featuresPath)
	if err != nil {
		return nil, err
	}
	defer closer()

	scanner := newScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%s: empty feature file", l.featuresPath)
	}
	header := strings.Split(scanner.Text(), "\t")

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	if _, ok := col["feature_id"]; !ok {
		return nil, fmt.Errorf("%s: missing feature_id column", l.featuresPath)
	}

	features := make(map[string]dataset.Feature)
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d",
				l.featuresPath, lineNum, len(header), len(fields))
		}

		f := dataset.Feature{ID: fields[col["feature_id"]]}

		if i, ok := col["chrom"]; ok {
			f.Chrom = fields[i]
		}
		if i, ok := col["start"]; ok && fields[i] != "" {
			f.Start, err = strconv.ParseInt(fields[i], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: bad start %q: %w", l.featuresPath, lineNum, fields[i], err)
			}
		}
		if i, ok := col["end"]; ok && fields[i] != "" {
			f.End, err = strconv.ParseInt(fields[i], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: bad end %q: %w", l.featuresPath, lineNum, fields[i], err)
			}
		}
		if i, ok := col["strand"]; ok {
			f.Strand = fields[i]
		}

		for i, name := range header {
			if !featureColumns[name] {
				if f.Attrs == nil {
					f.Attrs = make(map[string]string)
				}
				f.Attrs[name] = fields[i]
			}
		}

		features[f.ID] = f
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", l.featuresPath, err)
	}

	return features, nil
}

func (l *TSVLoader) loadSamples() (map[string]dataset.Sample, error) {
	r, closer, err := openMaybeGzip(l.samplesPath)
	if err != nil {
		return nil, err
	}
	defer closer()

	scanner := newScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%s: empty sample file", l.samplesPath)
	}
	header := strings.Split(scanner.Text(), "\t")

	idCol := -1
	for i, name := range header {
		if name == "sample_id" {
			idCol = i
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("%s: missing sample_id column", l.samplesPath)
	}

	samples := make(map[string]dataset.Sample)
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d",
				l.samplesPath, lineNum, len(header), len(fields))
		}

		s := dataset.Sample{ID: fields[idCol]}
		for i, name := range header {
			if i == idCol {
				continue
			}
			if s.Attrs == nil {
				s.Attrs = make(map[string]string)
			}
			s.Attrs[name] = fields[i]
		}
		samples[s.ID] = s
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", l.samplesPath, err)
	}

	return samples, nil
}
