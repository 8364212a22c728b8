package source

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/omixkit/assayset/internal/collection"
	"github.com/omixkit/assayset/internal/dataset"
)

// DuckDBStore reads and writes datasets in a DuckDB database. One database
// holds any number of named experiments in long form: a features table, a
// samples table, and an assay value table, all keyed by experiment name.
// Row and column order is preserved through an ord column.
type DuckDBStore struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// NewDuckDBStore opens a DuckDB database. The path can be a local file or an
// S3 URL (s3://bucket/path.duckdb).
func NewDuckDBStore(path string) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	// Enable httpfs extension for S3 support
	if strings.HasPrefix(path, "s3://") {
		if _, err := db.Exec("INSTALL httpfs; LOAD httpfs;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("load httpfs extension: %w", err)
		}
	}

	return &DuckDBStore{db: db, path: path, logger: zap.NewNop()}, nil
}

// SetLogger sets the logger for load messages.
func (s *DuckDBStore) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Close closes the database connection.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}

// CreateSchema creates the experiment tables if they do not exist.
func (s *DuckDBStore) CreateSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS experiments (
			name VARCHAR PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS features (
			experiment VARCHAR,
			ord INTEGER,
			feature_id VARCHAR,
			chrom VARCHAR,
			start BIGINT,
			end_ BIGINT,
			strand VARCHAR,
			attrs VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS samples (
			experiment VARCHAR,
			ord INTEGER,
			sample_id VARCHAR,
			attrs VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS assay (
			experiment VARCHAR,
			feature_id VARCHAR,
			sample_id VARCHAR,
			value DOUBLE
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// InsertExperiment writes a table under the given experiment name.
func (s *DuckDBStore) InsertExperiment(name string, t *dataset.Table) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO experiments (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("insert experiment %s: %w", name, err)
	}

	for i, f := range t.RowMeta() {
		attrs, err := marshalAttrs(f.Attrs)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO features (experiment, ord, feature_id, chrom, start, end_, strand, attrs)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, name, i, f.ID, f.Chrom, f.Start, f.End, f.Strand, attrs)
		if err != nil {
			return fmt.Errorf("insert feature %s: %w", f.ID, err)
		}
	}

	for j, smp := range t.ColMeta() {
		attrs, err := marshalAttrs(smp.Attrs)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO samples (experiment, ord, sample_id, attrs)
			VALUES (?, ?, ?, ?)
		`, name, j, smp.ID, attrs)
		if err != nil {
			return fmt.Errorf("insert sample %s: %w", smp.ID, err)
		}
	}

	featureIDs := t.FeatureIDs()
	sampleIDs := t.SampleIDs()
	for i := range t.NumRows() {
		for j := range t.NumCols() {
			_, err = tx.Exec(`
				INSERT INTO assay (experiment, feature_id, sample_id, value)
				VALUES (?, ?, ?, ?)
			`, name, featureIDs[i], sampleIDs[j], t.At(i, j))
			if err != nil {
				return fmt.Errorf("insert assay value (%s, %s): %w", featureIDs[i], sampleIDs[j], err)
			}
		}
	}

	return tx.Commit()
}

// ListExperiments returns the experiment names stored in the database.
func (s *DuckDBStore) ListExperiments() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM experiments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query experiments: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan experiment name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LoadExperiment materializes the named experiment as a Table. Assay cells
// with no stored value are zero.
func (s *DuckDBStore) LoadExperiment(name string) (*dataset.Table, error) {
	var exists bool
	if err := s.db.QueryRow(`SELECT count(*) > 0 FROM experiments WHERE name = ?`, name).Scan(&exists); err != nil {
		return nil, fmt.Errorf("query experiment %s: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("experiment %q not found in %s", name, s.path)
	}

	feats, err := s.loadFeatures(name)
	if err != nil {
		return nil, err
	}
	samps, err := s.loadSamples(name)
	if err != nil {
		return nil, err
	}

	rowPos := make(map[string]int, len(feats))
	for i, f := range feats {
		rowPos[f.ID] = i
	}
	colPos := make(map[string]int, len(samps))
	for j, smp := range samps {
		colPos[smp.ID] = j
	}

	assay := make([][]float64, len(feats))
	for i := range assay {
		assay[i] = make([]float64, len(samps))
	}

	rows, err := s.db.Query(`
		SELECT feature_id, sample_id, value
		FROM assay
		WHERE experiment = ?
	`, name)
	if err != nil {
		return nil, fmt.Errorf("query assay: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var featureID, sampleID string
		var value float64
		if err := rows.Scan(&featureID, &sampleID, &value); err != nil {
			return nil, fmt.Errorf("scan assay value: %w", err)
		}
		i, ok := rowPos[featureID]
		if !ok {
			return nil, fmt.Errorf("assay references unknown feature %q", featureID)
		}
		j, ok := colPos[sampleID]
		if !ok {
			return nil, fmt.Errorf("assay references unknown sample %q", sampleID)
		}
		assay[i][j] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read assay: %w", err)
	}

	return dataset.New(assay, feats, samps)
}

// LoadCollection loads every stored experiment into a Collection.
func (s *DuckDBStore) LoadCollection() (*collection.Collection, error) {
	names, err := s.ListExperiments()
	if err != nil {
		return nil, err
	}

	c := collection.New()
	c.SetLogger(s.logger)
	for _, name := range names {
		t, err := s.LoadExperiment(name)
		if err != nil {
			return nil, fmt.Errorf("load experiment %s: %w", name, err)
		}
		if err := c.Register(name, t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (s *DuckDBStore) loadFeatures(name string) ([]dataset.Feature, error) {
	rows, err := s.db.Query(`
		SELECT feature_id, chrom, start, end_, strand, attrs
		FROM features
		WHERE experiment = ?
		ORDER BY ord
	`, name)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	var feats []dataset.Feature
	for rows.Next() {
		var f dataset.Feature
		var attrs sql.NullString
		if err := rows.Scan(&f.ID, &f.Chrom, &f.Start, &f.End, &f.Strand, &attrs); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		f.Attrs, err = unmarshalAttrs(attrs)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", f.ID, err)
		}
		feats = append(feats, f)
	}
	return feats, rows.Err()
}

func (s *DuckDBStore) loadSamples(name string) ([]dataset.Sample, error) {
	rows, err := s.db.Query(`
		SELECT sample_id, attrs
		FROM samples
		WHERE experiment = ?
		ORDER BY ord
	`, name)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samps []dataset.Sample
	for rows.Next() {
		var smp dataset.Sample
		var attrs sql.NullString
		if err := rows.Scan(&smp.ID, &attrs); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		smp.Attrs, err = unmarshalAttrs(attrs)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", smp.ID, err)
		}
		samps = append(samps, smp)
	}
	return samps, rows.Err()
}

func marshalAttrs(attrs map[string]string) (string, error) {
	if len(attrs) == 0 {
		return "", nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("marshal attrs: %w", err)
	}
	return string(b), nil
}

func unmarshalAttrs(attrs sql.NullString) (map[string]string, error) {
	if !attrs.Valid || attrs.String == "" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(attrs.String), &m); err != nil {
		return nil, fmt.Errorf("unmarshal attrs: %w", err)
	}
	return m, nil
}
