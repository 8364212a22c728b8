// Package collection tracks multiple experiments over a shared sample cohort.
package collection

import (
	"sort"

	"go.uber.org/zap"

	"github.com/omixkit/assayset/internal/dataset"
)

// DuplicateNameError reports registration under an already-used experiment
// name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return "experiment " + e.Name + " already registered"
}

// UnknownExperimentError reports a query naming an unregistered experiment.
type UnknownExperimentError struct {
	Name string
}

func (e *UnknownExperimentError) Error() string {
	return "unknown experiment " + e.Name
}

// Collection binds several experiments that share a sample population but
// differ in feature sets. Each experiment's sample set is derived from its
// table's column metadata at registration time. Not every sample appears in
// every experiment; the collection tracks who has what.
type Collection struct {
	experiments map[string]*dataset.Table
	samples     map[string]map[string]bool // experiment name -> sample id set
	cohort      map[string]bool            // samples known to the study, data or not
	logger      *zap.Logger
}

// New creates an empty collection.
func New() *Collection {
	return &Collection{
		experiments: make(map[string]*dataset.Table),
		samples:     make(map[string]map[string]bool),
		cohort:      make(map[string]bool),
		logger:      zap.NewNop(),
	}
}

// AddSamples declares cohort samples that may have no data in any experiment.
// Samples seen at registration are added automatically.
func (c *Collection) AddSamples(ids ...string) {
	for _, id := range ids {
		c.cohort[id] = true
	}
}

// SetLogger sets the logger for registration messages.
func (c *Collection) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Register adds an experiment under name. Fails with DuplicateNameError if
// the name is taken; the collection is left unchanged on failure.
func (c *Collection) Register(name string, t *dataset.Table) error {
	if _, ok := c.experiments[name]; ok {
		return &DuplicateNameError{Name: name}
	}

	set := make(map[string]bool, t.NumCols())
	for _, id := range t.SampleIDs() {
		set[id] = true
		c.cohort[id] = true
	}

	c.experiments[name] = t
	c.samples[name] = set

	c.logger.Debug("registered experiment",
		zap.String("name", name),
		zap.Int("features", t.NumRows()),
		zap.Int("samples", t.NumCols()),
	)
	return nil
}

// Experiment returns the table registered under name.
func (c *Collection) Experiment(name string) (*dataset.Table, bool) {
	t, ok := c.experiments[name]
	return t, ok
}

// Experiments returns the registered experiment names, sorted.
func (c *Collection) Experiments() []string {
	names := make([]string, 0, len(c.experiments))
	for name := range c.experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Samples returns the sorted cohort: every sample seen in any experiment plus
// any declared via AddSamples.
func (c *Collection) Samples() []string {
	ids := make([]string, 0, len(c.cohort))
	for id := range c.cohort {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SamplesWith returns the sorted intersection of the named experiments'
// sample sets. Fails with UnknownExperimentError for an unregistered name.
func (c *Collection) SamplesWith(names ...string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	for _, name := range names {
		if _, ok := c.samples[name]; !ok {
			return nil, &UnknownExperimentError{Name: name}
		}
	}

	var ids []string
	for id := range c.samples[names[0]] {
		inAll := true
		for _, name := range names[1:] {
			if !c.samples[name][id] {
				inAll = false
				break
			}
		}
		if inAll {
			ids = append(ids, id)
		}
	}

	sort.Strings(ids)
	return ids, nil
}
