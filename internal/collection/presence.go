package collection

// Presence is a boolean sample-by-experiment matrix: Cells[i][j] is true when
// sample SampleIDs[i] has data in experiment Experiments[j]. Both axes are
// sorted so output is deterministic. The matrix is the deliverable here;
// rendering set-overlap diagrams from it belongs to the caller.
type Presence struct {
	SampleIDs   []string
	Experiments []string
	Cells       [][]bool

	sampleIdx map[string]int
	expIdx    map[string]int
}

// PresenceMatrix builds the presence matrix over the union of all registered
// experiments' samples.
func (c *Collection) PresenceMatrix() *Presence {
	p := &Presence{
		SampleIDs:   c.Samples(),
		Experiments: c.Experiments(),
		sampleIdx:   make(map[string]int),
		expIdx:      make(map[string]int),
	}
	for i, id := range p.SampleIDs {
		p.sampleIdx[id] = i
	}
	for j, name := range p.Experiments {
		p.expIdx[name] = j
	}

	p.Cells = make([][]bool, len(p.SampleIDs))
	for i, id := range p.SampleIDs {
		row := make([]bool, len(p.Experiments))
		for j, name := range p.Experiments {
			row[j] = c.samples[name][id]
		}
		p.Cells[i] = row
	}
	return p
}

// Has reports whether the sample has data in the experiment. Unknown sample
// or experiment names report false.
func (p *Presence) Has(sampleID, experiment string) bool {
	i, ok := p.sampleIdx[sampleID]
	if !ok {
		return false
	}
	j, ok := p.expIdx[experiment]
	if !ok {
		return false
	}
	return p.Cells[i][j]
}
