package dataset

import "fmt"

// AlignmentError reports a violation of the assay/metadata alignment invariant
// at construction time: a dimension mismatch or a duplicate identifier.
type AlignmentError struct {
	Reason string
}

func (e *AlignmentError) Error() string {
	return "alignment: " + e.Reason
}

// SelectorError reports a subset selector referencing an identifier or
// position that does not exist on the given axis.
type SelectorError struct {
	Axis   string // "row" or "column"
	Reason string
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("%s selector: %s", e.Axis, e.Reason)
}
