package sync

import "fmt"

// MissingIDError reports a source record without a usable id field. Positional
// ids are never synthesized: they drift when the source reorders or filters
// results, so the gap is surfaced instead of masked.
type MissingIDError struct {
	Source   string
	DataType string
	Index    int
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("record %d of %s/%s has no id field", e.Index, e.Source, e.DataType)
}

// TransformError reports a failing per-integration transform script.
type TransformError struct {
	Source   string
	DataType string
	Err      error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform script failed for %s/%s: %v", e.Source, e.DataType, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// PersistError reports a rejected batch write. Batches before the failing one
// stay committed; there is no compensating rollback.
type PersistError struct {
	Batch int
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("batch %d write failed: %v", e.Batch, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
