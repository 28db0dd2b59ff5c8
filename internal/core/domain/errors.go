package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a document with the same filename is
	// already ingested and the conflict policy is reject.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input, rejected
	// before any external call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates a document yielded no chunks.
	// Ingesting empty content is a failure, not a silent no-op.
	ErrEmptyDocument = errors.New("document produced no chunks")

	// ErrUnsupportedFormat indicates a file type the extractor cannot
	// handle. Legacy pre-2007 Word files fall in this category.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoEvidence indicates that no retrieved chunk passed the
	// similarity threshold. This is a grounding outcome, not a backend
	// fault, and is distinguishable from collaborator failures.
	ErrNoEvidence = errors.New("no relevant sources found")
)

// Stage identifies the pipeline stage a collaborator failure occurred in.
// Every failure must be attributable to exactly one stage.
type Stage string

const (
	StageExtract  Stage = "extract"
	StageEmbed    Stage = "embed"
	StageIndex    Stage = "index"
	StageGenerate Stage = "generate"
)

// StageError wraps a collaborator failure with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying collaborator error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with its originating stage. Returns nil for
// a nil err so call sites can wrap unconditionally.
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// FailedStage reports the stage of err if it carries one.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
