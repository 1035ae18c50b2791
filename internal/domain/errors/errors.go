package errors

import (
	"fmt"
	"strings"

	"munhash/internal/errors"
)

// Stage identifies the pipeline step an error belongs to.
type Stage string

const (
	StageConfig      Stage = "config"
	StageAcquisition Stage = "acquisition"
	StageParse       Stage = "parse"
	StageDerivation  Stage = "derivation"
	StageOutput      Stage = "output"
	StageVerify      Stage = "verify"
)

// Configuration errors, detected before any work is scheduled.
var (
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrInvalidIterations   = fmt.Errorf("%w: iterations must be greater than zero", ErrInvalidConfig)
	ErrInvalidOutputLength = fmt.Errorf("%w: output length must be greater than zero", ErrInvalidConfig)
	ErrInvalidSaltLength   = fmt.Errorf("%w: salt length must be between 1 and 8160", ErrInvalidConfig)
	ErrInvalidWorkers      = fmt.Errorf("%w: worker count must not be negative", ErrInvalidConfig)
	ErrEmptyIdentifier     = fmt.Errorf("%w: record identifier is empty", ErrInvalidConfig)
	ErrGroupKeyCollision   = fmt.Errorf("%w: groups map to the same object key", ErrInvalidConfig)
)

// ErrEmptyPassword is a derivation error raised by the key deriver.
var ErrEmptyPassword = errors.New("password is empty")

// ErrDigestMismatch is reported by verification when a stored digest differs
// from the re-derived one.
var ErrDigestMismatch = errors.New("digest mismatch")

// RecordError ties a derivation failure to the record that caused it.
type RecordError struct {
	RecordID string
	Err      error
}

// NewRecordError wraps err with the offending record identifier.
func NewRecordError(recordID string, err error) *RecordError {
	return &RecordError{RecordID: recordID, Err: err}
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %q: %v", e.RecordID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// StageError is the fatal error surfaced to the operator. Group and RecordID
// are filled when known.
type StageError struct {
	Stage    Stage
	Group    string
	RecordID string
	Err      error
}

// NewStageError wraps err for stage. If err already carries a RecordError its
// identifier is lifted onto the StageError.
func NewStageError(stage Stage, group string, err error) *StageError {
	stageErr := &StageError{Stage: stage, Group: group, Err: err}

	var recErr *RecordError
	if errors.As(err, &recErr) {
		stageErr.RecordID = recErr.RecordID
	}

	return stageErr
}

func (e *StageError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Stage))
	b.WriteString(" failed")

	if e.Group != "" {
		fmt.Fprintf(&b, " [group=%s]", e.Group)
	}
	if e.RecordID != "" {
		fmt.Fprintf(&b, " [record=%s]", e.RecordID)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage of the outermost StageError in err, if any.
func StageOf(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}

	return "", false
}
