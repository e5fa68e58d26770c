package forms

import (
	"errors"
	"fmt"
)

// Stage is a step of a submission flow.
type Stage string

const (
	StageValidating Stage = "validating"
	StageVerifying  Stage = "awaiting-verification"
	StageSubmitting Stage = "submitting"
	StageDone       Stage = "done"
)

// Kind classifies why a flow stopped.
type Kind string

const (
	KindInvalid      Kind = "invalid"
	KindVerification Kind = "verification"
	KindRemote       Kind = "remote"
)

// ValidationError reports one bad or missing field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// FlowError is returned by every Service method that fails.
type FlowError struct {
	Stage Stage
	Kind  Kind
	Field string
	Err   error
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *FlowError) Unwrap() error { return e.Err }

// AsFlowError extracts a *FlowError from err.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	ok := errors.As(err, &fe)
	return fe, ok
}

func invalid(stage Stage, field, msg string) *FlowError {
	return &FlowError{Stage: stage, Kind: KindInvalid, Field: field, Err: ValidationError{Field: field, Msg: msg}}
}

func remote(err error) *FlowError {
	return &FlowError{Stage: StageSubmitting, Kind: KindRemote, Err: err}
}
