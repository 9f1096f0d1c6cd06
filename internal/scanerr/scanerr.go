package scanerr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodePathNotFound      Code = "PATH_NOT_FOUND"
	CodeDecodeFailure     Code = "DECODE_FAILURE"
	CodeSyntaxFailure     Code = "SYNTAX_FAILURE"
	CodeNotebookStructure Code = "NOTEBOOK_STRUCTURE"
	CodeUnresolved        Code = "UNRESOLVED"
	CodeWriteFailure      Code = "WRITE_FAILURE"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// ScanError is the tagged failure carried by per-file and per-cell results.
// Extraction never panics past the pipeline loop; it returns one of these.
type ScanError struct {
	Code    Code
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath = "path"
	CtxCell = "cell"
)

func (e *ScanError) WithContext(key string, value interface{}) *ScanError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *ScanError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

func New(code Code, msg string) *ScanError {
	return &ScanError{Code: code, Message: msg}
}

func Wrap(err error, code Code, msg string) *ScanError {
	return &ScanError{Code: code, Message: msg, Err: err}
}

// IsCode checks if an error carries a specific failure code.
func IsCode(err error, code Code) bool {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// CodeOf returns the failure code of err, or CodeInternal for plain errors.
func CodeOf(err error) Code {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}
