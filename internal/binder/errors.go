package binder

import (
	"errors"
	"fmt"

	"github.com/roach88/schemabind/internal/schema"
)

// Code classifies the outcome of a binder call.
// The set is closed; callers compare codes, never message text.
type Code int

const (
	CodeOK Code = iota
	CodeFileOpen
	CodeInvalidYAML
	CodeUnexpectedEvent
	CodeInvalidKey
	CodeDuplicateKey
	CodeInvalidValue
	CodeInvalidAlias
	CodeStringLengthMin
	CodeStringLengthMax
	CodeSequenceEntriesMin
	CodeSequenceEntriesMax
	CodeSequenceFixedCount
	CodeMappingFieldMissing
	CodeTopLevelNonPtr
	CodeBadTarget
	CodeBadTypeInSchema
	CodeBadMinMaxSchema
	CodeBadParamSeqCount
	CodeBadParamNullData
	CodeBadParamNullConfig
	CodeBadParamNullSchema
	CodeBadFree
	CodeInternal
)

var codeStrings = [...]string{
	CodeOK:                  "Success",
	CodeFileOpen:            "Could not open file",
	CodeInvalidYAML:         "Document is not valid YAML",
	CodeUnexpectedEvent:     "Unexpected document structure",
	CodeInvalidKey:          "Invalid key",
	CodeDuplicateKey:        "Mapping key already set",
	CodeInvalidValue:        "Invalid value",
	CodeInvalidAlias:        "Alias not allowed",
	CodeStringLengthMin:     "String length too short",
	CodeStringLengthMax:     "String length too long",
	CodeSequenceEntriesMin:  "Sequence with too few entries",
	CodeSequenceEntriesMax:  "Sequence with too many entries",
	CodeSequenceFixedCount:  "Sequence count does not match fixed size",
	CodeMappingFieldMissing: "Missing required mapping field",
	CodeTopLevelNonPtr:      "Top-level schema type must be a pointer",
	CodeBadTarget:           "Target type does not match schema",
	CodeBadTypeInSchema:     "Bad type in schema",
	CodeBadMinMaxSchema:     "Bad schema: min exceeds max",
	CodeBadParamSeqCount:    "Bad parameter: sequence count",
	CodeBadParamNullData:    "Bad parameter: result slot",
	CodeBadParamNullConfig:  "Bad parameter: NULL config",
	CodeBadParamNullSchema:  "Bad parameter: NULL schema",
	CodeBadFree:             "Free of untracked allocation",
	CodeInternal:            "Internal error",
}

// String returns the same text as Strerror.
func (c Code) String() string {
	return Strerror(c)
}

// Strerror maps a code to a human-readable diagnostic string.
// It is meant for reports only; control decisions use the Code.
func Strerror(c Code) string {
	if c < 0 || int(c) >= len(codeStrings) {
		return "Unknown error"
	}
	return codeStrings[c]
}

// Error is returned by Load and Free.
type Error struct {
	Code Code
	Path string // location in the document, "" for the root
	Msg  string
	Err  error // underlying cause, if any
}

func (e *Error) Error() string {
	msg := Strerror(e.Code)
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the Code from an error returned by this package.
// A nil error is CodeOK; foreign errors are CodeInternal.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeInternal
}

// IsFileOpen returns true if the source could not be accessed.
func IsFileOpen(err error) bool {
	return CodeOf(err) == CodeFileOpen
}

// IsInvalidValue returns true if document content disagreed with a declared type.
func IsInvalidValue(err error) bool {
	return CodeOf(err) == CodeInvalidValue
}

func newError(code Code, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// schemaError converts a schema validation failure into a binder error.
func schemaError(err error) *Error {
	code := CodeBadTypeInSchema
	if errors.Is(err, schema.ErrBadMinMax) {
		code = CodeBadMinMaxSchema
	}
	var se *schema.Error
	path := ""
	if errors.As(err, &se) {
		path = se.Path
	}
	return &Error{Code: code, Path: path, Msg: err.Error(), Err: err}
}
