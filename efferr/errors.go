// Package efferr defines the errors reported while parsing and rewriting
// effectful blocks.
package efferr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeSyntax ErrorType = "SyntaxError"

	// TypeInferenceUnavailable marks a soft failure: the types needed to pick
	// an effect are not known yet. It is never shown to the user.
	TypeInferenceUnavailable ErrorType = "InferenceUnavailable"
	TypeNoMarkerFound        ErrorType = "NoMarkerFound"
	TypeAmbiguousEffectType  ErrorType = "AmbiguousEffectType"
	TypeUnsupportedPosition  ErrorType = "UnsupportedPosition"
	TypeCapabilityNotFound   ErrorType = "CapabilityNotFound"
	TypeRegeneratedIllTyped  ErrorType = "RegeneratedCodeIllTyped"
	TypeInputIllTyped        ErrorType = "InputIllTyped"
)

// EffectfulError is the interface for all errors produced by this module.
type EffectfulError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// SyntaxError represents an error during the parsing phase.
type SyntaxError struct {
	BaseError
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
}

// RewriteError is raised by the rewrite of an effectful block. Line and
// Column point at the construct that triggered it.
type RewriteError struct {
	BaseError
	Line     int
	Column   int
	FilePath string
}

func (e *RewriteError) Error() string {
	if e.Line > 0 {
		if e.FilePath != "" {
			return fmt.Sprintf("[%s] %s:%d:%d %s", e.ErrType, e.FilePath, e.Line, e.Column, e.Msg)
		}
		return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

// IsSoft reports whether the error only means "retry later".
func (e *RewriteError) IsSoft() bool {
	return e.ErrType == TypeInferenceUnavailable
}

// MultiError collects multiple errors.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		if ee, ok := m.Errors[0].(EffectfulError); ok {
			return ee.Type()
		}
	}
	return "MultiError"
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// NewSyntaxError creates a new SyntaxError.
func NewSyntaxError(line, column int, msg string) *SyntaxError {
	return &SyntaxError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSyntax,
		},
		Line:   line,
		Column: column,
	}
}

// NewRewriteError creates a RewriteError without a position.
func NewRewriteError(kind ErrorType, msg string) *RewriteError {
	return &RewriteError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: kind,
		},
	}
}

// NewRewriteErrorAt creates a RewriteError with line and column position.
func NewRewriteErrorAt(kind ErrorType, line, column int, msg string) *RewriteError {
	return &RewriteError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: kind,
		},
		Line:   line,
		Column: column,
	}
}

// InFile returns a copy of e attributed to filePath.
func (e *RewriteError) InFile(filePath string) *RewriteError {
	c := *e
	c.FilePath = filePath
	return &c
}

// HasType reports whether err, or any error it wraps, has the given type.
func HasType(err error, kind ErrorType) bool {
	var multi *MultiError
	if errors.As(err, &multi) {
		for _, e := range multi.Errors {
			if HasType(e, kind) {
				return true
			}
		}
		return false
	}
	var ee EffectfulError
	if errors.As(err, &ee) {
		return ee.Type() == kind
	}
	return false
}
