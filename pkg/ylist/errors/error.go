package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"mercator-hq/yamllist/pkg/ylist/ast"
)

// Kind identifies what went wrong.
type Kind string

const (
	KindEmptyDocument       Kind = "EmptyDocument"
	KindIndentationMismatch Kind = "IndentationMismatch"
	KindDuplicateKey        Kind = "DuplicateKey"
	KindUnterminatedQuote   Kind = "UnterminatedQuote"
	KindUnexpectedToken     Kind = "UnexpectedToken"
	KindMalformedFlow       Kind = "MalformedFlow"
	KindSyntax              Kind = "Syntax"
	KindRootNotSequence     Kind = "RootNotSequence"
	KindNotASequence        Kind = "NotASequence"
	KindDepthExceeded       Kind = "DepthExceeded"
	KindInputTooLarge       Kind = "InputTooLarge"
	KindPathNotFound        Kind = "PathNotFound"
)

// ErrorType categorizes the stage that raised an error.
type ErrorType string

const (
	ErrorTypeSyntax ErrorType = "syntax" // Tokenizer or parser error
	ErrorTypeType   ErrorType = "type"   // Value has the wrong variant
	ErrorTypeLimit  ErrorType = "limit"  // Size or depth limit exceeded
	ErrorTypeLookup ErrorType = "lookup" // Key path did not resolve
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrEmptyDocument       = &Error{Kind: KindEmptyDocument}
	ErrIndentationMismatch = &Error{Kind: KindIndentationMismatch}
	ErrDuplicateKey        = &Error{Kind: KindDuplicateKey}
	ErrUnterminatedQuote   = &Error{Kind: KindUnterminatedQuote}
	ErrUnexpectedToken     = &Error{Kind: KindUnexpectedToken}
	ErrMalformedFlow       = &Error{Kind: KindMalformedFlow}
	ErrSyntax              = &Error{Kind: KindSyntax}
	ErrRootNotSequence     = &Error{Kind: KindRootNotSequence}
	ErrNotASequence        = &Error{Kind: KindNotASequence}
	ErrDepthExceeded       = &Error{Kind: KindDepthExceeded}
	ErrInputTooLarge       = &Error{Kind: KindInputTooLarge}
	ErrPathNotFound        = &Error{Kind: KindPathNotFound}
)

// TypeOf returns the error type a kind belongs to.
func TypeOf(kind Kind) ErrorType {
	switch kind {
	case KindRootNotSequence, KindNotASequence:
		return ErrorTypeType
	case KindDepthExceeded, KindInputTooLarge:
		return ErrorTypeLimit
	case KindPathNotFound:
		return ErrorTypeLookup
	default:
		return ErrorTypeSyntax
	}
}

// Error represents an engine error with location, context, and suggestions.
type Error struct {
	Kind       Kind         // What went wrong
	Type       ErrorType    // Stage category, derived from Kind
	Message    string       // Error message
	Location   ast.Location // Source location (line, column)
	Context    string       // Surrounding lines of the document
	Suggestion string       // Suggested fix (optional)
}

// New creates an error of the given kind at loc.
func New(kind Kind, loc ast.Location, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Type:     TypeOf(kind),
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

// Error implements the error interface.
// It returns the kind and message, followed by location, context and
// suggestion lines when present.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Kind, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("\n  |\n")
		sb.WriteString(strings.TrimSuffix(e.Context, "\n"))
		sb.WriteString("\n  |")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ErrorList represents a collection of errors, one per failed document.
// It is used when many documents are checked in one run.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("\nError %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the error list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByKind returns all errors of the given kind.
func (el *ErrorList) ByKind(kind Kind) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Kind == kind {
			result = append(result, err)
		}
	}
	return result
}
