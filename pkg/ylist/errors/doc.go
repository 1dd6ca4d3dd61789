// Package errors provides the typed errors raised by the yamllist engine.
//
// Every error carries a Kind (what went wrong), a Type (which stage raised
// it), a message and, where one exists, the source Location.
//
// # Error Kinds
//
// Syntax (raised while tokenizing or parsing):
//
//	EmptyDocument, IndentationMismatch, DuplicateKey, UnterminatedQuote,
//	UnexpectedToken, MalformedFlow, Syntax
//
// Type (raised by the entry point or the serializer):
//
//	RootNotSequence, NotASequence
//
// Limit: DepthExceeded, InputTooLarge
//
// Lookup: PathNotFound
//
// # Matching
//
// Errors match by kind with the standard library:
//
//	if errors.Is(err, ylerrors.ErrDuplicateKey) {
//	    ...
//	}
//
// or extract the kind directly with KindOf.
//
// # Error Format
//
// With source context attached the error renders as:
//
//	[IndentationMismatch] line is indented deeper than the enclosing sequence
//	  --> list.yaml:3:4
//	  |
//	   2 | - a
//	-> 3 |    b
//	     |    ^
//	  |
//	  = suggestion: Align the line with an enclosing item or key (spaces only)
package errors
