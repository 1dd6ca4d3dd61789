// Package parser builds ast values from document text.
//
// Parsing is indentation-sensitive recursive descent over the token stream
// produced by package lexer. A dash starts a sequence, a key followed by a
// colon starts a mapping, and anything else is a scalar. Items and values
// that continue on more-indented lines are parsed recursively.
//
// # Basic Usage
//
//	p := parser.NewParser()
//	value, err := p.Parse("- a\n- b\n")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Supported Forms
//
//	- item                 block sequence
//	key: value             block mapping
//	- key: value           compact mapping inside a sequence item
//	key:
//	- item                 sequence at the key's column
//	- [a, b]               flow sequence
//	- {k: v}               flow mapping
//
// # Errors
//
// All errors are *errors.Error values carrying a kind and location:
// EmptyDocument, IndentationMismatch, DuplicateKey, UnterminatedQuote,
// UnexpectedToken, MalformedFlow and DepthExceeded. Parsing is
// all-or-nothing; no partial tree is returned.
//
// # Thread Safety
//
// A configured Parser may be shared between goroutines. Each Parse call
// owns its lexer and tree.
package parser
