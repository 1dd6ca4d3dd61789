// Package ylist is the entry point of the yamllist engine.
//
// List reads a document, takes its top-level sequence and renders it as a
// single line:
//
//	line, err := ylist.List("- a\n- b\n- c\n")
//	// line == "a, b, c"
//
// A bare scalar document is treated as a one-element sequence. A mapping
// document is a RootNotSequence error. Parse errors are returned as they
// are raised, with their kind and location.
//
// # Configuration
//
// New builds a Lister with a specific engine and limits:
//
//	l := ylist.New(
//	    ylist.WithEngine(engine.NewYAMLv3(engine.Options{})),
//	    ylist.WithMaxInputBytes(64 << 10),
//	)
//	line, err := l.List(doc)
//
// # Thread Safety
//
// List and every Lister are safe for concurrent use. Each call owns its
// tokens and tree and no state is shared between calls.
package ylist
