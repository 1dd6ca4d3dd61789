// Package ast provides the value model produced by the yamllist parser.
//
// A parsed document is a tree of Values. Every Value is one of three
// variants:
//
//	Scalar   - atomic text with no further structure
//	Sequence - ordered list of Values (document order)
//	Mapping  - ordered list of unique Scalar keys and their Values
//
// The tree is acyclic and each node is owned by exactly one parent. There
// are no anchors, aliases or back-references.
//
// # Basic Usage
//
//	root, err := parser.New().Parse(document)
//	if err != nil {
//	    return err
//	}
//
//	switch v := root.(type) {
//	case *ast.Sequence:
//	    for _, item := range v.Items {
//	        fmt.Println(item.Kind())
//	    }
//	case *ast.Mapping:
//	    if name := v.Get("name"); name != nil {
//	        fmt.Println(name)
//	    }
//	}
//
// # Source Locations
//
// Every node carries the Location of its first token so errors raised by
// later stages (rendering, path lookup) can point back into the document.
//
// # Immutability
//
// Values should be treated as immutable after construction. The parser
// builds the tree bottom-up once and nothing downstream modifies it, which
// is what makes a single tree safe to read from several goroutines.
package ast
