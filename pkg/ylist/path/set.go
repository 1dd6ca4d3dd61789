package path

import (
	"fmt"
	"slices"
	"strings"

	"mercator-hq/yamllist/pkg/ylist/ast"
)

// Set returns a tree equal to root with value stored at path. root is not
// modified; subtrees off the path are shared with the result.
//
// A nil root starts an empty mapping. The empty path replaces the root.
// Intermediate values that are missing, or empty scalars, become a
// sequence when the next segment is a list reference and a mapping
// otherwise. Writing past the end of a sequence pads it with empty
// scalars. An existing value of the wrong kind is a PathNotFound error.
func Set(root ast.Value, path string, value ast.Value) (ast.Value, error) {
	if value == nil {
		return nil, fmt.Errorf("path: cannot set %q to nil", path)
	}
	segments := Split(path)
	if len(segments) == 0 {
		return value, nil
	}
	if root == nil {
		root = &ast.Mapping{}
	}
	return set(root, segments, 0, value)
}

// SetScalar stores text as a plain scalar at path.
func SetScalar(root ast.Value, path, text string) (ast.Value, error) {
	return Set(root, path, ast.NewScalar(text))
}

func set(cur ast.Value, segments []string, i int, value ast.Value) (ast.Value, error) {
	seg := segments[i]
	walked := "/" + strings.Join(segments[:i], "/")

	if IsListReference(seg) {
		seq, ok := cur.(*ast.Sequence)
		if !ok {
			return nil, notFound(cur, "%s at %s is a %s, not a sequence", seg, walked, kindOf(cur))
		}
		idx, insert, err := resolveRef(seq, seg)
		if err != nil {
			return nil, err
		}

		items := slices.Clone(seq.Items)
		if insert {
			items = pad(items, idx)
			items = slices.Insert(items, idx, ast.Value(nil))
		} else {
			items = pad(items, idx+1)
		}

		child, err := setChild(items[idx], segments, i, value)
		if err != nil {
			return nil, err
		}
		items[idx] = child
		return &ast.Sequence{Items: items, Location: seq.Location}, nil
	}

	m, ok := cur.(*ast.Mapping)
	if !ok {
		return nil, notFound(cur, "key %q at %s: value is a %s, not a mapping", seg, walked, kindOf(cur))
	}

	entries := slices.Clone(m.Entries)
	for j, e := range entries {
		if e.Key.Text != seg {
			continue
		}
		child, err := setChild(e.Value, segments, i, value)
		if err != nil {
			return nil, err
		}
		entries[j] = ast.Entry{Key: e.Key, Value: child}
		return &ast.Mapping{Entries: entries, Location: m.Location}, nil
	}

	child, err := setChild(nil, segments, i, value)
	if err != nil {
		return nil, err
	}
	entries = append(entries, ast.Entry{Key: ast.NewScalar(seg), Value: child})
	return &ast.Mapping{Entries: entries, Location: m.Location}, nil
}

// setChild returns the replacement for existing, the value currently at
// segments[i].
func setChild(existing ast.Value, segments []string, i int, value ast.Value) (ast.Value, error) {
	if i == len(segments)-1 {
		return value, nil
	}
	if isAbsent(existing) {
		if IsListReference(segments[i+1]) {
			existing = &ast.Sequence{}
		} else {
			existing = &ast.Mapping{}
		}
	}
	return set(existing, segments, i+1, value)
}

func isAbsent(v ast.Value) bool {
	if v == nil {
		return true
	}
	s, ok := v.(*ast.Scalar)
	return ok && s.IsEmpty()
}

// pad grows items to n entries with empty scalars.
func pad(items []ast.Value, n int) []ast.Value {
	for len(items) < n {
		items = append(items, ast.NewScalar(""))
	}
	return items
}
