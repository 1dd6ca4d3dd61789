// Package path resolves slash-separated key paths inside a value tree.
//
// A path is a list of segments separated by '/'. A plain segment selects a
// mapping key; a segment starting with '@' selects a sequence item:
//
//	@N          item N (0-based)
//	@last       the last item
//	@next       one past the last item (never present when reading)
//	@before N   item N
//	@after N    item N+1
//	@before last, @after last
//
// For example "servers/@0/host" or "tags/@last". The empty path and "/"
// select the root.
//
// Set writes through the same paths. Missing mappings and sequences along
// the way are created, @next appends, and @before/@after insert a new item
// instead of replacing one.
package path

import (
	"fmt"
	"strconv"
	"strings"

	"mercator-hq/yamllist/pkg/ylist/ast"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
)

const (
	refPrefix = "@"
	refNext   = "next"
	refBefore = "before"
	refAfter  = "after"
	refLast   = "last"
)

// Split returns the segments of path. The empty path and "/" have none.
func Split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// IsListReference reports whether segment addresses a sequence item.
func IsListReference(segment string) bool {
	return strings.HasPrefix(segment, refPrefix)
}

// Lookup returns the value at path below root.
// A missing key or item is a PathNotFound error.
func Lookup(root ast.Value, path string) (ast.Value, error) {
	cur := root
	segments := Split(path)

	for i, seg := range segments {
		walked := "/" + strings.Join(segments[:i], "/")

		if IsListReference(seg) {
			seq, ok := cur.(*ast.Sequence)
			if !ok {
				return nil, notFound(cur, "%s at %s is a %s, not a sequence", seg, walked, kindOf(cur))
			}
			idx, err := ResolveIndex(seq, seg)
			if err != nil {
				return nil, err
			}
			if idx < 0 || idx >= seq.Len() {
				return nil, notFound(cur, "%s at %s is out of range (%d items)", seg, walked, seq.Len())
			}
			cur = seq.At(idx)
			continue
		}

		m, ok := cur.(*ast.Mapping)
		if !ok {
			return nil, notFound(cur, "key %q at %s: value is a %s, not a mapping", seg, walked, kindOf(cur))
		}
		next := m.Get(seg)
		if next == nil {
			err := notFound(cur, "key %q not found at %s", seg, walked)
			err.Suggestion = ylerrors.SuggestKey(seg, m.Keys())
			return nil, err
		}
		cur = next
	}

	return cur, nil
}

// LookupScalar returns the scalar at path below root.
func LookupScalar(root ast.Value, path string) (*ast.Scalar, error) {
	v, err := Lookup(root, path)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*ast.Scalar)
	if !ok {
		return nil, fmt.Errorf("value at %q is a %s, not a scalar", path, v.Kind())
	}
	return s, nil
}

// ResolveIndex converts a list reference segment into an item index of
// seq. The index may be one past the end for @next and @after last.
func ResolveIndex(seq *ast.Sequence, ref string) (int, error) {
	idx, _, err := resolveRef(seq, ref)
	return idx, err
}

// resolveRef is ResolveIndex that also reports whether the reference asks
// for an insertion (@before, @after) when writing.
func resolveRef(seq *ast.Sequence, ref string) (int, bool, error) {
	if !IsListReference(ref) {
		return 0, false, notFound(seq, "%q is not a list reference", ref)
	}
	rest := ref[len(refPrefix):]
	size := seq.Len()

	if rest == refNext {
		return size, false, nil
	}

	index := 0
	insert := false
	switch {
	case strings.HasPrefix(rest, refBefore):
		rest = rest[len(refBefore):]
		insert = true
	case strings.HasPrefix(rest, refAfter):
		rest = rest[len(refAfter):]
		index = 1
		insert = true
	}
	rest = strings.TrimPrefix(rest, " ")

	if rest == refLast {
		// (before|after) last on an empty list is 0
		index += size
		if index > 0 {
			index--
		}
		return index, insert, nil
	}

	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false, notFound(seq, "invalid list reference %q", ref)
	}
	return index + n, insert, nil
}

func notFound(at ast.Value, format string, args ...any) *ylerrors.Error {
	var loc ast.Location
	if at != nil {
		loc = at.Pos()
	}
	return ylerrors.New(ylerrors.KindPathNotFound, loc, format, args...)
}

func kindOf(v ast.Value) string {
	if v == nil {
		return "nil"
	}
	return string(v.Kind())
}
