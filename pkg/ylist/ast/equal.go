package ast

// Equal reports whether two values have the same structure and text.
// Locations and quoting are ignored.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case *Scalar:
		bv, ok := b.(*Scalar)
		return ok && av.Text == bv.Text

	case *Sequence:
		bv, ok := b.(*Sequence)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true

	case *Mapping:
		bv, ok := b.(*Mapping)
		if !ok || len(av.Entries) != len(bv.Entries) {
			return false
		}
		for i := range av.Entries {
			if av.Entries[i].Key.Text != bv.Entries[i].Key.Text {
				return false
			}
			if !Equal(av.Entries[i].Value, bv.Entries[i].Value) {
				return false
			}
		}
		return true
	}

	return false
}

// Depth returns the nesting depth of v. A scalar has depth 0.
func Depth(v Value) int {
	deepest := 0
	switch vv := v.(type) {
	case *Sequence:
		for _, item := range vv.Items {
			if d := Depth(item); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	case *Mapping:
		for _, e := range vv.Entries {
			if d := Depth(e.Value); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	}
	return 0
}
