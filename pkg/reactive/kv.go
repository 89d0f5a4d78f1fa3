package reactive

import "fmt"

// SetKey adds a reactive key to a record, or replaces a sequence index via
// Splice so the mutation passes through the intercepted path and notifies
// once. Per-key accessors only catch writes to existing keys, so adding a
// key must fire the container's structural dep instead.
//
// Writing an existing record key behaves as a plain write: the existing
// accessor fires. Setting a sequence index beyond the current length extends
// the sequence. Adding keys to a component's root record is rejected with a
// warning. Returns the value.
func SetKey(target any, key any, val any) any {
	switch t := target.(type) {
	case *List:
		idx, ok := toIndex(key)
		if !ok || idx < 0 {
			warn(fmt.Sprintf("Cannot set invalid sequence index: %v", key), nil)
			return val
		}
		for len(t.items) < idx {
			t.items = append(t.items, nil)
		}
		t.Splice(idx, 1, val)
		return val

	case *Map:
		k, ok := key.(string)
		if !ok {
			warn(fmt.Sprintf("Cannot set non-string record key: %v", key), nil)
			return val
		}
		if t.Has(k) {
			t.Set(k, val)
			return val
		}
		ob := t.ob
		if ob != nil && ob.vmCount > 0 {
			warn("Avoid adding reactive keys to a root data record at runtime - declare the key up front instead.", nil)
			return val
		}
		if ob == nil {
			t.Set(k, val)
			return val
		}
		defineReactive(t, k, val, nil, nil, nil, false)
		ob.dep.Notify()
		return val

	default:
		warn(fmt.Sprintf("Cannot set reactive key on a non-container value: %T", target), nil)
		return val
	}
}

// DelKey removes a key from a record (or an index from a sequence via
// Splice) and fires the structural dep. Deleting from a component's root
// record is rejected with a warning. Missing keys are a no-op.
func DelKey(target any, key any) {
	switch t := target.(type) {
	case *List:
		idx, ok := toIndex(key)
		if !ok || idx < 0 || idx >= len(t.items) {
			return
		}
		t.Splice(idx, 1)

	case *Map:
		k, ok := key.(string)
		if !ok {
			return
		}
		ob := t.ob
		if ob != nil && ob.vmCount > 0 {
			warn("Avoid deleting keys on a root data record - set the value to nil instead.", nil)
			return
		}
		if !t.deleteKey(k) {
			return
		}
		if ob != nil {
			ob.dep.Notify()
		}

	default:
		warn(fmt.Sprintf("Cannot delete reactive key on a non-container value: %T", target), nil)
	}
}

func toIndex(key any) (int, bool) {
	switch v := key.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	default:
		return 0, false
	}
}
