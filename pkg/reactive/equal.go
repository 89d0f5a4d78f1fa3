package reactive

import (
	"math"
	"reflect"
)

// strictEqual reports whether two values are identical for the purposes of
// the setter short-circuit. Semantics are identity-like: comparable values
// compare with ==, containers compare by pointer, and values of
// non-comparable types are never equal. Two NaNs count as equal so that
// writing NaN over NaN does not notify forever.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := floatValue(a); ok {
		bf, bok := floatValue(b)
		if bok && math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func floatValue(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	default:
		return 0, false
	}
}

// isContainer reports whether v is a reactive container, i.e. a value that
// can mutate internally without its identity changing. Watchers whose value
// is a container always fire their callback on re-run.
func isContainer(v any) bool {
	switch v.(type) {
	case *Map, *List:
		return true
	default:
		return false
	}
}

// containerObserver returns the Observer attached to v, or nil when v is
// not a container or not observed.
func containerObserver(v any) *Observer {
	switch c := v.(type) {
	case *Map:
		return c.ob
	case *List:
		return c.ob
	default:
		return nil
	}
}
