package reactive

import "github.com/lumen-dev/lumen/pkg/vdom"

// shouldObserve gates creation of new observers. It is toggled off
// transiently, for example while installing non-root props on a child
// component, and honored at the moment Observe is called.
var shouldObserve = true

// ToggleObserving gates whether Observe may create new observers.
func ToggleObserving(value bool) {
	shouldObserve = value
}

// Observer wraps an observed container. Records get a reactive accessor per
// existing key; sequences get their mutators intercepted at the type level.
// The Observer owns the structural dep fired on container-shape changes
// (key add/remove, splice), as opposed to the per-key deps fired on writes
// to existing keys.
type Observer struct {
	value   any
	dep     *Dep
	vmCount int
}

func newObserver(value any) *Observer {
	ob := &Observer{value: value, dep: newDep()}
	switch v := value.(type) {
	case *Map:
		v.ob = ob
		ob.walk(v)
	case *List:
		v.ob = ob
		ob.observeItems(v)
	}
	return ob
}

// Dep returns the structural dep.
func (o *Observer) Dep() *Dep {
	return o.dep
}

// Value returns the wrapped container.
func (o *Observer) Value() any {
	return o.value
}

// VMCount reports how many component roots treat the wrapped value as their
// root record.
func (o *Observer) VMCount() int {
	return o.vmCount
}

// walk installs a reactive accessor on every existing key of a record.
func (o *Observer) walk(m *Map) {
	for _, key := range mapPlainKeys(m) {
		val := m.plain[key]
		delete(m.plain, key)
		defineReactive(m, key, val, nil, nil, nil, false)
	}
}

// observeItems observes every element of a sequence.
func (o *Observer) observeItems(l *List) {
	for _, it := range l.items {
		Observe(it, false)
	}
}

func mapPlainKeys(m *Map) []string {
	keys := make([]string, 0, len(m.plain))
	for k := range m.plain {
		keys = append(keys, k)
	}
	return keys
}

// Observe attaches an Observer to a container, returning the existing one
// when the value is already observed. Values that are not records or
// sequences pass through untouched, as do sealed containers, virtual-DOM
// nodes, component instances, and anything seen while observation is gated
// off or the host is rendering on the server. asRootData marks the value as
// a component's root record.
func Observe(value any, asRootData bool) *Observer {
	switch value.(type) {
	case *vdom.VNode, *Owner:
		return nil
	}

	var ob *Observer
	switch c := value.(type) {
	case *Map:
		ob = c.ob
		if ob == nil && observable() && !c.sealed {
			ob = newObserver(c)
		}
	case *List:
		ob = c.ob
		if ob == nil && observable() && !c.sealed {
			ob = newObserver(c)
		}
	default:
		return nil
	}

	if asRootData && ob != nil {
		ob.vmCount++
	}
	return ob
}

func observable() bool {
	if !shouldObserve {
		return false
	}
	if Config.IsServerRendering != nil && Config.IsServerRendering() {
		return false
	}
	return true
}
