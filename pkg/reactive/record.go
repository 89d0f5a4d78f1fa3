package reactive

import "sort"

// property is the reactive accessor pair installed on a Map key. It closes
// over a private Dep, the stored value (or an original getter/setter pair),
// and the Observer of the child value.
type property struct {
	dep          *Dep
	value        any
	get          func() any
	set          func(any)
	customSetter func()
	shallow      bool
	locked       bool
	childOb      *Observer
}

// Map is a reactive record. Keys read through Get register the evaluating
// watcher on the key's dep; keys written through Set notify it. Keys that
// were never made reactive (added after observation without SetKey) behave
// as plain storage.
type Map struct {
	ob     *Observer
	props  map[string]*property
	plain  map[string]any
	sealed bool
}

// NewMap creates a record from the given entries. The record is inert until
// observed; Observe installs a reactive accessor on every existing key.
func NewMap(initial map[string]any) *Map {
	m := &Map{
		props: make(map[string]*property),
		plain: make(map[string]any, len(initial)),
	}
	for k, v := range initial {
		m.plain[k] = v
	}
	return m
}

// Get returns the value stored under key. Reading a reactive key while a
// watcher is evaluating subscribes that watcher to the key's dep and to the
// child value's structural dep, if any.
func (m *Map) Get(key string) any {
	if p, ok := m.props[key]; ok {
		return p.getValue()
	}
	return m.plain[key]
}

// Has reports whether the record owns key, reactive or plain.
func (m *Map) Has(key string) bool {
	if _, ok := m.props[key]; ok {
		return true
	}
	_, ok := m.plain[key]
	return ok
}

// Set writes value under key. Writing a reactive key runs the reactive
// setter: equal values (including NaN over NaN) are dropped, read-only
// accessor keys abstain, and everything else re-observes the new value and
// notifies the key's dep. Writing a key the record does not own reactively
// is a plain store and notifies nobody; use SetKey to add a reactive key.
func (m *Map) Set(key string, value any) {
	if p, ok := m.props[key]; ok {
		p.setValue(value)
		return
	}
	if _, ok := m.plain[key]; !ok && m.sealed {
		return
	}
	m.plain[key] = value
}

// Keys returns every owned key, reactive and plain, in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.props)+len(m.plain))
	for k := range m.props {
		keys = append(keys, k)
	}
	for k := range m.plain {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Seal makes the record non-extensible. Sealed records are never observed
// and refuse plain writes of new keys.
func (m *Map) Seal() {
	m.sealed = true
}

// IsSealed reports whether the record is non-extensible.
func (m *Map) IsSealed() bool {
	return m.sealed
}

// LockKey marks an existing reactive key as non-configurable. DefineReactive
// silently abstains on locked keys.
func (m *Map) LockKey(key string) {
	if p, ok := m.props[key]; ok {
		p.locked = true
	}
}

// DefineAccessor installs a reactive key backed by a getter/setter pair
// instead of stored state. A nil set makes the key read-only: writes abstain
// without notifying. Computed properties are wired this way.
func (m *Map) DefineAccessor(key string, get func() any, set func(any)) *Dep {
	return defineReactive(m, key, nil, get, set, nil, false)
}

// deleteKey removes key entirely, reporting whether it existed.
func (m *Map) deleteKey(key string) bool {
	if _, ok := m.props[key]; ok {
		delete(m.props, key)
		return true
	}
	if _, ok := m.plain[key]; ok {
		delete(m.plain, key)
		return true
	}
	return false
}

// DefineReactive installs a reactive accessor for key on m, seeding it with
// val. When val is nil and the record owns key as plain storage, the stored
// value seeds the accessor instead. customSetter, when non-nil, runs on
// every accepted write before the store (used for prop-mutation warnings).
// shallow skips observing the child value.
//
// Locked keys and sealed records abstain silently.
func DefineReactive(m *Map, key string, val any, customSetter func(), shallow bool) *Dep {
	return defineReactive(m, key, val, nil, nil, customSetter, shallow)
}

func defineReactive(m *Map, key string, val any, get func() any, set func(any), customSetter func(), shallow bool) *Dep {
	if existing, ok := m.props[key]; ok {
		if existing.locked {
			return nil
		}
		// Preserve a pre-existing accessor pair and wrap it.
		if get == nil && set == nil {
			get, set = existing.get, existing.set
			if get == nil && val == nil {
				val = existing.value
			}
		}
	} else if m.sealed {
		return nil
	} else if val == nil && get == nil {
		if stored, ok := m.plain[key]; ok {
			val = stored
		}
	}
	delete(m.plain, key)

	p := &property{
		dep:          newDep(),
		value:        val,
		get:          get,
		set:          set,
		customSetter: customSetter,
		shallow:      shallow,
	}
	if !shallow {
		p.childOb = Observe(val, false)
	}
	m.props[key] = p
	return p.dep
}

func (p *property) getValue() any {
	value := p.value
	if p.get != nil {
		value = p.get()
	}
	if currentTarget() != nil {
		p.dep.Depend()
		if p.childOb != nil {
			p.childOb.dep.Depend()
			if l, ok := value.(*List); ok {
				dependList(l, 0)
			}
		}
	}
	return value
}

func (p *property) setValue(newVal any) {
	old := p.value
	if p.get != nil {
		old = p.get()
	}
	if strictEqual(newVal, old) {
		return
	}
	if p.customSetter != nil {
		p.customSetter()
	}
	// An accessor without a setter is read-only.
	if p.get != nil && p.set == nil {
		return
	}
	if p.set != nil {
		p.set(newVal)
	} else {
		p.value = newVal
	}
	if !p.shallow {
		p.childOb = Observe(newVal, false)
	}
	p.dep.Notify()
}
