package reactive

import "sort"

// List is a reactive ordered sequence. The seven mutating operations are
// intercepted: each performs the raw operation, observes any newly inserted
// elements, and fires the list's structural dep. Reads register the
// structural dep when a watcher is evaluating.
//
// Direct writes to the backing slice returned by Items are not intercepted;
// route index assignment through SetKey so the mutation passes through
// Splice and notifies exactly once.
type List struct {
	ob     *Observer
	items  []any
	sealed bool
}

// NewList creates a sequence from the given elements. The sequence is inert
// until observed.
func NewList(initial []any) *List {
	l := &List{items: make([]any, len(initial))}
	copy(l.items, initial)
	return l
}

// Len returns the element count, registering the structural dep.
func (l *List) Len() int {
	l.depend()
	return len(l.items)
}

// Get returns the element at index i, registering the structural dep.
// Out-of-range indexes return nil.
func (l *List) Get(i int) any {
	l.depend()
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Slice returns a copy of the elements, registering the structural dep.
func (l *List) Slice() []any {
	l.depend()
	out := make([]any, len(l.items))
	copy(out, l.items)
	return out
}

// Items returns the backing slice. Mutations made through it bypass
// interception and notify nobody.
func (l *List) Items() []any {
	return l.items
}

// Seal makes the sequence non-extensible; sealed sequences are never
// observed.
func (l *List) Seal() {
	l.sealed = true
}

// IsSealed reports whether the sequence is non-extensible.
func (l *List) IsSealed() bool {
	return l.sealed
}

// Push appends elements and returns the new length.
func (l *List) Push(items ...any) int {
	l.items = append(l.items, items...)
	l.observeInserted(items)
	l.notifyStructural()
	return len(l.items)
}

// Pop removes and returns the last element, or nil when empty.
func (l *List) Pop() any {
	n := len(l.items)
	if n == 0 {
		return nil
	}
	last := l.items[n-1]
	l.items[n-1] = nil
	l.items = l.items[:n-1]
	l.notifyStructural()
	return last
}

// Unshift prepends elements and returns the new length.
func (l *List) Unshift(items ...any) int {
	merged := make([]any, 0, len(items)+len(l.items))
	merged = append(merged, items...)
	merged = append(merged, l.items...)
	l.items = merged
	l.observeInserted(items)
	l.notifyStructural()
	return len(l.items)
}

// Shift removes and returns the first element, or nil when empty.
func (l *List) Shift() any {
	if len(l.items) == 0 {
		return nil
	}
	first := l.items[0]
	l.items = l.items[1:]
	l.notifyStructural()
	return first
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place, and returns the removed elements. start and deleteCount are
// clamped to the valid range.
func (l *List) Splice(start, deleteCount int, items ...any) []any {
	n := len(l.items)
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > n-start {
		deleteCount = n - start
	}

	removed := make([]any, deleteCount)
	copy(removed, l.items[start:start+deleteCount])

	merged := make([]any, 0, n-deleteCount+len(items))
	merged = append(merged, l.items[:start]...)
	merged = append(merged, items...)
	merged = append(merged, l.items[start+deleteCount:]...)
	l.items = merged

	l.observeInserted(items)
	l.notifyStructural()
	return removed
}

// Sort reorders the elements by the given comparison, stably.
func (l *List) Sort(less func(a, b any) bool) {
	sort.SliceStable(l.items, func(i, j int) bool {
		return less(l.items[i], l.items[j])
	})
	l.notifyStructural()
}

// Reverse reverses the elements in place.
func (l *List) Reverse() {
	for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
		l.items[i], l.items[j] = l.items[j], l.items[i]
	}
	l.notifyStructural()
}

func (l *List) depend() {
	if l.ob != nil {
		l.ob.dep.Depend()
	}
}

func (l *List) observeInserted(items []any) {
	if l.ob == nil {
		return
	}
	for _, it := range items {
		Observe(it, false)
	}
}

func (l *List) notifyStructural() {
	if l.ob != nil {
		l.ob.dep.Notify()
	}
}

// dependList registers the structural dep of every element that has one.
// Nested sequences recurse one level so that a watcher reading the parent
// key sees shape changes inside directly nested lists.
func dependList(l *List, depth int) {
	for _, e := range l.items {
		if ob := containerObserver(e); ob != nil {
			ob.dep.Depend()
		}
		if nested, ok := e.(*List); ok && depth == 0 {
			dependList(nested, depth+1)
		}
	}
}
