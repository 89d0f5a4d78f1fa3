package reactive

// Owner is the minimal component-instance surface the core needs: it owns a
// list of watchers, optionally a render watcher and a root data record, and
// the lifecycle flags the scheduler consults when delivering hooks. The host
// framework embeds or wraps it; the core never observes an Owner itself.
type Owner struct {
	id uint64

	data          *Map
	watchers      []*Watcher
	renderWatcher *Watcher

	mounted    bool
	destroyed  bool
	destroying bool
	inactive   bool
}

// NewOwner creates an empty owner.
func NewOwner() *Owner {
	return &Owner{id: nextOwnerID()}
}

// ID returns the unique identifier for this owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// SetRootData observes m as this owner's root record and stores it. Dotted
// watch paths resolve against the root record.
func (o *Owner) SetRootData(m *Map) {
	o.data = m
	Observe(m, true)
}

// Data returns the root record, or nil.
func (o *Owner) Data() *Map {
	return o.data
}

// RenderWatcher returns the owner's render watcher, or nil.
func (o *Owner) RenderWatcher() *Watcher {
	return o.renderWatcher
}

// MarkMounted records that the component finished mounting. Updated hooks
// are only delivered to mounted owners.
func (o *Owner) MarkMounted() {
	o.mounted = true
}

// IsMounted reports whether the component finished mounting.
func (o *Owner) IsMounted() bool {
	return o.mounted
}

// IsDestroyed reports whether the component was torn down.
func (o *Owner) IsDestroyed() bool {
	return o.destroyed
}

// SetInactive records whether the component is deactivated (kept alive but
// out of the tree). Inactive owners queued via QueueActivated receive an
// activation hook after the next flush.
func (o *Owner) SetInactive(inactive bool) {
	o.inactive = inactive
}

// IsInactive reports whether the component is deactivated.
func (o *Owner) IsInactive() bool {
	return o.inactive
}

// Watchers returns a copy of the owner's watcher list.
func (o *Owner) Watchers() []*Watcher {
	out := make([]*Watcher, len(o.watchers))
	copy(out, o.watchers)
	return out
}

func (o *Owner) addWatcher(w *Watcher) {
	o.watchers = append(o.watchers, w)
}

func (o *Owner) removeWatcher(w *Watcher) {
	for i, existing := range o.watchers {
		if existing == w {
			o.watchers = append(o.watchers[:i], o.watchers[i+1:]...)
			return
		}
	}
}

// Destroy tears down every watcher the owner holds. Watchers skip removing
// themselves from the owner's list while the owner is being destroyed, since
// the whole list is dropped at the end.
func (o *Owner) Destroy() {
	if o.destroyed {
		return
	}
	o.destroying = true
	for i := len(o.watchers) - 1; i >= 0; i-- {
		o.watchers[i].Teardown()
	}
	o.watchers = nil
	o.renderWatcher = nil
	o.destroying = false
	o.destroyed = true
}
