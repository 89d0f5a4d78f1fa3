package reactive

import "sync/atomic"

// depIDCounter is the source of unique ids for Deps.
var depIDCounter uint64

// watcherIDCounter is the source of unique ids for Watchers. Watcher ids
// double as creation order, which the scheduler relies on when sorting the
// flush queue.
var watcherIDCounter uint64

// ownerIDCounter is the source of unique ids for Owners.
var ownerIDCounter uint64

func nextDepID() uint64 {
	return atomic.AddUint64(&depIDCounter, 1)
}

func nextWatcherID() uint64 {
	return atomic.AddUint64(&watcherIDCounter, 1)
}

func nextOwnerID() uint64 {
	return atomic.AddUint64(&ownerIDCounter, 1)
}
