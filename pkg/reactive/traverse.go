package reactive

import mapset "github.com/deckarep/golang-set/v2"

// traverse recursively reads every nested reactive key of val so that all
// deps inside are collected by the evaluating watcher. The seen set is fresh
// per traversal root and keyed by structural dep id, which breaks cycles
// between containers that reference each other.
func traverse(val any) {
	seen := mapset.NewThreadUnsafeSet[uint64]()
	traverseInto(val, seen)
}

func traverseInto(val any, seen mapset.Set[uint64]) {
	switch v := val.(type) {
	case *List:
		if v.sealed {
			return
		}
		if ob := v.ob; ob != nil {
			if seen.Contains(ob.dep.id) {
				return
			}
			seen.Add(ob.dep.id)
		}
		// Element reads register the structural dep; nested containers
		// recurse.
		for i := 0; i < len(v.items); i++ {
			traverseInto(v.Get(i), seen)
		}
	case *Map:
		if v.sealed {
			return
		}
		if ob := v.ob; ob != nil {
			if seen.Contains(ob.dep.id) {
				return
			}
			seen.Add(ob.dep.id)
		}
		// Get fires the reactive accessor, subscribing the watcher.
		for _, key := range v.Keys() {
			traverseInto(v.Get(key), seen)
		}
	}
}
