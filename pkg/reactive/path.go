package reactive

import (
	"regexp"
	"strings"
)

// invalidPathRE rejects watch expressions that are not simple dot-delimited
// identifier paths.
var invalidPathRE = regexp.MustCompile(`[^\w.$]`)

// parsePath compiles a dotted path like "a.b.c" into a getter that walks the
// owner's root record, registering dependencies along the way. Returns nil
// for paths containing non-identifier segments.
func parsePath(path string) func(vm *Owner) any {
	if invalidPathRE.MatchString(path) {
		return nil
	}
	segments := strings.Split(path, ".")
	return func(vm *Owner) any {
		if vm == nil {
			return nil
		}
		var obj any = vm.Data()
		for _, seg := range segments {
			m, ok := obj.(*Map)
			if !ok {
				return nil
			}
			obj = m.Get(seg)
		}
		return obj
	}
}
