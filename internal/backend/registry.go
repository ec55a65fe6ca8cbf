package backend

import (
	"sort"
	"sync"
)

var (
	regMu      sync.RWMutex
	registered = map[string]Backend{}
)

// Register adds a compiled-in backend. Engine packages call this from
// init; which engines exist is decided by build tags, mirroring how the
// vendor runtime compiled engines in or out.
func Register(b Backend) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, ok := registered[b.Name()]; ok {
		panic("backend: " + b.Name() + " already registered")
	}
	registered[b.Name()] = b
}

// Lookup returns a registered backend by name.
func Lookup(name string) (Backend, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	b, ok := registered[name]
	return b, ok
}

// Names returns the registered backend names, sorted.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(registered))
	for n := range registered {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
