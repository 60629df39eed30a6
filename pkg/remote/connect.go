package remote

import (
	"fmt"
	"sort"
	"sync"
)

// Connector dials a debug transport and returns a Context for the
// target behind addr. Transports live outside this module; they
// register themselves here, database/sql driver style, usually from an
// init function.
type Connector func(addr string) (Context, ThreadSnapshotProvider, error)

var (
	connectorsMu sync.RWMutex
	connectors   = make(map[string]Connector)
)

// RegisterConnector makes a transport available under the given
// backend name. It panics if the name is already taken.
func RegisterConnector(name string, c Connector) {
	connectorsMu.Lock()
	defer connectorsMu.Unlock()
	if c == nil {
		panic("remote: RegisterConnector with nil connector")
	}
	if _, dup := connectors[name]; dup {
		panic("remote: RegisterConnector called twice for " + name)
	}
	connectors[name] = c
}

// Connectors returns the names of the registered backends, sorted.
func Connectors() []string {
	connectorsMu.RLock()
	defer connectorsMu.RUnlock()
	names := make([]string, 0, len(connectors))
	for name := range connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Connect dials addr through the named backend.
func Connect(backend, addr string) (Context, ThreadSnapshotProvider, error) {
	connectorsMu.RLock()
	c, ok := connectors[backend]
	connectorsMu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("unknown backend %q (registered: %v)", backend, Connectors())
	}
	return c(addr)
}
