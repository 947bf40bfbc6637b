// Package catalog holds the compiled-in game entry points. Game packages
// register a Factory under a name from their init function; manifests on disk
// refer to that name in their "entry" field.
package catalog

import (
	"sort"
	"sync"

	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
)

// Factory creates a new, not yet initialized game instance for a descriptor.
type Factory func(desc domain.GameDescriptor) (ports.Game, error)

// Catalog maps entry names to factories.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// New creates a new empty catalog.
func New() *Catalog {
	return &Catalog{
		factories: make(map[string]Factory),
	}
}

// Register makes a Factory available under name.
// If Register is called twice with the same name or if factory is nil,
// it panics.
func (c *Catalog) Register(name string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if factory == nil {
		panic("catalog: Register factory is nil")
	}
	if _, dup := c.factories[name]; dup {
		panic("catalog: Register called twice for entry " + name)
	}
	c.factories[name] = factory
}

// Lookup returns the factory registered under name.
func (c *Catalog) Lookup(name string) (Factory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.factories[name]
	return f, ok
}

// Names returns a sorted list of the registered entry names.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]string, 0, len(c.factories))
	for name := range c.factories {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// Default is the process-wide catalog used by the bundled games.
var Default = New()

// Register adds factory to the Default catalog.
func Register(name string, factory Factory) {
	Default.Register(name, factory)
}
