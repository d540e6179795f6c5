package transform

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrUnknownTransform  = errors.New("unknown transform")
	ErrAlreadyRegistered = errors.New("transform already registered")
)

// Factory builds the function of a transform from its definition.
type Factory[D any] func(definition string) (Func[D], error)

// Catalog resolves transform names to factories.
type Catalog[D any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[D]
}

// NewCatalog creates an empty catalog.
func NewCatalog[D any]() *Catalog[D] {
	return &Catalog[D]{factories: make(map[string]Factory[D])}
}

// Register adds a factory under name.
func (c *Catalog[D]) Register(name string, factory Factory[D]) error {
	if name == "" {
		return ErrMissingName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.factories[name]; ok {
		return errors.Wrap(ErrAlreadyRegistered, name)
	}

	c.factories[name] = factory

	return nil
}

// Build resolves name and builds the transform for definition.
func (c *Catalog[D]) Build(name, definition string) (Transform[D], error) {
	c.mu.RLock()
	factory, ok := c.factories[name]
	c.mu.RUnlock()

	if !ok {
		return Transform[D]{}, errors.Wrap(ErrUnknownTransform, name)
	}

	fn, err := factory(definition)
	if err != nil {
		return Transform[D]{}, errors.Wrapf(err, "unable to build transform %s", name)
	}

	return New(name, definition, fn), nil
}

// Names lists the registered names in alphabetical order.
func (c *Catalog[D]) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
