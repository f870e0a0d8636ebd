package plot

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Renderer draws a figure onto a writer.
type Renderer interface {
	Name() string
	Render(fig *Figure, w io.Writer) error
}

var (
	regMu     sync.RWMutex
	renderers = make(map[string]Renderer)
)

// Register makes a renderer selectable by name. Backends register themselves
// from init, so importing a backend package is enough to enable it.
func Register(r Renderer) {
	regMu.Lock()
	defer regMu.Unlock()
	renderers[r.Name()] = r
}

// Get resolves a renderer by name.
func Get(name string) (Renderer, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	r, ok := renderers[name]
	if !ok {
		return nil, fmt.Errorf("plot: unknown backend %q (known: %v)", name, namesLocked())
	}
	return r, nil
}

// Names lists the registered backend names in sorted order.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render resolves a backend by name and draws the figure with it.
func Render(fig *Figure, backend string, w io.Writer) error {
	r, err := Get(backend)
	if err != nil {
		return err
	}
	return r.Render(fig, w)
}
