// Package transform holds the dataset transformers planned for the
// analysis pipeline. Most of them are placeholders: the registry and CLI
// wiring exist so the pipeline's shape is settled, but the spatial math
// has not been written yet and the stubs say so instead of guessing.
package transform

import (
	"context"
	"errors"
	"sort"
)

// ErrNotImplemented is returned by transformers whose logic has not been
// written yet.
var ErrNotImplemented = errors.New("transformer not implemented")

// Options carries the shared inputs a transformer needs.
type Options struct {
	DatabasePath string
	OutputPath   string
}

// Func runs one transformer.
type Func func(ctx context.Context, opts Options) error

// Info describes a registered transformer.
type Info struct {
	Name        string
	Description string
}

type entry struct {
	info Info
	fn   Func
}

var registry = map[string]entry{}

// Register adds a transformer to the registry. Duplicate names panic;
// registration happens in package init only.
func Register(name, description string, fn Func) {
	if _, ok := registry[name]; ok {
		panic("transform: duplicate registration of " + name)
	}
	registry[name] = entry{info: Info{Name: name, Description: description}, fn: fn}
}

// List returns the registered transformers sorted by name.
func List() []Info {
	infos := make([]Info, 0, len(registry))
	for _, e := range registry {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Run dispatches to a registered transformer by name.
func Run(ctx context.Context, name string, opts Options) error {
	e, ok := registry[name]
	if !ok {
		return errors.New("unknown transformer: " + name)
	}
	return e.fn(ctx, opts)
}
