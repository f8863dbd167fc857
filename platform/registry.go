package platform

import (
	"fmt"

	"github.com/on-the-ground/subscript_ive_go/subs"
)

// ErrKindRegistered is returned when a kind is registered twice.
var ErrKindRegistered = fmt.Errorf("effect kind already registered")

// ErrNilFactory is returned when a kind is registered without a factory.
var ErrNilFactory = fmt.Errorf("nil manager factory")

// Registry maps effect kinds to manager factories.
//
// There is no ambient default registry: build one, register every kind,
// then hand it to the runtime. Registration is not safe for concurrent
// use; finish it before the runtime starts.
type Registry struct {
	factories map[subs.Kind]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[subs.Kind]Factory)}
}

// Register binds kind to factory.
func (r *Registry) Register(kind subs.Kind, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("%w: %q", ErrNilFactory, kind)
	}
	if _, dup := r.factories[kind]; dup {
		return fmt.Errorf("%w: %q", ErrKindRegistered, kind)
	}
	r.factories[kind] = factory
	return nil
}

func (r *Registry) factoryOf(kind subs.Kind) (Factory, bool) {
	f, ok := r.factories[kind]
	return f, ok
}

func (r *Registry) has(kind subs.Kind) bool {
	_, ok := r.factories[kind]
	return ok
}
