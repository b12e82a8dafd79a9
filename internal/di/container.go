// Package di is a small, generic dependency injection helper used to wire
// the front ends: a constructed value plus a bag of recorded dependencies,
// assembled through explicit injector functions.
//
// There is no container graph and no reflection-driven injection; wiring
// mistakes (duplicate keys, nil dependencies) surface as typed errors at
// build time rather than panics at call time.
package di

import (
	"errors"
	"reflect"
	"strconv"
)

var (
	// ErrNilTarget is returned when an injector is applied to a nil service.
	ErrNilTarget = errors.New("di: nil target service")

	// ErrNilDep is the sentinel a NilDependencyError unwraps to.
	ErrNilDep = errors.New("di: nil dependency service")

	// ErrNilBind is the sentinel a NilBindError unwraps to.
	ErrNilBind = errors.New("di: nil bind function")
)

// DependencyKey identifies a dependency stored in a Service's bag. Keys are
// typically package-level constants.
type DependencyKey string

// Key converts a string into a DependencyKey.
func Key(name string) DependencyKey { return DependencyKey(name) }

// DuplicateKeyError is returned when an injector registers a key twice.
type DuplicateKeyError struct{ Key DependencyKey }

func (e DuplicateKeyError) Error() string {
	return "di: duplicate dependency key " + strconv.Quote(string(e.Key))
}

// MissingDependencyError is returned when a requested key is not present.
type MissingDependencyError struct{ Key DependencyKey }

func (e MissingDependencyError) Error() string {
	return "di: dependency " + strconv.Quote(string(e.Key)) + " missing"
}

// WrongTypeDependencyError is returned when a key exists but holds a value
// of a different type.
type WrongTypeDependencyError struct {
	Key     DependencyKey
	GotType string
}

func (e WrongTypeDependencyError) Error() string {
	return "di: dependency " + strconv.Quote(string(e.Key)) + " has wrong type (" + e.GotType + ")"
}

// Service wraps a constructed value plus its recorded dependencies.
//
// Val is the constructed value. Deps keeps the injected dependencies for
// introspection and typed retrieval.
type Service[T any] struct {
	Val  *T
	Deps map[DependencyKey]any
}

// Init constructs a Service by calling ctor.
func Init[T any](ctor func() *T) *Service[T] {
	return &Service[T]{
		Val:  ctor(),
		Deps: make(map[DependencyKey]any),
	}
}

// Wrap adopts an already-constructed value.
func Wrap[T any](val *T) *Service[T] {
	return &Service[T]{
		Val:  val,
		Deps: make(map[DependencyKey]any),
	}
}

// Injector mutates a Service in place, recording and binding one dependency.
type Injector[T any] func(s *Service[T]) error

// Inject applies injectors in order, stopping at the first error.
func (s *Service[T]) Inject(injectors ...Injector[T]) error {
	if s == nil || s.Val == nil {
		return ErrNilTarget
	}
	for _, inject := range injectors {
		if err := inject(s); err != nil {
			return err
		}
	}
	return nil
}

// Provide records dep under key and binds it to the target via bind.
func Provide[T any, D any](key DependencyKey, dep *D, bind func(target *T, dep *D)) Injector[T] {
	return func(s *Service[T]) error {
		if s == nil || s.Val == nil {
			return ErrNilTarget
		}
		if dep == nil {
			return NilDependencyError{Key: key}
		}
		if bind == nil {
			return NilBindError{Key: key}
		}
		if _, exists := s.Deps[key]; exists {
			return DuplicateKeyError{Key: key}
		}
		s.Deps[key] = dep
		bind(s.Val, dep)
		return nil
	}
}

// NilDependencyError indicates a nil dependency for a specific key.
// It unwraps to ErrNilDep.
type NilDependencyError struct{ Key DependencyKey }

func (e NilDependencyError) Error() string {
	return "di: nil dependency for key " + strconv.Quote(string(e.Key))
}

func (e NilDependencyError) Unwrap() error { return ErrNilDep }

// NilBindError indicates a nil bind function for a specific key.
// It unwraps to ErrNilBind.
type NilBindError struct{ Key DependencyKey }

func (e NilBindError) Error() string {
	return "di: nil bind function for key " + strconv.Quote(string(e.Key))
}

func (e NilBindError) Unwrap() error { return ErrNilBind }

// Has reports whether a dependency exists for the key.
func (s *Service[T]) Has(key DependencyKey) bool {
	if s == nil || s.Deps == nil {
		return false
	}
	_, ok := s.Deps[key]
	return ok
}

// GetAs returns the dependency typed as *D; ok is false when the key is
// missing or holds another type.
func GetAs[T any, D any](s *Service[T], key DependencyKey) (*D, bool) {
	if s == nil || s.Deps == nil {
		return nil, false
	}
	raw, ok := s.Deps[key]
	if !ok || raw == nil {
		return nil, false
	}
	d, ok := raw.(*D)
	return d, ok
}

// TryGetAs returns the dependency typed as *D, distinguishing missing keys
// from wrong types through typed errors.
func TryGetAs[T any, D any](s *Service[T], key DependencyKey) (*D, error) {
	if s == nil || s.Deps == nil {
		return nil, MissingDependencyError{Key: key}
	}
	raw, ok := s.Deps[key]
	if !ok || raw == nil {
		return nil, MissingDependencyError{Key: key}
	}
	d, ok := raw.(*D)
	if !ok {
		return nil, WrongTypeDependencyError{
			Key:     key,
			GotType: reflect.TypeOf(raw).String(),
		}
	}
	return d, nil
}

// MustGetAs returns the dependency typed as *D or panics.
func MustGetAs[T any, D any](s *Service[T], key DependencyKey) *D {
	d, ok := GetAs[T, D](s, key)
	if !ok {
		panic(MissingDependencyError{Key: key})
	}
	return d
}
