package model

import (
	"fmt"
	"strings"
)

// idSeparator joins the parts of every Ditto identifier.
const idSeparator = ":"

// MaxIDLength is the advised upper bound for an identifier's string form.
// It is not enforced by the identifier types.
const MaxIDLength = 256

// NamespacedID identifies a Ditto entity (thing, policy) as
// "namespace:name". The name may itself contain ':'; the namespace may not.
type NamespacedID struct {
	Namespace string
	Name      string
}

// NewNamespacedID returns the identifier namespace:name.
func NewNamespacedID(namespace, name string) NamespacedID {
	return NamespacedID{Namespace: namespace, Name: name}
}

// ParseNamespacedID splits s on its first ':'.
//
// Returns ErrMalformedIdentifier if s has no separator.
func ParseNamespacedID(s string) (NamespacedID, error) {
	namespace, name, ok := strings.Cut(s, idSeparator)
	if !ok {
		return NamespacedID{}, fmt.Errorf("%w: %q has no %q separator", ErrMalformedIdentifier, s, idSeparator)
	}
	return NamespacedID{Namespace: namespace, Name: name}, nil
}

// MustParseNamespacedID is like ParseNamespacedID but panics on error.
// Intended for identifiers written as literals.
func MustParseNamespacedID(s string) NamespacedID {
	id, err := ParseNamespacedID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// WithNamespace sets the namespace and returns the identifier for chaining.
func (id *NamespacedID) WithNamespace(namespace string) *NamespacedID {
	id.Namespace = namespace
	return id
}

// WithName sets the name and returns the identifier for chaining.
func (id *NamespacedID) WithName(name string) *NamespacedID {
	id.Name = name
	return id
}

// Validate reports whether the identifier survives a String/Parse round trip.
func (id NamespacedID) Validate() error {
	if strings.Contains(id.Namespace, idSeparator) {
		return fmt.Errorf("%w: namespace %q contains %q", ErrMalformedIdentifier, id.Namespace, idSeparator)
	}
	return nil
}

// String returns "namespace:name".
func (id NamespacedID) String() string {
	return id.Namespace + idSeparator + id.Name
}
