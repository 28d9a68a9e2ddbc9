package model

import (
	"fmt"
	"strings"
)

// definitionIDParts is the number of ':'-separated parts of a DefinitionID.
const definitionIDParts = 3

// DefinitionID names the model a Thing or Feature conforms to, as
// "namespace:name:version". The version may contain ':'.
type DefinitionID struct {
	Namespace string
	Name      string
	Version   string
}

// NewDefinitionID returns the identifier namespace:name:version.
func NewDefinitionID(namespace, name, version string) DefinitionID {
	return DefinitionID{Namespace: namespace, Name: name, Version: version}
}

// ParseDefinitionID splits s on ':' at most twice.
//
// Returns ErrMalformedIdentifier if s has fewer than two separators.
func ParseDefinitionID(s string) (DefinitionID, error) {
	parts := strings.SplitN(s, idSeparator, definitionIDParts)
	if len(parts) != definitionIDParts {
		return DefinitionID{}, fmt.Errorf("%w: %q is not namespace:name:version", ErrMalformedIdentifier, s)
	}
	return DefinitionID{Namespace: parts[0], Name: parts[1], Version: parts[2]}, nil
}

// MustParseDefinitionID is like ParseDefinitionID but panics on error.
func MustParseDefinitionID(s string) DefinitionID {
	id, err := ParseDefinitionID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// WithNamespace sets the namespace and returns the identifier for chaining.
func (id *DefinitionID) WithNamespace(namespace string) *DefinitionID {
	id.Namespace = namespace
	return id
}

// WithName sets the name and returns the identifier for chaining.
func (id *DefinitionID) WithName(name string) *DefinitionID {
	id.Name = name
	return id
}

// WithVersion sets the version and returns the identifier for chaining.
func (id *DefinitionID) WithVersion(version string) *DefinitionID {
	id.Version = version
	return id
}

// Validate reports whether the identifier survives a String/Parse round trip.
func (id DefinitionID) Validate() error {
	if strings.Contains(id.Namespace, idSeparator) || strings.Contains(id.Name, idSeparator) {
		return fmt.Errorf("%w: namespace and name of %q must not contain %q", ErrMalformedIdentifier, id.String(), idSeparator)
	}
	return nil
}

// String returns "namespace:name:version".
func (id DefinitionID) String() string {
	return id.Namespace + idSeparator + id.Name + idSeparator + id.Version
}
