package types

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Kind identifies a scalar shape with one canonical string conversion.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindPath
	KindDuration
	KindTimestamp
)

var kindNames = map[Kind]string{
	KindString:    "string",
	KindInt:       "integer",
	KindFloat:     "float",
	KindBool:      "boolean",
	KindPath:      "path",
	KindDuration:  "duration",
	KindTimestamp: "timestamp",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// CollectionArity selects how a Collection accumulates elements.
type CollectionArity int

const (
	// ArityList keeps every element in encounter order.
	ArityList CollectionArity = iota
	// AritySet drops duplicates, keeping the first occurrence.
	AritySet
)

// Descriptor classifies the shapes a parameter's raw tokens may be
// coerced into. The variant set is closed: Scalar, Enum, Union, None,
// Collection, and Structured. Optional is constructor sugar over Union.
type Descriptor interface {
	// Validate checks the variant's registration-time invariants.
	Validate() error

	// String renders the descriptor for error messages.
	String() string

	descriptor()
}

// Scalar accepts a single token converted by its Kind's canonical parser.
type Scalar struct {
	Kind Kind
}

func (Scalar) descriptor() {}

func (s Scalar) Validate() error {
	if _, ok := kindNames[s.Kind]; !ok {
		return fmt.Errorf("%w: unknown scalar kind %d", ErrRegistration, int(s.Kind))
	}
	return nil
}

func (s Scalar) String() string { return s.Kind.String() }

// Enum accepts exactly one of a fixed set of choices. Matching folds both
// sides through Normalize unless ExactCase is set.
type Enum struct {
	Choices   []string
	ExactCase bool
}

func (Enum) descriptor() {}

func (e Enum) Validate() error {
	if len(e.Choices) == 0 {
		return fmt.Errorf("%w: enum needs at least one choice", ErrRegistration)
	}
	seen := make(map[string]bool, len(e.Choices))
	for _, choice := range e.Choices {
		key := choice
		if !e.ExactCase {
			key = Normalize(choice)
		}
		if seen[key] {
			return fmt.Errorf("%w: duplicate enum choice %q", ErrRegistration, choice)
		}
		seen[key] = true
	}
	return nil
}

func (e Enum) String() string {
	return "one of {" + strings.Join(e.Choices, ", ") + "}"
}

// Union tries its candidates strictly left to right; the first candidate
// whose coercion succeeds wins. Candidate order is part of the contract,
// even when a later candidate would also accept the input.
type Union struct {
	Candidates []Descriptor
}

func (Union) descriptor() {}

func (u Union) Validate() error {
	if len(u.Candidates) == 0 {
		return fmt.Errorf("%w: union needs at least one candidate", ErrRegistration)
	}
	var errs *multierror.Error
	for _, c := range u.Candidates {
		if c == nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: nil union candidate", ErrRegistration))
			continue
		}
		if err := c.Validate(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func (u Union) String() string {
	parts := make([]string, len(u.Candidates))
	for i, c := range u.Candidates {
		parts[i] = c.String()
	}
	return strings.Join(parts, "|")
}

// None is the absent-value marker. It coerces successfully only from an
// empty token cluster and yields the untyped nil value.
type None struct{}

func (None) descriptor() {}

func (None) Validate() error { return nil }

func (None) String() string { return "none" }

// Optional is sugar for Union(inner, None): a value of the inner shape,
// or no value at all.
func Optional(inner Descriptor) Union {
	return Union{Candidates: []Descriptor{inner, None{}}}
}

// Collection accumulates independently coerced elements. Absent and
// explicitly empty are distinct: absent means the declared default
// applies, while the clear signal yields a zero-length collection.
type Collection struct {
	Element Descriptor
	Arity   CollectionArity
}

func (Collection) descriptor() {}

func (c Collection) Validate() error {
	if c.Element == nil {
		return fmt.Errorf("%w: collection needs an element descriptor", ErrRegistration)
	}
	if containsCollection(c.Element) {
		return fmt.Errorf("%w: collection element must not itself collect (%s)", ErrRegistration, c.Element)
	}
	if c.Arity == AritySet && containsStructured(c.Element) {
		return fmt.Errorf("%w: set elements must be comparable, not structured records (%s)", ErrRegistration, c.Element)
	}
	if c.Arity != ArityList && c.Arity != AritySet {
		return fmt.Errorf("%w: unknown collection arity %d", ErrRegistration, int(c.Arity))
	}
	return c.Element.Validate()
}

func (c Collection) String() string {
	if c.Arity == AritySet {
		return "set of " + c.Element.String()
	}
	return "list of " + c.Element.String()
}

// Field is one named slot of a Structured record.
type Field struct {
	Name       string
	Type       Descriptor
	Default    any
	HasDefault bool
}

// Structured is a nested record whose fields are promoted into the owning
// node's option namespace, under Prefix when it is non-empty. Check, when
// set, runs after all fields coerce; its failure is a conversion error.
type Structured struct {
	Prefix string
	Fields []Field
	Check  func(fields map[string]any) error
}

func (Structured) descriptor() {}

func (s Structured) Validate() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: structured descriptor needs at least one field", ErrRegistration)
	}
	var errs *multierror.Error
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			errs = multierror.Append(errs, fmt.Errorf("%w: structured field needs a name", ErrRegistration))
			continue
		}
		if seen[f.Name] {
			errs = multierror.Append(errs, fmt.Errorf("%w: duplicate structured field %q", ErrRegistration, f.Name))
		}
		seen[f.Name] = true
		if f.Type == nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: structured field %q needs a descriptor", ErrRegistration, f.Name))
			continue
		}
		if err := f.Type.Validate(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func (s Structured) String() string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return "record {" + strings.Join(names, ", ") + "}"
}

// Normalize folds a name for case-insensitive matching: lowercase with
// underscores treated as hyphens. Enum matching and option lookup share it.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "-")
}

// containsStructured reports whether d is, or can resolve to, a
// Structured record. Record values are maps and cannot be set elements.
func containsStructured(d Descriptor) bool {
	switch v := d.(type) {
	case Structured:
		return true
	case Union:
		for _, c := range v.Candidates {
			if containsStructured(c) {
				return true
			}
		}
	}
	return false
}

// containsCollection reports whether d is, or can resolve to, a Collection.
func containsCollection(d Descriptor) bool {
	switch v := d.(type) {
	case Collection:
		return true
	case Union:
		for _, c := range v.Candidates {
			if containsCollection(c) {
				return true
			}
		}
	case Structured:
		for _, f := range v.Fields {
			if containsCollection(f.Type) {
				return true
			}
		}
	}
	return false
}
