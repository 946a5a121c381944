package types

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// VariadicRole marks a parameter as a collector for otherwise-unmatched
// tokens. A node may declare at most one collector of each role.
type VariadicRole int

const (
	VariadicNone VariadicRole = iota
	// VariadicPositional absorbs all leftover bare tokens. Must be the
	// last positional parameter of its node.
	VariadicPositional
	// VariadicKeyword absorbs option tokens matching no declared name.
	VariadicKeyword
)

// Validator inspects an already-coerced value. A non-nil return rejects
// the value as a ValidationError, distinct from conversion failure.
type Validator func(value any) error

// Parameter declares one bindable argument of a command: its canonical
// name, CLI-facing aliases, eligibility roles, accepted shape, default,
// and validators. For a variadic collector, Type describes one collected
// element, not the whole collection.
type Parameter struct {
	Name       string
	Aliases    []string
	Positional bool
	Keyword    bool
	Variadic   VariadicRole
	Type       Descriptor
	Default    any
	HasDefault bool
	Validators []Validator
	Doc        string
}

// Required reports whether the parameter must be resolved from some
// source. Collectors are never required; they default to empty.
func (p Parameter) Required() bool {
	return !p.HasDefault && p.Variadic == VariadicNone
}

// Validate checks the parameter's own invariants. Cross-parameter
// invariants (collector counts, ordering, namespace collisions) are
// checked by Command.SetSignature.
func (p Parameter) Validate() error {
	var errs *multierror.Error

	if p.Name == "" {
		errs = multierror.Append(errs, fmt.Errorf("%w: parameter needs a name", ErrRegistration))
	}
	if p.Type == nil {
		errs = multierror.Append(errs, fmt.Errorf("%w: parameter %q needs a type descriptor", ErrRegistration, p.Name))
		return errs.ErrorOrNil()
	}
	if err := p.Type.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}

	switch p.Variadic {
	case VariadicNone:
		if !p.Positional && !p.Keyword {
			errs = multierror.Append(errs, fmt.Errorf("%w: parameter %q is neither positional nor keyword eligible", ErrRegistration, p.Name))
		}
	case VariadicPositional:
		if !p.Positional {
			errs = multierror.Append(errs, fmt.Errorf("%w: variadic-positional parameter %q must be positional eligible", ErrRegistration, p.Name))
		}
	case VariadicKeyword:
		if !p.Keyword {
			errs = multierror.Append(errs, fmt.Errorf("%w: variadic-keyword parameter %q must be keyword eligible", ErrRegistration, p.Name))
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("%w: parameter %q has unknown variadic role %d", ErrRegistration, p.Name, int(p.Variadic)))
	}

	if p.Variadic != VariadicNone && containsCollection(p.Type) {
		errs = multierror.Append(errs, fmt.Errorf("%w: collector %q must describe a single element, not a collection", ErrRegistration, p.Name))
	}

	return errs.ErrorOrNil()
}
