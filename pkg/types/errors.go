package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the binding error taxonomy. Every structured error
// below unwraps to exactly one of these, so callers can branch with
// errors.Is before deciding how to render. All errors are inert data;
// the engine never retries and never prints.
var (
	ErrRegistration    = errors.New("invalid command registration")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUnknownOption   = errors.New("unknown option")
	ErrConversion      = errors.New("cannot convert value")
	ErrValidation      = errors.New("invalid value")
	ErrMissingRequired = errors.New("missing required parameters")
	ErrExtraArguments  = errors.New("unexpected extra arguments")
)

// UnknownCommandError reports a path token that matched no child of a
// node with no default handler.
type UnknownCommandError struct {
	Token       string   // offending token; empty when the command line ended early
	Path        []string // path of the node the walk stopped at
	Suggestions []string // near-miss child names, closest first
}

func (e *UnknownCommandError) Error() string {
	var b strings.Builder
	if e.Token == "" {
		fmt.Fprintf(&b, "%q requires a subcommand", strings.Join(e.Path, " "))
	} else {
		fmt.Fprintf(&b, "unknown command %q under %q", e.Token, strings.Join(e.Path, " "))
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

// UnknownOptionError reports an option token that matched no declared
// parameter of a node with no variadic-keyword collector.
type UnknownOptionError struct {
	Token string
	Path  []string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q for %q", e.Token, strings.Join(e.Path, " "))
}

func (e *UnknownOptionError) Unwrap() error { return ErrUnknownOption }

// ConversionError reports raw tokens that could not be coerced to a
// descriptor. For unions, Causes carries every candidate's failure in
// trial order.
type ConversionError struct {
	Option     string // option keyword as typed, when the tokens came from one
	Descriptor Descriptor
	Raw        []string
	Causes     []error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	switch {
	case len(e.Raw) == 0 && e.Option != "":
		fmt.Fprintf(&b, "option %q expects a value", e.Option)
	case len(e.Raw) == 0:
		b.WriteString("no value supplied")
	default:
		fmt.Fprintf(&b, "cannot convert %q", strings.Join(e.Raw, " "))
	}
	if e.Descriptor != nil {
		fmt.Fprintf(&b, " (want %s)", e.Descriptor)
	}
	if len(e.Causes) > 0 {
		fmt.Fprintf(&b, ": %d candidate(s) failed", len(e.Causes))
	}
	return b.String()
}

func (e *ConversionError) Unwrap() error { return ErrConversion }

// ValidationError reports a value that coerced cleanly but was rejected
// by a registered validator.
type ValidationError struct {
	Parameter string
	Value     any
	Reason    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %v for parameter %q: %v", e.Value, e.Parameter, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MissingRequiredError aggregates every required parameter left
// unresolved after the full scan, in declaration order.
type MissingRequiredError struct {
	Parameters []string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("missing required parameters: %s", strings.Join(e.Parameters, ", "))
}

func (e *MissingRequiredError) Unwrap() error { return ErrMissingRequired }

// ExtraArgumentsError reports leftover bare tokens with no collector to
// absorb them.
type ExtraArgumentsError struct {
	Tokens []string
}

func (e *ExtraArgumentsError) Error() string {
	return fmt.Sprintf("unexpected extra arguments: %s", strings.Join(e.Tokens, " "))
}

func (e *ExtraArgumentsError) Unwrap() error { return ErrExtraArguments }

// RegistrationError aggregates every invariant violation found while
// registering a command signature.
type RegistrationError struct {
	Path   []string
	Causes []error
}

func (e *RegistrationError) Error() string {
	msgs := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		msgs[i] = c.Error()
	}
	return fmt.Sprintf("invalid signature for %q: %s", strings.Join(e.Path, " "), strings.Join(msgs, "; "))
}

func (e *RegistrationError) Unwrap() error { return ErrRegistration }
