package types

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"unknown command", &UnknownCommandError{Token: "x", Path: []string{"tool"}}, ErrUnknownCommand},
		{"unknown option", &UnknownOptionError{Token: "--x", Path: []string{"tool"}}, ErrUnknownOption},
		{"conversion", &ConversionError{Descriptor: Scalar{Kind: KindInt}, Raw: []string{"x"}}, ErrConversion},
		{"validation", &ValidationError{Parameter: "n", Value: 3, Reason: errors.New("too small")}, ErrValidation},
		{"missing required", &MissingRequiredError{Parameters: []string{"a", "b"}}, ErrMissingRequired},
		{"extra arguments", &ExtraArgumentsError{Tokens: []string{"x"}}, ErrExtraArguments},
		{"registration", &RegistrationError{Path: []string{"tool"}, Causes: []error{errors.New("bad")}}, ErrRegistration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Fatalf("%v should unwrap to %v", tt.err, tt.sentinel)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	unknown := &UnknownCommandError{Token: "gret", Path: []string{"tool"}, Suggestions: []string{"greet"}}
	if msg := unknown.Error(); !strings.Contains(msg, "gret") || !strings.Contains(msg, "did you mean greet") {
		t.Fatalf("unexpected message: %q", msg)
	}

	conv := &ConversionError{Option: "--count", Descriptor: Scalar{Kind: KindInt}}
	if msg := conv.Error(); !strings.Contains(msg, "expects a value") || !strings.Contains(msg, "integer") {
		t.Fatalf("unexpected message: %q", msg)
	}

	missing := &MissingRequiredError{Parameters: []string{"name", "target"}}
	if msg := missing.Error(); !strings.Contains(msg, "name, target") {
		t.Fatalf("unexpected message: %q", msg)
	}
}
