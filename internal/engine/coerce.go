package engine

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cast"

	"github.com/mesh-intelligence/argbind/pkg/types"
)

// Coerce converts a cluster of raw string tokens into a typed value per
// the descriptor. Pure: same inputs, same result.
func Coerce(d types.Descriptor, raw []string) (any, error) {
	switch v := d.(type) {
	case types.Scalar:
		if len(raw) != 1 {
			return nil, &types.ConversionError{Descriptor: v, Raw: raw}
		}
		return coerceScalar(v, raw[0])

	case types.Enum:
		if len(raw) != 1 {
			return nil, &types.ConversionError{Descriptor: v, Raw: raw}
		}
		return coerceEnum(v, raw[0])

	case types.None:
		if len(raw) != 0 {
			return nil, &types.ConversionError{Descriptor: v, Raw: raw}
		}
		return nil, nil

	case types.Union:
		var errs *multierror.Error
		for _, candidate := range v.Candidates {
			val, err := Coerce(candidate, raw)
			if err == nil {
				return val, nil
			}
			errs = multierror.Append(errs, err)
		}
		return nil, &types.ConversionError{Descriptor: v, Raw: raw, Causes: errs.Errors}

	case types.Collection:
		return coerceCollection(v, raw)

	case types.Structured:
		// A single bare token fills the record's first flattened slot;
		// every other field falls back to its default.
		if len(raw) != 1 {
			return nil, &types.ConversionError{Descriptor: v, Raw: raw}
		}
		slots := map[string][]string{firstLeafPath(v): raw}
		value, missing, err := CoerceStructured(v, slots, "")
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, &types.ConversionError{Descriptor: v, Raw: raw}
		}
		return value, nil

	default:
		return nil, &types.ConversionError{Descriptor: d, Raw: raw}
	}
}

func coerceScalar(s types.Scalar, raw string) (any, error) {
	fail := func() (any, error) {
		return nil, &types.ConversionError{Descriptor: s, Raw: []string{raw}}
	}

	switch s.Kind {
	case types.KindString:
		return raw, nil

	case types.KindInt:
		lower := strings.ToLower(raw)
		if rest, ok := strings.CutPrefix(lower, "0x"); ok {
			n, err := strconv.ParseInt(rest, 16, 64)
			if err != nil {
				return fail()
			}
			return int(n), nil
		}
		if rest, ok := strings.CutPrefix(lower, "0b"); ok {
			n, err := strconv.ParseInt(rest, 2, 64)
			if err != nil {
				return fail()
			}
			return int(n), nil
		}
		// Round through float so "30.0" and "7e2" are accepted.
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return fail()
		}
		r := math.Round(f)
		if math.IsNaN(r) || r < math.MinInt64 || r >= math.MaxInt64 {
			return fail()
		}
		return int(r), nil

	case types.KindFloat:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return fail()
		}
		return f, nil

	case types.KindBool:
		b, err := parseBool(raw)
		if err != nil {
			return fail()
		}
		return b, nil

	case types.KindPath:
		return filepath.Clean(raw), nil

	case types.KindDuration:
		dur, err := cast.ToDurationE(raw)
		if err != nil {
			return fail()
		}
		return dur, nil

	case types.KindTimestamp:
		ts, err := cast.ToTimeE(raw)
		if err != nil {
			return fail()
		}
		return ts, nil

	default:
		return fail()
	}
}

// parseBool accepts a deliberately conservative token set rather than
// strconv.ParseBool's.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "yes", "y", "1", "true", "t":
		return true, nil
	case "no", "n", "0", "false", "f":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean token: %q", raw)
}

func coerceEnum(e types.Enum, raw string) (any, error) {
	for _, choice := range e.Choices {
		if e.ExactCase {
			if raw == choice {
				return choice, nil
			}
			continue
		}
		if types.Normalize(raw) == types.Normalize(choice) {
			return choice, nil
		}
	}
	return nil, &types.ConversionError{Descriptor: e, Raw: []string{raw}}
}

func coerceCollection(c types.Collection, raw []string) (any, error) {
	out := make([]any, 0, len(raw))
	var seen map[any]bool
	if c.Arity == types.AritySet {
		seen = make(map[any]bool, len(raw))
	}
	for _, tok := range raw {
		v, err := Coerce(c.Element, []string{tok})
		if err != nil {
			return nil, err
		}
		if seen != nil {
			if seen[v] {
				continue
			}
			seen[v] = true
		}
		out = append(out, v)
	}
	return out, nil
}

// CoerceStructured builds a structured value from per-field raw clusters.
// Slot keys are field-name paths relative to s, dotted for nesting. It
// returns the flattened names of required fields left unfilled; the
// record's Check hook runs only once every field is in place, and its
// failure is a ConversionError.
func CoerceStructured(s types.Structured, slots map[string][]string, optPrefix string) (map[string]any, []string, error) {
	local := optPrefix
	if s.Prefix != "" {
		local += s.Prefix + "."
	}

	out := make(map[string]any, len(s.Fields))
	var missing []string

	for _, f := range s.Fields {
		if sub, ok := f.Type.(types.Structured); ok {
			value, miss, err := CoerceStructured(sub, subSlots(slots, f.Name), local)
			if err != nil {
				return nil, nil, err
			}
			if len(miss) > 0 {
				missing = append(missing, miss...)
				continue
			}
			out[f.Name] = value
			continue
		}

		raw, ok := slots[f.Name]
		switch {
		case ok:
			v, err := Coerce(f.Type, raw)
			if err != nil {
				return nil, nil, err
			}
			out[f.Name] = v
		case f.HasDefault:
			out[f.Name] = f.Default
		default:
			missing = append(missing, local+f.Name)
		}
	}

	if len(missing) > 0 {
		return nil, missing, nil
	}
	if s.Check != nil {
		if err := s.Check(out); err != nil {
			return nil, nil, &types.ConversionError{Descriptor: s, Causes: []error{err}}
		}
	}
	return out, nil, nil
}

// subSlots extracts the slots under one nested field, with the field
// name stripped from their keys.
func subSlots(slots map[string][]string, field string) map[string][]string {
	out := make(map[string][]string)
	prefix := field + "."
	for key, raw := range slots {
		if rest, ok := strings.CutPrefix(key, prefix); ok {
			out[rest] = raw
		}
	}
	return out
}

// firstLeafPath returns the dotted field path of the record's first
// non-structured slot.
func firstLeafPath(s types.Structured) string {
	f := s.Fields[0]
	if sub, ok := f.Type.(types.Structured); ok {
		return f.Name + "." + firstLeafPath(sub)
	}
	return f.Name
}
