package engine

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/argbind/pkg/types"
)

// Resolve binds a classified token set against a node's signature,
// merging the overlay for parameters the command line left unset. Per
// parameter the source priority is fixed: explicit option cluster, then
// positional bare tokens, then the overlay, then the declared default;
// everything still missing after the full scan is reported as one
// aggregated error. The Binding is built locally and returned only on
// success, never half-filled.
func Resolve(node *types.Command, ts *TokenSet, overlay types.Overlay) (*types.Binding, error) {
	r := &resolver{
		node:    node,
		ts:      ts,
		overlay: overlay,
		bare:    ts.Bare,
		named:   make(map[string]any),
	}

	params := node.Parameters()
	restIdx, kwIdx := -1, -1
	for i := range params {
		switch params[i].Variadic {
		case types.VariadicPositional:
			restIdx = i
		case types.VariadicKeyword:
			kwIdx = i
		default:
			if err := r.resolveParam(i, params[i]); err != nil {
				return nil, err
			}
		}
	}

	if len(r.missing) > 0 {
		return nil, &types.MissingRequiredError{Parameters: r.missing}
	}

	binding := &types.Binding{
		Command:    node,
		Positional: r.positional,
		Named:      r.named,
	}

	if restIdx >= 0 {
		rest, err := r.collectPositional(params[restIdx])
		if err != nil {
			return nil, err
		}
		binding.Rest = rest
		r.named[params[restIdx].Name] = rest
	} else if len(r.bare) > 0 {
		return nil, &types.ExtraArgumentsError{Tokens: r.bare}
	}

	if kwIdx >= 0 {
		restNamed, err := r.collectKeyword(params[kwIdx])
		if err != nil {
			return nil, err
		}
		binding.RestNamed = restNamed
		r.named[params[kwIdx].Name] = restNamed
	}

	return binding, nil
}

type resolver struct {
	node       *types.Command
	ts         *TokenSet
	overlay    types.Overlay
	bare       []string
	named      map[string]any
	positional []any
	missing    []string
}

func (r *resolver) resolveParam(i int, p types.Parameter) error {
	if st, ok := p.Type.(types.Structured); ok {
		return r.resolveStructured(i, p, st)
	}

	// An explicit clear signal short-circuits to a zero-length
	// collection, overriding every other source.
	if isCollection(p.Type) && r.ts.Cleared[p.Name] {
		return r.bind(p, []any{}, false)
	}

	if cluster, ok := r.ts.Options[p.Name]; ok {
		v, err := Coerce(p.Type, cluster.RawValues())
		if err != nil {
			return nameOption(err, cluster.Keyword)
		}
		return r.bind(p, v, false)
	}

	if p.Positional && len(r.bare) > 0 {
		v, err := Coerce(p.Type, r.bare[:1])
		if err != nil {
			return err
		}
		r.bare = r.bare[1:]
		return r.bind(p, v, true)
	}

	if r.overlay != nil {
		if raw, ok := r.overlay.Lookup(p.Name); ok {
			v, err := Coerce(p.Type, splitOverlayRaw(p.Type, raw))
			if err != nil {
				return err
			}
			return r.bind(p, v, false)
		}
	}

	if p.HasDefault {
		// Declared defaults are trusted at registration; validators
		// guard user-supplied input.
		r.named[p.Name] = p.Default
		return nil
	}

	r.missing = append(r.missing, p.Name)
	return nil
}

func (r *resolver) resolveStructured(i int, p types.Parameter, st types.Structured) error {
	slots := make(map[string][]string)
	for _, cluster := range r.ts.Options {
		if cluster.Target.Index != i {
			continue
		}
		key := firstLeafPath(st)
		if cluster.Target.Field != nil {
			key = strings.Join(cluster.Target.Field, ".")
		}
		slots[key] = cluster.RawValues()
	}

	fromBare := false
	if len(slots) == 0 && p.Positional && len(r.bare) > 0 {
		slots[firstLeafPath(st)] = r.bare[:1]
		r.bare = r.bare[1:]
		fromBare = true
	}

	if r.overlay != nil {
		walkLeaves(st, nil, "", func(path []string, optName string, f types.Field) {
			key := strings.Join(path, ".")
			if _, exists := slots[key]; exists {
				return
			}
			if raw, ok := r.overlay.Lookup(optName); ok {
				slots[key] = splitOverlayRaw(f.Type, raw)
			}
		})
	}

	if len(slots) == 0 && p.HasDefault {
		r.named[p.Name] = p.Default
		return nil
	}

	// With no slot supplied at all the record is still considered
	// provided when no required field is missing: it builds from field
	// defaults.
	value, miss, err := CoerceStructured(st, slots, "")
	if err != nil {
		return err
	}
	if len(miss) > 0 {
		r.missing = append(r.missing, miss...)
		return nil
	}
	return r.bind(p, value, fromBare)
}

// bind runs the parameter's validators and records the value.
func (r *resolver) bind(p types.Parameter, v any, fromBare bool) error {
	for _, validate := range p.Validators {
		if err := validate(v); err != nil {
			return &types.ValidationError{Parameter: p.Name, Value: v, Reason: err}
		}
	}
	r.named[p.Name] = v
	if fromBare {
		r.positional = append(r.positional, v)
	}
	return nil
}

// collectPositional absorbs explicit cluster values and every leftover
// bare token into the variadic-positional collector, element-wise.
func (r *resolver) collectPositional(p types.Parameter) ([]any, error) {
	var raw []string
	if cluster, ok := r.ts.Options[p.Name]; ok {
		raw = append(raw, cluster.Values...)
	}
	raw = append(raw, r.bare...)
	r.bare = nil

	rest := make([]any, 0, len(raw))
	for _, tok := range raw {
		v, err := Coerce(p.Type, []string{tok})
		if err != nil {
			return nil, err
		}
		rest = append(rest, v)
	}
	for _, validate := range p.Validators {
		if err := validate(rest); err != nil {
			return nil, &types.ValidationError{Parameter: p.Name, Value: rest, Reason: err}
		}
	}
	return rest, nil
}

// collectKeyword coerces every unmatched option routed to the
// variadic-keyword collector.
func (r *resolver) collectKeyword(p types.Parameter) (map[string]any, error) {
	restNamed := make(map[string]any, len(r.ts.Unknown))
	for _, u := range r.ts.Unknown {
		v, err := Coerce(p.Type, u.Values)
		if err != nil {
			return nil, err
		}
		restNamed[u.Name] = v
	}
	for _, validate := range p.Validators {
		if err := validate(restNamed); err != nil {
			return nil, &types.ValidationError{Parameter: p.Name, Value: restNamed, Reason: err}
		}
	}
	return restNamed, nil
}

// nameOption attaches the option keyword as typed to a conversion
// failure, matching how Split's own errors identify their source.
func nameOption(err error, keyword string) error {
	var conv *types.ConversionError
	if errors.As(err, &conv) && conv.Option == "" {
		conv.Option = keyword
	}
	return err
}

// splitOverlayRaw splits a single overlay value destined for a
// collection: on the OS path-list separator for path elements, on
// whitespace otherwise. Environment variables carry lists this way.
func splitOverlayRaw(d types.Descriptor, raw []string) []string {
	c, ok := d.(types.Collection)
	if !ok || len(raw) != 1 {
		return raw
	}
	if s, ok := c.Element.(types.Scalar); ok && s.Kind == types.KindPath {
		return filepath.SplitList(raw[0])
	}
	return strings.Fields(raw[0])
}

// walkLeaves visits every non-structured field of a record with its
// field path and flattened option name.
func walkLeaves(s types.Structured, path []string, optPrefix string, fn func(path []string, optName string, f types.Field)) {
	prefix := optPrefix
	if s.Prefix != "" {
		prefix += s.Prefix + "."
	}
	for _, f := range s.Fields {
		p := append(append([]string(nil), path...), f.Name)
		if sub, ok := f.Type.(types.Structured); ok {
			walkLeaves(sub, p, prefix, fn)
			continue
		}
		fn(p, prefix+f.Name, f)
	}
}
