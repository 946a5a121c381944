package types

// Overlay supplies lowest-priority raw values for parameters the command
// line left unset, keyed by canonical flattened name. Values are
// pre-materialized by the caller; the engine performs no I/O through it.
type Overlay interface {
	Lookup(name string) (raw []string, ok bool)
}

// Binding is the finished result of one bind: the resolved command plus
// its typed argument values. Produced fresh per invocation and never
// returned partially populated; concurrent binds share nothing.
type Binding struct {
	// Command is the resolved handler node.
	Command *Command

	// Positional holds the values bound from bare tokens, in consumption
	// order.
	Positional []any

	// Named maps every bound parameter's canonical name to its value,
	// collectors included.
	Named map[string]any

	// Rest holds the variadic-positional collector's elements, when one
	// is declared.
	Rest []any

	// RestNamed holds the variadic-keyword collector's entries, when one
	// is declared.
	RestNamed map[string]any
}

// Arguments returns a copy of the named value map, safe for the caller
// to mutate.
func (b *Binding) Arguments() map[string]any {
	out := make(map[string]any, len(b.Named))
	for k, v := range b.Named {
		out[k] = v
	}
	return out
}
