// Package engine implements the argbind core: token classification over
// a registered command tree, coercion of raw tokens per type descriptor,
// and the binding resolver that merges CLI input with overlay values and
// declared defaults. The engine is synchronous, performs no I/O, and
// never mutates the tree it reads.
package engine

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/argbind/pkg/types"
)

const (
	// endOfOptions forces every later token to be treated as bare.
	endOfOptions = "--"

	// negativePrefix derives a false-valued form for boolean options.
	negativePrefix = "no-"

	// emptyPrefix derives the clear signal for collection options.
	emptyPrefix = "empty-"
)

// optionLike reports whether tok has option shape: a dash prefix that is
// not a negative number.
func optionLike(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return true
}

// Walk resolves the command path: it consumes leading tokens that name
// children exactly, then settles on the current node's own handler, its
// default child, or an UnknownCommandError. Abbreviated command names
// are not accepted.
func Walk(tree *types.Tree, tokens []string) (*types.Command, []string, error) {
	cur := tree.Root()
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if tok == endOfOptions || optionLike(tok) {
			break
		}
		child, ok := cur.Child(tok)
		if !ok {
			break
		}
		cur = child
		i++
	}

	remaining := tokens[i:]
	if cur.Runnable() {
		return cur, remaining, nil
	}
	if def, ok := cur.DefaultChild(); ok {
		return def, remaining, nil
	}

	e := &types.UnknownCommandError{Path: cur.Path()}
	if i < len(tokens) {
		e.Token = tokens[i]
		e.Suggestions = suggestCommands(tokens[i], cur)
	}
	return nil, nil, e
}

// OptionCluster accumulates the raw tokens supplied for one option slot.
type OptionCluster struct {
	Target  types.OptionTarget
	Keyword string   // option token as typed, for error messages
	Values  []string // attached or consumed value tokens
	Flag    *bool    // implicit value for flag-style boolean occurrences
}

// RawValues renders the cluster as the token cluster the coercion engine
// consumes.
func (c *OptionCluster) RawValues() []string {
	if c.Flag != nil {
		return []string{strconv.FormatBool(*c.Flag)}
	}
	return c.Values
}

// UnknownOption is an option token routed to the variadic-keyword
// collector.
type UnknownOption struct {
	Name   string
	Values []string
}

// TokenSet is the classified remainder of the command line for one node.
type TokenSet struct {
	Options map[string]*OptionCluster // keyed by canonical slot name
	Unknown []UnknownOption           // collector-bound options, in encounter order
	Bare    []string                  // positional candidates, in order
	Cleared map[string]bool           // explicit-empty signals per collection slot
}

// Split classifies the tokens remaining after Walk into option clusters
// and bare tokens. A standalone "--" forces everything after it to be
// bare. Unknown options fail immediately unless the node declares a
// variadic-keyword collector.
func Split(node *types.Command, tokens []string) (*TokenSet, error) {
	ts := &TokenSet{
		Options: make(map[string]*OptionCluster),
		Cleared: make(map[string]bool),
	}

	var forced []string
	for i, tok := range tokens {
		if tok == endOfOptions {
			forced = tokens[i+1:]
			tokens = tokens[:i]
			break
		}
	}

	skip := 0
	for i, tok := range tokens {
		if skip > 0 {
			skip--
			continue
		}
		if !optionLike(tok) {
			ts.Bare = append(ts.Bare, tok)
			continue
		}

		name := strings.TrimLeft(tok, "-")
		attached, hasAttached := "", false
		if eq := strings.Index(name, "="); eq >= 0 {
			attached, hasAttached = name[eq+1:], true
			name = name[:eq]
		}

		target, ok := node.Option(name)
		if ok {
			consumed, err := consumeOption(ts, node, target, tok, tokens[i+1:], attached, hasAttached)
			if err != nil {
				return nil, err
			}
			skip = consumed
			continue
		}

		if trimmed, found := strings.CutPrefix(name, negativePrefix); found {
			if t, ok := node.Option(trimmed); ok && isBool(node.TargetDescriptor(t)) {
				val := false
				if hasAttached {
					b, err := parseBool(attached)
					if err != nil {
						return nil, &types.ConversionError{Option: tok, Descriptor: types.Scalar{Kind: types.KindBool}, Raw: []string{attached}}
					}
					// --no-name=false double-negates back to true.
					val = !b
				}
				cluster := clusterFor(ts, t, tok)
				cluster.Flag = &val
				cluster.Values = nil
				continue
			}
		}

		if trimmed, found := strings.CutPrefix(name, emptyPrefix); found {
			if t, ok := node.Option(trimmed); ok && isCollection(node.TargetDescriptor(t)) {
				if hasAttached {
					b, err := parseBool(attached)
					if err != nil {
						return nil, &types.ConversionError{Option: tok, Descriptor: types.Scalar{Kind: types.KindBool}, Raw: []string{attached}}
					}
					// A false clear signal is ignored rather than
					// rejected, which keeps generated invocations simple.
					if !b {
						continue
					}
				}
				ts.Cleared[t.Canonical] = true
				continue
			}
		}

		collector, hasCollector := node.VariadicKeyword()
		if !hasCollector {
			return nil, &types.UnknownOptionError{Token: tok, Path: node.Path()}
		}
		unknown := UnknownOption{Name: name}
		switch {
		case isBool(collector.Type):
			val := "true"
			if hasAttached {
				val = attached
			}
			unknown.Values = []string{val}
		case hasAttached:
			unknown.Values = []string{attached}
		case i+1 < len(tokens) && !optionLike(tokens[i+1]):
			unknown.Values = []string{tokens[i+1]}
			skip = 1
		default:
			return nil, &types.ConversionError{Option: tok, Descriptor: collector.Type}
		}
		ts.Unknown = append(ts.Unknown, unknown)
	}

	ts.Bare = append(ts.Bare, forced...)
	return ts, nil
}

// consumeOption records one occurrence of a recognized option, consuming
// following value tokens as the slot's descriptor requires. It returns
// how many upcoming tokens it consumed.
func consumeOption(ts *TokenSet, node *types.Command, target types.OptionTarget, keyword string, rest []string, attached string, hasAttached bool) (int, error) {
	desc := node.TargetDescriptor(target)
	cluster := clusterFor(ts, target, keyword)

	switch {
	case isBool(desc):
		val := true
		if hasAttached {
			b, err := parseBool(attached)
			if err != nil {
				return 0, &types.ConversionError{Option: keyword, Descriptor: desc, Raw: []string{attached}}
			}
			val = b
		}
		cluster.Flag = &val
		cluster.Values = nil
		return 0, nil

	case isCollection(desc):
		if hasAttached {
			cluster.Values = append(cluster.Values, attached)
			// A value-bearing occurrence rescinds an earlier clear signal.
			delete(ts.Cleared, target.Canonical)
			return 0, nil
		}
		consumed := 0
		for _, tok := range rest {
			if optionLike(tok) {
				break
			}
			cluster.Values = append(cluster.Values, tok)
			consumed++
		}
		if consumed == 0 && len(cluster.Values) == 0 {
			// A collection keyword with no values is the clear signal.
			ts.Cleared[target.Canonical] = true
		} else if consumed > 0 {
			delete(ts.Cleared, target.Canonical)
		}
		return consumed, nil

	default:
		if hasAttached {
			cluster.Values = []string{attached}
			cluster.Flag = nil
			return 0, nil
		}
		if len(rest) == 0 || optionLike(rest[0]) {
			return 0, &types.ConversionError{Option: keyword, Descriptor: desc}
		}
		// Repeat occurrences of a single-valued option keep the last one.
		cluster.Values = []string{rest[0]}
		cluster.Flag = nil
		return 1, nil
	}
}

func clusterFor(ts *TokenSet, target types.OptionTarget, keyword string) *OptionCluster {
	cluster, ok := ts.Options[target.Canonical]
	if !ok {
		cluster = &OptionCluster{Target: target, Keyword: keyword}
		ts.Options[target.Canonical] = cluster
	}
	return cluster
}

func isBool(d types.Descriptor) bool {
	s, ok := d.(types.Scalar)
	return ok && s.Kind == types.KindBool
}

func isCollection(d types.Descriptor) bool {
	_, ok := d.(types.Collection)
	return ok
}
