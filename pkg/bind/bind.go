// Package bind is the public entry point for the argbind engine: resolve
// a command path and bind raw tokens into typed arguments in one call.
// It exposes the engine without adding behavior; rendering, completion,
// and handler execution remain caller concerns.
package bind

import (
	"github.com/mesh-intelligence/argbind/internal/engine"
	"github.com/mesh-intelligence/argbind/pkg/types"
)

// Bind walks the command tree along tokens, classifies the remainder,
// and resolves a Binding for the matched node. overlay may be nil when
// no environment or file sources apply.
//
// Example:
//
//	tree := types.NewTree("tool")
//	greet, _ := tree.Root().AddCommand("greet", "Print a greeting")
//	_ = greet.SetSignature(types.Parameter{
//	    Name:       "name",
//	    Positional: true,
//	    Keyword:    true,
//	    Type:       types.Scalar{Kind: types.KindString},
//	})
//	binding, err := bind.Bind(tree, os.Args[1:], nil)
func Bind(tree *types.Tree, tokens []string, overlay types.Overlay) (*types.Binding, error) {
	node, remaining, err := engine.Walk(tree, tokens)
	if err != nil {
		return nil, err
	}
	split, err := engine.Split(node, remaining)
	if err != nil {
		return nil, err
	}
	return engine.Resolve(node, split, overlay)
}

// ResolveCommand walks the command path only, returning the matched node
// and the unconsumed tokens. Useful for hosts that render help or
// completions for a node without binding.
func ResolveCommand(tree *types.Tree, tokens []string) (*types.Command, []string, error) {
	return engine.Walk(tree, tokens)
}

// Coerce converts raw tokens per a descriptor, outside of any command
// context. Exposed for custom overlay sources and validator tooling.
func Coerce(d types.Descriptor, raw []string) (any, error) {
	return engine.Coerce(d, raw)
}
