// Package main provides the argbind demo binary. It binds its argv
// against a small built-in command tree and prints the resulting Binding
// as JSON, which makes the classifier and resolver observable from a
// shell. The engine itself never prints; this binary is a caller.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mesh-intelligence/argbind/pkg/bind"
	"github.com/mesh-intelligence/argbind/pkg/config"
	"github.com/mesh-intelligence/argbind/pkg/types"
)

const (
	appName   = "argbind"
	envPrefix = "ARGBIND_"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("argbind v%s\n", bind.Version)
		return
	}

	tree, err := demoTree()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	overlay, err := buildOverlay()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	binding, err := bind.Bind(tree, os.Args[1:], overlay)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out := map[string]any{
		"command":   binding.Command.Path(),
		"arguments": binding.Arguments(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Println(string(data))
}

// buildOverlay layers the process environment over the discovered config
// file, when one exists.
func buildOverlay() (types.Overlay, error) {
	env := config.NewEnv(envPrefix)

	path, ok, err := config.LocateConfigFile(appName, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return env, nil
	}
	file, err := config.NewFile(path)
	if err != nil {
		return nil, err
	}
	return config.NewLayered(env, file), nil
}

func demoTree() (*types.Tree, error) {
	tree := types.NewTree("argbind")

	greet, err := tree.Root().AddCommand("greet", "Greet a name and collect numbers")
	if err != nil {
		return nil, err
	}
	if err := greet.SetSignature(
		types.Parameter{
			Name:       "name",
			Positional: true,
			Keyword:    true,
			Type:       types.Scalar{Kind: types.KindString},
		},
		types.Parameter{
			Name:       "loud",
			Keyword:    true,
			Type:       types.Scalar{Kind: types.KindBool},
			Default:    false,
			HasDefault: true,
		},
		types.Parameter{
			Name:       "numbers",
			Positional: true,
			Variadic:   types.VariadicPositional,
			Type:       types.Scalar{Kind: types.KindInt},
		},
	); err != nil {
		return nil, err
	}

	serve, err := tree.Root().AddCommand("serve", "Describe a service endpoint")
	if err != nil {
		return nil, err
	}
	if err := serve.SetSignature(
		types.Parameter{
			Name:    "endpoint",
			Keyword: true,
			Type: types.Structured{
				Prefix: "endpoint",
				Fields: []types.Field{
					{Name: "url", Type: types.Scalar{Kind: types.KindString}, Default: "http://localhost", HasDefault: true},
					{Name: "port", Type: types.Scalar{Kind: types.KindInt}, Default: 8080, HasDefault: true},
				},
			},
		},
		types.Parameter{
			Name:       "tags",
			Keyword:    true,
			Type:       types.Collection{Element: types.Scalar{Kind: types.KindString}, Arity: types.AritySet},
			Default:    []any{},
			HasDefault: true,
		},
	); err != nil {
		return nil, err
	}

	if err := tree.Root().MarkDefault("greet"); err != nil {
		return nil, err
	}
	return tree, nil
}
