// Package config provides Overlay sources for the binding engine:
// environment-variable snapshots under a caller-chosen prefix, structured
// config files read through viper, and layered composition. All values
// are materialized at construction; nothing here performs I/O at bind
// time.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/argbind/pkg/types"
)

// Layered composes overlays in priority order: the first source that
// knows a name wins.
type Layered struct {
	sources []types.Overlay
}

// NewLayered builds a layered overlay from highest to lowest priority.
func NewLayered(sources ...types.Overlay) *Layered {
	return &Layered{sources: sources}
}

// Lookup implements types.Overlay.
func (l *Layered) Lookup(name string) ([]string, bool) {
	for _, s := range l.sources {
		if raw, ok := s.Lookup(name); ok {
			return raw, true
		}
	}
	return nil, false
}

// Env is a snapshot of environment variables taken at construction.
// A parameter name maps to PREFIX_NAME with dashes and dots folded to
// underscores and uppercased.
type Env struct {
	prefix string
	values map[string]string
}

var envKeyFolder = strings.NewReplacer("-", "_", ".", "_")

// NewEnv snapshots the current process environment under prefix.
func NewEnv(prefix string) *Env {
	return NewEnvFromEnviron(prefix, os.Environ())
}

// NewEnvFromEnviron builds an Env from an explicit environ list, in the
// os.Environ "KEY=value" form. Useful for isolated tests and for hosts
// that manage their own environment snapshots.
func NewEnvFromEnviron(prefix string, environ []string) *Env {
	e := &Env{prefix: prefix, values: make(map[string]string, len(environ))}
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			e.values[k] = v
		}
	}
	return e
}

// Key returns the environment variable name consulted for a parameter.
func (e *Env) Key(name string) string {
	return e.prefix + strings.ToUpper(envKeyFolder.Replace(name))
}

// Lookup implements types.Overlay.
func (e *Env) Lookup(name string) ([]string, bool) {
	v, ok := e.values[e.Key(name)]
	if !ok {
		return nil, false
	}
	return []string{v}, true
}

// File reads one structured config file (yaml, json, or toml, selected
// by extension) through viper. Flattened structured parameter names map
// onto dotted keys, so nested documents address nested records.
type File struct {
	v *viper.Viper
}

// NewFile materializes a config file. A missing file is an error; the
// caller decides whether absence is tolerable.
func NewFile(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &File{v: v}, nil
}

// Lookup implements types.Overlay. Scalar values render to one raw
// token; list values render element-wise.
func (f *File) Lookup(name string) ([]string, bool) {
	if !f.v.IsSet(name) {
		return nil, false
	}
	switch val := f.v.Get(name).(type) {
	case []string:
		return val, true
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			out[i] = cast.ToString(item)
		}
		return out, true
	default:
		return []string{cast.ToString(val)}, true
	}
}
