package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// OptionTarget locates the slot an option name binds to: a whole
// parameter, or one flattened field of a structured parameter.
type OptionTarget struct {
	// Canonical is the slot's canonical flattened name, shared by every
	// alias that resolves to it.
	Canonical string

	// Index is the owning parameter's position in the node signature.
	Index int

	// Field is the field-name path inside a structured parameter, nil
	// when the target is the parameter itself.
	Field []string
}

// Command is one named point in the command tree. It owns a parameter
// signature (when runnable) and/or named children. Built once at
// registration time; immutable in use thereafter, so a tree is safe to
// share read-only across concurrent binds.
type Command struct {
	id           uuid.UUID
	parentID     uuid.UUID
	tree         *Tree
	name         string
	doc          string
	children     map[string]*Command
	defaultChild string
	runnable     bool
	params       []Parameter
	options      map[string]OptionTarget
}

// Tree owns the registered command hierarchy and the id index used to
// reconstruct paths without parent pointers.
type Tree struct {
	root  *Command
	index map[uuid.UUID]*Command
}

// NewTree creates a tree whose root carries the program name.
func NewTree(name string) *Tree {
	t := &Tree{index: make(map[uuid.UUID]*Command)}
	root := &Command{
		id:       uuid.New(),
		name:     name,
		tree:     t,
		children: make(map[string]*Command),
		options:  make(map[string]OptionTarget),
	}
	t.root = root
	t.index[root.id] = root
	return t
}

// Root returns the root command.
func (t *Tree) Root() *Command { return t.root }

// Lookup resolves a node id. Used for parent back-references; binding
// itself never walks upward.
func (t *Tree) Lookup(id uuid.UUID) (*Command, bool) {
	c, ok := t.index[id]
	return c, ok
}

// ID returns the node's identity within its tree.
func (c *Command) ID() uuid.UUID { return c.id }

// Name returns the node's command name (the program name for the root).
func (c *Command) Name() string { return c.name }

// Doc returns the node's registered documentation text.
func (c *Command) Doc() string { return c.doc }

// Runnable reports whether the node carries a handler signature. A node
// becomes runnable through SetSignature, even with zero parameters.
func (c *Command) Runnable() bool { return c.runnable }

// Parameters returns the node's signature. Callers must treat the slice
// as read-only.
func (c *Command) Parameters() []Parameter { return c.params }

// Child returns the named child, if registered.
func (c *Command) Child(name string) (*Command, bool) {
	child, ok := c.children[name]
	return child, ok
}

// ChildNames returns the registered child names in sorted order.
func (c *Command) ChildNames() []string {
	names := make([]string, 0, len(c.children))
	for name := range c.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultChild returns the child marked as this node's default handler.
func (c *Command) DefaultChild() (*Command, bool) {
	if c.defaultChild == "" {
		return nil, false
	}
	return c.Child(c.defaultChild)
}

// Option resolves an option name (without dashes) to its slot.
func (c *Command) Option(name string) (OptionTarget, bool) {
	t, ok := c.options[name]
	return t, ok
}

// TargetDescriptor resolves the descriptor of the slot an OptionTarget
// points at, descending through structured fields when needed.
func (c *Command) TargetDescriptor(t OptionTarget) Descriptor {
	d := c.params[t.Index].Type
	for _, name := range t.Field {
		st, ok := d.(Structured)
		if !ok {
			return d
		}
		for _, f := range st.Fields {
			if f.Name == name {
				d = f.Type
				break
			}
		}
	}
	return d
}

// VariadicPositional returns the node's positional collector, if declared.
func (c *Command) VariadicPositional() (*Parameter, bool) {
	return c.collector(VariadicPositional)
}

// VariadicKeyword returns the node's keyword collector, if declared.
func (c *Command) VariadicKeyword() (*Parameter, bool) {
	return c.collector(VariadicKeyword)
}

func (c *Command) collector(role VariadicRole) (*Parameter, bool) {
	for i := range c.params {
		if c.params[i].Variadic == role {
			return &c.params[i], true
		}
	}
	return nil, false
}

// Path returns the command path from the root to this node, resolved
// through the tree's id index.
func (c *Command) Path() []string {
	var names []string
	for cur := c; cur != nil; {
		names = append(names, cur.name)
		if cur.parentID == uuid.Nil {
			break
		}
		parent, ok := cur.tree.Lookup(cur.parentID)
		if !ok {
			break
		}
		cur = parent
	}
	// Reverse into root-first order.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// AddCommand registers a named child and returns it. Child names must be
// unique within the parent and must not look like option tokens.
func (c *Command) AddCommand(name, doc string) (*Command, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: command needs a name", ErrRegistration)
	}
	if strings.HasPrefix(name, "-") {
		return nil, fmt.Errorf("%w: command name %q must not start with a dash", ErrRegistration, name)
	}
	if _, exists := c.children[name]; exists {
		return nil, fmt.Errorf("%w: duplicate command %q under %q", ErrRegistration, name, strings.Join(c.Path(), " "))
	}
	child := &Command{
		id:       uuid.New(),
		parentID: c.id,
		tree:     c.tree,
		name:     name,
		doc:      doc,
		children: make(map[string]*Command),
		options:  make(map[string]OptionTarget),
	}
	c.children[name] = child
	c.tree.index[child.id] = child
	return child, nil
}

// MarkDefault marks a registered child as this node's default handler,
// resolved when no path token matches a child name. At most one child
// may be marked per parent.
func (c *Command) MarkDefault(name string) error {
	if _, ok := c.children[name]; !ok {
		return fmt.Errorf("%w: cannot mark unregistered command %q as default", ErrRegistration, name)
	}
	if c.defaultChild != "" && c.defaultChild != name {
		return fmt.Errorf("%w: %q already has default command %q", ErrRegistration, strings.Join(c.Path(), " "), c.defaultChild)
	}
	c.defaultChild = name
	return nil
}

// SetSignature installs the node's parameter signature and marks it
// runnable. All signature invariants are checked here, aggregated into a
// single RegistrationError; inconsistent signatures never reach binding.
func (c *Command) SetSignature(params ...Parameter) error {
	var errs *multierror.Error

	seen := make(map[string]string)         // option namespace: name -> declarer
	options := make(map[string]OptionTarget)
	variadicPos, variadicKw := 0, 0
	sawOptionalPositional := false
	sawPositionalCollector := false

	claim := func(name, declarer string, target OptionTarget, matchable bool) {
		if prev, dup := seen[name]; dup {
			errs = multierror.Append(errs, fmt.Errorf("%w: name %q declared by both %s and %s", ErrRegistration, name, prev, declarer))
			return
		}
		seen[name] = declarer
		if matchable {
			options[name] = target
		}
	}

	for i := range params {
		p := params[i]
		if err := p.Validate(); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}

		declarer := fmt.Sprintf("parameter %q", p.Name)
		target := OptionTarget{Canonical: p.Name, Index: i}
		claim(p.Name, declarer, target, p.Keyword)
		for _, alias := range p.Aliases {
			claim(alias, declarer, target, p.Keyword)
		}
		if st, ok := p.Type.(Structured); ok && p.Keyword {
			flattenFields(st, i, nil, "", declarer, claim)
		}

		switch p.Variadic {
		case VariadicPositional:
			variadicPos++
			sawPositionalCollector = true
		case VariadicKeyword:
			variadicKw++
		case VariadicNone:
			if p.Positional {
				if sawPositionalCollector {
					errs = multierror.Append(errs, fmt.Errorf("%w: positional parameter %q follows the variadic-positional collector", ErrRegistration, p.Name))
				}
				if p.Required() && sawOptionalPositional {
					errs = multierror.Append(errs, fmt.Errorf("%w: required positional parameter %q follows an optional one", ErrRegistration, p.Name))
				}
				if !p.Required() {
					sawOptionalPositional = true
				}
			}
		}
	}

	if variadicPos > 1 {
		errs = multierror.Append(errs, fmt.Errorf("%w: at most one variadic-positional parameter per command", ErrRegistration))
	}
	if variadicKw > 1 {
		errs = multierror.Append(errs, fmt.Errorf("%w: at most one variadic-keyword parameter per command", ErrRegistration))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return &RegistrationError{Path: c.Path(), Causes: errs.Errors}
	}

	c.params = append([]Parameter(nil), params...)
	c.options = options
	c.runnable = true
	return nil
}

// flattenFields promotes a structured parameter's fields into the option
// namespace, one claim per leaf, recursing through nested records.
func flattenFields(s Structured, index int, fieldPath []string, optPrefix, declarer string, claim func(name, declarer string, target OptionTarget, matchable bool)) {
	prefix := optPrefix
	if s.Prefix != "" {
		prefix += s.Prefix + "."
	}
	for _, f := range s.Fields {
		path := append(append([]string(nil), fieldPath...), f.Name)
		if sub, ok := f.Type.(Structured); ok {
			flattenFields(sub, index, path, prefix, declarer, claim)
			continue
		}
		name := prefix + f.Name
		claim(name, declarer, OptionTarget{Canonical: name, Index: index, Field: path}, true)
	}
}
