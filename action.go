package action

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// RunFunc is the body of an action, invoked with fully bound arguments.
type RunFunc func(ctx context.Context, args *Args) (any, error)

// Action is a named operation with a fixed parameter list. It is built once
// and never modified afterwards, so it may be bound concurrently.
type Action struct {
	name   string
	run    RunFunc
	params []Param

	positionals []int
	rest        int
	options     []int

	// keyed by "-s" and "--long"
	identifiers map[string]int
}

// New builds an action from its parameter declarations. Declaration
// mistakes are reported as ErrInvalidOptionSpec.
func New(name string, run RunFunc, decls ...Decl) (*Action, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidSpec("", "", "action name cannot be empty")
	}

	a := &Action{
		name:        name,
		run:         run,
		params:      make([]Param, 0, len(decls)),
		rest:        -1,
		identifiers: make(map[string]int),
	}

	names := make(map[string]struct{}, len(decls))
	for i, decl := range decls {
		if decl.name == "" {
			return nil, invalidSpec(name, "", "parameter %d has no name", i)
		}
		if _, exists := names[decl.name]; exists {
			return nil, invalidSpec(name, decl.name, "duplicate parameter name")
		}
		names[decl.name] = struct{}{}

		p, err := decl.build()
		if err != nil {
			return nil, newError(ErrInvalidOptionSpec, name, decl.name, "", err)
		}

		switch p.Role {
		case RolePositional:
			if a.rest >= 0 {
				return nil, invalidSpec(name, p.Name, "positional parameter declared after rest parameter '%s'", a.params[a.rest].Name)
			}
			a.positionals = append(a.positionals, i)
		case RoleRest:
			if a.rest >= 0 {
				return nil, invalidSpec(name, p.Name, "only one rest parameter allowed")
			}
			a.rest = i
		case RoleOption:
			for _, id := range p.Option.Identifiers() {
				if other, exists := a.identifiers[id]; exists {
					return nil, invalidSpec(name, p.Name, "identifier '%s' already used by '%s'", id, a.params[other].Name)
				}
				a.identifiers[id] = i
			}
			a.options = append(a.options, i)
		default:
			return nil, invalidSpec(name, p.Name, "unknown parameter role %d", p.Role)
		}

		a.params = append(a.params, p)
	}

	return a, nil
}

// MustNew is like New but panics on declaration errors.
func MustNew(name string, run RunFunc, decls ...Decl) *Action {
	a, err := New(name, run, decls...)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Action) Name() string {
	return a.name
}

// Params returns the declared parameters in declaration order.
func (a *Action) Params() []Param {
	return slices.Clone(a.params)
}

// Param returns the parameter with the given name.
func (a *Action) Param(name string) (Param, bool) {
	for _, p := range a.params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Variadic reports whether the action declares a rest parameter.
func (a *Action) Variadic() bool {
	return a.rest >= 0
}

// Run binds tokens to the action's parameters and invokes its body.
func (a *Action) Run(ctx context.Context, tokens ...string) (any, error) {
	args, err := Bind(a, tokens)
	if err != nil {
		return nil, err
	}
	return a.invoke(ctx, args)
}

func (a *Action) invoke(ctx context.Context, args *Args) (any, error) {
	if a.run == nil {
		return args, nil
	}
	return a.run(ctx, args)
}

// option resolves an identifier such as "-v" or "--verbose".
func (a *Action) option(id string) (*Param, bool) {
	i, ok := a.identifiers[id]
	if !ok {
		return nil, false
	}
	return &a.params[i], true
}

func (a *Action) String() string {
	parts := make([]string, 0, len(a.params))
	for _, p := range a.params {
		switch p.Role {
		case RoleOption:
			parts = append(parts, fmt.Sprintf("%s=%s", p.Name, p.Option))
		case RoleRest:
			parts = append(parts, "*"+p.Name)
		default:
			parts = append(parts, p.Name)
		}
	}
	return fmt.Sprintf("%s(%s)", a.name, strings.Join(parts, ", "))
}
