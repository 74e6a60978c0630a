package action

import (
	"fmt"
	"maps"
	"slices"
)

// Args is the result of a successful bind: positional values in declaration
// order and every parameter's value by name.
type Args struct {
	// Invocation identifies the Execute call that produced these arguments.
	Invocation string

	action      string
	positionals []any
	rest        []any
	values      map[string]any
}

func (a *Args) Action() string {
	return a.action
}

// Positionals returns the coerced positional values in declaration order.
func (a *Args) Positionals() []any {
	return slices.Clone(a.positionals)
}

// Rest returns the coerced values collected by the rest parameter.
func (a *Args) Rest() []any {
	return slices.Clone(a.rest)
}

// Values returns a copy of all bound values keyed by parameter name.
func (a *Args) Values() map[string]any {
	return maps.Clone(a.values)
}

func (a *Args) Value(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// String returns the named value as a string, or "" if it is not one.
func (a *Args) String(name string) string {
	s, _ := a.values[name].(string)
	return s
}

// Int returns the named value as an int, or 0 if it is absent or not an int.
func (a *Args) Int(name string) int {
	n, _ := a.values[name].(int)
	return n
}

func (a *Args) Bool(name string) bool {
	b, _ := a.values[name].(bool)
	return b
}

// bindState is the per-bind accumulator state. It never outlives Bind.
type bindState struct {
	action       *Action
	accumulators map[string]Accumulator
	current      map[string]any
	seen         map[string]bool
}

func newBindState(a *Action) *bindState {
	st := &bindState{
		action:       a,
		accumulators: make(map[string]Accumulator, len(a.options)),
		current:      make(map[string]any, len(a.options)),
		seen:         make(map[string]bool, len(a.options)),
	}
	for _, i := range a.options {
		p := a.params[i]
		acc := p.Option.newAccumulator()
		st.accumulators[p.Name] = acc
		st.current[p.Name] = acc.Initial()
	}
	return st
}

func (st *bindState) lookup(id string) (string, bool, bool) {
	p, ok := st.action.option(id)
	if !ok {
		return "", false, false
	}
	return p.Name, st.accumulators[p.Name].TakesValue(), true
}

func (st *bindState) fold(tok Token) error {
	acc, ok := st.accumulators[tok.Param]
	if !ok {
		return newError(ErrUnknownOption, st.action.name, "", tok.Occurrence.Token, nil)
	}

	next, err := acc.Fold(st.current[tok.Param], tok.Occurrence)
	if err != nil {
		// Only a structured error raised by the fold itself keeps its kind;
		// anything wrapping one is the accumulator's own failure.
		if e, ok := err.(*Error); ok {
			if e.Action == "" {
				e.Action = st.action.name
			}
			if e.Param == "" {
				e.Param = tok.Param
			}
			return e
		}
		return newError(ErrFoldAborted, st.action.name, tok.Param, tok.Occurrence.Token, err)
	}

	st.current[tok.Param] = next
	st.seen[tok.Param] = true
	return nil
}

// Bind matches tokens against the action's parameters. Positional tokens are
// assigned in declaration order and coerced once each; option occurrences are
// folded in stream order. The first failure aborts the bind.
func Bind(a *Action, tokens []string) (*Args, error) {
	st := newBindState(a)

	var raw []string
	for tok, err := range match(a.name, tokens, st.lookup) {
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case TokenPositional:
			raw = append(raw, tok.Raw)
			if len(raw) > len(a.positionals) && a.rest < 0 {
				return nil, newError(ErrTooManyPositionals, a.name, "", tok.Raw,
					fmt.Errorf("expected %d, got more", len(a.positionals)))
			}
		case TokenOption:
			if err := st.fold(tok); err != nil {
				return nil, err
			}
		}
	}

	if len(raw) < len(a.positionals) {
		missing := a.params[a.positionals[len(raw)]]
		return nil, newError(ErrMissingPositional, a.name, missing.Name, "",
			fmt.Errorf("expected %d, got %d", len(a.positionals), len(raw)))
	}

	args := &Args{
		action:      a.name,
		positionals: make([]any, 0, len(a.positionals)),
		values:      make(map[string]any, len(a.params)),
	}

	for n, i := range a.positionals {
		p := a.params[i]
		v, err := coerce(p.Coerce, raw[n])
		if err != nil {
			return nil, newError(ErrCoercion, a.name, p.Name, raw[n], err)
		}
		args.positionals = append(args.positionals, v)
		args.values[p.Name] = v
	}

	if a.rest >= 0 {
		p := a.params[a.rest]
		args.rest = make([]any, 0, len(raw)-len(a.positionals))
		for _, r := range raw[len(a.positionals):] {
			v, err := coerce(p.Coerce, r)
			if err != nil {
				return nil, newError(ErrCoercion, a.name, p.Name, r, err)
			}
			args.rest = append(args.rest, v)
		}
		args.values[p.Name] = slices.Clone(args.rest)
	}

	for _, i := range a.options {
		p := a.params[i]
		if st.seen[p.Name] {
			args.values[p.Name] = st.current[p.Name]
		} else {
			args.values[p.Name] = p.Option.finalize(st.accumulators[p.Name])
		}
	}

	return args, nil
}
