package action

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Role int

const (
	// RolePositional parameters are filled by position, in declaration order.
	RolePositional Role = iota
	// RoleRest collects every positional token left after the declared ones.
	RoleRest
	// RoleOption parameters are filled by identifier-prefixed tokens.
	RoleOption
)

func (r Role) String() string {
	switch r {
	case RolePositional:
		return "positional"
	case RoleRest:
		return "rest"
	case RoleOption:
		return "option"
	default:
		return "unknown"
	}
}

// Param describes one parameter of an action.
// Positional and rest parameters carry Coerce, options carry Option.
type Param struct {
	Name   string
	Role   Role
	Coerce Coercer
	Option *OptionSpec
}

// Decl is a parameter declaration handed to New.
type Decl struct {
	name   string
	role   Role
	coerce Coercer
	config any
}

// Arg declares a mandatory positional parameter. A nil coercion keeps the
// raw string.
func Arg(name string, c Coercer) Decl {
	return Decl{name: name, role: RolePositional, coerce: c}
}

// Rest declares a trailing parameter receiving all excess positional tokens.
func Rest(name string, c Coercer) Decl {
	return Decl{name: name, role: RoleRest, coerce: c}
}

// Opt declares an option parameter. The config may be:
//
//	nil                              string Key named after the parameter
//	bool                             Flag named after the parameter, the value is its default
//	Coercer or func(string) (any, error)  Key named after the parameter
//	Triple                           Key with explicit identifiers
//	*OptionSpec                      Flag, Count, Key or Custom as given
func Opt(name string, config any) Decl {
	return Decl{name: name, role: RoleOption, config: config}
}

func (d Decl) build() (Param, error) {
	p := Param{Name: d.name, Role: d.role}
	if d.role != RoleOption {
		p.Coerce = d.coerce
		if p.Coerce == nil {
			p.Coerce = String
		}
		return p, nil
	}

	spec, err := normalizeOption(d.name, d.config)
	if err != nil {
		return Param{}, err
	}
	p.Option = spec
	return p, nil
}

func normalizeOption(name string, config any) (*OptionSpec, error) {
	switch c := config.(type) {
	case nil:
		return derived(name, Key("", "", String))
	case bool:
		return derived(name, Flag().WithDefault(c))
	case Coercer:
		return derived(name, Key("", "", c))
	case func(string) (any, error):
		return derived(name, Key("", "", c))
	case Triple:
		return checked(Key(c.Short, c.Long, c.Coerce))
	case *OptionSpec:
		if c == nil {
			return nil, fmt.Errorf("nil option spec")
		}
		if c.derive {
			return derived(name, c)
		}
		return checked(c)
	default:
		return nil, fmt.Errorf("unsupported option config %T", config)
	}
}

// derived fills identifiers from the parameter name: its first character as
// the short form and the name, with underscores as dashes, as the long form.
func derived(name string, spec *OptionSpec) (*OptionSpec, error) {
	if !utf8.ValidString(name) {
		return nil, fmt.Errorf("parameter name %q is not valid UTF-8", name)
	}

	short, _ := utf8.DecodeRuneInString(name)
	c := *spec
	c.derive = false
	if err := c.assign(string(short), strings.ReplaceAll(name, "_", "-")); err != nil {
		return nil, err
	}
	c.err = nil
	return checked(&c)
}

func checked(spec *OptionSpec) (*OptionSpec, error) {
	if spec.err != nil {
		return nil, spec.err
	}
	if spec.newAccumulator == nil {
		return nil, fmt.Errorf("%s option has no accumulator", spec.kind)
	}
	c := *spec
	return &c, nil
}
