package action

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/mwantia/action/log"
)

// Parser pairs a registry with the binder. Each parser is fully isolated,
// so several independent command sets can live in one process.
//
// Lifecycle: construct, register every action, then bind any number of
// times, from any number of goroutines.
type Parser struct {
	options  *ParserOptions
	log      *log.Logger
	registry *Registry
}

func NewParser(opts ...ParserOption) (*Parser, error) {
	options := newDefaultParserOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	return &Parser{
		options:  options,
		log:      options.logger(),
		registry: NewRegistry(),
	}, nil
}

// NewContext returns a parser with an empty registry sharing this parser's
// configuration and logger.
func (p *Parser) NewContext() *Parser {
	return &Parser{
		options:  p.options,
		log:      p.log,
		registry: NewRegistry(),
	}
}

func (p *Parser) Registry() *Registry {
	return p.registry
}

func (p *Parser) Register(a *Action) error {
	if err := p.registry.Register(a); err != nil {
		return err
	}

	p.log.Debug("registered %s", a)
	return nil
}

func (p *Parser) RegisterDefault(a *Action) error {
	if err := p.registry.RegisterDefault(a); err != nil {
		return err
	}

	p.log.Debug("registered default %s", a)
	return nil
}

// Action builds an action and registers it in one step.
func (p *Parser) Action(name string, run RunFunc, decls ...Decl) (*Action, error) {
	a, err := New(name, run, decls...)
	if err != nil {
		return nil, err
	}
	if err := p.Register(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Default builds an action and registers it as the default.
func (p *Parser) Default(name string, run RunFunc, decls ...Decl) (*Action, error) {
	a, err := New(name, run, decls...)
	if err != nil {
		return nil, err
	}
	if err := p.RegisterDefault(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Parse resolves the action named by the first token and binds the remaining
// tokens to it without invoking it.
func (p *Parser) Parse(tokens ...string) (*Action, *Args, error) {
	a, rest, err := p.registry.resolve(tokens)
	if err != nil {
		return nil, nil, err
	}

	p.log.Debug("resolved %v to '%s' with %d tokens left", tokens, a.name, len(rest))

	args, err := Bind(a, rest)
	if err != nil {
		return nil, nil, withAction(err, a.name)
	}
	return a, args, nil
}

// Execute parses tokens and runs the selected action, returning whatever it
// returns. Failures are reported, never turned into a process exit.
func (p *Parser) Execute(ctx context.Context, tokens ...string) (any, error) {
	invocation := uuid.Must(uuid.NewV7()).String()

	a, args, err := p.Parse(tokens...)
	if err != nil {
		p.log.Warn("invocation %s failed: %v", invocation, err)
		return nil, err
	}
	args.Invocation = invocation

	p.log.Debug("invocation %s: running '%s' with %v", invocation, a.name, args.values)

	result, err := a.invoke(ctx, args)
	if err != nil {
		p.log.Debug("invocation %s: '%s' returned error: %v", invocation, a.name, err)
		return result, err
	}
	return result, nil
}

// ExecuteLine splits a command line with shell quoting rules and executes it.
func (p *Parser) ExecuteLine(ctx context.Context, line string) (any, error) {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("action: cannot split command line: %w", err)
	}
	return p.Execute(ctx, tokens...)
}

var std = mustDefaultParser()

func mustDefaultParser() *Parser {
	p, err := NewParser()
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultParser returns the process-wide parser used by the package-level
// functions.
func DefaultParser() *Parser {
	return std
}

// NewContext returns a parser isolated from the process-wide one.
func NewContext() *Parser {
	return std.NewContext()
}

func Register(a *Action) error {
	return std.Register(a)
}

func RegisterDefault(a *Action) error {
	return std.RegisterDefault(a)
}

func Execute(ctx context.Context, tokens ...string) (any, error) {
	return std.Execute(ctx, tokens...)
}

func ExecuteLine(ctx context.Context, line string) (any, error) {
	return std.ExecuteLine(ctx, line)
}
