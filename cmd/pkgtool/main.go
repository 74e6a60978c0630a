package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mwantia/action"
)

func setupParser(out io.Writer) (*action.Parser, error) {
	var opts []action.ParserOption
	if level := os.Getenv("PKGTOOL_LOG_LEVEL"); level != "" {
		opts = append(opts, action.WithLogLevelName(level))
	}
	if file := os.Getenv("PKGTOOL_LOG_FILE"); file != "" {
		opts = append(opts, action.WithLogFile(file), action.WithoutTerminalLog())
	}

	p, err := action.NewParser(opts...)
	if err != nil {
		return nil, err
	}

	if _, err := p.Action("install", func(ctx context.Context, args *action.Args) (any, error) {
		verb := "installing"
		if args.Bool("upgrade") {
			verb = "upgrading"
		}
		fmt.Fprintf(out, "%s %s\n", verb, args.String("package_name"))
		if args.Int("verbose") > 0 {
			fmt.Fprintf(out, "verbosity %d\n", args.Int("verbose"))
		}
		return nil, nil
	},
		action.Arg("package_name", nil),
		action.Opt("upgrade", action.Flag()),
		action.Opt("verbose", action.Count().WithDefault(0)),
	); err != nil {
		return nil, err
	}

	if _, err := p.Action("add", func(ctx context.Context, args *action.Args) (any, error) {
		fmt.Fprintln(out, args.Int("x")+args.Int("y"))
		return nil, nil
	},
		action.Arg("x", action.Int),
		action.Arg("y", action.Int),
	); err != nil {
		return nil, err
	}

	if _, err := p.Action("walk", func(ctx context.Context, args *action.Args) (any, error) {
		depth, ok := args.Value("depth")
		if !ok || depth == nil {
			fmt.Fprintln(out, "walking without depth limit")
			return nil, nil
		}
		fmt.Fprintf(out, "walking to depth %d\n", depth)
		return nil, nil
	},
		action.Opt("depth", action.Int),
	); err != nil {
		return nil, err
	}

	if _, err := p.Default("list", func(ctx context.Context, args *action.Args) (any, error) {
		names := make([]string, 0)
		for _, a := range p.Registry().Actions() {
			names = append(names, a.Name())
		}
		fmt.Fprintf(out, "actions: %s\n", strings.Join(names, ", "))
		for _, v := range args.Rest() {
			fmt.Fprintf(out, "ignored: %v\n", v)
		}
		return nil, nil
	},
		action.Rest("ignored", nil),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// exitCode maps failures: 2 for command-line mistakes, 1 for anything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var e *action.Error
	if errors.As(err, &e) {
		return 2
	}
	return 1
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	p, err := setupParser(stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to setup parser: %v\n", err)
		return 1
	}

	_, err = p.Execute(ctx, argv...)
	if err != nil {
		fmt.Fprintf(stderr, "pkgtool: %v\n", err)
	}
	return exitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
