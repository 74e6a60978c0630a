package action_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mwantia/action"
	"github.com/mwantia/action/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoArgs(ctx context.Context, args *action.Args) (any, error) {
	return args, nil
}

func newTestParser(t *testing.T) *action.Parser {
	p, err := action.NewParser(action.WithLogger(log.Discard()))
	require.NoError(t, err)

	_, err = p.Action("install", echoArgs,
		action.Arg("package_name", nil),
		action.Opt("upgrade", action.Flag()),
		action.Opt("verbose", action.Count().WithDefault(0)),
	)
	require.NoError(t, err)

	_, err = p.Action("add", func(ctx context.Context, args *action.Args) (any, error) {
		return args.Int("x") + args.Int("y"), nil
	}, action.Arg("x", action.Int), action.Arg("y", action.Int))
	require.NoError(t, err)

	return p
}

func TestParserExecute(t *testing.T) {
	ctx := t.Context()

	t.Run("Install", func(t *testing.T) {
		p := newTestParser(t)
		result, err := p.Execute(ctx, "install", "-u", "ffmpeg", "-v")
		require.NoError(t, err)

		args := result.(*action.Args)
		require.Equal(t, "install", args.Action())
		require.Equal(t, "ffmpeg", args.String("package_name"))
		require.True(t, args.Bool("upgrade"))
		require.Equal(t, 1, args.Int("verbose"))

		_, err = uuid.Parse(args.Invocation)
		require.NoError(t, err)
	})

	t.Run("Add", func(t *testing.T) {
		p := newTestParser(t)
		result, err := p.Execute(ctx, "add", "3", "4")
		require.NoError(t, err)
		require.Equal(t, 7, result)

		_, err = p.Execute(ctx, "add", "3", "4", "5")
		require.ErrorIs(t, err, action.ErrTooManyPositionals)
	})

	t.Run("UnknownAction", func(t *testing.T) {
		p := newTestParser(t)
		_, err := p.Execute(ctx, "remove", "ffmpeg")
		require.ErrorIs(t, err, action.ErrUnknownAction)
		require.EqualError(t, err, "action: unknown action (token 'remove')")

		_, err = p.Execute(ctx)
		require.ErrorIs(t, err, action.ErrUnknownAction)
	})

	t.Run("DefaultAction", func(t *testing.T) {
		p := newTestParser(t)
		_, err := p.Default("open", echoArgs,
			action.Arg("file", nil),
			action.Opt("readonly", action.Flag()),
		)
		require.NoError(t, err)

		result, err := p.Execute(ctx, "notes.txt", "-r")
		require.NoError(t, err)

		args := result.(*action.Args)
		require.Equal(t, "open", args.Action())
		require.Equal(t, "notes.txt", args.String("file"))
		require.True(t, args.Bool("readonly"))

		// Named actions still win over the default.
		result, err = p.Execute(ctx, "add", "1", "2")
		require.NoError(t, err)
		require.Equal(t, 3, result)

		_, err = p.Execute(ctx)
		require.ErrorIs(t, err, action.ErrMissingPositional)
	})

	t.Run("ActionError", func(t *testing.T) {
		p := newTestParser(t)
		_, err := p.Action("fail", func(ctx context.Context, args *action.Args) (any, error) {
			return nil, context.Canceled
		})
		require.NoError(t, err)

		_, err = p.Execute(ctx, "fail")
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("ExecuteLine", func(t *testing.T) {
		p := newTestParser(t)
		result, err := p.ExecuteLine(ctx, `install --upgrade 'my package' -vv`)
		require.NoError(t, err)

		args := result.(*action.Args)
		require.Equal(t, "my package", args.String("package_name"))
		require.Equal(t, 2, args.Int("verbose"))

		_, err = p.ExecuteLine(ctx, `install "unterminated`)
		require.Error(t, err)
	})

	t.Run("Parse", func(t *testing.T) {
		p := newTestParser(t)
		a, args, err := p.Parse("add", "1", "2")
		require.NoError(t, err)
		require.Equal(t, "add", a.Name())
		require.Equal(t, []any{1, 2}, args.Positionals())
		require.Empty(t, args.Invocation)
	})

	t.Run("Concurrent", func(t *testing.T) {
		p := newTestParser(t)

		var wg sync.WaitGroup
		for i := range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()

				tokens := []string{"install", "pkg"}
				for range i {
					tokens = append(tokens, "-v")
				}

				result, err := p.Execute(ctx, tokens...)
				if assert.NoError(t, err) {
					assert.Equal(t, i, result.(*action.Args).Int("verbose"))
				}
			}()
		}
		wg.Wait()
	})
}

func TestParserRegistry(t *testing.T) {
	p, err := action.NewParser(action.WithoutTerminalLog())
	require.NoError(t, err)

	for _, name := range []string{"pull", "add", "commit"} {
		_, err := p.Action(name, nil)
		require.NoError(t, err)
	}

	_, err = p.Action("add", nil)
	require.ErrorIs(t, err, action.ErrActionExists)

	var names []string
	for _, a := range p.Registry().Actions() {
		names = append(names, a.Name())
	}
	require.Equal(t, []string{"add", "commit", "pull"}, names)

	_, ok := p.Registry().Default()
	require.False(t, ok)

	_, err = p.Default("status", nil)
	require.NoError(t, err)
	_, err = p.Default("log", nil)
	require.ErrorIs(t, err, action.ErrDefaultExists)

	def, ok := p.Registry().Default()
	require.True(t, ok)
	require.Equal(t, "status", def.Name())

	a, ok := p.Registry().Lookup("commit")
	require.True(t, ok)
	require.Equal(t, "commit", a.Name())

	require.Error(t, p.Register(nil))
}

func TestParserContexts(t *testing.T) {
	ctx := t.Context()

	first := action.NewContext()
	second := action.NewContext()

	_, err := first.Action("only_first", nil)
	require.NoError(t, err)

	_, err = first.Execute(ctx, "only_first")
	require.NoError(t, err)

	_, err = second.Execute(ctx, "only_first")
	require.ErrorIs(t, err, action.ErrUnknownAction)

	_, ok := action.DefaultParser().Registry().Lookup("only_first")
	require.False(t, ok)
}

func TestParserPackageLevel(t *testing.T) {
	ctx := t.Context()

	require.NoError(t, action.Register(action.MustNew("package_level_ping", func(ctx context.Context, args *action.Args) (any, error) {
		return "pong " + args.String("name"), nil
	}, action.Arg("name", nil))))

	result, err := action.Execute(ctx, "package_level_ping", "world")
	require.NoError(t, err)
	require.Equal(t, "pong world", result)

	result, err = action.ExecuteLine(ctx, "package_level_ping 'big world'")
	require.NoError(t, err)
	require.Equal(t, "pong big world", result)
}

func TestParserLogging(t *testing.T) {
	var buf bytes.Buffer
	p, err := action.NewParser(action.WithLogWriter(&buf), action.WithLogLevel(log.Debug))
	require.NoError(t, err)

	_, err = p.Action("ping", nil)
	require.NoError(t, err)

	_, err = p.Execute(t.Context(), "ping")
	require.NoError(t, err)
	require.Contains(t, buf.String(), "registered ping()")
	require.Contains(t, buf.String(), "running 'ping'")

	_, err = p.Execute(t.Context(), "pong")
	require.Error(t, err)
	require.Contains(t, buf.String(), "WARN")

	_, err = action.NewParser(action.WithLogLevelName("chatty"))
	require.Error(t, err)
}
