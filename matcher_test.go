package action_test

import (
	"testing"

	"github.com/mwantia/action"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, a *action.Action, tokens ...string) ([]action.Token, error) {
	t.Helper()

	var out []action.Token
	for tok, err := range action.Match(a, tokens) {
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
	return out, nil
}

func TestMatch(t *testing.T) {
	a, err := action.New("grep", nil,
		action.Arg("pattern", nil),
		action.Opt("ignore_case", action.Flag()),
		action.Opt("context", action.Key("C", "context", action.Int)),
	)
	require.NoError(t, err)

	t.Run("Classifies", func(t *testing.T) {
		tokens, err := collect(t, a, "-i", "foo", "--context=2", "-C3", "bar")
		require.NoError(t, err)
		require.Equal(t, []action.Token{
			{Kind: action.TokenOption, Param: "ignore_case", Occurrence: action.Occurrence{Token: "-i"}},
			{Kind: action.TokenPositional, Raw: "foo"},
			{Kind: action.TokenOption, Param: "context", Occurrence: action.Occurrence{Token: "--context", Value: "2", HasValue: true}},
			{Kind: action.TokenOption, Param: "context", Occurrence: action.Occurrence{Token: "-C", Value: "3", HasValue: true}},
			{Kind: action.TokenPositional, Raw: "bar"},
		}, tokens)
	})

	t.Run("ValueFromNextToken", func(t *testing.T) {
		tokens, err := collect(t, a, "-C", "--", "x")
		require.NoError(t, err)
		require.Equal(t, []action.Token{
			{Kind: action.TokenOption, Param: "context", Occurrence: action.Occurrence{Token: "-C", Value: "--", HasValue: true}},
			{Kind: action.TokenPositional, Raw: "x"},
		}, tokens)
	})

	t.Run("StopsAtFirstError", func(t *testing.T) {
		tokens, err := collect(t, a, "foo", "-x", "bar")
		require.ErrorIs(t, err, action.ErrUnknownOption)
		require.Len(t, tokens, 1)
	})

	t.Run("MissingValueInCluster", func(t *testing.T) {
		_, err := collect(t, a, "-iC")
		require.ErrorIs(t, err, action.ErrMissingOptionValue)
		require.EqualError(t, err, "action: option requires a value (action 'grep', parameter 'context', token '-C')")
	})

	t.Run("MultiByteShortOptions", func(t *testing.T) {
		b, err := action.New("de", nil,
			action.Opt("sharp", action.Flag("ß")),
			action.Opt("umlaut", action.Key("ü", "", action.Int)),
		)
		require.NoError(t, err)

		tokens, err := collect(t, b, "-ßü5")
		require.NoError(t, err)
		require.Equal(t, []action.Token{
			{Kind: action.TokenOption, Param: "sharp", Occurrence: action.Occurrence{Token: "-ß"}},
			{Kind: action.TokenOption, Param: "umlaut", Occurrence: action.Occurrence{Token: "-ü", Value: "5", HasValue: true}},
		}, tokens)

		for _, tok := range []string{"-\xff", "-ß\xff", "-\xffü"} {
			require.NotPanics(t, func() {
				_, err := collect(t, b, tok)
				require.ErrorIs(t, err, action.ErrUnknownOption)
			})
		}
	})

	t.Run("EarlyBreak", func(t *testing.T) {
		n := 0
		for range action.Match(a, []string{"a", "b", "c"}) {
			n++
			if n == 2 {
				break
			}
		}
		require.Equal(t, 2, n)
	})
}
