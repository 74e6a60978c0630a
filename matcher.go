package action

import (
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"
)

type TokenKind int

const (
	TokenPositional TokenKind = iota
	TokenOption
)

// Token is one classified element of the command line. Positional tokens
// carry Raw; option tokens carry the owning parameter name and occurrence.
type Token struct {
	Kind       TokenKind
	Raw        string
	Param      string
	Occurrence Occurrence
}

// optionLookup resolves "-s" or "--long" to the owning parameter name and
// whether each occurrence consumes a value.
type optionLookup func(id string) (param string, takesValue bool, ok bool)

// Match classifies tokens against the options declared by the action. The
// sequence is lazy and single pass; it stops at the first error.
func Match(a *Action, tokens []string) iter.Seq2[Token, error] {
	return match(a.name, tokens, func(id string) (string, bool, bool) {
		p, ok := a.option(id)
		if !ok {
			return "", false, false
		}
		return p.Name, p.Option.newAccumulator().TakesValue(), true
	})
}

func match(action string, tokens []string, lookup optionLookup) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		optionsDone := false

		for i := 0; i < len(tokens); i++ {
			tok := tokens[i]

			if optionsDone || !isOptionLike(tok) {
				if !yield(Token{Kind: TokenPositional, Raw: tok}, nil) {
					return
				}
				continue
			}

			if tok == "--" {
				optionsDone = true
				continue
			}

			var ok bool
			if strings.HasPrefix(tok, "--") {
				i, ok = matchLong(action, tokens, i, lookup, yield)
			} else {
				i, ok = matchShort(action, tokens, i, lookup, yield)
			}
			if !ok {
				return
			}
		}
	}
}

// matchLong handles "--name" and "--name=value". It returns the index of the
// last consumed token and false once iteration must stop.
func matchLong(action string, tokens []string, i int, lookup optionLookup, yield func(Token, error) bool) (int, bool) {
	tok := tokens[i]
	key, value, hasValue := strings.Cut(tok[2:], "=")
	id := "--" + key

	param, takesValue, ok := lookup(id)
	if !ok {
		return i, fail(yield, newError(ErrUnknownOption, action, "", id, nil))
	}

	occ := Occurrence{Token: id}
	switch {
	case !takesValue && hasValue:
		return i, fail(yield, newError(ErrUnexpectedOptionValue, action, param, tok, nil))
	case !takesValue:
	case hasValue:
		occ.Value, occ.HasValue = value, true
	case i+1 < len(tokens):
		i++
		occ.Value, occ.HasValue = tokens[i], true
	default:
		return i, fail(yield, newError(ErrMissingOptionValue, action, param, id, nil))
	}

	return i, yield(Token{Kind: TokenOption, Param: param, Occurrence: occ}, nil)
}

// matchShort handles "-s", "-svalue", "-s value" and clusters like "-vvq".
func matchShort(action string, tokens []string, i int, lookup optionLookup, yield func(Token, error) bool) (int, bool) {
	tok := tokens[i]
	cluster := tok[1:]

	for j := 0; j < len(cluster); {
		_, size := utf8.DecodeRuneInString(cluster[j:])
		id := "-" + cluster[j:j+size]
		next := j + size

		param, takesValue, ok := lookup(id)
		if !ok {
			if j == 0 && isNumber(tok) {
				return i, yield(Token{Kind: TokenPositional, Raw: tok}, nil)
			}
			return i, fail(yield, newError(ErrUnknownOption, action, "", id, nil))
		}

		occ := Occurrence{Token: id}
		if !takesValue {
			if !yield(Token{Kind: TokenOption, Param: param, Occurrence: occ}, nil) {
				return i, false
			}
			j = next
			continue
		}

		if remains := cluster[next:]; remains != "" {
			occ.Value, occ.HasValue = remains, true
		} else if i+1 < len(tokens) {
			i++
			occ.Value, occ.HasValue = tokens[i], true
		} else {
			return i, fail(yield, newError(ErrMissingOptionValue, action, param, id, nil))
		}
		return i, yield(Token{Kind: TokenOption, Param: param, Occurrence: occ}, nil)
	}

	return i, true
}

// fail reports err and stops the iteration whatever the consumer answers.
func fail(yield func(Token, error) bool, err error) bool {
	yield(Token{}, err)
	return false
}

// isOptionLike reports whether a token starts with a dash and has more in it.
func isOptionLike(tok string) bool {
	return len(tok) > 1 && tok[0] == '-'
}

// decimalPattern matches plain decimal numbers such as -3, -1.5 or -2e10.
// Spellings like -inf, -nan or hex floats are not numbers here.
var decimalPattern = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?$`)

func isNumber(tok string) bool {
	return decimalPattern.MatchString(tok)
}
