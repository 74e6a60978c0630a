package action

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Occurrence is one appearance of an option on the command line.
type Occurrence struct {
	// Token is the identifier as written, e.g. "-v" or "--verbose".
	Token string
	// Value holds the option argument when HasValue is set.
	Value    string
	HasValue bool
}

// Accumulator folds every occurrence of one option into a single value.
//
// A new Accumulator is created for each bind, so implementations may keep
// state between calls to Fold. The first call receives Initial() as the
// current value; every later call receives the result of the previous one.
type Accumulator interface {
	// Initial returns the seed of the fold. It is also the bound value when
	// the option never occurs and no default was configured.
	Initial() any

	// TakesValue reports whether each occurrence consumes an argument.
	TakesValue() bool

	// Fold returns the next accumulated value. An error aborts the bind.
	Fold(current any, occ Occurrence) (any, error)
}

// FoldFunc adapts a function to a value-taking Accumulator seeded with nil.
type FoldFunc func(current any, occ Occurrence) (any, error)

func (f FoldFunc) Initial() any {
	return nil
}

func (f FoldFunc) TakesValue() bool {
	return true
}

func (f FoldFunc) Fold(current any, occ Occurrence) (any, error) {
	return f(current, occ)
}

// OptionSpec configures an option parameter: the spellings it answers to and
// the accumulator that folds its occurrences.
type OptionSpec struct {
	Short string
	Long  string

	kind       string
	derive     bool
	err        error
	defaultVal any
	hasDefault bool

	newAccumulator func() Accumulator
}

// Triple is the explicit (short, long, coercion) form of a Key option.
type Triple struct {
	Short  string
	Long   string
	Coerce Coercer
}

// Flag declares an option that becomes true once seen, like -q or --quiet.
// Without identifiers, they are derived from the parameter name.
func Flag(ids ...string) *OptionSpec {
	return newOptionSpec("flag", ids, func() Accumulator {
		return flagAccumulator{}
	})
}

// Count declares an option counting its occurrences, like -vvv.
// Without identifiers, they are derived from the parameter name.
func Count(ids ...string) *OptionSpec {
	return newOptionSpec("count", ids, func() Accumulator {
		return countAccumulator{}
	})
}

// Key declares a single-valued option, like -c32 or --count=32. The last
// occurrence wins. At least one of short or long must be given.
func Key(short, long string, c Coercer) *OptionSpec {
	spec := &OptionSpec{
		kind: "key",
		newAccumulator: func() Accumulator {
			return keyAccumulator{coerce: c}
		},
	}
	spec.err = spec.assign(short, long)
	return spec
}

// Custom declares an option folded by a caller supplied accumulator.
// The factory is called once per bind.
func Custom(factory func() Accumulator, ids ...string) *OptionSpec {
	return newOptionSpec("custom", ids, factory)
}

func newOptionSpec(kind string, ids []string, factory func() Accumulator) *OptionSpec {
	spec := &OptionSpec{
		kind:           kind,
		derive:         len(ids) == 0,
		newAccumulator: factory,
	}

	switch len(ids) {
	case 0:
	case 1:
		spec.err = spec.assign(ids[0], "")
	case 2:
		short, long := ids[0], ids[1]
		if utf8.RuneCountInString(short) > 1 && utf8.RuneCountInString(long) == 1 {
			short, long = long, short
		}
		spec.err = spec.assign(short, long)
	default:
		spec.err = fmt.Errorf("at most one short and one long identifier allowed, got %v", ids)
	}
	return spec
}

// assign applies the identifier rules: a lone multi-character short form is
// taken as the long form, and a short form must be exactly one character.
func (s *OptionSpec) assign(short, long string) error {
	if !utf8.ValidString(short) || !utf8.ValidString(long) {
		return fmt.Errorf("identifiers must be valid UTF-8")
	}
	if long == "" && utf8.RuneCountInString(short) > 1 {
		short, long = "", short
	}
	if short != "" && utf8.RuneCountInString(short) != 1 {
		return fmt.Errorf("short identifier '%s' must be a single character", short)
	}
	if short == "-" || strings.HasPrefix(long, "-") {
		return fmt.Errorf("identifiers are given without leading dashes")
	}
	if short == "" && long == "" {
		return fmt.Errorf("%s option requires a short or long identifier", s.kind)
	}

	s.Short = short
	s.Long = long
	return nil
}

// WithDefault returns a copy of the spec reporting v when the option never
// occurs.
func (s *OptionSpec) WithDefault(v any) *OptionSpec {
	c := *s
	c.defaultVal = v
	c.hasDefault = true
	return &c
}

// Kind names the accumulator variant: flag, count, key or custom.
func (s *OptionSpec) Kind() string {
	return s.kind
}

// Identifiers returns the command-line spellings, e.g. ["-v", "--verbose"].
func (s *OptionSpec) Identifiers() []string {
	var ids []string
	if s.Short != "" {
		ids = append(ids, "-"+s.Short)
	}
	if s.Long != "" {
		ids = append(ids, "--"+s.Long)
	}
	return ids
}

func (s *OptionSpec) String() string {
	return fmt.Sprintf("%s%v", s.kind, s.Identifiers())
}

// finalize returns the value bound when the option never occurred.
func (s *OptionSpec) finalize(acc Accumulator) any {
	if s.hasDefault {
		return s.defaultVal
	}
	return acc.Initial()
}

type flagAccumulator struct{}

func (flagAccumulator) Initial() any {
	return false
}

func (flagAccumulator) TakesValue() bool {
	return false
}

func (flagAccumulator) Fold(any, Occurrence) (any, error) {
	return true, nil
}

type countAccumulator struct{}

// Initial is nil so that "never given" stays distinct from zero.
func (countAccumulator) Initial() any {
	return nil
}

func (countAccumulator) TakesValue() bool {
	return false
}

func (countAccumulator) Fold(current any, _ Occurrence) (any, error) {
	if n, ok := current.(int); ok {
		return n + 1, nil
	}
	return 1, nil
}

type keyAccumulator struct {
	coerce Coercer
}

func (keyAccumulator) Initial() any {
	return nil
}

func (keyAccumulator) TakesValue() bool {
	return true
}

func (k keyAccumulator) Fold(_ any, occ Occurrence) (any, error) {
	v, err := coerce(k.coerce, occ.Value)
	if err != nil {
		return nil, newError(ErrCoercion, "", "", occ.Value, err)
	}
	return v, nil
}
