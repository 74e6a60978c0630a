package action

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Coercer converts one raw command-line token into a typed value.
type Coercer func(raw string) (any, error)

// String is the identity coercion and the default for every parameter.
func String(raw string) (any, error) {
	return raw, nil
}

func Int(raw string) (any, error) {
	return strconv.Atoi(raw)
}

func Int64(raw string) (any, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func Float(raw string) (any, error) {
	return strconv.ParseFloat(raw, 64)
}

// Bool accepts the spellings understood by strconv.ParseBool plus yes/no.
func Bool(raw string) (any, error) {
	switch raw {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func Duration(raw string) (any, error) {
	return time.ParseDuration(raw)
}

// OneOf returns a coercion that only accepts the given literal values.
func OneOf(values ...string) Coercer {
	return func(raw string) (any, error) {
		for _, v := range values {
			if raw == v {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("expected one of %s", strings.Join(values, ", "))
	}
}

func coerce(c Coercer, raw string) (any, error) {
	if c == nil {
		c = String
	}
	return c(raw)
}
