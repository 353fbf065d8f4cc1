package util

import (
	"strconv"
	"strings"
	"time"
)

type StringParsable interface {
	string | []string | int | []int | int64 | float64 | bool | time.Duration
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	v := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			v = append(v, p)
		}
	}
	return v
}

func sliceParser[T any](s string, f func(string) (T, error)) ([]T, error) {
	parts := splitList(s)
	v := make([]T, 0, len(parts))
	for _, p := range parts {
		v2, err := f(p)
		if err != nil {
			return v, err
		}
		v = append(v, v2)
	}
	return v, nil
}

// ParseStringAs parses the input string as a StringParsable type, returning
// the default if the input is blank or does not parse.
func ParseStringAs[T StringParsable](v string, def T) T {
	v = strings.TrimSpace(strings.Trim(v, `"`))
	if v == "" {
		return def
	}

	var parser func(string) (any, error)
	switch any(def).(type) {
	case string:
		parser = func(s string) (any, error) { return s, nil }
	case []string:
		parser = func(s string) (any, error) { return splitList(s), nil }
	case int:
		parser = func(s string) (any, error) { return strconv.Atoi(s) }
	case []int:
		parser = func(s string) (any, error) { return sliceParser(s, strconv.Atoi) }
	case int64:
		parser = func(s string) (any, error) { return strconv.ParseInt(s, 0, 64) }
	case time.Duration:
		parser = func(s string) (any, error) { return time.ParseDuration(s) }
	case bool:
		parser = func(s string) (any, error) { return strconv.ParseBool(s) }
	case float64:
		parser = func(s string) (any, error) { return strconv.ParseFloat(s, 64) }
	}

	val, err := parser(v)
	if err != nil {
		return def
	}
	return val.(T)
}

// ParseIntIn parses v as an int within [lo, hi]. ok is false for anything
// else, including a blank string.
func ParseIntIn(v string, lo, hi int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}
