package lang

import (
	"strings"
	"unicode/utf8"
)

// String positions are 1-based and counted in characters (runes).
var textFuncs = []*Function{
	{
		Name:    "LEN",
		Help:    "Number of characters in s",
		Example: `LEN("abcde")`,
		Params:  []string{"s"},
		Min:     1, Max: 1,
		call: textFunc(func(c *call, s string) (Value, error) {
			return Number(float64(utf8.RuneCountInString(s))), nil
		}),
	},
	{
		Name:    "LEFT",
		Help:    "The first n characters of s",
		Example: `LEFT("abcde", 3)`,
		Params:  []string{"s", "n"},
		Min:     2, Max: 2,
		call: textFunc(func(c *call, s string) (Value, error) {
			n, err := c.count(1)
			if err != nil {
				return Missing(), err
			}

			r := []rune(s)

			return Text(string(r[:min(n, len(r))])), nil
		}),
	},
	{
		Name:    "RIGHT",
		Help:    "The last n characters of s; n defaults to 1",
		Example: `RIGHT("abcde", 2)`,
		Params:  []string{"s", "n"},
		Min:     1, Max: 2,
		call: textFunc(func(c *call, s string) (Value, error) {
			n := 1

			if len(c.args) > 1 {
				var err error
				if n, err = c.count(1); err != nil {
					return Missing(), err
				}
			}

			r := []rune(s)

			return Text(string(r[len(r)-min(n, len(r)):])), nil
		}),
	},
	{
		Name:    "MID",
		Help:    "n characters of s starting at 1-based position start",
		Example: `MID("abcde", 2, 2)`,
		Params:  []string{"s", "start", "n"},
		Min:     3, Max: 3,
		call: textFunc(func(c *call, s string) (Value, error) {
			start, err := c.position(1)
			if err != nil {
				return Missing(), err
			}

			n, err := c.count(2)
			if err != nil {
				return Missing(), err
			}

			r := []rune(s)
			lo := min(start-1, len(r))
			hi := lo + min(n, len(r)-lo)

			return Text(string(r[lo:hi])), nil
		}),
	},
	{
		Name: "FIND",
		Help: "1-based position of needle in s at or after start, " +
			"or 0 if absent; start defaults to 1",
		Example: `FIND("ss", "mississippi", 4)`,
		Params:  []string{"needle", "s", "start"},
		Min:     2, Max: 3,
		call: func(c *call) (Value, error) {
			if c.missing() {
				return Missing(), nil
			}

			needle, err := c.text(0)
			if err != nil {
				return Missing(), err
			}

			s, err := c.text(1)
			if err != nil {
				return Missing(), err
			}

			start := 1
			if len(c.args) > 2 {
				if start, err = c.position(2); err != nil {
					return Missing(), err
				}
			}

			r := []rune(s)
			if start-1 > len(r) {
				return Number(0), nil
			}

			i := strings.Index(string(r[start-1:]), needle)
			if i < 0 {
				return Number(0), nil
			}

			pos := start + utf8.RuneCountInString(string(r[start-1:])[:i])

			return Number(float64(pos)), nil
		},
	},
	{
		Name:    "CONCATENATE",
		Help:    "Joins the arguments into one string; numbers are formatted",
		Example: `CONCATENATE("id-", [x])`,
		Params:  []string{"s"},
		Min:     1, Max: -1,
		call: func(c *call) (Value, error) {
			if c.missing() {
				return Missing(), nil
			}

			var sb strings.Builder

			for i, v := range c.args {
				switch v.Kind() {
				case KindText:
					sb.WriteString(v.text)
				case KindNumber:
					sb.WriteString(formatNumber(v.num))
				default:
					return Missing(), c.badArg(i, "Text or Number")
				}
			}

			return Text(sb.String()), nil
		},
	},
	{
		Name:    "TRIM",
		Help:    "s without leading and trailing white space",
		Example: `TRIM("  abc ")`,
		Params:  []string{"s"},
		Min:     1, Max: 1,
		call: textFunc(func(c *call, s string) (Value, error) {
			return Text(strings.TrimSpace(s)), nil
		}),
	},
}

// textFunc adapts a function whose first argument is a string.
func textFunc(fn func(*call, string) (Value, error)) func(*call) (Value, error) {
	return func(c *call) (Value, error) {
		if c.missing() {
			return Missing(), nil
		}

		s, err := c.text(0)
		if err != nil {
			return Missing(), err
		}

		return fn(c, s)
	}
}

// count returns a non-negative integer argument.
func (c *call) count(i int) (int, error) {
	n, err := c.integer(i)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, c.badArg(i, "non-negative Number")
	}

	return n, nil
}

// position returns a 1-based position argument.
func (c *call) position(i int) (int, error) {
	n, err := c.integer(i)
	if err != nil {
		return 0, err
	}

	if n < 1 {
		return 0, c.badArg(i, "position of at least 1")
	}

	return n, nil
}
