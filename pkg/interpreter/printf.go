package interpreter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vishnuhala/parse-and-fix/pkg/runtime"
)

// formatPrintf expands C-style directives in format. Missing arguments read
// as zero; unknown conversions are copied through unchanged.
func formatPrintf(format string, args []runtime.Value) string {
	var b strings.Builder
	next := func() runtime.Value {
		if len(args) == 0 {
			return runtime.Number(0)
		}
		v := args[0]
		args = args[1:]
		return v
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		start := i
		i++
		if i >= len(format) {
			b.WriteByte('%')
			break
		}
		if format[i] == '%' {
			b.WriteByte('%')
			continue
		}

		var prefix strings.Builder
		prefix.WriteByte('%')
		for i < len(format) && strings.IndexByte("-+ #0", format[i]) >= 0 {
			prefix.WriteByte(format[i])
			i++
		}
		i = copyNumberOrStar(format, i, &prefix, next)
		if i < len(format) && format[i] == '.' {
			prefix.WriteByte('.')
			i = copyNumberOrStar(format, i+1, &prefix, next)
		}
		for i < len(format) && strings.IndexByte("hlLjzt", format[i]) >= 0 {
			i++
		}
		if i >= len(format) {
			b.WriteString(format[start:])
			break
		}

		verb := format[i]
		text, ok := formatDirective(prefix.String(), verb, next)
		if !ok {
			b.WriteString(format[start : i+1])
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

// copyNumberOrStar copies a width or precision into prefix, taking '*' from the
// argument list.
func copyNumberOrStar(format string, i int, prefix *strings.Builder, next func() runtime.Value) int {
	if i < len(format) && format[i] == '*' {
		n, _ := runtime.ToNumber(next())
		prefix.WriteString(strconv.Itoa(int(n)))
		return i + 1
	}
	for i < len(format) && format[i] >= '0' && format[i] <= '9' {
		prefix.WriteByte(format[i])
		i++
	}
	return i
}

func formatDirective(prefix string, verb byte, next func() runtime.Value) (string, bool) {
	switch verb {
	case 'd', 'i', 'u':
		return fmt.Sprintf(prefix+"d", toInt(next())), true
	case 'x', 'X', 'o':
		return fmt.Sprintf(prefix+string(verb), toInt(next())), true
	case 'f', 'F', 'e', 'E':
		if verb == 'F' {
			verb = 'f'
		}
		f, _ := runtime.ToNumber(next())
		return fmt.Sprintf(prefix+string(verb), f), true
	case 'g', 'G':
		if !strings.Contains(prefix, ".") {
			prefix += ".6"
		}
		f, _ := runtime.ToNumber(next())
		return fmt.Sprintf(prefix+string(verb), f), true
	case 'c':
		v := next()
		if s, ok := v.(runtime.StringValue); ok {
			r := []rune(s.Val)
			if len(r) == 0 {
				return "", true
			}
			return fmt.Sprintf(prefix+"c", r[0]), true
		}
		return fmt.Sprintf(prefix+"c", rune(toInt(v))), true
	case 's':
		return fmt.Sprintf(prefix+"s", runtime.Stringify(next())), true
	}
	return "", false
}

func toInt(v runtime.Value) int64 {
	f, err := runtime.ToNumber(v)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return int64(math.Trunc(f))
}
