package invoke

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/randalmurphal/lambda/pkg/lambda/convert"
)

// Format substitutes positional placeholders such as {0} and {1} with the
// string form of args. Doubled braces are literal.
func Format(format string, args ...any) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch c {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("format: unclosed placeholder at %d", i)
			}
			spec := format[i+1 : i+end]
			if colon := strings.IndexByte(spec, ':'); colon >= 0 {
				spec = spec[:colon]
			}
			idx, err := strconv.Atoi(strings.TrimSpace(spec))
			if err != nil || idx < 0 {
				return "", fmt.Errorf("format: invalid placeholder %q", format[i:i+end+1])
			}
			if idx >= len(args) {
				return "", fmt.Errorf("format: placeholder {%d} has no argument", idx)
			}
			b.WriteString(convert.Stringify(args[idx]))
			i += end
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				i++
			}
			b.WriteByte('}')
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
