package util

import (
	"bytes"
	"fmt"
	"strings"
)

// SourceContext renders the given 1-based line of src with up to two
// preceding lines, marking the requested one.
func SourceContext(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	var result bytes.Buffer

	startLine := line - 2
	if startLine < 1 {
		startLine = 1
	}

	for i := startLine; i <= line; i++ {
		content := strings.TrimRight(lines[i-1], "\r")
		if i == line {
			result.WriteString(fmt.Sprintf("  >  %3d | %s\n", i, content))
		} else {
			result.WriteString(fmt.Sprintf("     %3d | %s\n", i, content))
		}
	}

	return result.String()
}
