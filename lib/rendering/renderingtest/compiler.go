package renderingtest

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// CheckSource is a crude stand-in for a GLSL compiler. It catches the
// mistakes a hand-typed shader usually has and reports them the way Mesa
// words them; it accepts plenty of sources a real compiler would reject.
func CheckSource(kind uint32, source string) []string {
	var errs []string

	trimmed := strings.TrimLeft(source, " \t\r\n")
	if !strings.HasPrefix(trimmed, "#version ") {
		first, _, _ := strings.Cut(trimmed, "\n")
		errs = append(errs, "0:1(1): error: syntax error, unexpected NEW_IDENTIFIER `"+first+"', expecting #version directive")
	}
	if !strings.Contains(source, "void main()") {
		errs = append(errs, "error: no main() function found")
	}

	if depth := strings.Count(source, "{") - strings.Count(source, "}"); depth != 0 {
		errs = append(errs, "error: syntax error, unbalanced braces")
	} else if last := strings.LastIndex(source, "}"); last >= 0 {
		if rest := strings.TrimSpace(source[last+1:]); rest != "" {
			errs = append(errs, "error: syntax error, unexpected "+quote(rest)+" after end of main()")
		}
	}

	switch kind {
	case gl.VERTEX_SHADER:
		if !strings.Contains(source, "gl_Position") {
			errs = append(errs, "error: vertex shader never writes gl_Position")
		}
	case gl.FRAGMENT_SHADER:
		if strings.Contains(source, "FragColor") && !strings.Contains(source, "out vec4 FragColor") {
			errs = append(errs, "error: `FragColor' undeclared")
		}
		if !strings.Contains(source, "out vec4") {
			errs = append(errs, "error: fragment shader has no output")
		}
	}
	return errs
}

func quote(s string) string {
	if len(s) > 16 {
		s = s[:16]
	}
	return "`" + s + "'"
}
