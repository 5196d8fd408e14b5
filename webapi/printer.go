package webapi

import (
	"fmt"
	"io"
	"strings"
)

const indentUnit = "    "

// PrintData renders a whole document starting at indent level 0.
func PrintData(w io.Writer, v *Value, key1, key2 string) {
	if v == nil {
		return
	}
	Render(w, v, 0, key1, key2)
}

// Render writes v at the given indent level. When key1 is set, objects are
// reduced to the value at key1 (and ": " plus the value at key2 when key2
// is set) instead of being expanded.
func Render(w io.Writer, v *Value, level int, key1, key2 string) {
	renderNamed(w, "", false, v, level, key1, key2)
}

func renderNamed(w io.Writer, name string, named bool, v *Value, level int, key1, key2 string) {
	indent := strings.Repeat(indentUnit, level)
	prefix := ""
	if named {
		prefix = name + ": "
	}

	switch v.Kind() {
	case KindObject:
		if key1 != "" {
			if key2 != "" {
				fmt.Fprintf(w, "%s%s: %s\n", indent, v.Get(key1).Literal(), v.Get(key2).Literal())
			} else {
				fmt.Fprintf(w, "%s%s\n", indent, v.Get(key1).Literal())
			}
			return
		}

		fmt.Fprintf(w, "%s%s{\n", indent, prefix)
		for _, m := range v.members {
			renderNamed(w, m.Name, true, m.Value, level+1, key1, key2)
		}
		fmt.Fprintf(w, "%s}\n", indent)

	case KindArray:
		fmt.Fprintf(w, "%s%s[\n", indent, prefix)
		for _, item := range v.items {
			renderNamed(w, "", false, item, level+1, key1, key2)
		}
		fmt.Fprintf(w, "%s]\n", indent)

	default:
		fmt.Fprintf(w, "%s%s%s\n", indent, prefix, v.Literal())
	}
}
