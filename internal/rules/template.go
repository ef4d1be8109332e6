package rules

import (
	"strconv"
	"strings"
)

// fill substitutes {placeholder} tokens in a message template. Unknown
// placeholders are left in place so a bad template stays diagnosable.
func fill(template string, vars map[string]string) string {
	if template == "" || len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// teethList renders tooth numbers for messages, e.g. "1, 2, 14".
func teethList(teeth []int) string {
	if len(teeth) == 0 {
		return "none"
	}
	parts := make([]string, len(teeth))
	for i, n := range teeth {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
