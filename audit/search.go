package audit

import (
	"fmt"
	"regexp"
	"strings"
)

var tokenRe = regexp.MustCompile(`[^\s"']+|"([^"]*)"|'([^']*)'`)
var wordRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ParseQuery converts user search input into FTS5 syntax, supporting a
// cmd: field filter and bare-word prefix matching, directly modeled on the
// reference corpus's ParseQuery (there filtering by message role; here by
// command name).
func ParseQuery(input string) string {
	input = strings.TrimSpace(input)
	tokens := tokenRe.FindAllString(input, -1)

	var parts []string
	for _, token := range tokens {
		if strings.HasPrefix(token, "\"") || strings.HasPrefix(token, "'") {
			parts = append(parts, token)
			continue
		}

		lower := strings.ToLower(token)
		if strings.HasPrefix(lower, "cmd:") {
			term := token[4:]
			if term != "" {
				parts = append(parts, fmt.Sprintf("command:%s", term))
			}
			continue
		}

		if len(token) > 3 && wordRe.MatchString(token) {
			parts = append(parts, token+"*")
		} else {
			parts = append(parts, token)
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " AND ")
}
