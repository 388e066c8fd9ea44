package mention

import (
	"regexp"
	"strings"
)

// handlePattern matches @handle tokens of 2-20 identifier characters. The
// leading group requires start-of-text or a non-identifier character before
// the @, so embedded sequences like foo@bar_baz never produce a mention.
var handlePattern = regexp.MustCompile(`(?i)(^|[^a-z0-9_])@([a-z0-9_]{2,20})\b`)

// Extract returns the distinct handles mentioned in text, lowercased, in
// first-seen order. Pure; no store access.
func Extract(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var handles []string
	for _, match := range handlePattern.FindAllStringSubmatch(text, -1) {
		handle := strings.ToLower(match[2])
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}
		handles = append(handles, handle)
	}

	return handles
}
