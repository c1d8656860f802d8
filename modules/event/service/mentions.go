package service

import "regexp"

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ExtractMentions returns the unique @handles found in a description, without
// the @ prefix, in order of first appearance. Matching is case-sensitive.
func ExtractMentions(description string) []string {
	matches := mentionPattern.FindAllStringSubmatch(description, -1)

	seen := make(map[string]struct{}, len(matches))
	mentions := make([]string, 0, len(matches))
	for _, match := range matches {
		handle := match[1]
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}
		mentions = append(mentions, handle)
	}

	return mentions
}
