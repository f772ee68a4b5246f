package ratelimit

import "strings"

// MatchEndpoint returns the first configuration whose method and pattern
// match the request, or nil. Patterns are compared segment by segment and
// "*" matches any single non-empty segment.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	segments := split(path)
	for i := range configs {
		c := &configs[i]
		if c.Method == method && matchSegments(split(c.Pattern), segments) {
			return c
		}
	}
	return nil
}

func split(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if p == "*" {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if p != segments[i] {
			return false
		}
	}
	return true
}
