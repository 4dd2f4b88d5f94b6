package ratelimit

import (
	"strings"
)

var unlimited = &EndpointConfig{}

// MatchEndpoint returns the rule for path and method, or nil when the default
// limit applies. Exact paths win over prefixes; the longest prefix wins among
// prefixes.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" {
		return unlimited
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}
