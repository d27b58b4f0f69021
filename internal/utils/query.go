package utils

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryInt parses the first present key as an integer.
// If missing or invalid, returns the provided default.
func QueryInt(q url.Values, def int, keys ...string) int {
	for _, k := range keys {
		v := strings.TrimSpace(q.Get(k))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return n
	}
	return def
}

// QueryString returns the first non-blank value among keys, trimmed.
func QueryString(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}
