package utils

import (
	"sort"
)

// GetKeys returns the map keys sorted, useful for stable listings and error
// messages.
func GetKeys[K ~string, T any](m map[K]T) []string {
	keys := []string{}
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}
