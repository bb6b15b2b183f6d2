package redis

// KeyPrefix namespaces every entry the service writes.
const KeyPrefix = "memarch:"

// Key returns the namespaced Redis key for a storage key.
func Key(name string) string {
	return KeyPrefix + name
}

func keys(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, Key(n))
	}
	return out
}
