package domain

import "strings"

// RegistryKey is a hierarchical registry path, segments joined by "/".
type RegistryKey string

// NewRegistryKey joins the given segments with "/". Leading and trailing slashes of each segment are dropped.
//
// Parameters: segments are path parts; empty parts (after trimming) are skipped.
//
// Returns: the joined key without leading slash, e.g. "killrvideo/services/cassandra".
//
// Called from Child, StorageDirectoryKey, BackendKey and the registry adapters when mapping raw keys.
func NewRegistryKey(segments ...string) RegistryKey {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return RegistryKey(strings.Join(parts, "/"))
}

// Child returns the key one level below k.
func (k RegistryKey) Child(segment string) RegistryKey {
	return NewRegistryKey(string(k), segment)
}

func (k RegistryKey) String() string {
	return string(k)
}

// RegistrationEntry is a single key/value registration read from the registry.
// Value is expected to be an "address:port" string.
type RegistrationEntry struct {
	Key   RegistryKey
	Value string
}
