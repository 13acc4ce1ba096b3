package service

import (
	"fmt"
	"strings"

	"killrvideoit/domain"
)

// EntrySelector picks the registration to use when a directory holds several entries.
// entries is never empty when called.
type EntrySelector func(dir domain.RegistryKey, entries []domain.RegistrationEntry) (domain.RegistrationEntry, error)

// Selection policy names accepted by SelectorByName.
const (
	SelectionFirst  = "first"
	SelectionUnique = "unique"
)

// SelectFirst returns the first entry the registry returned. Registries do not order directory listings,
// so with several storage nodes the pick is arbitrary.
func SelectFirst(_ domain.RegistryKey, entries []domain.RegistrationEntry) (domain.RegistrationEntry, error) {
	return entries[0], nil
}

// SelectUnique requires exactly one registration and fails with bad_parameter otherwise.
func SelectUnique(dir domain.RegistryKey, entries []domain.RegistrationEntry) (domain.RegistrationEntry, error) {
	if len(entries) != 1 {
		keys := make([]string, 0, len(entries))
		for _, e := range entries {
			keys = append(keys, e.Key.String())
		}
		return domain.RegistrationEntry{}, NewBadParameterError(
			fmt.Sprintf("expected exactly one registration under %s, found %d: %s", dir, len(entries), strings.Join(keys, ", ")), nil)
	}
	return entries[0], nil
}

// SelectorByName maps a policy name (first, unique) to its selector.
func SelectorByName(name string) (EntrySelector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SelectionFirst:
		return SelectFirst, nil
	case SelectionUnique:
		return SelectUnique, nil
	default:
		return nil, NewBadParameterError(fmt.Sprintf("unknown selection policy %q (want %s or %s)", name, SelectionFirst, SelectionUnique), nil)
	}
}
