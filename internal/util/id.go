// Package util provides shared utility functions.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Standard ID lengths for Nexus entities.
const (
	// DefaultShortIDLength is the default number of characters for short IDs.
	DefaultShortIDLength = 13
	// MaxAmbiguousCandidates is the max number of candidates to show in ambiguous error.
	MaxAmbiguousCandidates = 5
)

// Errors returned by ID resolution functions.
var (
	ErrAmbiguousID = errors.New("ambiguous ID prefix")
	ErrNotFound    = errors.New("not found")
)

// ShortID returns a shortened version of an ID.
// If n is 0 or negative, DefaultShortIDLength is used.
//
// Examples:
//
//	ShortID("leave-abcdef12", 0) → "leave-abcdef1"
//	ShortID("task-abcdef12", 8) → "task-abc"
func ShortID(id string, n int) string {
	if n <= 0 {
		n = DefaultShortIDLength
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// ResolveID resolves an ID or unique prefix against ids.
//
// Resolution rules:
//  1. An exact match wins, even if it is also a prefix of other IDs.
//  2. Without one, idOrPrefix is tried as given and with kind + "-" prepended
//     (so "ab12" finds "task-ab12cd34").
//  3. Exactly one match is returned; several yield ErrAmbiguousID; none
//     yields ErrNotFound.
func ResolveID(ids []string, idOrPrefix, kind string) (string, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return "", fmt.Errorf("%s ID: %w", kind, ErrNotFound)
	}
	for _, id := range ids {
		if id == idOrPrefix {
			return id, nil
		}
	}

	prefixes := []string{idOrPrefix}
	if kind != "" && !strings.HasPrefix(idOrPrefix, kind+"-") {
		prefixes = append(prefixes, kind+"-"+idOrPrefix)
	}
	var candidates []string
	for _, id := range ids {
		for _, p := range prefixes {
			if strings.HasPrefix(id, p) {
				candidates = append(candidates, id)
				break
			}
		}
	}
	return resolveFromCandidates(idOrPrefix, candidates, kind)
}

// resolveFromCandidates handles the common resolution logic.
func resolveFromCandidates(prefix string, candidates []string, entityType string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%s with prefix %q: %w", entityType, prefix, ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		// Ambiguous: multiple matches
		shown := candidates
		if len(shown) > MaxAmbiguousCandidates {
			shown = shown[:MaxAmbiguousCandidates]
		}
		return "", fmt.Errorf("%w: prefix %q matches %d %ss: %v",
			ErrAmbiguousID, prefix, len(candidates), entityType, shown)
	}
}
