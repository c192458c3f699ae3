package importer

import "log/slog"

// dedupeLastWins keeps the final occurrence of each key, preserving first-seen
// order. Save files occasionally repeat an entity; the later element carries
// the more recent state.
func dedupeLastWins[T any, K comparable](rows []T, key func(T) K) []T {
	latest := make(map[K]T, len(rows))
	order := make([]K, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = r
	}
	if len(order) == len(rows) {
		return rows
	}

	out := make([]T, 0, len(order))
	for _, k := range order {
		out = append(out, latest[k])
	}
	slog.Debug("deduplicated rows", "dropped", len(rows)-len(out))
	return out
}

// dedupeFirstWins keeps the first occurrence of each key.
func dedupeFirstWins[T any, K comparable](rows []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	if dropped := len(rows) - len(out); dropped > 0 {
		slog.Debug("deduplicated rows", "dropped", dropped)
	}
	return out
}
