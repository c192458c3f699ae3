package save

import (
	"github.com/spaolacci/murmur3"
)

// The save format writes "no value" in three different ways depending on the
// field's type: -1 for entity references, the empty string for names, and
// negative turns for turn fields. All three normalize to nil here so the rest
// of the pipeline only ever sees real values.

// NormalizeID maps the -1 id sentinel (and any negative id) to absent.
func NormalizeID(id *int32) *int32 {
	if id == nil || *id < 0 {
		return nil
	}
	return id
}

// NormalizeTurn maps negative turn values to absent.
func NormalizeTurn(turn *int32) *int32 {
	if turn == nil || *turn < 0 {
		return nil
	}
	return turn
}

// NormalizeString maps the empty string to absent.
func NormalizeString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// optString boxes a non-empty string, nil otherwise.
func optString(s string, ok bool) *string {
	if !ok || s == "" {
		return nil
	}
	return &s
}

// StableID31 hashes a name to a positive 31-bit id. Families, religions and
// tribes have no numeric ids in the save format; hashing their names gives
// them ids that are stable across every save of the same game.
func StableID31(name string) int32 {
	h := murmur3.Sum32([]byte(name))
	return int32(h & 0x7FFFFFFF)
}
