package cards

import (
	"cmp"
	"math"
	"strings"
)

// Key is the composite sort key derived from a card identifier of the form
// <subset>-<ordinal><suffix>[-<sub ordinal><sub suffix>], e.g. "OGN-042a" or
// "OGN-042a-2s". All text segments are lowercased. The zero Key sorts first.
type Key struct {
	Subset     string
	Ordinal    uint64
	Suffix     string
	SubOrdinal uint64
	SubSuffix  string
}

// ParseKey derives the composite key of an identifier. It never fails:
// digits accumulate into the ordinal, everything else into the suffix, and
// missing segments stay zero. Segments after the third are ignored.
func ParseKey(id string) Key {
	if id == "" {
		return Key{}
	}

	parts := strings.Split(strings.ToLower(id), "-")
	var k Key
	k.Subset = parts[0]
	if len(parts) > 1 {
		k.Ordinal, k.Suffix = splitOrdinal(parts[1])
	}
	if len(parts) > 2 {
		k.SubOrdinal, k.SubSuffix = splitOrdinal(parts[2])
	}
	return k
}

// splitOrdinal scans s left to right, folding ASCII digits into a number and
// collecting every other character into the suffix. The number saturates
// instead of overflowing.
func splitOrdinal(s string) (uint64, string) {
	var (
		n      uint64
		suffix strings.Builder
	)
	for _, r := range s {
		if r < '0' || r > '9' {
			suffix.WriteRune(r)
			continue
		}
		d := uint64(r - '0')
		if n > (math.MaxUint64-d)/10 {
			n = math.MaxUint64
			continue
		}
		n = n*10 + d
	}
	return n, suffix.String()
}

// Compare orders keys field by field: subset, ordinal, suffix, sub ordinal,
// sub suffix. It returns -1, 0 or +1.
func (k Key) Compare(o Key) int {
	if c := strings.Compare(k.Subset, o.Subset); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Ordinal, o.Ordinal); c != 0 {
		return c
	}
	if c := strings.Compare(k.Suffix, o.Suffix); c != 0 {
		return c
	}
	if c := cmp.Compare(k.SubOrdinal, o.SubOrdinal); c != 0 {
		return c
	}
	return strings.Compare(k.SubSuffix, o.SubSuffix)
}

// Less reports whether k sorts before o.
func (k Key) Less(o Key) bool {
	return k.Compare(o) < 0
}
