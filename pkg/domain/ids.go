package domain

import "strings"

// RootID is the identifier of the tree root.
const RootID = "R"

// MaxDepth bounds the tree depth a scenario may declare.
// Coverage checks enumerate 2^depth identifiers, so the bound keeps them tractable.
const MaxDepth = 24

// Branch symbols used after the root symbol.
const (
	BitZero = '0'
	BitOne  = '1'
)

// Depth returns the number of choices encoded in id, i.e. len(id) - 1.
// It returns -1 for the empty string.
func Depth(id string) int {
	return len(id) - 1
}

// IsTreeID reports whether id follows the root-plus-bits scheme with at most maxDepth bits.
func IsTreeID(id string, maxDepth int) bool {
	if !strings.HasPrefix(id, RootID) {
		return false
	}
	bits := id[len(RootID):]
	if len(bits) > maxDepth {
		return false
	}
	for i := 0; i < len(bits); i++ {
		if bits[i] != BitZero && bits[i] != BitOne {
			return false
		}
	}
	return true
}

// CanonicalLeafIDs enumerates the 2^depth leaf identifiers of a full tree.
// Leaf i carries the bits of i, most significant first, as its suffix.
func CanonicalLeafIDs(depth int) []string {
	if depth < 0 || depth > MaxDepth {
		return nil
	}
	total := 1 << depth
	ids := make([]string, 0, total)

	var sb strings.Builder
	for i := 0; i < total; i++ {
		sb.Reset()
		sb.WriteString(RootID)
		for bit := depth - 1; bit >= 0; bit-- {
			if (i>>bit)&1 == 1 {
				sb.WriteByte(BitOne)
			} else {
				sb.WriteByte(BitZero)
			}
		}
		ids = append(ids, sb.String())
	}
	return ids
}
