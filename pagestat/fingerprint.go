package pagestat

import "hash/fnv"

// shingleWidth is the tag n-gram width used for structure fingerprints.
// Trigrams capture local nesting patterns without being thrown off by
// text or attribute changes.
const shingleWidth = 3

// StructureFingerprint computes a 64-bit SimHash over the document's tag
// sequence. Two snapshots of the same layout produce identical
// fingerprints even when their text differs, so the Hamming distance
// between fingerprints measures how much the DOM's shape changed between
// timeline snapshots.
//
// Documents with fewer tags than the shingle width are hashed on the bare
// tag sequence; an empty sequence yields 0.
func StructureFingerprint(tags []string) uint64 {
	if len(tags) == 0 {
		return 0
	}

	var vector [64]int
	accumulate := func(shingle []string) {
		h := fnv.New64a()
		for i, tag := range shingle {
			if i > 0 {
				h.Write([]byte{'_'})
			}
			h.Write([]byte(tag))
		}
		sum := h.Sum64()
		for bit := 0; bit < 64; bit++ {
			if sum&(1<<uint(bit)) != 0 {
				vector[bit]++
			} else {
				vector[bit]--
			}
		}
	}

	if len(tags) < shingleWidth {
		accumulate(tags)
	} else {
		for i := 0; i+shingleWidth <= len(tags); i++ {
			accumulate(tags[i : i+shingleWidth])
		}
	}

	var fingerprint uint64
	for bit := 0; bit < 64; bit++ {
		if vector[bit] > 0 {
			fingerprint |= 1 << uint(bit)
		}
	}
	return fingerprint
}
