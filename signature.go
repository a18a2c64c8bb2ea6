package grubcounter

// findAll returns every start offset at which needle occurs in haystack,
// including overlapping occurrences. A single linear pass is sufficient;
// matches are not assumed to be aligned.
func findAll(haystack, needle []byte) []int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return nil
	}

	var offsets []int
	last := len(haystack) - len(needle)
	for i := 0; i <= last; i++ {
		if matchesAt(haystack, needle, i) {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// findFirst returns the offset of the first occurrence of needle in
// haystack, or -1 if absent.
func findFirst(haystack, needle []byte) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}

	last := len(haystack) - len(needle)
	for i := 0; i <= last; i++ {
		if matchesAt(haystack, needle, i) {
			return i
		}
	}
	return -1
}

func matchesAt(haystack, needle []byte, pos int) bool {
	for j := 0; j < len(needle); j++ {
		if haystack[pos+j] != needle[j] {
			return false
		}
	}
	return true
}
