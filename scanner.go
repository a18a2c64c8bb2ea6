package grubcounter

// regionChunkSize bounds the peak memory used reading a single region;
// large regions are read in chunks rather than all at once. Chunks
// overlap by signatureOverlap bytes so a match straddling a chunk
// boundary is never missed.
var regionChunkSize = 8 * 1024 * 1024

// signatureOverlap is the minimum overlap carried from the tail of one
// chunk into the head of the next: signature length minus one byte,
// which is enough for any valid match to be fully contained in at least
// one chunk.
var signatureOverlap = len(liveNodeSignature) - 1

// ScanOptions configures a full scan of an attached process.
type ScanOptions struct {
	// Verbose, if set, is invoked once per candidate discovered during
	// the scan, purely for diagnostics. It never affects selection.
	Verbose VerboseFunc
}

// Scan performs one full scan of the attached process: enumerate regions,
// find every live-node signature match, score each by locality, and
// select the winning candidate — the highest-locality group, the largest
// value among that group, ties broken by lowest address.
func Scan(p *ProcessHandle, opts ScanOptions) (CandidateNode, error) {
	regions, err := p.h.Regions()
	if err != nil {
		return CandidateNode{}, mapRegionErr(err)
	}

	var candidates []CandidateNode
	for _, r := range regions {
		// Region-level read failures are absorbed silently inside
		// scanRegion; the scan continues unconditionally.
		region := MemoryRegion{Base: Address(r.Base), Size: r.Size, Readable: true}
		candidates = append(candidates, scanRegion(p, region)...)
	}

	for _, c := range candidates {
		if opts.Verbose != nil {
			opts.Verbose(c)
		}
	}

	return selectCandidate(candidates)
}

// scanRegion reads region in overlap-bounded chunks, running the
// live-node signature matcher over each, and returns every candidate
// found in it.
func scanRegion(p *ProcessHandle, region MemoryRegion) []CandidateNode {
	var candidates []CandidateNode

	base := uint32(region.Base)
	end := base + region.Size
	chunkStart := base

	for chunkStart < end {
		chunkLen := regionChunkSize
		if remaining := end - chunkStart; uint32(chunkLen) > remaining {
			chunkLen = int(remaining)
		}

		readStart := chunkStart
		leadingOverlap := uint32(0)
		if chunkStart != base {
			leadingOverlap = uint32(signatureOverlap)
			if leadingOverlap > chunkStart-base {
				leadingOverlap = chunkStart - base
			}
			readStart = chunkStart - leadingOverlap
		}

		buf, err := p.h.ReadAt(readStart, uint32(chunkLen)+leadingOverlap)
		if err != nil {
			// This chunk is unreadable; skip ahead rather than
			// aborting the whole region.
			chunkStart += uint32(chunkLen)
			continue
		}

		// The overlap is exactly len(liveNodeSignature)-1 bytes, so a
		// match starting inside it always extends past chunkStart into
		// this chunk's new data; it can never have been fully found by
		// the previous chunk already, so no dedup pass is needed here.
		for _, offset := range findAll(buf, liveNodeSignature) {
			addr := Address(readStart + uint32(offset))
			c, ok := buildCandidate(p, addr)
			if ok {
				candidates = append(candidates, c)
			}
		}

		chunkStart += uint32(chunkLen)
	}

	return candidates
}

// buildCandidate fetches the context around a signature match (three
// preceding words, value DWORD) and scores its locality.
func buildCandidate(p *ProcessHandle, addr Address) (CandidateNode, bool) {
	value, ok := readU32(p, uint32(addr)+valueOffset)
	if !ok {
		return CandidateNode{}, false
	}

	preceding := [3]uint32{
		readWordOrZero(p, uint32(int64(addr)+precedingWord0Offset)),
		readWordOrZero(p, uint32(int64(addr)+precedingWord1Offset)),
		readWordOrZero(p, uint32(int64(addr)+precedingWord2Offset)),
	}

	c := CandidateNode{
		Address:   addr,
		Preceding: preceding,
		Value:     value,
	}
	c.Locality = scoreLocality(c)
	return c, true
}

func readU32(p *ProcessHandle, addr uint32) (uint32, bool) {
	buf, err := p.h.ReadAt(addr, 4)
	if err != nil {
		return 0, false
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, true
}

func readWordOrZero(p *ProcessHandle, addr uint32) uint32 {
	v, ok := readU32(p, addr)
	if !ok {
		return 0
	}
	return v
}

// scoreLocality counts how many of c's preceding words point within
// localityThreshold of c.Address.
func scoreLocality(c CandidateNode) int {
	score := 0
	for _, word := range c.Preceding {
		if Address(word).distance(c.Address) <= localityThreshold {
			score++
		}
	}
	return score
}

// selectCandidate applies §4.6's selection rule: keep only the
// highest-locality group (falling back to whatever is present if no
// candidate reaches the maximum of 3), then pick the largest value,
// ties broken by lowest address.
func selectCandidate(candidates []CandidateNode) (CandidateNode, error) {
	if len(candidates) == 0 {
		return CandidateNode{}, wrapErr(KindCounterNotFound, nil)
	}

	maxScore := 0
	for _, c := range candidates {
		if c.Locality > maxScore {
			maxScore = c.Locality
		}
	}

	threshold := maxLocalityScore
	if maxScore < threshold {
		threshold = maxScore
	}

	var survivors []CandidateNode
	for _, c := range candidates {
		if c.Locality >= threshold {
			survivors = append(survivors, c)
		}
	}

	best := survivors[0]
	for _, c := range survivors[1:] {
		if c.Value > best.Value {
			best = c
		} else if c.Value == best.Value && c.Address < best.Address {
			best = c
		}
	}

	return best, nil
}
