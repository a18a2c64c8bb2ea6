package grubcounter

// liveNodeSignature identifies a scripting-variable node header in the
// target process's memory. The counter DWORD sits at +0x0C.
var liveNodeSignature = []byte{
	0xA1, 0x5A, 0x21, 0x97, 0x53, 0xC0, 0x0E, 0x51, 0x5C, 0x8F, 0x8D, 0x00,
}

// saveCounterSignature identifies the counter's location inside a decoded
// save buffer. The little-endian u32 counter immediately follows it.
var saveCounterSignature = []byte{
	0x02, 0x00, 0x00, 0x00, 0xA1, 0x5A, 0x21, 0x97, 0x53, 0xC0, 0x0E, 0x51, 0x00, 0x00, 0x00, 0x00,
}

// saveMagic is the raw, still-obfuscated leading sentinel of a save file.
var saveMagic = []byte{0xAA, 0xDE, 0xAF, 0x64}

const (
	// valueOffset is the counter DWORD's offset from the live-node
	// signature start.
	valueOffset = 0x0C

	// precedingWord0Offset..precedingWord2Offset are the offsets of the three pointer-sized
	// words scored for locality, relative to the node signature start.
	precedingWord0Offset = -0x10
	precedingWord1Offset = -0x0C
	precedingWord2Offset = -0x08

	// localityThreshold is the named constant for the "nearby" distance
	// used by the locality classifier. Whether this holds across engine
	// versions is open; parameterized here rather than inlined so a
	// future build can override it per engine build.
	localityThreshold uint32 = 4 * 1024 * 1024

	// maxLocalityScore is the number of preceding words considered.
	maxLocalityScore = 3
)
