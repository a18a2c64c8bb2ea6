package grubcounter

import "fmt"

// Address is a 32-bit address in the target process's space. The target is
// always a 32-bit build, so addresses never exceed uint32 range; a
// dedicated type keeps them from mixing with host pointer arithmetic.
type Address uint32

// String returns the hexadecimal representation of the address.
func (a Address) String() string {
	return fmt.Sprintf("0x%08X", uint32(a))
}

// distance returns the unsigned 32-bit distance between two addresses,
// saturating-free because both operands and the result fit in uint32.
func (a Address) distance(b Address) uint32 {
	if a > b {
		return uint32(a - b)
	}
	return uint32(b - a)
}

// MemoryRegion describes one committed, readable span of the attached
// process's address space, as reported by the region enumerator.
type MemoryRegion struct {
	Base     Address
	Size     uint32
	Readable bool
}

// End returns the address one past the last byte of the region.
func (r MemoryRegion) End() Address {
	return Address(uint32(r.Base) + r.Size)
}

// CandidateNode is a single signature match found during a scan, together
// with the context needed to score and select among look-alikes.
type CandidateNode struct {
	// Address is the absolute address of the signature match (the node
	// header start).
	Address Address
	// Preceding holds the three pointer-sized words immediately before
	// the node header, at offsets -0x10, -0x0C, -0x08.
	Preceding [3]uint32
	// Value is the counter DWORD at offset +0x0C.
	Value uint32
	// Locality is the count of Preceding words that fall within
	// localityThreshold of Address.
	Locality int
}

// VerboseFunc is invoked once per candidate during a scan, purely for
// diagnostic observation; it never influences selection. The default is a
// no-op.
type VerboseFunc func(c CandidateNode)

// LocatorCache is the cached-read state carried by a [Locator] between
// polls. The zero value is the Cold state.
type LocatorCache struct {
	set       bool
	address   Address
	lastValue uint32
}
