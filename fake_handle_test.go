package grubcounter

import (
	"encoding/binary"

	"github.com/flipkick/grubcounter/internal/winproc"
)

// fakeSegment is one contiguous backing span of a fakeProcess's simulated
// address space.
type fakeSegment struct {
	base uint32
	data []byte
}

// fakeProcess is an in-memory stand-in for winproc.Handle used to drive
// the scanner and locator against a constructed memory snapshot without
// any real OS process.
type fakeProcess struct {
	segments  []fakeSegment
	failAddrs map[uint32]bool
}

func newFakeProcess(segments ...fakeSegment) *fakeProcess {
	return &fakeProcess{segments: segments, failAddrs: map[uint32]bool{}}
}

func (f *fakeProcess) Regions() ([]winproc.Region, error) {
	regions := make([]winproc.Region, 0, len(f.segments))
	for _, s := range f.segments {
		regions = append(regions, winproc.Region{Base: s.base, Size: uint32(len(s.data))})
	}
	return regions, nil
}

func (f *fakeProcess) ReadAt(addr uint32, length uint32) ([]byte, error) {
	if f.failAddrs[addr] {
		return nil, winproc.ErrReadFailed
	}
	for _, s := range f.segments {
		segEnd := s.base + uint32(len(s.data))
		if addr >= s.base && uint64(addr)+uint64(length) <= uint64(segEnd) {
			start := addr - s.base
			out := make([]byte, length)
			copy(out, s.data[start:start+length])
			return out, nil
		}
	}
	return nil, winproc.ErrReadFailed
}

func (f *fakeProcess) Close() error { return nil }

// writeU32 patches 4 little-endian bytes into the segment containing
// addr, letting a test simulate the counter changing between polls.
func (f *fakeProcess) writeU32(addr uint32, v uint32) {
	for _, s := range f.segments {
		segEnd := s.base + uint32(len(s.data))
		if addr >= s.base && addr+4 <= segEnd {
			binary.LittleEndian.PutUint32(s.data[addr-s.base:], v)
			return
		}
	}
}

// buildNode renders a full node layout (three preceding words, the
// 12-byte live signature, and the value DWORD) into buf starting at
// bufOffset, where buf represents memory based at base. The signature
// itself starts at base+bufOffset+0x10.
func buildNode(buf []byte, bufOffset int, preceding [3]uint32, value uint32) {
	binary.LittleEndian.PutUint32(buf[bufOffset:], preceding[0])
	binary.LittleEndian.PutUint32(buf[bufOffset+4:], preceding[1])
	binary.LittleEndian.PutUint32(buf[bufOffset+8:], preceding[2])
	copy(buf[bufOffset+0x10:], liveNodeSignature)
	binary.LittleEndian.PutUint32(buf[bufOffset+0x10+valueOffset:], value)
}

func newProcessHandle(h winproc.Handle) *ProcessHandle {
	return &ProcessHandle{name: "test.exe", h: h}
}
