package grubcounter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestScan_HighestValueWinsAtEqualLocality(t *testing.T) {
	const base = uint32(0x10000000)
	buf := make([]byte, 256)

	node1Addr := base + 0x10 // preceding words written at buf offset 0
	buildNode(buf, 0, [3]uint32{node1Addr, node1Addr, node1Addr}, 42)

	node2Addr := base + 64 + 0x10
	buildNode(buf, 64, [3]uint32{node2Addr, node2Addr, node2Addr}, 0)

	proc := newFakeProcess(fakeSegment{base: base, data: buf})
	p := newProcessHandle(proc)

	got, err := Scan(p, ScanOptions{})
	require.NoError(t, err)
	require.Equal(t, uint32(42), got.Value)
}

func TestScan_LocalityDiscardsLowerScoreCandidate(t *testing.T) {
	const base = uint32(0x20000000)
	buf := make([]byte, 256)

	node1Addr := base + 0x10
	buildNode(buf, 0, [3]uint32{node1Addr, node1Addr, node1Addr}, 0)

	node2Addr := base + 64 + 0x10
	buildNode(buf, 64, [3]uint32{node2Addr, node2Addr, node2Addr}, 0)

	node3Addr := base + 128 + 0x10
	farWord := node3Addr + 0x10000000 // far outside the 4 MiB window
	buildNode(buf, 128, [3]uint32{node3Addr, node3Addr, farWord}, 99)

	proc := newFakeProcess(fakeSegment{base: base, data: buf})
	p := newProcessHandle(proc)

	got, err := Scan(p, ScanOptions{})
	require.NoError(t, err)
	require.Equal(t, uint32(0), got.Value, "score-2 candidate with value 99 must be discarded")
	require.Equal(t, 3, got.Locality)
}

func TestScan_NoSignatureMatch(t *testing.T) {
	buf := make([]byte, 128)
	proc := newFakeProcess(fakeSegment{base: 0x1000, data: buf})
	p := newProcessHandle(proc)

	_, err := Scan(p, ScanOptions{})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCounterNotFound)
}

func TestScan_Deterministic(t *testing.T) {
	const base = uint32(0x30000000)
	buf := make([]byte, 256)
	nodeAddr := base + 0x10
	buildNode(buf, 0, [3]uint32{nodeAddr, nodeAddr, nodeAddr}, 7)

	proc := newFakeProcess(fakeSegment{base: base, data: buf})
	p := newProcessHandle(proc)

	first, err := Scan(p, ScanOptions{})
	require.NoError(t, err)
	second, err := Scan(p, ScanOptions{})
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated scans of a fixed snapshot diverged (-first +second):\n%s", diff)
	}
}

func TestScan_MatchStraddlingChunkBoundaryIsFoundOnce(t *testing.T) {
	oldChunkSize := regionChunkSize
	regionChunkSize = 40
	defer func() { regionChunkSize = oldChunkSize }()

	const base = uint32(0x70000000)
	buf := make([]byte, 200)
	// Place the node so its signature starts at offset 36, straddling
	// the boundary between the first 40-byte chunk and the second.
	nodeAddr := base + 20 + 0x10
	buildNode(buf, 20, [3]uint32{nodeAddr, nodeAddr, nodeAddr}, 9)

	proc := newFakeProcess(fakeSegment{base: base, data: buf})
	p := newProcessHandle(proc)

	var seen []CandidateNode
	got, err := Scan(p, ScanOptions{Verbose: func(c CandidateNode) { seen = append(seen, c) }})
	require.NoError(t, err)
	require.Equal(t, uint32(9), got.Value)
	require.Len(t, seen, 1, "a match straddling a chunk boundary must be reported exactly once")
}

func TestScan_UnreadableRegionIsSkipped(t *testing.T) {
	const base = uint32(0x40000000)
	buf := make([]byte, 256)
	nodeAddr := base + 0x10
	buildNode(buf, 0, [3]uint32{nodeAddr, nodeAddr, nodeAddr}, 5)

	proc := newFakeProcess(
		fakeSegment{base: 0x1000, data: make([]byte, 64)}, // no signature here
		fakeSegment{base: base, data: buf},
	)
	// Force the first region's chunk read to fail; the scan must still
	// find the node in the second region.
	proc.failAddrs[0x1000] = true

	p := newProcessHandle(proc)
	got, err := Scan(p, ScanOptions{})
	require.NoError(t, err)
	require.Equal(t, uint32(5), got.Value)
}

func TestScan_VerboseHookSeesEveryCandidate(t *testing.T) {
	const base = uint32(0x50000000)
	buf := make([]byte, 256)
	node1Addr := base + 0x10
	buildNode(buf, 0, [3]uint32{node1Addr, node1Addr, node1Addr}, 1)
	buildNode(buf, 64, [3]uint32{0, 0, 0}, 2) // score 0, still observed

	proc := newFakeProcess(fakeSegment{base: base, data: buf})
	p := newProcessHandle(proc)

	var seen []CandidateNode
	_, err := Scan(p, ScanOptions{Verbose: func(c CandidateNode) {
		seen = append(seen, c)
	}})
	require.NoError(t, err)
	require.Len(t, seen, 2)
}
