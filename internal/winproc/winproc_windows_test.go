//go:build windows

package winproc

import "testing"

// TestAttach_RealProcess only exercises anything when the actual
// target is running, and skips cleanly otherwise rather than failing
// CI.
func TestAttach_RealProcess(t *testing.T) {
	h, err := Attach("monkeyisland103.exe")
	if err != nil {
		t.Skipf("monkeyisland103.exe not running, skipping: %v", err)
	}
	defer h.Close()

	regions, err := h.Regions()
	if err != nil {
		t.Fatalf("Regions() failed: %v", err)
	}
	if len(regions) == 0 {
		t.Fatal("expected at least one readable region")
	}
}
