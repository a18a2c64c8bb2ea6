//go:build windows

package winproc

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// readableProtect is the set of page protections the region enumerator
// treats as readable. Guard pages and PAGE_NOACCESS are deliberately
// excluded.
const readableProtect = windows.PAGE_READONLY | windows.PAGE_READWRITE |
	windows.PAGE_EXECUTE_READ | windows.PAGE_EXECUTE_READWRITE |
	windows.PAGE_WRITECOPY | windows.PAGE_EXECUTE_WRITECOPY

type handle struct {
	process windows.Handle
	pid     uint32
}

func attach(name string) (Handle, error) {
	pid, err := findProcessByName(name)
	if err != nil {
		return nil, err
	}

	h, err := windows.OpenProcess(
		windows.PROCESS_VM_READ|windows.PROCESS_QUERY_INFORMATION,
		false,
		pid,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}

	if err := require32Bit(h); err != nil {
		windows.CloseHandle(h)
		return nil, err
	}

	return &handle{process: h, pid: pid}, nil
}

// findProcessByName walks a process snapshot looking for an exact,
// case-insensitive image-name match, returning the first hit.
func findProcessByName(name string) (uint32, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEnumerationFailed, err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snapshot, &entry); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEnumerationFailed, err)
	}

	for {
		imageName := windows.UTF16ToString(entry.ExeFile[:])
		if strings.EqualFold(imageName, name) {
			return entry.ProcessID, nil
		}
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			break
		}
	}

	return 0, ErrProcessNotRunning
}

// require32Bit rejects processes that are not a 32-bit build: native
// 32-bit Windows, or a WOW64 process on 64-bit Windows. A 64-bit target
// is out of scope for this module.
func require32Bit(h windows.Handle) error {
	var isWow64 bool
	if err := windows.IsWow64Process(h, &isWow64); err != nil {
		// Host is itself 32-bit: there is no WOW64 layer and every
		// process is, by definition, 32-bit.
		return nil
	}
	if isWow64 {
		return nil
	}
	if nativeHostIs32Bit() {
		return nil
	}
	return ErrNot32Bit
}

func nativeHostIs32Bit() bool {
	if runtime.GOARCH != "386" && runtime.GOARCH != "arm" {
		return false
	}
	// A 32-bit build of this tool running under WOW64 means the host
	// itself is 64-bit.
	var selfWow64 bool
	if err := windows.IsWow64Process(windows.CurrentProcess(), &selfWow64); err != nil {
		return true
	}
	return !selfWow64
}

func (h *handle) Regions() ([]Region, error) {
	var regions []Region
	var mbi windows.MemoryBasicInformation

	var address uintptr
	for {
		err := windows.VirtualQueryEx(h.process, address, &mbi, unsafe.Sizeof(mbi))
		if err != nil {
			break
		}

		if isReadable(&mbi) {
			regions = append(regions, Region{
				Base: uint32(mbi.BaseAddress),
				Size: uint32(mbi.RegionSize),
			})
		}

		next := uint64(mbi.BaseAddress) + uint64(mbi.RegionSize)
		if next <= uint64(address) || next > 0xFFFFFFFF {
			break
		}
		address = uintptr(next)
	}

	return regions, nil
}

func isReadable(mbi *windows.MemoryBasicInformation) bool {
	if mbi.State != windows.MEM_COMMIT {
		return false
	}
	if mbi.Protect&windows.PAGE_GUARD != 0 {
		return false
	}
	if mbi.Protect&windows.PAGE_NOACCESS != 0 {
		return false
	}
	return mbi.Protect&readableProtect != 0
}

func (h *handle) ReadAt(addr uint32, length uint32) ([]byte, error) {
	buf := make([]byte, length)
	var bytesRead uintptr

	err := windows.ReadProcessMemory(h.process, uintptr(addr), &buf[0], uintptr(length), &bytesRead)
	if err != nil || bytesRead != uintptr(length) {
		return nil, ErrReadFailed
	}

	return buf, nil
}

func (h *handle) Close() error {
	if h.process == 0 {
		return nil
	}
	err := windows.CloseHandle(h.process)
	h.process = 0
	return err
}
