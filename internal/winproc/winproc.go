// Package winproc is the platform capability boundary for attaching to a
// foreign 32-bit process, enumerating its readable memory regions, and
// reading byte ranges from it. The reference target is Windows, where the
// game under inspection runs; other platforms get a stub that always
// fails with ErrAccessDenied so the rest of the module still builds and
// tests there.
package winproc

import "errors"

// Sentinel errors surfaced by Attach, Handle.Regions, and Handle.ReadAt.
// The caller-facing grubcounter package maps these onto its own Error
// kind rather than re-exporting them directly.
var (
	ErrProcessNotRunning = errors.New("process not running")
	ErrAccessDenied      = errors.New("access denied")
	ErrEnumerationFailed = errors.New("region enumeration failed")
	ErrReadFailed        = errors.New("read failed")
	ErrNot32Bit          = errors.New("target process is not a 32-bit build")
)

// Region describes one committed, readable span of the target's address
// space.
type Region struct {
	Base uint32
	Size uint32
}

// Handle is read-only access to a single attached process's address
// space. Regions and ReadAt may be called repeatedly; Close releases the
// underlying OS resources and must be safe to call exactly once.
type Handle interface {
	// Regions returns the current committed+readable regions in
	// ascending base-address order. Each call re-enumerates from
	// scratch, since layout changes across time.
	Regions() ([]Region, error)

	// ReadAt reads length bytes starting at addr. A short or failed
	// read returns ErrReadFailed; callers must not treat it as fatal
	// to an in-progress scan.
	ReadAt(addr uint32, length uint32) ([]byte, error)

	Close() error
}

// Attach opens read-only access to the first process whose image name
// matches name. It fails with ErrProcessNotRunning if no such process
// exists, ErrAccessDenied if the OS refuses the open, or ErrNot32Bit if
// the matched process is not a 32-bit build.
func Attach(name string) (Handle, error) {
	return attach(name)
}
