package grubcounter

import (
	"errors"

	"github.com/flipkick/grubcounter/internal/winproc"
)

// ProcessHandle is read-only access to a single attached 32-bit process.
// It is acquired by [Attach] and must be released with [ProcessHandle.Close]
// on every exit path; it is not safe for concurrent scans.
type ProcessHandle struct {
	name string
	h    winproc.Handle
}

// Attach opens read-only access to the first running process whose image
// name matches name (e.g. "monkeyisland103.exe").
func Attach(name string) (*ProcessHandle, error) {
	h, err := winproc.Attach(name)
	if err != nil {
		return nil, mapAttachErr(err, name)
	}
	return &ProcessHandle{name: name, h: h}, nil
}

// Close releases the underlying OS resources. Safe to call once; callers
// must not use the handle afterward.
func (p *ProcessHandle) Close() error {
	return p.h.Close()
}

func mapAttachErr(err error, name string) error {
	switch {
	case errors.Is(err, winproc.ErrProcessNotRunning):
		return wrapErr(KindProcessNotRunning, err, withPath(name))
	case errors.Is(err, winproc.ErrNot32Bit):
		return wrapErr(KindAccessDenied, err, withPath(name))
	case errors.Is(err, winproc.ErrEnumerationFailed):
		return wrapErr(KindEnumerationFailed, err, withPath(name))
	default:
		return wrapErr(KindAccessDenied, err, withPath(name))
	}
}

func mapRegionErr(err error) error {
	return wrapErr(KindEnumerationFailed, err)
}
