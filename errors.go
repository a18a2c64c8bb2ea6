package grubcounter

import (
	"fmt"
)

// Kind identifies the class of failure behind an [Error], so callers can
// branch on `errors.Is` against the sentinel values below without parsing
// message text.
type Kind int

const (
	// KindNotASave means the save file's leading magic did not match, or
	// (from DecodeSave) that the file could not be read at all, in which
	// case Err holds the read error.
	KindNotASave Kind = iota
	// KindCounterNotFound means no signature survived the search (save
	// buffer or live scan).
	KindCounterNotFound
	// KindProcessNotRunning means the named process image was not found
	// at attach time.
	KindProcessNotRunning
	// KindAccessDenied means the OS refused attach or enumeration.
	KindAccessDenied
	// KindReadFailed means a single memory read did not return the full
	// requested range.
	KindReadFailed
	// KindEnumerationFailed means the OS region-enumeration call itself
	// failed, as distinct from a single region being skipped.
	KindEnumerationFailed
)

func (k Kind) String() string {
	switch k {
	case KindNotASave:
		return "not_a_save"
	case KindCounterNotFound:
		return "counter_not_found"
	case KindProcessNotRunning:
		return "process_not_running"
	case KindAccessDenied:
		return "access_denied"
	case KindReadFailed:
		return "read_failed"
	case KindEnumerationFailed:
		return "enumeration_failed"
	default:
		return "unknown"
	}
}

// Error is the uniform error type returned by every public grubcounter
// operation. It carries a [Kind] plus whatever address/path context is
// available, so a wrapping CLI or GUI can render a useful message without
// grubcounter depending on any presentation layer.
//
// Use [errors.Is] against the sentinel Err* values to branch on kind, and
// [errors.As] to pull out Address/Path when present:
//
//	var gErr *grubcounter.Error
//	if errors.As(err, &gErr) && gErr.Address != 0 {
//	    fmt.Printf("at %s: %v\n", gErr.Address, gErr)
//	}
type Error struct {
	Kind Kind

	// Address is the address relevant to the failure, when there is one
	// (a failed read, an invalidated cache entry). Zero means "not
	// applicable".
	Address Address

	// Path is the save-file path relevant to the failure, when there is
	// one.
	Path string

	// Err is the underlying cause, if any (an *os.PathError from a file
	// read, a wrapped OS error from attach).
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Kind.String()
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Address != 0 {
		msg += fmt.Sprintf(" (address=%s)", e.Address)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel error for e's Kind, so that
// errors.Is(err, ErrNotASave) works without exposing the Kind comparison.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == sentinel.Kind
}

// errOpt configures an [Error] during construction via [wrapErr].
type errOpt func(*Error)

func withAddress(a Address) errOpt {
	return func(e *Error) { e.Address = a }
}

func withPath(p string) errOpt {
	return func(e *Error) { e.Path = p }
}

func wrapErr(kind Kind, cause error, opts ...errOpt) *Error {
	e := &Error{Kind: kind, Err: cause}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sentinel errors for errors.Is comparisons. Only Kind is significant for
// equality purposes; see [Error.Is].
var (
	ErrNotASave          = &Error{Kind: KindNotASave}
	ErrCounterNotFound   = &Error{Kind: KindCounterNotFound}
	ErrProcessNotRunning = &Error{Kind: KindProcessNotRunning}
	ErrAccessDenied      = &Error{Kind: KindAccessDenied}
	ErrReadFailed        = &Error{Kind: KindReadFailed}
	ErrEnumerationFailed = &Error{Kind: KindEnumerationFailed}
)
