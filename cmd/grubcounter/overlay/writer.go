// Package overlay writes the current counter value to a plain text file
// for a streaming overlay to poll. It lives entirely outside the
// grubcounter core's contract.
package overlay

import (
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

// Write atomically replaces the contents of path with the decimal
// rendering of value, so a reader polling path never observes a
// half-written file.
func Write(path string, value uint32) error {
	return atomic.WriteFile(path, strings.NewReader(strconv.FormatUint(uint64(value), 10)))
}
