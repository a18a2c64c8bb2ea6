package grubcounter

import (
	"encoding/binary"
	"os"
)

// DecodeSave reads the save file at path and returns its grub counter.
// It fails with a [Kind] of [KindNotASave] if the leading magic does not
// match, or [KindCounterNotFound] if the decoded buffer has no occurrence
// of the counter signature. A file that cannot be read is also reported
// as [KindNotASave], with the read error as the wrapped cause.
func DecodeSave(path string) (uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, wrapErr(KindNotASave, err, withPath(path))
	}
	return DecodeSaveBytes(raw)
}

// DecodeSaveBytes decodes a save file already read into memory. It is pure
// and deterministic: the same bytes always yield the same result or the
// same error, and it has no side effects.
func DecodeSaveBytes(raw []byte) (uint32, error) {
	if len(raw) < len(saveMagic) || !matchesAt(raw, saveMagic, 0) {
		return 0, wrapErr(KindNotASave, nil)
	}

	decoded := make([]byte, len(raw))
	for i, b := range raw {
		decoded[i] = ^b
	}

	offset := findFirst(decoded, saveCounterSignature)
	if offset < 0 {
		return 0, wrapErr(KindCounterNotFound, nil)
	}

	valueStart := offset + len(saveCounterSignature)
	if valueStart+4 > len(decoded) {
		return 0, wrapErr(KindCounterNotFound, nil)
	}

	return binary.LittleEndian.Uint32(decoded[valueStart : valueStart+4]), nil
}
