package pe

import (
	"bytes"
	"encoding/binary"
)

// readStruct decodes v from buf[offset:offset+size] in little-endian byte
// order, the same bounds-checked pattern as the teacher's structUnpack,
// adapted to operate on a plain byte slice instead of a File.
func readStruct(buf []byte, offset, size uint32, v interface{}) error {
	total := offset + size
	if total < offset || total > uint32(len(buf)) {
		return ErrOutsideBoundary
	}
	r := bytes.NewReader(buf[offset:total])
	return binary.Read(r, binary.LittleEndian, v)
}

// readUint32 reads a single little-endian uint32 at offset.
func readUint32(buf []byte, offset uint32) (uint32, error) {
	if offset+4 < offset || offset+4 > uint32(len(buf)) {
		return 0, badPE(ErrOutsideBoundary)
	}
	return binary.LittleEndian.Uint32(buf[offset : offset+4]), nil
}

// writeUint32 writes a single little-endian uint32 at offset.
func writeUint32(buf []byte, offset, value uint32) error {
	if offset+4 < offset || offset+4 > uint32(len(buf)) {
		return badPE(ErrOutsideBoundary)
	}
	binary.LittleEndian.PutUint32(buf[offset:offset+4], value)
	return nil
}

// readUint16 reads a single little-endian uint16 at offset.
func readUint16(buf []byte, offset uint32) (uint16, error) {
	if offset+2 < offset || offset+2 > uint32(len(buf)) {
		return 0, badPE(ErrOutsideBoundary)
	}
	return binary.LittleEndian.Uint16(buf[offset : offset+2]), nil
}

// cString returns the NUL-terminated ASCII string starting at offset, or
// an error if no terminator is found before the buffer ends.
func cString(buf []byte, offset uint32) (string, error) {
	if offset > uint32(len(buf)) {
		return "", badPE(ErrOutsideBoundary)
	}
	end := offset
	for end < uint32(len(buf)) && buf[end] != 0 {
		end++
	}
	if end >= uint32(len(buf)) {
		return "", badPE(ErrOutsideBoundary)
	}
	return string(buf[offset:end]), nil
}
