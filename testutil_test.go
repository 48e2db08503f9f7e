package pe

import (
	"encoding/binary"
	"testing"
)

// testSectionSpec describes one section to lay into a synthetic image
// built by buildTestImage.
type testSectionSpec struct {
	name            string
	virtualSize     uint32
	rawSize         uint32
	characteristics uint32
	// fill, if non-empty, is repeated across the section's whole
	// file-aligned raw region (the last repetition cut short as needed). Useful for checksum and
	// import/export fixture tests that need specific bytes at specific
	// offsets; most tests leave this nil and get a zeroed section.
	fill []byte
}

// testImage is the return value of buildTestImage: the built buffer
// alongside the layout it computed, so a test can compute expected RVAs
// and file offsets without hand-deriving alignment arithmetic twice.
type testImage struct {
	buf           []byte
	fileOffsets   []uint32
	rawSizes      []uint32
	rvas          []uint32
	sizeOfHeaders uint32
	ntOffset      uint32
	optOffset     uint32
	sectionHdrOff uint32
}

const (
	testFileAlign = uint32(0x200)
	testSecAlign  = uint32(0x1000)
)

// buildTestImage constructs a minimal, well-formed PE32 buffer with the
// given sections, file-aligned (as Attach/Copy expect). Every numeric
// header field beyond what a test cares about is left at a sane default:
// Machine=I386, SizeOfOptionalHeader=0xE0, NumberOfRvaAndSizes=16,
// Subsystem/characteristics left zero.
func buildTestImage(t *testing.T, specs []testSectionSpec) *testImage {
	t.Helper()

	n := uint32(len(specs))
	headerRaw := SizeOfDOSHeader + SizeOfNtHeaders32 + n*SizeOfSectionHeader
	sizeOfHeaders := AlignUp(headerRaw, testFileAlign)

	fileOffsets := make([]uint32, n)
	rawSizes := make([]uint32, n)
	rvas := make([]uint32, n)

	curFile := sizeOfHeaders
	curRva := AlignUp(sizeOfHeaders, testSecAlign)
	for i, s := range specs {
		fileOffsets[i] = curFile
		raw := AlignUp(s.rawSize, testFileAlign)
		rawSizes[i] = raw
		rvas[i] = curRva
		curFile += raw
		curRva += AlignUp(s.virtualSize, testSecAlign)
	}

	buf := make([]byte, curFile)

	// DOS header: magic + e_lfanew pointing straight at the NT headers.
	binary.LittleEndian.PutUint16(buf[0:2], ImageDOSSignature)
	binary.LittleEndian.PutUint32(buf[60:64], SizeOfDOSHeader)

	ntOff := SizeOfDOSHeader
	binary.LittleEndian.PutUint32(buf[ntOff:ntOff+4], ImageNTSignature)

	fhOff := ntOff + 4
	binary.LittleEndian.PutUint16(buf[fhOff:fhOff+2], ImageFileMachineI386)
	binary.LittleEndian.PutUint16(buf[fhOff+2:fhOff+4], uint16(n))
	binary.LittleEndian.PutUint16(buf[fhOff+16:fhOff+18], 0xE0) // SizeOfOptionalHeader

	ohOff := fhOff + SizeOfFileHeader
	binary.LittleEndian.PutUint16(buf[ohOff:ohOff+2], ImageNtOptionalHeader32Magic)
	binary.LittleEndian.PutUint32(buf[ohOff+32:ohOff+36], testSecAlign)  // SectionAlignment
	binary.LittleEndian.PutUint32(buf[ohOff+36:ohOff+40], testFileAlign) // FileAlignment
	binary.LittleEndian.PutUint32(buf[ohOff+56:ohOff+60], curRva)        // SizeOfImage
	binary.LittleEndian.PutUint32(buf[ohOff+60:ohOff+64], sizeOfHeaders) // SizeOfHeaders
	binary.LittleEndian.PutUint32(buf[ohOff+92:ohOff+96], 16)            // NumberOfRvaAndSizes

	sectionHdrOff := ntOff + SizeOfNtHeaders32
	for i, s := range specs {
		off := sectionHdrOff + uint32(i)*SizeOfSectionHeader
		copy(buf[off:off+8], []byte(s.name))
		binary.LittleEndian.PutUint32(buf[off+8:off+12], s.virtualSize)
		binary.LittleEndian.PutUint32(buf[off+12:off+16], rvas[i])
		binary.LittleEndian.PutUint32(buf[off+16:off+20], rawSizes[i])
		binary.LittleEndian.PutUint32(buf[off+20:off+24], fileOffsets[i])
		binary.LittleEndian.PutUint32(buf[off+36:off+40], s.characteristics)

		if len(s.fill) > 0 {
			dst := buf[fileOffsets[i] : fileOffsets[i]+rawSizes[i]]
			for j := range dst {
				dst[j] = s.fill[j%len(s.fill)]
			}
		}
	}

	return &testImage{
		buf:           buf,
		fileOffsets:   fileOffsets,
		rawSizes:      rawSizes,
		rvas:          rvas,
		sizeOfHeaders: sizeOfHeaders,
		ntOffset:      ntOff,
		optOffset:     ohOff,
		sectionHdrOff: sectionHdrOff,
	}
}

// dataDirOffset returns the buffer offset of data directory entry idx's
// (VirtualAddress, Size) pair within img's optional header.
func (img *testImage) dataDirOffset(idx ImageDirectoryEntry) uint32 {
	return img.optOffset + 96 + uint32(idx)*8
}

// setDataDirectory writes a (rva, size) pair into data directory entry
// idx.
func (img *testImage) setDataDirectory(idx ImageDirectoryEntry, rva, size uint32) {
	off := img.dataDirOffset(idx)
	binary.LittleEndian.PutUint32(img.buf[off:off+4], rva)
	binary.LittleEndian.PutUint32(img.buf[off+4:off+8], size)
}

func attachOrFatal(t *testing.T, buf []byte) *RawPe {
	t.Helper()
	p, err := Attach(buf, nil)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	return p
}
