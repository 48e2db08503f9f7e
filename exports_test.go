package pe

import (
	"encoding/binary"
	"testing"
)

// writeExportDirectory lays a two-name export table into img's section
// edataIdx. Layout (local offsets): ImageExportDirectory at 0 (40
// bytes), AddressOfFunctions array at 64, AddressOfNames array at 80,
// AddressOfNameOrdinals array at 96, name strings at 112.
func writeExportDirectory(img *testImage, edataIdx int) {
	base := img.fileOffsets[edataIdx]
	rvaBase := img.rvas[edataIdx]
	buf := img.buf

	const (
		funcsOff = 64
		namesOff = 80
		ordsOff  = 96
		strsOff  = 112
	)

	binary.LittleEndian.PutUint32(buf[base+20:base+24], 2)             // NumberOfFunctions
	binary.LittleEndian.PutUint32(buf[base+24:base+28], 2)             // NumberOfNames
	binary.LittleEndian.PutUint32(buf[base+28:base+32], rvaBase+funcsOff)
	binary.LittleEndian.PutUint32(buf[base+32:base+36], rvaBase+namesOff)
	binary.LittleEndian.PutUint32(buf[base+36:base+40], rvaBase+ordsOff)

	binary.LittleEndian.PutUint32(buf[base+funcsOff:base+funcsOff+4], 0x1000)
	binary.LittleEndian.PutUint32(buf[base+funcsOff+4:base+funcsOff+8], 0x1010)

	binary.LittleEndian.PutUint32(buf[base+namesOff:base+namesOff+4], rvaBase+strsOff)
	binary.LittleEndian.PutUint32(buf[base+namesOff+4:base+namesOff+8], rvaBase+strsOff+6)

	binary.LittleEndian.PutUint16(buf[base+ordsOff:base+ordsOff+2], 0)
	binary.LittleEndian.PutUint16(buf[base+ordsOff+2:base+ordsOff+4], 1)

	copy(buf[base+strsOff:], "Alpha\x00Beta\x00")

	img.setDataDirectory(ImageDirectoryEntryExport, rvaBase, 40)
}

func TestEnumerateExportsEmptyDirectory(t *testing.T) {
	img := buildTestImage(t, []testSectionSpec{{name: ".text", virtualSize: 0x10, rawSize: 0x200}})
	p := attachOrFatal(t, img.buf)
	defer p.Detach()

	exports, err := p.EnumerateExports()
	if err != nil {
		t.Fatalf("EnumerateExports failed: %v", err)
	}
	if exports != nil {
		t.Errorf("exports = %v, want nil for an absent export directory", exports)
	}
}

func TestEnumerateExportsTwoNames(t *testing.T) {
	img := buildTestImage(t, []testSectionSpec{
		{name: ".text", virtualSize: 0x10, rawSize: 0x200},
		{name: ".edata", virtualSize: 0x200, rawSize: 0x200},
	})
	writeExportDirectory(img, 1)

	p := attachOrFatal(t, img.buf)
	defer p.Detach()

	exports, err := p.EnumerateExports()
	if err != nil {
		t.Fatalf("EnumerateExports failed: %v", err)
	}
	if len(exports) != 2 {
		t.Fatalf("exports count = %d, want 2", len(exports))
	}
	if exports[0].Name != "Alpha" || exports[0].Ordinal != 0 {
		t.Errorf("exports[0] = %+v, want {Alpha 0}", exports[0])
	}
	if exports[1].Name != "Beta" || exports[1].Ordinal != 1 {
		t.Errorf("exports[1] = %+v, want {Beta 1}", exports[1])
	}
}
