package pe

import (
	"bytes"
	"testing"
)

func TestCopyProducesOwnedFileAlignedClone(t *testing.T) {
	img := buildTestImage(t, []testSectionSpec{
		{name: ".text", virtualSize: 0x123, rawSize: 0x200, fill: []byte{0x90}},
	})
	src := attachOrFatal(t, img.buf)
	defer src.Detach()

	dst, err := Copy(src, &Options{Allocator: HeapAllocator{}})
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	defer dst.Free()

	if dst.Status().Attached {
		t.Errorf("Copy's result should not be Attached")
	}
	if dst.IsImageAligned() {
		t.Errorf("Copy should preserve file alignment")
	}
	if !bytes.Equal(dst.Buffer()[:src.MaxPa()], src.Buffer()[:src.MaxPa()]) {
		t.Errorf("Copy did not faithfully clone the source buffer")
	}
}

func TestToImagePlacesSectionsAtVirtualAddress(t *testing.T) {
	img := buildTestImage(t, []testSectionSpec{
		{name: ".text", virtualSize: 0x123, rawSize: 0x200, fill: []byte{0xCC}},
	})
	src := attachOrFatal(t, img.buf)
	defer src.Detach()

	dst, err := ToImage(src, &Options{Allocator: HeapAllocator{}})
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	defer dst.Free()

	if !dst.IsImageAligned() {
		t.Errorf("ToImage's result should be image aligned")
	}

	va := img.rvas[0]
	section := dst.Sections()[0]
	if section.VirtualAddress != va {
		t.Fatalf("section VirtualAddress = %#x, want %#x", section.VirtualAddress, va)
	}

	got := dst.Buffer()[va : va+0x123]
	for i, b := range got {
		if b != 0xCC {
			t.Fatalf("byte %d at VA %#x = %#x, want 0xCC", i, va, b)
		}
	}
}

// TestToImageCopiesFullVirtualSizeFromSource confirms that when a
// section's VirtualSize exceeds its SizeOfRawData, ToImage copies the
// full VirtualSize span out of the source buffer rather than truncating
// to SizeOfRawData and zero-filling the remainder. The bytes beyond
// SizeOfRawData belong to whatever the file buffer actually holds there
// (here, the following section's raw data) — a code cave authored past
// a section's nominal raw size must survive the file-to-image move.
func TestToImageCopiesFullVirtualSizeFromSource(t *testing.T) {
	img := buildTestImage(t, []testSectionSpec{
		{name: ".data", virtualSize: 0x400, rawSize: 0x100, fill: []byte{0x41}},
		{name: ".text2", virtualSize: 0x200, rawSize: 0x200, fill: []byte{0x99}},
	})
	src := attachOrFatal(t, img.buf)
	defer src.Detach()

	dst, err := ToImage(src, &Options{Allocator: HeapAllocator{}})
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	defer dst.Free()

	va := img.rvas[0]
	rawSize := img.rawSizes[0] // file-alignment-rounded actual SizeOfRawData
	head := dst.Buffer()[va : va+rawSize]
	for i, b := range head {
		if b != 0x41 {
			t.Fatalf("head byte %d = %#x, want 0x41", i, b)
		}
	}

	tail := dst.Buffer()[va+rawSize : va+0x400]
	want := img.buf[img.fileOffsets[1] : img.fileOffsets[1]+uint32(len(tail))]
	if !bytes.Equal(tail, want) {
		t.Fatalf("tail bytes = %v, want %v (the following section's raw data)", tail, want)
	}
}

// TestToImageZeroesTailPastSourceBuffer confirms the tail is zeroed only
// when the source buffer itself does not extend far enough to supply
// real bytes — not merely because VirtualSize exceeds SizeOfRawData.
func TestToImageZeroesTailPastSourceBuffer(t *testing.T) {
	img := buildTestImage(t, []testSectionSpec{
		{name: ".bss", virtualSize: 0x400, rawSize: 0x100, fill: []byte{0x41}},
	})
	src := attachOrFatal(t, img.buf)
	defer src.Detach()

	dst, err := ToImage(src, &Options{Allocator: HeapAllocator{}})
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	defer dst.Free()

	va := img.rvas[0]
	srcBufEnd := uint32(len(img.buf))
	copiedEnd := va + (srcBufEnd - img.fileOffsets[0])

	tail := dst.Buffer()[copiedEnd : va+0x400]
	for i, b := range tail {
		if b != 0 {
			t.Fatalf("tail byte %d = %#x, want 0", i, b)
		}
	}
}
