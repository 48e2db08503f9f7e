package pe

import (
	mmap "github.com/edsrzf/mmap-go"
)

// Allocator is the page-allocation collaborator named in the system's
// scope as external: "raw page allocation from the host OS". Copy and
// ToImage call it for the owned buffer they hand back; Free releases it.
// Two implementations are provided; callers may supply their own.
type Allocator interface {
	// AllocPages returns a zeroed, read-write buffer of at least size
	// bytes.
	AllocPages(size uint32) ([]byte, error)

	// FreePages releases a buffer previously returned by AllocPages.
	// Passing a buffer not obtained from this Allocator is undefined.
	FreePages(buf []byte) error
}

// mmapAllocator backs each allocation with its own anonymous,
// read-write memory mapping, the closest Go analogue to the source's
// VirtualAlloc(MEM_RESERVE|MEM_COMMIT, PAGE_READWRITE) calls in
// PlFileToImage/PlCopyFile/PlFreeFile. Every Copy/ToImage therefore
// exercises the same mmap-go dependency the teacher uses for file-backed
// views, just pointed at an anonymous region instead of a descriptor.
type mmapAllocator struct{}

// DefaultAllocator is the Allocator used when Options.Allocator is nil.
var DefaultAllocator Allocator = mmapAllocator{}

func (mmapAllocator) AllocPages(size uint32) ([]byte, error) {
	if size == 0 {
		size = 1
	}
	m, err := mmap.MapRegion(nil, int(size), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, transient(err)
	}
	// Anonymous mappings come back zero-filled from the OS; no explicit
	// zeroing needed.
	return []byte(m), nil
}

func (mmapAllocator) FreePages(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	m := mmap.MMap(buf)
	if err := m.Unmap(); err != nil {
		return transient(err)
	}
	return nil
}

// HeapAllocator backs allocations with plain Go heap slices. It exists
// for callers who don't want page-grained anonymous mappings — under
// -race, in WASM builds, or simply for short-lived test buffers.
type HeapAllocator struct{}

func (HeapAllocator) AllocPages(size uint32) ([]byte, error) {
	return make([]byte, size), nil
}

func (HeapAllocator) FreePages(buf []byte) error {
	return nil
}
