package pe

import (
	"github.com/go-kratos/kratos/v2/log"
)

// LoadStatus tracks which lifecycle steps a RawPe has been through. It is
// the Go rendering of the source's bitfield PE_FLAGS.
type LoadStatus struct {
	// Attached is true when the RawPe borrows its buffer (built by
	// Attach) and false when it owns it (built by Copy/ToImage).
	Attached bool

	Relocated         bool
	ExportsEnumerated bool
	ImportsEnumerated bool
}

// peIndex is the parsed view over a buffer: offsets, not pointers, so a
// RawPe is trivially copyable and carries no lifetime tied to a specific
// backing array beyond the slice it wraps.
type peIndex struct {
	dos       ImageDOSHeader
	dosStub   uint32 // offset
	dosStubSz uint32

	nt       ImageNtHeaders32
	ntOffset uint32

	sectionHeaderOffset uint32 // offset of section_headers[0]
	sections            []ImageSectionHeader

	// sectionData[i] is the buffer offset of section i's raw data. In
	// file alignment this is PointerToRawData; in image alignment it
	// is VirtualAddress.
	sectionData []uint32
	imageAligned bool
}

// RawPe is a parsed view over one PE32 binary held in a byte buffer. It
// is the engine's central type: every other operation (address
// translation, alignment conversion, directory walking, relocation,
// checksum) is a method on it or takes one as input.
type RawPe struct {
	buffer []byte
	index  peIndex
	status LoadStatus

	imports []ImportLibrary
	exports []ExportEntry

	opts   *Options
	helper *log.Helper
}

// Attach parses and indexes buf in place: it does not copy buf, and the
// returned RawPe borrows it for its entire lifetime (detach with Detach,
// not Free). buf must outlive the RawPe.
//
// opts may be nil, which selects ModeStrict, DefaultMaxSections and a
// stderr logger filtered to errors.
func Attach(buf []byte, opts *Options) (*RawPe, error) {
	pe := &RawPe{
		buffer: buf,
		opts:   opts,
		helper: opts.helper(),
	}
	if err := pe.index.parse(buf, opts.mode(), opts.maxSections(), pe.helper); err != nil {
		return nil, err
	}
	pe.status.Attached = true
	return pe, nil
}

// Detach releases the section index built by Attach. It does not touch
// the borrowed buffer, which remains the caller's to free. Detach
// requires Status().Attached; calling it on an owned RawPe (produced by
// Copy or ToImage) is a programming error.
func (pe *RawPe) Detach() error {
	if !pe.status.Attached {
		return badPE(nil)
	}
	pe.index = peIndex{}
	pe.buffer = nil
	pe.status = LoadStatus{}
	return nil
}

// Free releases an owned RawPe produced by Copy or ToImage, including
// its backing buffer via the configured
// Allocator. Calling Free on an attached (borrowed) RawPe is a
// programming error — use Detach instead.
func (pe *RawPe) Free() error {
	if pe.status.Attached {
		return badPE(nil)
	}
	alloc := pe.opts.allocator()
	buf := pe.buffer
	pe.index = peIndex{}
	pe.buffer = nil
	pe.status = LoadStatus{}
	if buf == nil {
		return nil
	}
	return alloc.FreePages(buf)
}

// Status reports the RawPe's lifecycle flags.
func (pe *RawPe) Status() LoadStatus { return pe.status }

// Buffer returns the backing buffer. Callers must not retain it beyond
// the RawPe's lifetime if the RawPe is attached (borrowed).
func (pe *RawPe) Buffer() []byte { return pe.buffer }

// DOSHeader returns the decoded DOS header.
func (pe *RawPe) DOSHeader() ImageDOSHeader { return pe.index.dos }

// NtHeaders returns the decoded NT headers (file header + PE32 optional
// header).
func (pe *RawPe) NtHeaders() ImageNtHeaders32 { return pe.index.nt }

// Sections returns the indexed section header table, truncated to the
// Options.MaxSections bound applied at Attach/Copy/ToImage time.
func (pe *RawPe) Sections() []ImageSectionHeader { return pe.index.sections }

// SectionDataOffset returns the buffer offset of section i's data: the
// file-aligned raw data offset for a file-aligned RawPe, or the
// image-aligned virtual offset for one produced by ToImage.
func (pe *RawPe) SectionDataOffset(i int) uint32 { return pe.index.sectionData[i] }

// IsImageAligned reports whether section data offsets are virtual
// addresses (true, as produced by ToImage) or raw file offsets (false,
// as produced by Attach/Copy).
func (pe *RawPe) IsImageAligned() bool { return pe.index.imageAligned }

// sizeOfPeHeaders is SIZEOF_PE_HEADERS32: the header region's length,
// covering DOS header, DOS stub, NT headers and the (possibly truncated)
// section header array.
func (idx *peIndex) sizeOfPeHeaders() uint32 {
	return idx.sectionHeaderOffset + uint32(len(idx.sections))*SizeOfSectionHeader
}

// parse validates signatures and indexes the section table, following
// PlAttachFile: DOS header at offset 0, DOS stub immediately after it,
// NT headers at e_lfanew, section headers immediately after the optional
// header, section data located by PointerToRawData (file alignment).
func (idx *peIndex) parse(buf []byte, mode AcceptanceMode, maxSections uint16, helper *log.Helper) error {
	if uint32(len(buf)) < SizeOfDOSHeader {
		return badPE(ErrBufferTooSmall)
	}
	if err := readStruct(buf, 0, SizeOfDOSHeader, &idx.dos); err != nil {
		return badPE(err)
	}

	if mode == ModeStrict && idx.dos.Magic != ImageDOSSignature {
		return badPE(ErrDOSMagicNotFound)
	}

	if idx.dos.AddressOfNewEXEHeader < SizeOfDOSHeader ||
		uint64(idx.dos.AddressOfNewEXEHeader)+uint64(SizeOfNtHeaders32) > uint64(len(buf)) {
		return badPE(ErrInvalidElfanewValue)
	}

	idx.dosStub = SizeOfDOSHeader
	idx.dosStubSz = idx.dos.AddressOfNewEXEHeader - SizeOfDOSHeader

	idx.ntOffset = idx.dos.AddressOfNewEXEHeader
	if err := readStruct(buf, idx.ntOffset, SizeOfNtHeaders32, &idx.nt); err != nil {
		return badPE(err)
	}

	// Strict mode already rejected a bad DOS magic above. Both modes
	// require a valid NT signature and PE32 optional-header magic, so
	// permissive mode defers validation to the NT headers rather than
	// skipping it.
	if idx.nt.Signature != ImageNTSignature {
		return badPE(ErrNtSignatureNotFound)
	}
	if idx.nt.OptionalHeader.Magic != ImageNtOptionalHeader32Magic {
		return badPE(ErrOptionalHeaderMagic)
	}

	idx.sectionHeaderOffset = idx.ntOffset + 4 + SizeOfFileHeader +
		uint32(idx.nt.FileHeader.SizeOfOptionalHeader)

	numSections := idx.nt.FileHeader.NumberOfSections
	if numSections == 0 {
		idx.sections = nil
		idx.sectionData = nil
		helper.Debugf("PE at has 0 sections")
		return nil
	}

	n := numSections
	if n > maxSections {
		helper.Warnf("too many sections to load, only loading %d of %d sections", maxSections, n)
		n = maxSections
	}

	idx.sections = make([]ImageSectionHeader, n)
	idx.sectionData = make([]uint32, n)
	for i := uint16(0); i < n; i++ {
		off := idx.sectionHeaderOffset + uint32(i)*SizeOfSectionHeader
		if err := readStruct(buf, off, SizeOfSectionHeader, &idx.sections[i]); err != nil {
			return badPE(err)
		}
		idx.sectionData[i] = idx.sections[i].PointerToRawData
	}
	return nil
}
