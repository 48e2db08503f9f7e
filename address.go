package pe

// sectionAlignment returns OptionalHeader.SectionAlignment.
func (pe *RawPe) sectionAlignment() uint32 {
	return pe.index.nt.OptionalHeader.SectionAlignment
}

// sizeOfHeaders returns OptionalHeader.SizeOfHeaders.
func (pe *RawPe) sizeOfHeaders() uint32 {
	return pe.index.nt.OptionalHeader.SizeOfHeaders
}

// RvaToPa converts a relative virtual address to a file offset. RVAs at
// or below SizeOfHeaders are identity-mapped, since the header region is
// laid out identically in both alignments; otherwise the containing
// section is found by its virtual span.
func (pe *RawPe) RvaToPa(rva uint32) (uint32, error) {
	h := pe.sizeOfHeaders()
	if rva <= h {
		return rva, nil
	}
	a := pe.sectionAlignment()
	for _, s := range pe.index.sections {
		span := AlignUp(s.SizeOfRawData, a)
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+span {
			return rva - s.VirtualAddress + s.PointerToRawData, nil
		}
	}
	return 0, badPE(ErrRvaOutOfRange)
}

// PaToRva converts a file offset to a relative virtual address. The
// source never wrote the output on a matching section and unconditionally
// returned failure; this is documented as a bug in spec §9 and fixed
// here: a match writes *rva and returns success.
func (pe *RawPe) PaToRva(pa uint32) (uint32, error) {
	h := pe.sizeOfHeaders()
	if pa <= h {
		return pa, nil
	}
	for _, s := range pe.index.sections {
		if pa >= s.PointerToRawData && pa < s.PointerToRawData+s.SizeOfRawData {
			return pa - s.PointerToRawData + s.VirtualAddress, nil
		}
	}
	return 0, badPE(ErrPaOutOfRange)
}

// RvaToOffset resolves an RVA to a buffer offset, the slice-index
// analogue of the source's PlGetRvaPtr32 (which returns a raw pointer).
// Three cases, checked in order:
//  1. rva falls within a section's virtual span — handled uniformly via
//     the precomputed sectionData offsets, regardless of file or image
//     alignment, matching PlGetRvaPtr32's unconditional use of
//     align_up(VirtualSize, SectionAlignment) as the span bound in
//     both layouts.
//  2. rva falls within the header region — resolved piecewise across the
//     DOS header, DOS stub, NT headers and section header array.
//  3. otherwise, ErrRvaOutOfRange.
func (pe *RawPe) RvaToOffset(rva uint32) (uint32, error) {
	h := pe.sizeOfHeaders()
	a := pe.sectionAlignment()

	if rva > h {
		for i, s := range pe.index.sections {
			span := AlignUp(s.VirtualSize, a)
			if rva >= s.VirtualAddress && rva < s.VirtualAddress+span {
				return pe.index.sectionData[i] + (rva - s.VirtualAddress), nil
			}
		}
		return 0, badPE(ErrRvaOutOfRange)
	}

	if rva < pe.index.sizeOfPeHeaders() {
		switch {
		case rva < SizeOfDOSHeader:
			return rva, nil
		case rva < pe.index.dosStub+pe.index.dosStubSz:
			return rva, nil
		case rva < pe.index.ntOffset+SizeOfNtHeaders32:
			return rva, nil
		default:
			for i := range pe.index.sections {
				start := pe.index.sectionHeaderOffset + uint32(i)*SizeOfSectionHeader
				end := start + SizeOfSectionHeader
				if rva >= start && rva < end {
					return rva, nil
				}
			}
		}
	}
	return 0, badPE(ErrRvaOutOfRange)
}

// PaToOffset resolves a file offset to a buffer offset via PaToRva then
// RvaToOffset, mirroring PlGetPaPtr32.
func (pe *RawPe) PaToOffset(pa uint32) (uint32, error) {
	rva, err := pe.PaToRva(pa)
	if err != nil {
		return 0, err
	}
	return pe.RvaToOffset(rva)
}

// ReadRva copies len(out) bytes starting at rva into out.
func (pe *RawPe) ReadRva(rva uint32, out []byte) error {
	off, err := pe.RvaToOffset(rva)
	if err != nil {
		return err
	}
	if uint64(off)+uint64(len(out)) > uint64(len(pe.buffer)) {
		return badPE(ErrOutsideBoundary)
	}
	copy(out, pe.buffer[off:off+uint32(len(out))])
	return nil
}

// WriteRva copies data into the buffer at rva. Source and destination
// may overlap; copy (unlike append) tolerates that safely.
func (pe *RawPe) WriteRva(rva uint32, data []byte) error {
	off, err := pe.RvaToOffset(rva)
	if err != nil {
		return err
	}
	if uint64(off)+uint64(len(data)) > uint64(len(pe.buffer)) {
		return badPE(ErrOutsideBoundary)
	}
	copy(pe.buffer[off:off+uint32(len(data))], data)
	return nil
}

// ReadPa copies len(out) bytes starting at file offset pa into out.
func (pe *RawPe) ReadPa(pa uint32, out []byte) error {
	rva, err := pe.PaToRva(pa)
	if err != nil {
		return err
	}
	return pe.ReadRva(rva, out)
}

// WritePa copies data into the buffer at file offset pa.
func (pe *RawPe) WritePa(pa uint32, data []byte) error {
	rva, err := pe.PaToRva(pa)
	if err != nil {
		return err
	}
	return pe.WriteRva(rva, data)
}

// MaxPa is the smallest file-aligned size that contains every section's
// raw data and the headers: max(SizeOfHeaders, max_i(PointerToRawData[i]
// + SizeOfRawData[i])).
func (pe *RawPe) MaxPa() uint32 {
	max := pe.sizeOfHeaders()
	for _, s := range pe.index.sections {
		if v := s.PointerToRawData + s.SizeOfRawData; v > max {
			max = v
		}
	}
	return max
}

// MaxRva is the smallest image-aligned size that contains every
// section's virtual span and the headers: max(SizeOfHeaders,
// max_i(VirtualAddress[i] + align_up(VirtualSize[i], SectionAlignment))).
func (pe *RawPe) MaxRva() uint32 {
	max := pe.sizeOfHeaders()
	a := pe.sectionAlignment()
	for _, s := range pe.index.sections {
		if v := s.VirtualAddress + AlignUp(s.VirtualSize, a); v > max {
			max = v
		}
	}
	return max
}
