package pe

// Copy produces a new, owned, file-aligned RawPe: headers plus each
// section's SizeOfRawData bytes, laid out exactly as in the source
// buffer. It is the Go rendering of PlCopyFile/PlCopyFileEx — a
// structural clone, not a transform, since file alignment is already
// the source's native layout.
func Copy(src *RawPe, opts *Options) (*RawPe, error) {
	size := src.MaxPa()
	alloc := opts.allocator()
	buf, err := alloc.AllocPages(size)
	if err != nil {
		return nil, err
	}
	if uint32(len(buf)) < size {
		return nil, transient(ErrDestinationTooSmall)
	}
	copy(buf, src.buffer[:size])

	dst := &RawPe{buffer: buf, opts: opts, helper: opts.helper()}
	if err := dst.index.parse(buf, opts.mode(), opts.maxSections(), dst.helper); err != nil {
		_ = alloc.FreePages(buf)
		return nil, err
	}
	return dst, nil
}

// ToImage produces a new, owned, image-aligned RawPe: headers plus each
// section placed at its VirtualAddress and sized to its (section-
// aligned) VirtualSize, the layout the Windows loader maps into a
// process. This is the Go rendering of PlFileToImage/PlFileToImageEx.
//
// Unlike Copy, this is a real transform: section i's data moves from
// PointerToRawData in the source buffer to VirtualAddress in the
// destination. The full VirtualSize is copied, not just SizeOfRawData:
// when VirtualSize is larger, the source's raw data straddles into
// whatever follows PointerToRawData+SizeOfRawData in the file buffer.
// Truncating to SizeOfRawData would silently drop that tail — code
// caves authored into the raw image rely on it surviving the
// file-to-image transform intact.
func ToImage(src *RawPe, opts *Options) (*RawPe, error) {
	size := src.MaxRva()
	alloc := opts.allocator()
	buf, err := alloc.AllocPages(size)
	if err != nil {
		return nil, err
	}
	if uint32(len(buf)) < size {
		return nil, transient(ErrDestinationTooSmall)
	}

	h := src.sizeOfHeaders()
	if h > uint32(len(buf)) || h > uint32(len(src.buffer)) {
		_ = alloc.FreePages(buf)
		return nil, badPE(ErrOutsideBoundary)
	}
	copy(buf[:h], src.buffer[:h])

	for _, s := range src.index.sections {
		n := s.VirtualSize
		srcStart := s.PointerToRawData
		srcEnd := srcStart + n
		dstStart := s.VirtualAddress
		dstEnd := dstStart + n
		if dstEnd > uint32(len(buf)) {
			_ = alloc.FreePages(buf)
			return nil, badPE(ErrOutsideBoundary)
		}
		if srcEnd > uint32(len(src.buffer)) {
			srcEnd = uint32(len(src.buffer))
		}
		if srcEnd > srcStart {
			copy(buf[dstStart:dstStart+(srcEnd-srcStart)], src.buffer[srcStart:srcEnd])
		}
	}

	dst := &RawPe{buffer: buf, opts: opts, helper: opts.helper()}
	if err := dst.index.parse(buf, opts.mode(), opts.maxSections(), dst.helper); err != nil {
		_ = alloc.FreePages(buf)
		return nil, err
	}
	dst.index.imageAligned = true
	for i, s := range dst.index.sections {
		dst.index.sectionData[i] = s.VirtualAddress
	}
	return dst, nil
}
