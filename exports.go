package pe

// ImageExportDirectory is IMAGE_EXPORT_DIRECTORY: the header of the
// export table, giving the three parallel arrays (names, ordinals,
// function RVAs) that EnumerateExports walks.
type ImageExportDirectory struct {
	Characteristics       uint32
	TimeDateStamp         uint32
	MajorVersion          uint16
	MinorVersion          uint16
	Name                  uint32
	Base                  uint32
	NumberOfFunctions     uint32
	NumberOfNames         uint32
	AddressOfFunctions    uint32
	AddressOfNames        uint32
	AddressOfNameOrdinals uint32
}

var SizeOfExportDirectory = uint32(40)

// ExportEntry is one name/ordinal/function-RVA triple walked out of the
// export table. FunctionSlotOffset is the buffer offset of the uint32
// slot in AddressOfFunctions holding the exported RVA, the export-table
// analogue of ImportItem.SlotOffset.
type ExportEntry struct {
	Name               string
	Ordinal            uint32
	FunctionSlotOffset uint32
}

// EnumerateExports walks the export directory, following
// PlEnumerateExports32. A directory with zero size and zero RVA is not
// an error — it yields an empty list.
//
// The loop bound is max(NumberOfFunctions, NumberOfNames), copied
// verbatim from the source with a one-line comment there calling it
// "wierd". When NumberOfFunctions exceeds NumberOfNames this walks past
// the end of the AddressOfNames/AddressOfNameOrdinals arrays; the
// documented fix (bounding the name/ordinal reads separately at
// NumberOfNames) is intentionally not applied here, matching spec's
// decision to preserve that source behavior rather than silently
// correct it. Out-of-range reads surface as errors rather than
// out-of-bounds memory access, since every access still goes through
// RvaToOffset's bounds check.
func (pe *RawPe) EnumerateExports() ([]ExportEntry, error) {
	dir := pe.index.nt.OptionalHeader.DataDirectory[ImageDirectoryEntryExport]
	if dir.Size == 0 && dir.VirtualAddress == 0 {
		pe.exports = nil
		pe.status.ExportsEnumerated = true
		return nil, nil
	}

	edOff, err := pe.RvaToOffset(dir.VirtualAddress)
	if err != nil {
		return nil, err
	}
	var ed ImageExportDirectory
	if err := readStruct(pe.buffer, edOff, SizeOfExportDirectory, &ed); err != nil {
		return nil, badPE(err)
	}

	count := ed.NumberOfFunctions
	if ed.NumberOfNames > count {
		count = ed.NumberOfNames
	}

	entries := make([]ExportEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var entry ExportEntry

		nameSlotRva := ed.AddressOfNames + 4*i
		nameSlotOff, err := pe.RvaToOffset(nameSlotRva)
		if err != nil {
			return nil, err
		}
		nameRva, err := readUint32(pe.buffer, nameSlotOff)
		if err != nil {
			return nil, err
		}
		nameOff, err := pe.RvaToOffset(nameRva)
		if err != nil {
			return nil, err
		}
		name, err := cString(pe.buffer, nameOff)
		if err != nil {
			return nil, err
		}
		entry.Name = name

		ordSlotRva := ed.AddressOfNameOrdinals + 2*i
		ordSlotOff, err := pe.RvaToOffset(ordSlotRva)
		if err != nil {
			return nil, err
		}
		ordinal, err := readUint16(pe.buffer, ordSlotOff)
		if err != nil {
			return nil, err
		}
		entry.Ordinal = uint32(ordinal)

		funcSlotRva := ed.AddressOfFunctions + 4*i
		funcSlotOff, err := pe.RvaToOffset(funcSlotRva)
		if err != nil {
			return nil, err
		}
		entry.FunctionSlotOffset = funcSlotOff

		entries = append(entries, entry)
	}

	pe.exports = entries
	pe.status.ExportsEnumerated = true
	return entries, nil
}

// FreeEnumeratedExports discards the export list built by
// EnumerateExports, mirroring FreeEnumeratedImports.
func (pe *RawPe) FreeEnumeratedExports() error {
	if !pe.status.ExportsEnumerated {
		return badPE(nil)
	}
	pe.exports = nil
	pe.status.ExportsEnumerated = false
	return nil
}

// Exports returns the export list built by the most recent
// EnumerateExports call, or nil if none has run yet.
func (pe *RawPe) Exports() []ExportEntry { return pe.exports }
