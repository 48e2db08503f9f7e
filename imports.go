package pe

const imageOrdinalFlag32 = uint32(0x80000000)

// ImportItem is one resolved entry of a library's import thunk table: a
// name import carries Name, an ordinal import carries Ordinal instead,
// never both. SlotOffset is the buffer offset of the thunk slot itself
// (not its contents), the position a loader or patcher would overwrite
// with a resolved function address.
type ImportItem struct {
	Name       string
	Ordinal    uint16
	IsOrdinal  bool
	SlotOffset uint32
}

// ImportLibrary is one DLL referenced by the import directory, together
// with every thunk slot bound to it through its first-thunk (IAT) array.
type ImportLibrary struct {
	Name  string
	Items []ImportItem
}

// EnumerateImports walks the import directory, following
// PlEnumerateImports32: an array of ImageImportDescriptor records
// terminated by one with zero Characteristics, each naming a library and
// a FirstThunk array terminated by a zero thunk. A directory with zero
// size and zero RVA is not an error — it yields an empty list.
func (pe *RawPe) EnumerateImports() ([]ImportLibrary, error) {
	dir := pe.index.nt.OptionalHeader.DataDirectory[ImageDirectoryEntryImport]
	if dir.Size == 0 && dir.VirtualAddress == 0 {
		pe.imports = nil
		pe.status.ImportsEnumerated = true
		return nil, nil
	}

	var libs []ImportLibrary
	descRva := dir.VirtualAddress
	const descSize = 20 // sizeof(ImageImportDescriptor): 5 uint32 fields

	for {
		off, err := pe.RvaToOffset(descRva)
		if err != nil {
			return nil, err
		}
		characteristics, err := readUint32(pe.buffer, off)
		if err != nil {
			return nil, err
		}
		if characteristics == 0 {
			break
		}
		nameRva, err := readUint32(pe.buffer, off+12)
		if err != nil {
			return nil, err
		}
		firstThunkRva, err := readUint32(pe.buffer, off+16)
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

		lib := ImportLibrary{Name: name}

		thunkRva := firstThunkRva
		for {
			thunkOff, err := pe.RvaToOffset(thunkRva)
			if err != nil {
				return nil, err
			}
			raw, err := readUint32(pe.buffer, thunkOff)
			if err != nil {
				return nil, err
			}
			if raw == 0 {
				break
			}

			item := ImportItem{SlotOffset: thunkOff}
			if raw&imageOrdinalFlag32 != 0 {
				item.IsOrdinal = true
				item.Ordinal = uint16(raw & 0xffff)
			} else {
				inOff, err := pe.RvaToOffset(raw)
				if err != nil {
					return nil, err
				}
				// IMPORT_NAME is a uint16 Hint followed by the NUL-terminated
				// name string.
				nm, err := cString(pe.buffer, inOff+2)
				if err != nil {
					return nil, err
				}
				item.Name = nm
			}
			lib.Items = append(lib.Items, item)
			thunkRva += 4
		}

		libs = append(libs, lib)
		descRva += descSize
	}

	pe.imports = libs
	pe.status.ImportsEnumerated = true
	return libs, nil
}

// FreeEnumeratedImports discards the import list built by
// EnumerateImports. Go's garbage collector reclaims the underlying
// slices; this only resets the cached state and flag, mirroring the
// source's pImport-release/reset pair for API symmetry.
func (pe *RawPe) FreeEnumeratedImports() error {
	if !pe.status.ImportsEnumerated {
		return badPE(nil)
	}
	pe.imports = nil
	pe.status.ImportsEnumerated = false
	return nil
}

// Imports returns the import list built by the most recent
// EnumerateImports call, or nil if none has run yet.
func (pe *RawPe) Imports() []ImportLibrary { return pe.imports }
