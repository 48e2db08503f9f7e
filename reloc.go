package pe

// Relocation entry type codes, the Type field packed into the high
// nibble of each RELOC_ITEM. Only HighLow is acted on; everything else
// (including Absolute, used for block padding) is a no-op.
const (
	ImageRelBasedAbsolute = 0
	ImageRelBasedHigh     = 1
	ImageRelBasedLow      = 2
	ImageRelBasedHighLow  = 3
)

// sizeOfBaseRelocation is sizeof(IMAGE_BASE_RELOCATION): VirtualAddress
// uint32 + SizeOfBlock uint32.
const sizeOfBaseRelocation = 8

// Relocate applies the base relocation table, following PlRelocate32:
// for each HIGHLOW entry, adds delta = newBase - oldBase to the 32-bit
// value at the entry's target address. A zero delta, or a missing/empty
// relocation directory, is not an error — it is simply a no-op.
//
// Every other entry type, including Absolute, falls through to a no-op
// in keeping with the switch having no effect beyond HighLow. The
// source's HIGHLOW case physically falls through into the ABSOLUTE case
// in C, but that fallthrough does nothing (ABSOLUTE is itself a no-op),
// so it is rendered here as an ordinary case with its own break — same
// observable behavior, no fallthrough needed.
func (pe *RawPe) Relocate(oldBase, newBase uint32) error {
	delta := newBase - oldBase
	dir := pe.index.nt.OptionalHeader.DataDirectory[ImageDirectoryEntryBaseReloc]
	if delta == 0 || dir.Size == 0 || dir.VirtualAddress == 0 {
		return nil
	}

	blockRva := dir.VirtualAddress
	end := dir.VirtualAddress + dir.Size

	for blockRva < end {
		blockOff, err := pe.RvaToOffset(blockRva)
		if err != nil {
			return err
		}
		blockVa, err := readUint32(pe.buffer, blockOff)
		if err != nil {
			return err
		}
		sizeOfBlock, err := readUint32(pe.buffer, blockOff+4)
		if err != nil {
			return err
		}
		if sizeOfBlock < sizeOfBaseRelocation {
			return badPE(ErrInvalidBasicRelocSizeOfBloc)
		}

		itemCount := (sizeOfBlock - sizeOfBaseRelocation) / 2
		for i := uint32(0); i < itemCount; i++ {
			itemOff := blockOff + sizeOfBaseRelocation + i*2
			raw, err := readUint16(pe.buffer, itemOff)
			if err != nil {
				return err
			}
			entryType := raw >> 12
			offset := uint32(raw & 0x0fff)

			switch entryType {
			case ImageRelBasedHighLow:
				targetRva := blockVa + offset
				targetOff, err := pe.RvaToOffset(targetRva)
				if err != nil {
					return err
				}
				val, err := readUint32(pe.buffer, targetOff)
				if err != nil {
					return err
				}
				if err := writeUint32(pe.buffer, targetOff, val+delta); err != nil {
					return err
				}
			case ImageRelBasedAbsolute:
				// padding entry, nothing to do
			default:
				// other machine-specific relocation types are not acted on
			}
		}

		blockRva += sizeOfBlock
	}

	pe.status.Relocated = true
	return nil
}
