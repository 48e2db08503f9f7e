package pe

// VirtualModule pairs a RawPe with the base address it is (or would be)
// mapped at, letting RvaToVa/PaToVa answer in absolute address terms
// without the RawPe itself needing to know where it will end up loaded.
// This is the Go analogue of VIRTUAL_MODULE32: a thin wrapper, not a
// loader — it performs no mapping of its own.
type VirtualModule struct {
	PE     *RawPe
	BaseVa uint32
}

// NewVirtualModule wraps pe with the given base virtual address.
func NewVirtualModule(pe *RawPe, baseVa uint32) *VirtualModule {
	return &VirtualModule{PE: pe, BaseVa: baseVa}
}

// RvaToVa converts an RVA to an absolute virtual address: BaseVa + rva.
// Unlike RvaToPa, this performs no bounds checking against the module's
// sections — an RVA is valid anywhere in the addressable range once a
// base is chosen.
func (vm *VirtualModule) RvaToVa(rva uint32) uint32 {
	return vm.BaseVa + rva
}

// PaToVa converts a file offset to an absolute virtual address via
// PaToRva then RvaToVa.
func (vm *VirtualModule) PaToVa(pa uint32) (uint32, error) {
	rva, err := vm.PE.PaToRva(pa)
	if err != nil {
		return 0, err
	}
	return vm.RvaToVa(rva), nil
}
