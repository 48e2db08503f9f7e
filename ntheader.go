package pe

import "encoding/binary"

// ImageFileHeader is IMAGE_FILE_HEADER: the COFF header carrying the
// section count and the size of the optional header that follows it.
type ImageFileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

// SizeOfFileHeader is the fixed on-disk size of ImageFileHeader.
var SizeOfFileHeader = uint32(binary.Size(ImageFileHeader{}))

// DataDirectory is one (VirtualAddress, Size) pair from the optional
// header's 16-entry data directory array.
type DataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

// ImageOptionalHeader32 is IMAGE_OPTIONAL_HEADER for PE32 (32-bit) images.
// This engine only implements the PE32 pipeline; PE32+ (64-bit) is
// isomorphic with widened pointer/header fields and out of scope.
type ImageOptionalHeader32 struct {
	Magic                       uint16
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	BaseOfData                  uint32
	ImageBase                   uint32
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders               uint32
	CheckSum                    uint32
	Subsystem                   uint16
	DllCharacteristics          uint16
	SizeOfStackReserve          uint32
	SizeOfStackCommit           uint32
	SizeOfHeapReserve           uint32
	SizeOfHeapCommit            uint32
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
	DataDirectory               [16]DataDirectory
}

// ImageNtHeaders32 is IMAGE_NT_HEADERS for PE32: signature, COFF file
// header, and the PE32 optional header, in that order with no padding.
type ImageNtHeaders32 struct {
	Signature      uint32
	FileHeader     ImageFileHeader
	OptionalHeader ImageOptionalHeader32
}

// SizeOfNtHeaders32 is the fixed on-disk size of ImageNtHeaders32.
var SizeOfNtHeaders32 = uint32(binary.Size(ImageNtHeaders32{}))
