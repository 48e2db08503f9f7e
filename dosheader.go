package pe

import "encoding/binary"

// ImageDOSHeader is the 64-byte MS-DOS stub header every PE begins with.
// Only Magic, SizeOfHeaderInParagraphs (e_cparhdr, read by Checksum) and
// AddressOfNewEXEHeader (e_lfanew) are load-bearing for this engine; the
// remaining fields are kept so the struct's on-disk size matches
// DOS_HEADER exactly.
type ImageDOSHeader struct {
	Magic                    uint16 // e_magic
	BytesOnLastPageOfFile    uint16 // e_cblp
	PagesInFile              uint16 // e_cp
	Relocations              uint16 // e_crlc
	SizeOfHeaderInParagraphs uint16 // e_cparhdr
	MinExtraParagraphsNeeded uint16 // e_minalloc
	MaxExtraParagraphsNeeded uint16 // e_maxalloc
	InitialSS                uint16 // e_ss
	InitialSP                uint16 // e_sp
	Checksum                 uint16 // e_csum
	InitialIP                uint16 // e_ip
	InitialCS                uint16 // e_cs
	AddressOfRelocationTable uint16 // e_lfarlc
	OverlayNumber            uint16 // e_ovno
	ReservedWords1           [4]uint16
	OEMIdentifier            uint16 // e_oemid
	OEMInformation           uint16 // e_oeminfo
	ReservedWords2           [10]uint16
	AddressOfNewEXEHeader    uint32 // e_lfanew
}

// SizeOfDOSHeader is the fixed on-disk size of ImageDOSHeader.
var SizeOfDOSHeader = uint32(binary.Size(ImageDOSHeader{}))
