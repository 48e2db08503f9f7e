package pe

import "time"

// Diagnostic strings reported by Diagnose. These do not prevent the
// Windows loader from accepting a file; they flag shapes that are
// unusual enough to be worth a second look.
var (
	AnoPETimeStampNull   = "File Header timestamp set to 0"
	AnoPETimeStampFuture = "File Header timestamp set in the future"

	AnoNumberOfSections10Plus = "Number of sections is 10+"
	AnoNumberOfSectionsNull   = "Number of sections is 0"

	AnoSizeOfOptionalHeaderNull       = "Size of optional header is 0"
	AnoUncommonSizeOfOptionalHeader32 = "Size of optional header is larger than 0xE0 (PE32)"

	AnoAddressOfEntryPointNull      = "Address of entry point is 0"
	AnoAddressOfEPLessSizeOfHeaders = "Address of entry point is smaller than size of headers"

	AnoImageBaseNull = "Image base is 0"

	AnoMajorSubsystemVersion = "MajorSubsystemVersion is outside 3<-->6 boundary"
	AnonWin32VersionValue    = "Win32VersionValue is a reserved field, must be set to zero"

	AnoInvalidPEChecksum   = "Optional header checksum does not match the computed checksum"
	AnoNumberOfRvaAndSizes = "Optional header NumberOfRvaAndSizes != 16"

	AnoReservedDataDirectoryEntry = "Last data directory entry is a reserved field, must be set to zero"
)

// Diagnose reports shape anomalies in the attached PE: none of these are
// fatal to Attach, but each is a signal worth surfacing to a caller
// doing malware or corruption triage. It requires a successful Attach.
func (pe *RawPe) Diagnose() []string {
	var anomalies []string
	nt := pe.index.nt
	oh := nt.OptionalHeader

	if nt.FileHeader.NumberOfSections >= 10 {
		anomalies = append(anomalies, AnoNumberOfSections10Plus)
	}
	if nt.FileHeader.NumberOfSections == 0 {
		anomalies = append(anomalies, AnoNumberOfSectionsNull)
	}

	if nt.FileHeader.TimeDateStamp == 0 {
		anomalies = append(anomalies, AnoPETimeStampNull)
	} else {
		future := uint32(time.Now().Add(24 * time.Hour).Unix())
		if nt.FileHeader.TimeDateStamp > future {
			anomalies = append(anomalies, AnoPETimeStampFuture)
		}
	}

	if nt.FileHeader.SizeOfOptionalHeader == 0 {
		anomalies = append(anomalies, AnoSizeOfOptionalHeaderNull)
	}
	if uint32(nt.FileHeader.SizeOfOptionalHeader) > SizeOfNtHeaders32-4-SizeOfFileHeader {
		anomalies = append(anomalies, AnoUncommonSizeOfOptionalHeader32)
	}

	if oh.AddressOfEntryPoint == 0 {
		anomalies = append(anomalies, AnoAddressOfEntryPointNull)
	} else if oh.AddressOfEntryPoint < oh.SizeOfHeaders {
		anomalies = append(anomalies, AnoAddressOfEPLessSizeOfHeaders)
	}

	if oh.ImageBase == 0 {
		anomalies = append(anomalies, AnoImageBaseNull)
	}

	if oh.MajorSubsystemVersion < 3 || oh.MajorSubsystemVersion > 6 {
		anomalies = append(anomalies, AnoMajorSubsystemVersion)
	}

	if oh.Win32VersionValue != 0 {
		anomalies = append(anomalies, AnonWin32VersionValue)
	}

	if oh.NumberOfRvaAndSizes != 16 {
		anomalies = append(anomalies, AnoNumberOfRvaAndSizes)
	} else if oh.DataDirectory[15].VirtualAddress != 0 || oh.DataDirectory[15].Size != 0 {
		anomalies = append(anomalies, AnoReservedDataDirectoryEntry)
	}

	if !pe.index.imageAligned && oh.CheckSum != 0 {
		if sum, err := pe.Checksum(); err == nil && sum != oh.CheckSum {
			anomalies = append(anomalies, AnoInvalidPEChecksum)
		}
	}

	return anomalies
}
