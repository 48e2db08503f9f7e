package pe

// Fuzz drives the full attach/walk/checksum pipeline over untrusted
// input, the go-fuzz entry point convention: return 1 when the corpus
// entry produced interesting (successfully parsed) input, 0 otherwise.
func Fuzz(data []byte) int {
	buf := make([]byte, len(data))
	copy(buf, data)

	p, err := Attach(buf, &Options{Mode: ModePermissive})
	if err != nil {
		return 0
	}

	if _, err := p.EnumerateImports(); err != nil {
		return 0
	}
	if _, err := p.EnumerateExports(); err != nil {
		return 0
	}
	if _, err := p.Checksum(); err != nil {
		return 0
	}
	_ = p.Diagnose()

	return 1
}
