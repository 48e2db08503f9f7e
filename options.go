package pe

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// AcceptanceMode controls how strictly Attach validates the DOS/NT
// signatures. It replaces the source's ACCEPT_INVALID_SIGNATURES
// compile-time switch with a runtime choice, per the redesign guidance:
// a library should not need a recompile to change an acceptance policy.
type AcceptanceMode int

const (
	// ModeStrict rejects a buffer whose DOS header magic is not "MZ"
	// before even looking at the NT headers.
	ModeStrict AcceptanceMode = iota

	// ModePermissive defers signature validation to the NT header: a
	// bad DOS magic is tolerated as long as e_lfanew still resolves to
	// a valid "PE\0\0" signature and optional header magic.
	ModePermissive
)

// Options configures Attach and the allocating Copy/ToImage entry points.
type Options struct {
	// Mode selects the signature-acceptance policy. Zero value is
	// ModeStrict.
	Mode AcceptanceMode

	// MaxSections bounds how many sections Attach will index. Zero
	// means DefaultMaxSections.
	MaxSections uint16

	// Allocator backs the owned buffers produced by Copy/ToImage. Nil
	// means DefaultAllocator.
	Allocator Allocator

	// Logger receives diagnostics for tolerated anomalies (section
	// truncation, zero sections, checksum trace). Nil means a
	// stderr-backed logger filtered to LevelError.
	Logger log.Logger
}

func (o *Options) maxSections() uint16 {
	if o == nil || o.MaxSections == 0 {
		return DefaultMaxSections
	}
	return o.MaxSections
}

func (o *Options) mode() AcceptanceMode {
	if o == nil {
		return ModeStrict
	}
	return o.Mode
}

func (o *Options) allocator() Allocator {
	if o == nil || o.Allocator == nil {
		return DefaultAllocator
	}
	return o.Allocator
}

func (o *Options) helper() *log.Helper {
	var logger log.Logger
	if o != nil && o.Logger != nil {
		logger = o.Logger
	} else {
		logger = log.NewStdLogger(os.Stderr)
		logger = log.NewFilter(logger, log.FilterLevel(log.LevelError))
	}
	return log.NewHelper(logger)
}
