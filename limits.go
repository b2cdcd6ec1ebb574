package retropak

// Limits bounds allocations made while decoding untrusted archives. Counts
// and sizes declared in an archive header are checked against these caps
// before any dependent allocation happens.
type Limits struct {
	MaxArchiveSize  uint64 // total bytes Decode will read from an io.Reader
	MaxNamedEntries uint32
	MaxResources    uint32
	MaxResourceSize uint32 // unpadded size of a single resource payload

	// String-table caps, enforced by DecodeSTRG.
	MaxNameLength         uint32 // longest alias or name-table name, in bytes
	MaxLanguages          uint32
	MaxStringsPerLanguage uint32
}

// DefaultLimits returns the limits used when none are supplied. Archives in
// this format hold tens to low thousands of resources; the caps are far
// above that while still rejecting hostile headers.
func DefaultLimits() Limits {
	return Limits{
		MaxArchiveSize:  1 << 30, // 1 GiB
		MaxNamedEntries: 10_000,
		MaxResources:    100_000,
		MaxResourceSize: 256 << 20, // 256 MiB

		MaxNameLength:         4096,
		MaxLanguages:          256,
		MaxStringsPerLanguage: 65_536,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxArchiveSize == 0 {
		l.MaxArchiveSize = d.MaxArchiveSize
	}
	if l.MaxNamedEntries == 0 {
		l.MaxNamedEntries = d.MaxNamedEntries
	}
	if l.MaxResources == 0 {
		l.MaxResources = d.MaxResources
	}
	if l.MaxResourceSize == 0 {
		l.MaxResourceSize = d.MaxResourceSize
	}
	if l.MaxNameLength == 0 {
		l.MaxNameLength = d.MaxNameLength
	}
	if l.MaxLanguages == 0 {
		l.MaxLanguages = d.MaxLanguages
	}
	if l.MaxStringsPerLanguage == 0 {
		l.MaxStringsPerLanguage = d.MaxStringsPerLanguage
	}
	return l
}
