package opc

// Limits bounds what Decode will inflate and what OrAddImagePart and
// OrAddMediaPart will accept. A zero field means the corresponding default.
type Limits struct {
	MaxParts       int    // entries in a loaded archive
	MaxPartSize    uint64 // uncompressed bytes for a single entry
	MaxPackageSize uint64 // uncompressed bytes summed over all entries
	MaxMediaSize   uint64 // single payload passed to OrAddImagePart / OrAddMediaPart
}

func defaultLimits() Limits {
	return Limits{
		MaxParts:       10_000,
		MaxPartSize:    512 << 20, // 512 MiB
		MaxPackageSize: 2 << 30,   // 2 GiB
		MaxMediaSize:   512 << 20,
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxParts == 0 {
		l.MaxParts = d.MaxParts
	}
	if l.MaxPartSize == 0 {
		l.MaxPartSize = d.MaxPartSize
	}
	if l.MaxPackageSize == 0 {
		l.MaxPackageSize = d.MaxPackageSize
	}
	if l.MaxMediaSize == 0 {
		l.MaxMediaSize = d.MaxMediaSize
	}
	return l
}
