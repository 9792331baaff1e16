package opc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// Function variables for testing injection.
var (
	readAll = io.ReadAll
	zipOpen = func(zf *zip.File) (io.ReadCloser, error) { return zf.Open() }
)

// Decode reads an OPC zip archive from r and rebuilds the in-memory model:
// every entry becomes a part keyed by its path re-prefixed with "/",
// [Content_Types].xml becomes the registry, each .rels entry is attached to
// the package root or to the part it is a sibling of, and the content-hash
// index is rebuilt over all binary parts so OrAddImagePart and OrAddMediaPart
// dedup against pre-existing media.
//
// Loading is permissive where it safely can be: a .rels entry that fails to
// parse degrades to an empty collection (see WithStrictRels), entries with
// names that cannot be part names are skipped, and duplicate relationship ids
// are renumbered. A missing or unparsable [Content_Types].xml is fatal.
//
// Decode returns ErrZipCorrupt if r is not a zip archive or an entry cannot
// be inflated, and ErrLimitExceeded when the archive exceeds the configured
// [Limits].
func Decode(r io.Reader, opts ...ReadOption) (*Package, error) {
	cfg := readConfig{limits: defaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	raw, err := readAll(r)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrZipCorrupt, err)
	}

	pkg := empty()
	pkg.limits = cfg.limits
	pkg.types = nil

	var total uint64
	relsPayloads := make(map[PartName][]byte)
	var rootRelsPayload []byte
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		if zf.UncompressedSize64 > cfg.limits.MaxPartSize {
			return nil, fmt.Errorf("%w: entry %s is %d bytes", ErrLimitExceeded, zf.Name, zf.UncompressedSize64)
		}
		total += zf.UncompressedSize64
		if total > cfg.limits.MaxPackageSize {
			return nil, fmt.Errorf("%w: package exceeds %d bytes", ErrLimitExceeded, cfg.limits.MaxPackageSize)
		}
		b, err := readEntry(zf)
		if err != nil {
			if zf.Name == contentTypesEntry {
				return nil, err
			}
			// One damaged entry does not abort the load. The part or rels
			// file degrades to empty and the rest of the package stays
			// openable and repairable.
			b = nil
		}
		switch {
		case zf.Name == contentTypesEntry:
			types, err := parseContentTypes(b)
			if err != nil {
				return nil, err
			}
			pkg.types = types
		case zf.Name == "_rels/.rels":
			rootRelsPayload = b
		default:
			if owner, ok := relsOwner(zf.Name); ok {
				relsPayloads[owner] = b
				continue
			}
			name, err := NewPartName("/" + zf.Name)
			if err != nil {
				continue
			}
			if len(pkg.order) >= cfg.limits.MaxParts {
				return nil, fmt.Errorf("%w: more than %d parts", ErrLimitExceeded, cfg.limits.MaxParts)
			}
			pkg.insert(&Part{Name: name, Blob: b, Rels: NewRelationships()})
		}
	}
	if pkg.types == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidXML, contentTypesEntry)
	}

	for _, name := range pkg.order {
		if ct, err := pkg.types.Resolve(name); err == nil {
			pkg.parts[name].ContentType = ct
		}
		// An unresolved content type is left empty here and surfaces as a
		// fatal error on the next Encode, not at load time.
	}

	pkg.rels, err = parseRelsPayload(rootRelsPayload, cfg.strictRels)
	if err != nil {
		return nil, err
	}
	for owner, b := range relsPayloads {
		part, ok := pkg.parts[owner]
		if !ok {
			// Relationships for a part the archive does not contain. Nothing
			// to attach them to; the entry is dropped.
			continue
		}
		part.Rels, err = parseRelsPayload(b, cfg.strictRels)
		if err != nil {
			return nil, err
		}
	}

	pkg.rebuildHashIndex()
	return pkg, nil
}

// parseRelsPayload parses a .rels payload, degrading to an empty collection
// on malformed XML unless strict is set. The permissive default mirrors how
// third-party packages with one damaged auxiliary file can still be opened
// and repaired.
func parseRelsPayload(b []byte, strict bool) (*RelationshipCollection, error) {
	if len(b) == 0 {
		return NewRelationships(), nil
	}
	c, err := ParseRelationships(b)
	if err != nil {
		if strict {
			return nil, err
		}
		return NewRelationships(), nil
	}
	return c, nil
}

func readEntry(zf *zip.File) ([]byte, error) {
	rc, err := zipOpen(zf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrZipCorrupt, zf.Name, err)
	}
	defer rc.Close()
	b, err := readAll(io.LimitReader(rc, int64(zf.UncompressedSize64)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrZipCorrupt, zf.Name, err)
	}
	if uint64(len(b)) != zf.UncompressedSize64 {
		return nil, fmt.Errorf("%w: %s: size mismatch", ErrZipCorrupt, zf.Name)
	}
	return b, nil
}
