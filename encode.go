package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/flate"
)

// Function variables for testing injection.
var (
	zipCreateHeader = func(zw *zip.Writer, h *zip.FileHeader) (io.Writer, error) { return zw.CreateHeader(h) }
	zipFinish       = func(zw *zip.Writer) error { return zw.Close() }
)

// Encode writes pkg to w as an OPC zip archive.
//
// Entry order is fixed: [Content_Types].xml, then _rels/.rels, then every
// part in insertion order, each followed by its sibling .rels entry when the
// part has relationships. With default options the output is deterministic:
// entries carry zero timestamps and the deflate stream is produced by a fixed
// encoder, so encoding the same unmodified package twice yields identical
// bytes.
//
// Every part's content type is resolved against the registry before any byte
// is written; an unresolvable part fails with ErrUnknownContentType and w is
// left untouched.
//
// Use WriteOption functions to customize behavior:
//   - WithCompressionLevel(n): deflate level for XML entries
//   - WithStoredMedia(false): deflate binary parts instead of storing them
//   - WithModTime(t): stamp entries with a real timestamp
func Encode(w io.Writer, pkg *Package, opts ...WriteOption) error {
	cfg := defaultWriteConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if pkg == nil {
		return errors.New("opc: nil package")
	}

	for _, name := range pkg.order {
		if _, err := pkg.types.Resolve(name); err != nil {
			return err
		}
	}
	ctBytes, err := pkg.types.XML()
	if err != nil {
		return err
	}
	rootBytes, err := pkg.rels.XML()
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, cfg.level)
	})

	if err := writeEntry(zw, cfg, contentTypesEntry, zip.Deflate, ctBytes); err != nil {
		return err
	}
	if err := writeEntry(zw, cfg, "_rels/.rels", zip.Deflate, rootBytes); err != nil {
		return err
	}
	for _, name := range pkg.order {
		part := pkg.parts[name]
		method := uint16(zip.Deflate)
		if cfg.storeMedia && isBinaryPart(name) {
			method = zip.Store
		}
		if err := writeEntry(zw, cfg, string(name)[1:], method, part.Blob); err != nil {
			return err
		}
		if part.Rels.Len() > 0 {
			relBytes, err := part.Rels.XML()
			if err != nil {
				return err
			}
			if err := writeEntry(zw, cfg, name.relsEntry(), zip.Deflate, relBytes); err != nil {
				return err
			}
		}
	}
	return zipFinish(zw)
}

func writeEntry(zw *zip.Writer, cfg writeConfig, name string, method uint16, b []byte) error {
	hdr := &zip.FileHeader{Name: name, Method: method}
	if !cfg.modTime.IsZero() {
		hdr.Modified = cfg.modTime
	}
	out, err := zipCreateHeader(zw, hdr)
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}

// Bytes encodes the package to a byte slice. It is a pure projection of the
// current model state and may be called repeatedly.
func (p *Package) Bytes(opts ...WriteOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
