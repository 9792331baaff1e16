// Package opc implements the Open Packaging Conventions (OPC) container that
// underlies Office Open XML presentation files (.pptx).
//
// An OPC package is a ZIP archive holding many interrelated parts: XML
// documents, images, charts, embedded workbooks. The package engine tracks
// every part, the content-type registry that tells a consumer how to interpret
// each part, and the relationship graph that lets parts reference one another
// by short renumberable identifiers instead of raw paths.
//
// # Package Layout
//
// An archive produced by this package consists of:
//   - [Content_Types].xml mapping file extensions to default content types and
//     individual part names to overrides
//   - _rels/.rels, the package-level relationships (office document,
//     core properties)
//   - one entry per part at its part name with the leading slash stripped,
//     each optionally followed by a sibling _rels/<name>.rels entry
//
// # Basic Usage
//
// To author a new package:
//
//	pkg := opc.New()
//	name, ct, _ := pkg.OrAddImagePart(opc.Media{
//		Data:        pngBytes,
//		Ext:         "png",
//		ContentType: opc.CTPNG,
//	})
//	pres, _ := pkg.Part("/ppt/presentation.xml")
//	rID := pres.Rels.Add(opc.RelTypeImage, name.RelativeRef(pres.Name.BaseURI()), false)
//	_ = rID // goes into the referencing XML as r:embed
//	b, err := pkg.Bytes()
//
// To load, mutate, and re-save an existing package:
//
//	pkg, err := opc.Decode(bytes.NewReader(b))
//	// ... add parts, wire relationships ...
//	err = opc.Encode(f, pkg)
//
// Higher layers own the XML payloads themselves. The engine never inspects a
// part's bytes except when re-parsing its own content-types and relationships
// parts, so slides, shapes, charts and themes are entirely the caller's
// concern.
//
// # Security Considerations
//
// Decoding enforces configurable [Limits] on entry sizes, total package size
// and part count to protect against oversized allocations and decompression
// bombs in hostile archives.
//
// # Permissive Loading
//
// Archives produced by third-party tools are loaded permissively: a corrupt
// relationships entry degrades to an empty collection rather than failing the
// whole load, and duplicate relationship identifiers are renumbered. Use
// [WithStrictRels] to surface relationship parse failures instead. A missing
// or unparsable [Content_Types].xml is always fatal, since nothing else in the
// package can be interpreted without it.
package opc
