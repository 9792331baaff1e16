package opc

// Common OPC and PresentationML content types. The set of types a package can
// carry is open; these cover the parts this engine creates itself plus the
// media formats seeded as defaults by New.
const (
	CTXML            = "application/xml"
	CTRelationships  = "application/vnd.openxmlformats-package.relationships+xml"
	CTCoreProperties = "application/vnd.openxmlformats-package.core-properties+xml"

	CTPresentationMain = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	CTSlide            = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	CTChart            = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	CTWorkbook         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	CTPNG  = "image/png"
	CTJPEG = "image/jpeg"
	CTGIF  = "image/gif"
	CTBMP  = "image/bmp"
	CTTIFF = "image/tiff"
	CTMP4  = "video/mp4"
	CTWMV  = "video/x-ms-wmv"
	CTMP3  = "audio/mpeg"
	CTWAV  = "audio/x-wav"
)

// Part is one named entry in the package: a part name, the content type
// describing how to interpret its bytes, the payload itself, and the part's
// own relationship collection (serialized as a sibling .rels entry when
// non-empty).
//
// Blob is opaque to the engine. The document-model layer parses it, splices
// in new children, and writes the whole byte string back in place.
type Part struct {
	Name        PartName
	ContentType string
	Blob        []byte
	Rels        *RelationshipCollection
}

// Media is a binary payload handed to OrAddImagePart or OrAddMediaPart. The
// engine never sniffs formats, so the caller supplies the filename extension
// (without the dot) and the MIME type along with the bytes.
type Media struct {
	Data        []byte
	Ext         string
	ContentType string
}
