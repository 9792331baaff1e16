package opc

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"strings"
)

// Package owns all parts, the content-type registry and the package-level
// relationship collection. Parts keep their insertion order so that repeated
// serialization of an unchanged package is byte-identical.
//
// A Package is not safe for concurrent use. All mutation happens through a
// single owner during an authoring session; Encode is a pure projection and
// may be called any number of times.
type Package struct {
	parts    map[PartName]*Part
	order    []PartName
	types    *ContentTypeRegistry
	rels     *RelationshipCollection
	byHash   map[[sha1.Size]byte]PartName
	partHash map[PartName][sha1.Size]byte
	limits   Limits
}

const (
	presentationPartName = PartName("/ppt/presentation.xml")
	corePropsPartName    = PartName("/docProps/core.xml")
)

const presentationSkeleton = xmlDeclaration +
	`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
	` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:sldMasterIdLst/><p:sldIdLst/>` +
	`<p:sldSz cx="9144000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/>` +
	`</p:presentation>`

const corePropsSkeleton = xmlDeclaration +
	`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
	` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">` +
	`<dc:title/><dc:creator/></cp:coreProperties>`

func standardDefaults() map[string]string {
	return map[string]string{
		"xml":  CTXML,
		"rels": CTRelationships,
		"png":  CTPNG,
		"jpeg": CTJPEG,
		"jpg":  CTJPEG,
		"gif":  CTGIF,
		"bmp":  CTBMP,
		"tiff": CTTIFF,
		"mp4":  CTMP4,
		"wmv":  CTWMV,
		"mp3":  CTMP3,
		"wav":  CTWAV,
	}
}

// New returns a minimal valid package: the standard extension defaults, a
// zero-slide presentation part, a core-properties part, and the package-level
// relationships pointing at both. The result can be encoded immediately and
// opens as an empty presentation.
func New() *Package {
	p := empty()
	p.limits = defaultLimits()
	for ext, ct := range standardDefaults() {
		p.types.SetDefault(ext, ct)
	}
	for _, seed := range []Part{
		{Name: presentationPartName, ContentType: CTPresentationMain, Blob: []byte(presentationSkeleton)},
		{Name: corePropsPartName, ContentType: CTCoreProperties, Blob: []byte(corePropsSkeleton)},
	} {
		part := seed
		part.Rels = NewRelationships()
		p.insert(&part)
		p.types.SetOverride(part.Name, part.ContentType)
	}
	p.rels.Add(RelTypeOfficeDocument, presentationPartName.RelativeRef("/"), false)
	p.rels.Add(RelTypeCoreProperties, corePropsPartName.RelativeRef("/"), false)
	return p
}

// empty returns a Package with initialized bookkeeping and nothing else.
// Decode fills one in from an archive.
func empty() *Package {
	return &Package{
		parts:    make(map[PartName]*Part),
		types:    newContentTypeRegistry(),
		rels:     NewRelationships(),
		byHash:   make(map[[sha1.Size]byte]PartName),
		partHash: make(map[PartName][sha1.Size]byte),
	}
}

// ContentTypes returns the package's content-type registry.
func (p *Package) ContentTypes() *ContentTypeRegistry { return p.types }

// Rels returns the package-level relationship collection, serialized as
// _rels/.rels.
func (p *Package) Rels() *RelationshipCollection { return p.rels }

// Len returns the number of parts.
func (p *Package) Len() int { return len(p.order) }

// PartNames returns the part names in insertion order.
func (p *Package) PartNames() []PartName {
	out := make([]PartName, len(p.order))
	copy(out, p.order)
	return out
}

// SetLimits replaces the limits used by OrAddImagePart and OrAddMediaPart.
// Zero fields fall back to the defaults.
func (p *Package) SetLimits(l Limits) { p.limits = l.withDefaults() }

// Part returns the part with the given name. The returned pointer is live:
// callers replace Blob in place for read-modify-write edits and append to
// Rels directly.
func (p *Package) Part(name PartName) (*Part, error) {
	part, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return part, nil
}

// PutPart inserts or replaces a part by name. If the part's content type does
// not match the registry's default for its extension, an override is
// registered for it. For binary parts the content-hash index is updated in
// the same step, so a later OrAddImagePart with identical bytes finds it.
func (p *Package) PutPart(part *Part) error {
	if part == nil {
		return errors.New("opc: nil part")
	}
	if err := validatePartName(string(part.Name)); err != nil {
		return err
	}
	if part.ContentType == "" {
		return fmt.Errorf("%w: %s has no content type", ErrUnknownContentType, part.Name)
	}
	p.insert(part)
	if def, ok := p.types.Default(part.Name.Ext()); ok && def == part.ContentType {
		// A replacement may revert to the extension default; a stale override
		// would otherwise survive the save/load cycle with the old type.
		p.types.RemoveOverride(part.Name)
	} else {
		p.types.SetOverride(part.Name, part.ContentType)
	}
	p.trackHash(part)
	return nil
}

func (p *Package) insert(part *Part) {
	if part.Rels == nil {
		part.Rels = NewRelationships()
	}
	if _, ok := p.parts[part.Name]; !ok {
		p.order = append(p.order, part.Name)
	}
	p.parts[part.Name] = part
}

// isBinaryPart reports whether a part holds opaque binary content for dedup
// purposes. XML parts are excluded: they are routinely rewritten in place and
// are never shared by content.
func isBinaryPart(name PartName) bool {
	switch name.Ext() {
	case "xml", "rels":
		return false
	}
	return true
}

func (p *Package) trackHash(part *Part) {
	if !isBinaryPart(part.Name) {
		return
	}
	if old, ok := p.partHash[part.Name]; ok && p.byHash[old] == part.Name {
		delete(p.byHash, old)
		// Another part may still carry the old bytes; keep them findable.
		for name, sum := range p.partHash {
			if sum == old && name != part.Name {
				p.byHash[old] = name
				break
			}
		}
	}
	sum := sha1.Sum(part.Blob)
	p.partHash[part.Name] = sum
	if _, ok := p.byHash[sum]; !ok {
		p.byHash[sum] = part.Name
	}
}

// NextPartName instantiates a template containing exactly one "{}" slot with
// the smallest number strictly greater than every number currently in use for
// that template, so freshly numbered parts never collide with parts already
// present after a round-trip load. With no match the slot becomes 1.
func (p *Package) NextPartName(template string) (PartName, error) {
	i := strings.Index(template, "{}")
	if i < 0 || strings.Count(template, "{}") != 1 {
		return "", fmt.Errorf("%w: %q needs exactly one {} slot", ErrInvalidTemplate, template)
	}
	prefix, suffix := template[:i], template[i+2:]
	if err := validatePartName(prefix + "1" + suffix); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplate, template)
	}
	max := 0
	for _, name := range p.order {
		if n, ok := templateIndex(string(name), prefix, suffix); ok && n > max {
			max = n
		}
	}
	return PartName(fmt.Sprintf("%s%d%s", prefix, max+1, suffix)), nil
}

// templateIndex parses the number occupying the {} slot of a template match.
func templateIndex(name, prefix, suffix string) (int, bool) {
	if len(name) <= len(prefix)+len(suffix) {
		return 0, false
	}
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	mid := name[len(prefix) : len(name)-len(suffix)]
	n := 0
	for _, r := range mid {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return 0, false
	}
	return n, true
}

// OrAddImagePart stores an image payload under /ppt/media/image{N}.<ext>,
// unless a part with byte-identical content already exists, in which case the
// existing part's name and content type are returned and nothing is added.
// Every caller then wires its own relationship at the returned name, so one
// image used on five slides is stored once with five relationships pointing
// at it.
func (p *Package) OrAddImagePart(m Media) (PartName, string, error) {
	return p.orAddMedia(m, "image")
}

// OrAddMediaPart is OrAddImagePart for video and audio payloads, numbered
// under /ppt/media/media{N}.<ext>.
func (p *Package) OrAddMediaPart(m Media) (PartName, string, error) {
	return p.orAddMedia(m, "media")
}

func (p *Package) orAddMedia(m Media, stem string) (PartName, string, error) {
	if m.Ext == "" || m.ContentType == "" {
		return "", "", fmt.Errorf("%w: media payload needs an extension and a content type", ErrUnknownContentType)
	}
	if uint64(len(m.Data)) > p.limits.MaxMediaSize {
		return "", "", fmt.Errorf("%w: media payload is %d bytes", ErrLimitExceeded, len(m.Data))
	}
	sum := sha1.Sum(m.Data)
	if name, ok := p.byHash[sum]; ok {
		return name, p.parts[name].ContentType, nil
	}
	ext := strings.ToLower(strings.TrimPrefix(m.Ext, "."))
	name, err := p.NextPartName("/ppt/media/" + stem + "{}." + ext)
	if err != nil {
		return "", "", err
	}
	part := &Part{Name: name, ContentType: m.ContentType, Blob: m.Data, Rels: NewRelationships()}
	if err := p.PutPart(part); err != nil {
		return "", "", err
	}
	return name, m.ContentType, nil
}

// rebuildHashIndex recomputes the dedup index over all binary parts. Decode
// calls this once after inflating an archive so OrAdd calls dedup against
// pre-existing media.
func (p *Package) rebuildHashIndex() {
	p.byHash = make(map[[sha1.Size]byte]PartName)
	p.partHash = make(map[PartName][sha1.Size]byte)
	for _, name := range p.order {
		p.trackHash(p.parts[name])
	}
}
