package opc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

const contentTypesNS = "http://schemas.openxmlformats.org/package/2006/content-types"

// contentTypesEntry is the reserved zip entry holding the registry. It is not
// a part and never appears in Package.PartNames.
const contentTypesEntry = "[Content_Types].xml"

// ContentTypeRegistry maps file extensions to default content types and
// individual part names to overrides. An override always wins over the
// extension default.
type ContentTypeRegistry struct {
	defaults  map[string]string
	overrides map[PartName]string
	order     []PartName // override insertion order, kept for stable output
}

func newContentTypeRegistry() *ContentTypeRegistry {
	return &ContentTypeRegistry{
		defaults:  make(map[string]string),
		overrides: make(map[PartName]string),
	}
}

// Default returns the registered default content type for ext (lowercased,
// without the leading dot).
func (r *ContentTypeRegistry) Default(ext string) (string, bool) {
	ct, ok := r.defaults[strings.ToLower(ext)]
	return ct, ok
}

// SetDefault registers contentType as the default for every part whose name
// ends in ext, unless an override shadows it.
func (r *ContentTypeRegistry) SetDefault(ext, contentType string) {
	r.defaults[strings.ToLower(strings.TrimPrefix(ext, "."))] = contentType
}

// Override returns the content type registered for exactly name.
func (r *ContentTypeRegistry) Override(name PartName) (string, bool) {
	ct, ok := r.overrides[name]
	return ct, ok
}

// SetOverride registers contentType for exactly name, shadowing any default
// for its extension.
func (r *ContentTypeRegistry) SetOverride(name PartName, contentType string) {
	if _, ok := r.overrides[name]; !ok {
		r.order = append(r.order, name)
	}
	r.overrides[name] = contentType
}

// RemoveOverride drops the override registered for exactly name, if any,
// letting the extension default apply again.
func (r *ContentTypeRegistry) RemoveOverride(name PartName) {
	if _, ok := r.overrides[name]; !ok {
		return
	}
	delete(r.overrides, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Resolve returns the effective content type for name: its override if one is
// registered, else the default for its extension, else ErrUnknownContentType.
func (r *ContentTypeRegistry) Resolve(name PartName) (string, error) {
	if ct, ok := r.overrides[name]; ok {
		return ct, nil
	}
	if ct, ok := r.defaults[name.Ext()]; ok {
		return ct, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownContentType, name)
}

type ctTypesXML struct {
	XMLName   xml.Name        `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefaultXML  `xml:"Default"`
	Overrides []ctOverrideXML `xml:"Override"`
}

type ctDefaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// XML serializes the registry as a [Content_Types].xml document. Defaults are
// sorted by extension and overrides keep their insertion order, so repeated
// saves of an unmodified registry are byte-stable.
func (r *ContentTypeRegistry) XML() ([]byte, error) {
	doc := ctTypesXML{}
	exts := make([]string, 0, len(r.defaults))
	for ext := range r.defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		doc.Defaults = append(doc.Defaults, ctDefaultXML{Extension: ext, ContentType: r.defaults[ext]})
	}
	for _, name := range r.order {
		doc.Overrides = append(doc.Overrides, ctOverrideXML{PartName: string(name), ContentType: r.overrides[name]})
	}
	return marshalXMLPart(doc)
}

// parseContentTypes parses a [Content_Types].xml payload. A failure here is
// fatal to the whole load, since nothing else can be interpreted without the
// registry.
func parseContentTypes(b []byte) (*ContentTypeRegistry, error) {
	var doc ctTypesXML
	if err := xml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidXML, contentTypesEntry, err)
	}
	r := newContentTypeRegistry()
	for _, d := range doc.Defaults {
		r.SetDefault(d.Extension, d.ContentType)
	}
	for _, o := range doc.Overrides {
		name, err := NewPartName(o.PartName)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: override %q", ErrInvalidXML, contentTypesEntry, o.PartName)
		}
		r.SetOverride(name, o.ContentType)
	}
	return r, nil
}

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func marshalXMLPart(doc any) ([]byte, error) {
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(xmlDeclaration) + len(body))
	buf.WriteString(xmlDeclaration)
	buf.Write(body)
	return buf.Bytes(), nil
}
