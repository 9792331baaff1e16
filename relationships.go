package opc

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

const relationshipsNS = "http://schemas.openxmlformats.org/package/2006/relationships"

// Well-known relationship types used by the skeleton package and common
// authoring flows. Callers are free to pass any type URI to Add.
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeVideo          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/video"
	RelTypeMedia          = "http://schemas.microsoft.com/office/2007/relationships/media"
	RelTypeSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelTypeChart          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	RelTypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
)

// Relationship is one typed, indirectly-addressed reference from the owning
// source (a part or the package root) to another part or an external
// resource.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// RelationshipCollection is an ordered set of relationships owned by a single
// source. Identifiers are "rId" plus a positive integer; the collection hands
// them out from a counter seeded with the largest suffix it has ever seen, so
// a freed or skipped id is never reissued.
type RelationshipCollection struct {
	rels []Relationship
	next int
}

// NewRelationships returns an empty collection whose first Add yields "rId1".
func NewRelationships() *RelationshipCollection {
	return &RelationshipCollection{}
}

// Add appends a relationship and returns its freshly allocated id. The caller
// embeds the id as an r:id / r:embed attribute in the referencing XML. For an
// internal relationship target must be the relative reference from the owning
// source's base URI (see [PartName.RelativeRef]); an external relationship
// carries an arbitrary URI and is emitted with TargetMode="External".
func (c *RelationshipCollection) Add(relType, target string, external bool) string {
	c.next++
	id := "rId" + strconv.Itoa(c.next)
	c.rels = append(c.rels, Relationship{ID: id, Type: relType, Target: target, External: external})
	return id
}

// ByID returns the relationship with the given id.
func (c *RelationshipCollection) ByID(id string) (Relationship, bool) {
	for _, r := range c.rels {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}

// All returns a copy of the relationships in insertion order.
func (c *RelationshipCollection) All() []Relationship {
	out := make([]Relationship, len(c.rels))
	copy(out, c.rels)
	return out
}

// Len returns the number of relationships in the collection.
func (c *RelationshipCollection) Len() int {
	return len(c.rels)
}

type relationshipsXML struct {
	XMLName xml.Name          `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Rels    []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// XML serializes the collection as a .rels document.
func (c *RelationshipCollection) XML() ([]byte, error) {
	doc := relationshipsXML{}
	for _, r := range c.rels {
		rx := relationshipXML{ID: r.ID, Type: r.Type, Target: r.Target}
		if r.External {
			rx.TargetMode = "External"
		}
		doc.Rels = append(doc.Rels, rx)
	}
	return marshalXMLPart(doc)
}

// parseRelID extracts the numeric suffix of an "rIdN" identifier.
func parseRelID(id string) (int, bool) {
	s, ok := strings.CutPrefix(id, "rId")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseRelationships parses an existing .rels payload.
//
// The id counter is seeded with the maximum numeric suffix found anywhere in
// the file, not the last entry: a package edited by other tools may carry ids
// out of numeric sequence. A duplicate id (possible in hand-edited files) is
// tolerated by renumbering the later occurrence rather than rejecting the
// file. Ids that do not match the rIdN form are preserved verbatim and do not
// advance the counter.
func ParseRelationships(b []byte) (*RelationshipCollection, error) {
	var doc relationshipsXML
	if err := xml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: relationships: %v", ErrInvalidXML, err)
	}
	c := NewRelationships()
	for _, rx := range doc.Rels {
		if n, ok := parseRelID(rx.ID); ok && n > c.next {
			c.next = n
		}
	}
	seen := make(map[string]struct{}, len(doc.Rels))
	for _, rx := range doc.Rels {
		id := rx.ID
		if _, dup := seen[id]; dup || id == "" {
			c.next++
			id = "rId" + strconv.Itoa(c.next)
		}
		seen[id] = struct{}{}
		c.rels = append(c.rels, Relationship{
			ID:       id,
			Type:     rx.Type,
			Target:   rx.Target,
			External: rx.TargetMode == "External",
		})
	}
	return c, nil
}
