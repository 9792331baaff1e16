package opc

import (
	"fmt"
	"strings"
)

// PartName is the absolute, slash-rooted, case-preserving path of a part
// inside a package, e.g. "/ppt/slides/slide1.xml".
type PartName string

// NewPartName validates s and returns it as a PartName.
//
// A valid part name starts with "/", uses forward slashes, has no empty or
// dot segments, and does not end with a slash.
func NewPartName(s string) (PartName, error) {
	if err := validatePartName(s); err != nil {
		return "", err
	}
	return PartName(s), nil
}

func validatePartName(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPartName)
	}
	if !strings.HasPrefix(s, "/") {
		return fmt.Errorf("%w: %q must start with a slash", ErrInvalidPartName, s)
	}
	if strings.Contains(s, "\\") {
		return fmt.Errorf("%w: %q must use forward slashes", ErrInvalidPartName, s)
	}
	if strings.HasSuffix(s, "/") {
		return fmt.Errorf("%w: %q must not end with a slash", ErrInvalidPartName, s)
	}
	for _, seg := range strings.Split(s[1:], "/") {
		switch seg {
		case "":
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidPartName, s)
		case ".", "..":
			return fmt.Errorf("%w: %q has a dot segment", ErrInvalidPartName, s)
		}
	}
	return nil
}

// BaseURI returns the part's containing directory, the origin for
// relative-reference computation. The base of a root-level part is "/".
func (p PartName) BaseURI() PartName {
	i := strings.LastIndexByte(string(p), '/')
	if i <= 0 {
		return "/"
	}
	return p[:i]
}

// Leaf returns the last segment of the part name.
func (p PartName) Leaf() string {
	return string(p)[strings.LastIndexByte(string(p), '/')+1:]
}

// Ext returns the lowercased filename extension without the leading dot, or
// "" when the leaf has none. Extensions key the content-type defaults.
func (p PartName) Ext() string {
	leaf := p.Leaf()
	i := strings.LastIndexByte(leaf, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(leaf[i+1:])
}

// RelativeRef returns the minimal relative reference from fromBase (a base
// URI as returned by [PartName.BaseURI]) to p, walking up with "../" segments
// and down with plain segments. This is the form written as a relationship's
// Target attribute: two parts in the same directory reference each other by
// bare filename.
func (p PartName) RelativeRef(fromBase PartName) string {
	from := splitSegments(string(fromBase))
	to := splitSegments(string(p.BaseURI()))

	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}

	var b strings.Builder
	for i := common; i < len(from); i++ {
		b.WriteString("../")
	}
	for _, seg := range to[common:] {
		b.WriteString(seg)
		b.WriteByte('/')
	}
	b.WriteString(p.Leaf())
	return b.String()
}

func splitSegments(s string) []string {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}

// relsEntry is the zip entry path of the part's sibling relationships file,
// e.g. "ppt/slides/_rels/slide1.xml.rels".
func (p PartName) relsEntry() string {
	base := strings.TrimPrefix(string(p.BaseURI()), "/")
	if base != "" {
		base += "/"
	}
	return base + "_rels/" + p.Leaf() + ".rels"
}

// relsOwner maps a relationships zip entry back to the part name it belongs
// to. The package-level "_rels/.rels" entry is handled separately by Decode.
func relsOwner(entry string) (PartName, bool) {
	if !strings.HasSuffix(entry, ".rels") {
		return "", false
	}
	i := strings.LastIndexByte(entry, '/')
	if i < 0 {
		return "", false
	}
	dir, leaf := entry[:i+1], entry[i+1:]
	if !strings.HasSuffix(dir, "_rels/") {
		return "", false
	}
	owner := "/" + strings.TrimSuffix(dir, "_rels/") + strings.TrimSuffix(leaf, ".rels")
	if validatePartName(owner) != nil {
		return "", false
	}
	return PartName(owner), true
}
