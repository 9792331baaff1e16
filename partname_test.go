package opc

import (
	"errors"
	"testing"
)

func TestNewPartName_Valid(t *testing.T) {
	for _, s := range []string{
		"/ppt/presentation.xml",
		"/ppt/slides/slide1.xml",
		"/docProps/core.xml",
		"/[Content_Types].xml.bak",
		"/a",
	} {
		if _, err := NewPartName(s); err != nil {
			t.Errorf("NewPartName(%q): %v", s, err)
		}
	}
}

func TestNewPartName_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"ppt/presentation.xml",
		"/ppt//slide.xml",
		"/ppt/slides/",
		"/ppt/./slide.xml",
		"/ppt/../slide.xml",
		"/..",
		`\ppt\slide.xml`,
		"/ppt\\slide.xml",
	} {
		_, err := NewPartName(s)
		if !errors.Is(err, ErrInvalidPartName) {
			t.Errorf("NewPartName(%q): expected ErrInvalidPartName, got %v", s, err)
		}
	}
}

func TestPartName_BaseURIAndLeaf(t *testing.T) {
	cases := []struct {
		name PartName
		base PartName
		leaf string
		ext  string
	}{
		{"/ppt/slides/slide1.xml", "/ppt/slides", "slide1.xml", "xml"},
		{"/ppt/presentation.xml", "/ppt", "presentation.xml", "xml"},
		{"/thumbnail.jpeg", "/", "thumbnail.jpeg", "jpeg"},
		{"/ppt/media/image1.PNG", "/ppt/media", "image1.PNG", "png"},
		{"/ppt/noext", "/ppt", "noext", ""},
	}
	for _, c := range cases {
		if got := c.name.BaseURI(); got != c.base {
			t.Errorf("%q.BaseURI() = %q, want %q", c.name, got, c.base)
		}
		if got := c.name.Leaf(); got != c.leaf {
			t.Errorf("%q.Leaf() = %q, want %q", c.name, got, c.leaf)
		}
		if got := c.name.Ext(); got != c.ext {
			t.Errorf("%q.Ext() = %q, want %q", c.name, got, c.ext)
		}
	}
}

func TestPartName_RelativeRef(t *testing.T) {
	cases := []struct {
		target PartName
		from   PartName
		want   string
	}{
		// A slide referencing a chart: up one, down into charts.
		{"/ppt/charts/chart1.xml", "/ppt/slides", "../charts/chart1.xml"},
		// Same directory: bare filename.
		{"/ppt/charts/chart1.xlsx", "/ppt/charts", "chart1.xlsx"},
		// Package root referencing the office document.
		{"/ppt/presentation.xml", "/", "ppt/presentation.xml"},
		{"/docProps/core.xml", "/", "docProps/core.xml"},
		// Two directories up.
		{"/x.xml", "/ppt/slides", "../../x.xml"},
		// Down two directories.
		{"/ppt/media/image1.png", "/ppt", "media/image1.png"},
	}
	for _, c := range cases {
		if got := c.target.RelativeRef(c.from); got != c.want {
			t.Errorf("%q.RelativeRef(%q) = %q, want %q", c.target, c.from, got, c.want)
		}
	}
}

func TestPartName_RelsEntry(t *testing.T) {
	cases := []struct {
		name PartName
		want string
	}{
		{"/ppt/slides/slide1.xml", "ppt/slides/_rels/slide1.xml.rels"},
		{"/ppt/presentation.xml", "ppt/_rels/presentation.xml.rels"},
		{"/thumbnail.jpeg", "_rels/thumbnail.jpeg.rels"},
	}
	for _, c := range cases {
		if got := c.name.relsEntry(); got != c.want {
			t.Errorf("%q.relsEntry() = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestRelsOwner(t *testing.T) {
	cases := []struct {
		entry string
		owner PartName
		ok    bool
	}{
		{"ppt/slides/_rels/slide1.xml.rels", "/ppt/slides/slide1.xml", true},
		{"ppt/_rels/presentation.xml.rels", "/ppt/presentation.xml", true},
		{"_rels/thumbnail.jpeg.rels", "/thumbnail.jpeg", true},
		{"ppt/slides/slide1.xml", "", false},
		{"_rels/.rels", "", false},
		{"norels.rels", "", false},
	}
	for _, c := range cases {
		owner, ok := relsOwner(c.entry)
		if ok != c.ok || owner != c.owner {
			t.Errorf("relsOwner(%q) = %q, %v, want %q, %v", c.entry, owner, ok, c.owner, c.ok)
		}
	}
}

func TestNextPartName(t *testing.T) {
	pkg := New()
	for _, name := range []PartName{"/ppt/charts/chart1.xml", "/ppt/charts/chart3.xml"} {
		if err := pkg.PutPart(&Part{Name: name, ContentType: CTChart, Blob: []byte("<c:chartSpace/>")}); err != nil {
			t.Fatalf("PutPart(%q): %v", name, err)
		}
	}

	// max+1, not first gap.
	got, err := pkg.NextPartName("/ppt/charts/chart{}.xml")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/ppt/charts/chart4.xml" {
		t.Fatalf("NextPartName = %q, want /ppt/charts/chart4.xml", got)
	}

	// No match starts at 1.
	got, err = pkg.NextPartName("/ppt/slides/slide{}.xml")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/ppt/slides/slide1.xml" {
		t.Fatalf("NextPartName = %q, want /ppt/slides/slide1.xml", got)
	}
}

func TestNextPartName_BadTemplates(t *testing.T) {
	pkg := New()
	for _, tpl := range []string{
		"/ppt/charts/chart.xml",      // no slot
		"/ppt/{}/chart{}.xml",        // two slots
		"ppt/charts/chart{}.xml",     // not slash-rooted
		"/ppt//charts/chart{}.xml",   // empty segment
		"/ppt/charts/chart{}.xml/",   // trailing slash
	} {
		if _, err := pkg.NextPartName(tpl); !errors.Is(err, ErrInvalidTemplate) {
			t.Errorf("NextPartName(%q): expected ErrInvalidTemplate, got %v", tpl, err)
		}
	}
}

func TestTemplateIndex_IgnoresNonNumeric(t *testing.T) {
	pkg := New()
	for _, name := range []PartName{
		"/ppt/charts/chart2.xml",
		"/ppt/charts/chartFinal.xml", // non-numeric slot, not a match
		"/ppt/charts/chart.xml",      // empty slot, not a match
	} {
		if err := pkg.PutPart(&Part{Name: name, ContentType: CTChart, Blob: []byte("x")}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := pkg.NextPartName("/ppt/charts/chart{}.xml")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/ppt/charts/chart3.xml" {
		t.Fatalf("NextPartName = %q, want /ppt/charts/chart3.xml", got)
	}
}
