package opc

import (
	"bytes"
	"errors"
	"testing"
)

func TestContentTypes_ResolvePrecedence(t *testing.T) {
	r := newContentTypeRegistry()
	r.SetDefault("xml", CTXML)

	// Default by extension.
	ct, err := r.Resolve("/ppt/slides/slide1.xml")
	if err != nil {
		t.Fatal(err)
	}
	if ct != CTXML {
		t.Fatalf("Resolve = %q, want %q", ct, CTXML)
	}

	// Override beats the extension default.
	r.SetOverride("/ppt/presentation.xml", CTPresentationMain)
	ct, err = r.Resolve("/ppt/presentation.xml")
	if err != nil {
		t.Fatal(err)
	}
	if ct != CTPresentationMain {
		t.Fatalf("Resolve = %q, want %q", ct, CTPresentationMain)
	}

	// Neither route resolves.
	_, err = r.Resolve("/ppt/media/movie1.mkv")
	if !errors.Is(err, ErrUnknownContentType) {
		t.Fatalf("expected ErrUnknownContentType, got %v", err)
	}
}

func TestContentTypes_ExtensionNormalization(t *testing.T) {
	r := newContentTypeRegistry()
	r.SetDefault(".PNG", CTPNG)
	if ct, ok := r.Default("png"); !ok || ct != CTPNG {
		t.Fatalf("Default(png) = %q, %v", ct, ok)
	}
	ct, err := r.Resolve("/ppt/media/image1.PNG")
	if err != nil {
		t.Fatal(err)
	}
	if ct != CTPNG {
		t.Fatalf("Resolve = %q, want %q", ct, CTPNG)
	}
}

func TestContentTypes_XMLRoundTrip(t *testing.T) {
	r := newContentTypeRegistry()
	r.SetDefault("xml", CTXML)
	r.SetDefault("rels", CTRelationships)
	r.SetDefault("png", CTPNG)
	r.SetOverride("/ppt/presentation.xml", CTPresentationMain)
	r.SetOverride("/ppt/slides/slide1.xml", CTSlide)

	b, err := r.XML()
	if err != nil {
		t.Fatal(err)
	}
	got, err := parseContentTypes(b)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []PartName{
		"/ppt/presentation.xml",
		"/ppt/slides/slide1.xml",
		"/ppt/slides/slide2.xml",
		"/ppt/media/image1.png",
		"/_rels/.rels",
	} {
		want, err1 := r.Resolve(name)
		have, err2 := got.Resolve(name)
		if err1 != nil || err2 != nil {
			t.Fatalf("Resolve(%q): %v / %v", name, err1, err2)
		}
		if want != have {
			t.Errorf("Resolve(%q) = %q after round trip, want %q", name, have, want)
		}
	}
}

func TestContentTypes_StableOutput(t *testing.T) {
	build := func() *ContentTypeRegistry {
		r := newContentTypeRegistry()
		// Deliberately unsorted registration order.
		r.SetDefault("png", CTPNG)
		r.SetDefault("xml", CTXML)
		r.SetDefault("gif", CTGIF)
		r.SetOverride("/ppt/presentation.xml", CTPresentationMain)
		r.SetOverride("/docProps/core.xml", CTCoreProperties)
		return r
	}
	a, err := build().XML()
	if err != nil {
		t.Fatal(err)
	}
	b, err := build().XML()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("output not byte-stable:\n%s\n%s", a, b)
	}

	// Defaults sorted by extension, overrides in insertion order.
	gif := bytes.Index(a, []byte(`Extension="gif"`))
	png := bytes.Index(a, []byte(`Extension="png"`))
	xml := bytes.Index(a, []byte(`Extension="xml"`))
	if gif < 0 || png < 0 || xml < 0 || !(gif < png && png < xml) {
		t.Fatalf("defaults not sorted by extension:\n%s", a)
	}
	pres := bytes.Index(a, []byte(`PartName="/ppt/presentation.xml"`))
	core := bytes.Index(a, []byte(`PartName="/docProps/core.xml"`))
	if pres < 0 || core < 0 || pres > core {
		t.Fatalf("overrides not in insertion order:\n%s", a)
	}
}

func TestParseContentTypes_Invalid(t *testing.T) {
	for _, b := range [][]byte{
		nil,
		[]byte("not xml at all"),
		[]byte(`<Types xmlns="` + contentTypesNS + `"><Override PartName="ppt/bad.xml" ContentType="application/xml"></Override></Types>`),
	} {
		if _, err := parseContentTypes(b); !errors.Is(err, ErrInvalidXML) {
			t.Errorf("parseContentTypes(%q): expected ErrInvalidXML, got %v", b, err)
		}
	}
}
