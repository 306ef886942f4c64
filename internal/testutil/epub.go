// file: internal/testutil/epub.go
// version: 1.0.0
// guid: 0b1c2d3e-4f5a-6b7c-8d9e-0f1a2b3c4d5f

// Package testutil provides shared fixtures for integration-style tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"testing"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const opfTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<package version="2.0" xmlns="http://www.idpf.org/2007/opf" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
    %s
  </metadata>
  <manifest>
    <item id="ch1" href="chapter01.xhtml" media-type="application/xhtml+xml"/>
    %s
  </manifest>
  <spine>
    <itemref idref="ch1"/>
  </spine>
</package>`

// EPUBSpec describes a synthetic EPUB fixture.
type EPUBSpec struct {
	// MetadataXML is the inner dc: metadata block of the OPF.
	MetadataXML string
	// ChapterHTML overrides the single chapter body when non-empty.
	ChapterHTML string
	// Cover embeds a PNG cover when non-nil.
	Cover []byte
}

// BuildEPUB assembles an in-memory EPUB archive from spec.
func BuildEPUB(t *testing.T, spec EPUBSpec) []byte {
	t.Helper()

	metadataXML := spec.MetadataXML
	manifestExtra := ""
	if spec.Cover != nil {
		metadataXML += "\n    <meta name=\"cover\" content=\"cover-img\"/>"
		manifestExtra = `<item id="cover-img" href="images/cover.png" media-type="image/png"/>`
	}
	chapter := spec.ChapterHTML
	if chapter == "" {
		chapter = `<html><body><p>Chapter one.</p></body></html>`
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	write := func(name string, data []byte) {
		t.Helper()
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("BuildEPUB: create %s: %v", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("BuildEPUB: write %s: %v", name, err)
		}
	}
	write("mimetype", []byte("application/epub+zip"))
	write("META-INF/container.xml", []byte(containerXML))
	write("OEBPS/content.opf", []byte(fmt.Sprintf(opfTemplate, metadataXML, manifestExtra)))
	write("OEBPS/chapter01.xhtml", []byte(chapter))
	if spec.Cover != nil {
		write("OEBPS/images/cover.png", spec.Cover)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("BuildEPUB: close: %v", err)
	}
	return buf.Bytes()
}

// PNG encodes a blank PNG of the given dimensions.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("PNG: %v", err)
	}
	return buf.Bytes()
}
